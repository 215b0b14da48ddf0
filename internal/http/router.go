package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/carebridge/hospital-api/internal/auth"
	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/http/handlers"
	"github.com/carebridge/hospital-api/internal/http/middlewares"
	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/observability"
	"github.com/carebridge/hospital-api/internal/redisclient"
	"github.com/carebridge/hospital-api/internal/store"
)

const maxJSONBodyBytes = 1 << 20

func NewRouter(log *slog.Logger, database *mongo.Database, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(otelgin.Middleware("hospital-api"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.RequestLogger())

	// health
	ping := func() error {
		if database == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return database.Client().Ping(ctx, nil)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// uploaded avatars
	r.Static("/uploads", cfg.UploadDir)

	// wire up repositories
	usersRepo := store.NewUsersRepo(database, prom)
	patientsRepo := store.NewRepo[models.Patient, *models.Patient](database, "patients", nil, prom)
	doctorsRepo := store.NewRepo[models.Doctor, *models.Doctor](database, "doctors", nil, prom)
	departmentsRepo := store.NewRepo[models.Department, *models.Department](database, "departments", nil, prom)
	inventoryRepo := store.NewRepo[models.InventoryItem, *models.InventoryItem](database, "inventory", nil, prom)
	appointmentsRepo := store.NewRepo[models.Appointment, *models.Appointment](database, "appointments",
		store.Join(
			store.Lookup("patients", "patientId", "patient"),
			store.Lookup("doctors", "doctorId", "doctor"),
		), prom)
	recordsRepo := store.NewRepo[models.MedicalRecord, *models.MedicalRecord](database, "medical_records",
		store.Join(
			store.Lookup("patients", "patientId", "patient"),
			store.Lookup("doctors", "doctorId", "doctor"),
		), prom)
	billsRepo := store.NewRepo[models.Bill, *models.Bill](database, "bills",
		store.Lookup("patients", "patientId", "patient"), prom)
	notificationsRepo := store.NewNotificationsRepo(database, prom)
	reportsRepo := store.NewReportsRepo(database, prom)

	// token service + gates
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// auth endpoints are rate limited by IP; state goes to redis when
	// configured so limits hold across instances
	var counters middlewares.CounterStore
	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		counters = middlewares.NewRedisCounterStore(rc.Raw())
	}
	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, counters)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	uploadsHandler := handlers.NewUploadsHandler(usersRepo, cfg.UploadDir, prom)
	notificationsHandler := handlers.NewNotificationsHandler(notificationsRepo)
	reportsHandler := handlers.NewReportsHandler(reportsRepo)

	public := r.Group("/api/auth",
		middlewares.RequireJSON(),
		middlewares.MaxBodyBytes(maxJSONBodyBytes),
		authLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
	)
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)

	api := r.Group("/api", authMW.RequireAuth())

	me := api.Group("/auth", middlewares.RequireJSON(), middlewares.MaxBodyBytes(maxJSONBodyBytes))
	me.GET("/me", authHandler.Me)
	me.PUT("/profile", authHandler.UpdateProfile)

	// multipart, so no JSON gate here
	api.POST("/upload/avatar", middlewares.MaxBodyBytes(handlers.MaxAvatarBytes+4096), uploadsHandler.Avatar)

	// resource CRUD, each behind its configured role allow-list
	crud := api.Group("", middlewares.RequireJSON(), middlewares.MaxBodyBytes(maxJSONBodyBytes))

	handlers.NewResource[models.Patient, models.PatientRequest]("patient", patientsRepo, models.PatientRequest.Model).
		Mount(crud.Group("/patients", authMW.RequireRole(models.RoleAdmin, models.RoleDoctor, models.RoleNurse)))

	handlers.NewResource[models.Doctor, models.DoctorRequest]("doctor", doctorsRepo, models.DoctorRequest.Model).
		Mount(crud.Group("/doctors", authMW.RequireRole(models.RoleAdmin)))

	handlers.NewResource[models.Appointment, models.AppointmentRequest]("appointment", appointmentsRepo, models.AppointmentRequest.Model).
		Mount(crud.Group("/appointments", authMW.RequireRole()))

	handlers.NewResource[models.MedicalRecord, models.MedicalRecordRequest]("medical record", recordsRepo, models.MedicalRecordRequest.Model).
		Mount(crud.Group("/medical-records", authMW.RequireRole(models.RoleAdmin, models.RoleDoctor, models.RoleNurse)))

	handlers.NewResource[models.Bill, models.BillRequest]("bill", billsRepo, models.BillRequest.Model).
		Mount(crud.Group("/billing", authMW.RequireRole(models.RoleAdmin, models.RoleNurse)))

	handlers.NewResource[models.Department, models.DepartmentRequest]("department", departmentsRepo, models.DepartmentRequest.Model).
		Mount(crud.Group("/departments", authMW.RequireRole(models.RoleAdmin)))

	handlers.NewResource[models.InventoryItem, models.InventoryItemRequest]("inventory item", inventoryRepo, models.InventoryItemRequest.Model).
		Mount(crud.Group("/inventory", authMW.RequireRole(models.RoleAdmin, models.RoleNurse)))

	// read-side aggregations
	reports := api.Group("/reports", authMW.RequireRole(models.RoleAdmin))
	reports.GET("/daily", reportsHandler.Report(store.PeriodDaily))
	reports.GET("/weekly", reportsHandler.Report(store.PeriodWeekly))
	reports.GET("/monthly", reportsHandler.Report(store.PeriodMonthly))

	api.GET("/dashboard/stats", authMW.RequireRole(models.RoleAdmin), reportsHandler.DashboardStats)

	// notifications, scoped to the caller
	notifications := crud.Group("/notifications")
	notifications.GET("", notificationsHandler.List)
	notifications.POST("", notificationsHandler.Create)
	notifications.PUT("/:id/read", notificationsHandler.MarkRead)

	return r
}
