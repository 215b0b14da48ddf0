package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/observability"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type Report struct {
	Period                string    `json:"period"`
	From                  time.Time `json:"from"`
	To                    time.Time `json:"to"`
	PatientsCreated       int64     `json:"patientsCreated"`
	AppointmentsCreated   int64     `json:"appointmentsCreated"`
	AppointmentsCompleted int64     `json:"appointmentsCompleted"`
	DoctorsCreated        int64     `json:"doctorsCreated"`
	PaidRevenue           float64   `json:"paidRevenue"`
}

type DashboardStats struct {
	Patients           int64   `json:"patients"`
	Doctors            int64   `json:"doctors"`
	Appointments       int64   `json:"appointments"`
	AppointmentsToday  int64   `json:"appointmentsToday"`
	Departments        int64   `json:"departments"`
	PendingBillsAmount float64 `json:"pendingBillsAmount"`
}

// Window computes the fixed look-back range for a report period: the current
// calendar day, the last 7 days, or the last month. now is passed in so tests
// can pin it.
func Window(period string, now time.Time) (time.Time, time.Time, error) {
	to := now.UTC()

	switch period {
	case PeriodDaily:
		from := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		return from, to, nil
	case PeriodWeekly:
		return to.AddDate(0, 0, -7), to, nil
	case PeriodMonthly:
		return to.AddDate(0, -1, 0), to, nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("unknown report period %q", period)
}

// DayRange bounds the current calendar day in UTC: [start, start+24h).
func DayRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// ReportsRepo is the read-only aggregation side. Every report is recomputed
// in full on each call; nothing is cached.
type ReportsRepo struct {
	db   *mongo.Database
	prom *observability.Prom
}

func NewReportsRepo(db *mongo.Database, prom *observability.Prom) *ReportsRepo {
	return &ReportsRepo{db: db, prom: prom}
}

func (r *ReportsRepo) observe(op string, fn func() error) error {
	if r.prom == nil {
		return fn()
	}
	return r.prom.ObserveStore("reports."+op, fn)
}

func (r *ReportsRepo) Build(ctx context.Context, period string) (Report, error) {
	from, to, err := Window(period, time.Now())

	if err != nil {
		return Report{}, err
	}

	rep := Report{Period: period, From: from, To: to}
	created := bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}

	err = r.observe("build", func() error {
		var err error

		rep.PatientsCreated, err = r.db.Collection("patients").CountDocuments(ctx, created)
		if err != nil {
			return err
		}

		rep.AppointmentsCreated, err = r.db.Collection("appointments").CountDocuments(ctx, created)
		if err != nil {
			return err
		}

		rep.AppointmentsCompleted, err = r.db.Collection("appointments").CountDocuments(ctx, bson.M{
			"createdAt": bson.M{"$gte": from, "$lte": to},
			"status":    models.AppointmentCompleted,
		})
		if err != nil {
			return err
		}

		rep.DoctorsCreated, err = r.db.Collection("doctors").CountDocuments(ctx, created)
		if err != nil {
			return err
		}

		rep.PaidRevenue, err = r.sumBills(ctx, bson.M{
			"createdAt": bson.M{"$gte": from, "$lte": to},
			"status":    models.BillPaid,
		})
		return err
	})

	if err != nil {
		return Report{}, err
	}

	return rep, nil
}

func (r *ReportsRepo) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats

	err := r.observe("dashboard", func() error {
		var err error

		stats.Patients, err = r.db.Collection("patients").CountDocuments(ctx, bson.M{})
		if err != nil {
			return err
		}

		stats.Doctors, err = r.db.Collection("doctors").CountDocuments(ctx, bson.M{})
		if err != nil {
			return err
		}

		stats.Appointments, err = r.db.Collection("appointments").CountDocuments(ctx, bson.M{})
		if err != nil {
			return err
		}

		dayStart, dayEnd := DayRange(time.Now())
		stats.AppointmentsToday, err = r.db.Collection("appointments").CountDocuments(ctx, bson.M{
			"date": bson.M{"$gte": dayStart, "$lt": dayEnd},
		})
		if err != nil {
			return err
		}

		stats.Departments, err = r.db.Collection("departments").CountDocuments(ctx, bson.M{})
		if err != nil {
			return err
		}

		stats.PendingBillsAmount, err = r.sumBills(ctx, bson.M{"status": models.BillPending})
		return err
	})

	if err != nil {
		return DashboardStats{}, err
	}

	return stats, nil
}

func (r *ReportsRepo) sumBills(ctx context.Context, match bson.M) (float64, error) {
	cur, err := r.db.Collection("bills").Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	})

	if err != nil {
		return 0, err
	}

	var rows []struct {
		Total float64 `bson:"total"`
	}

	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 0, nil
	}

	return rows[0].Total, nil
}
