package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/http/middlewares"
	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/security"
	"github.com/carebridge/hospital-api/internal/store"
)

// Small interfaces so tests can fake the credential store and token service.

type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) (models.User, error)
}

type TokenIssuer interface {
	Issue(userID, email, role string) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

// Register creates an account. The requested role is clamped to the
// self-serve set: asking for admin silently falls back to patient.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req models.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	role := req.Role

	if !models.SelfServeRole(role) {
		role = models.RolePatient
	}

	u, err := h.users.Create(cctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        req.Phone,
	})

	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			RespondBadRequestCode(ctx, "email_taken", "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.jwt.Issue(u.ID.Hex(), u.Email, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  u,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req models.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for the credential lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		RespondBadRequestCode(ctx, "invalid_credentials", "Invalid credentials")
		return
	}

	err = security.CheckPassword(u.PasswordHash, req.Password)

	if err != nil {
		RespondBadRequestCode(ctx, "invalid_credentials", "Invalid credentials")
		return
	}

	token, err := h.jwt.Issue(u.ID.Hex(), u.Email, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  u,
	})
}

// Me returns the caller's current record from the store, not the (possibly
// stale) token claims.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := callerID(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "authentication_required", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	id, ok := callerID(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "authentication_required", "Missing identity context")
		return
	}

	var req models.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.UpdateProfile(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, store.ErrEmailTaken):
			RespondBadRequestCode(ctx, "email_taken", "Email is already in use.")
		default:
			RespondInternal(ctx, "Could not update profile")
		}
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// callerID resolves the authenticated user's object id from the context
// stashed by the auth middleware.
func callerID(ctx *gin.Context) (primitive.ObjectID, bool) {
	raw, ok := middlewares.UserIDFromContext(ctx)

	if !ok || raw == "" {
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(raw)

	if err != nil {
		return primitive.NilObjectID, false
	}

	return id, true
}
