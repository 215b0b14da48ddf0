package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/store"
)

type NotificationStore interface {
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) (models.Notification, error)
}

// NotificationsHandler always scopes to the caller: the user id comes from
// the verified token, never from the request body or query.
type NotificationsHandler struct {
	repo NotificationStore
}

func NewNotificationsHandler(repo NotificationStore) *NotificationsHandler {
	return &NotificationsHandler{repo: repo}
}

func (h *NotificationsHandler) List(ctx *gin.Context) {
	userID, ok := callerID(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "authentication_required", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.repo.ListForUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list notifications")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *NotificationsHandler) Create(ctx *gin.Context) {
	userID, ok := callerID(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "authentication_required", "Missing identity context")
		return
	}

	var req models.NotificationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	n, err := h.repo.Create(cctx, req.Model(userID))

	if err != nil {
		RespondInternal(ctx, "Could not create notification")
		return
	}

	ctx.JSON(http.StatusCreated, n)
}

// MarkRead flips the read flag on one of the caller's notifications. Another
// user's id simply doesn't match the scoped filter and reads as not found.
func (h *NotificationsHandler) MarkRead(ctx *gin.Context) {
	userID, ok := callerID(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "authentication_required", "Missing identity context")
		return
	}

	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	n, err := h.repo.MarkRead(cctx, id, userID)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondNotFound(ctx, "Notification not found")
			return
		}
		RespondInternal(ctx, "Could not update notification")
		return
	}

	ctx.JSON(http.StatusOK, n)
}
