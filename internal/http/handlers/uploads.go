package handlers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/models"
	"github.com/carebridge/hospital-api/internal/observability"
	"github.com/carebridge/hospital-api/internal/store"
)

// MaxAvatarBytes caps an avatar upload at 5MB.
const MaxAvatarBytes = 5 << 20

type AvatarStore interface {
	SetAvatar(ctx context.Context, id primitive.ObjectID, path string) (models.User, error)
}

type UploadsHandler struct {
	users AvatarStore
	dir   string
	prom  *observability.Prom
}

func NewUploadsHandler(users AvatarStore, dir string, prom *observability.Prom) *UploadsHandler {
	return &UploadsHandler{
		users: users,
		dir:   dir,
		prom:  prom,
	}
}

func (h *UploadsHandler) countUpload(result string) {
	if h.prom != nil {
		h.prom.UploadsTotal.WithLabelValues(result).Inc()
	}
}

// Avatar stores the uploaded image under a generated unique name and points
// the caller's avatar path at it. The declared content type is trusted as-is;
// there is no sniffing or transcoding.
func (h *UploadsHandler) Avatar(ctx *gin.Context) {
	userID, ok := callerID(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "authentication_required", "Missing identity context")
		return
	}

	file, err := ctx.FormFile("avatar")

	if err != nil {
		h.countUpload("rejected")
		RespondBadRequestCode(ctx, "upload_rejected", "Missing avatar file")
		return
	}

	if file.Size > MaxAvatarBytes {
		h.countUpload("rejected")
		RespondBadRequestCode(ctx, "upload_rejected", "Avatar must be 5MB or smaller")
		return
	}

	declared := file.Header.Get("Content-Type")

	if !strings.HasPrefix(strings.ToLower(declared), "image/") {
		h.countUpload("rejected")
		RespondBadRequestCode(ctx, "upload_rejected", "Avatar must be an image")
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	if err := ctx.SaveUploadedFile(file, filepath.Join(h.dir, name)); err != nil {
		h.countUpload("failed")
		RespondInternal(ctx, "Could not store avatar")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.users.SetAvatar(cctx, userID, "/uploads/"+name)

	if err != nil {
		h.countUpload("failed")
		if errors.Is(err, store.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not update avatar")
		return
	}

	h.countUpload("stored")

	ctx.JSON(http.StatusOK, gin.H{
		"avatar": u.Avatar,
		"user":   u,
	})
}
