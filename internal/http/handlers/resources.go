package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/store"
)

// ResourceStore is what every resource collection exposes to its handler.
// The mongo-backed implementation is store.Repo; tests plug in fakes.
type ResourceStore[M any] interface {
	Create(ctx context.Context, doc M) (M, error)
	List(ctx context.Context) ([]M, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (M, error)
	Update(ctx context.Context, id primitive.ObjectID, doc M) (M, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Resource is the one CRUD handler shared by every plain resource. A
// resource is described by its model M, its typed request schema R and the
// builder mapping a validated request onto a model. Update uses the same
// schema as create: the incoming fields replace the stored ones wholesale.
type Resource[M any, R any] struct {
	name  string
	repo  ResourceStore[M]
	build func(R) M
}

func NewResource[M any, R any](name string, repo ResourceStore[M], build func(R) M) *Resource[M, R] {
	return &Resource[M, R]{
		name:  name,
		repo:  repo,
		build: build,
	}
}

// Mount registers the uniform CRUD routes on a (role-gated) group.
func (h *Resource[M, R]) Mount(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Resource[M, R]) Create(ctx *gin.Context) {
	var req R

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	doc, err := h.repo.Create(cctx, h.build(req))

	if err != nil {
		RespondInternal(ctx, "Could not create "+h.name)
		return
	}

	ctx.JSON(http.StatusCreated, doc)
}

func (h *Resource[M, R]) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	docs, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list "+h.name+"s")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": docs,
		"count": len(docs),
	})
}

func (h *Resource[M, R]) Get(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	doc, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondNotFound(ctx, notFoundMessage(h.name))
			return
		}
		RespondInternal(ctx, "Could not fetch "+h.name)
		return
	}

	ctx.JSON(http.StatusOK, doc)
}

func (h *Resource[M, R]) Update(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	var req R

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	doc, err := h.repo.Update(cctx, id, h.build(req))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondNotFound(ctx, notFoundMessage(h.name))
			return
		}
		RespondInternal(ctx, "Could not update "+h.name)
		return
	}

	ctx.JSON(http.StatusOK, doc)
}

func (h *Resource[M, R]) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondNotFound(ctx, notFoundMessage(h.name))
			return
		}
		RespondInternal(ctx, "Could not delete "+h.name)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func idParam(ctx *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))

	if err != nil {
		RespondBadRequest(ctx, "Invalid id", nil)
		return primitive.NilObjectID, false
	}

	return id, true
}

func notFoundMessage(name string) string {
	if name == "" {
		return "Record not found"
	}

	return string(name[0]-'a'+'A') + name[1:] + " not found"
}
