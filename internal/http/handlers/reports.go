package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/hospital-api/internal/config"
	"github.com/carebridge/hospital-api/internal/store"
)

type ReportBuilder interface {
	Build(ctx context.Context, period string) (store.Report, error)
	Dashboard(ctx context.Context) (store.DashboardStats, error)
}

type ReportsHandler struct {
	reports ReportBuilder
}

func NewReportsHandler(reports ReportBuilder) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Report recomputes the aggregation for its fixed look-back window on every
// call. Within a calendar day the daily counts only grow as records are
// created.
func (h *ReportsHandler) Report(period string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		rep, err := h.reports.Build(cctx, period)

		if err != nil {
			RespondInternal(ctx, "Could not build report")
			return
		}

		ctx.JSON(http.StatusOK, rep)
	}
}

func (h *ReportsHandler) DashboardStats(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	stats, err := h.reports.Dashboard(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not compute dashboard stats")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, stats)
}
