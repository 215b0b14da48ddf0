package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/hospital-api/internal/http/middlewares"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondBadRequestCode(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusBadRequest, code, message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, "forbidden", message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}
