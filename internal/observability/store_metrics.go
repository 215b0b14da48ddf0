package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

func (p *Prom) ObserveStore(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.StoreErrorsTotal.WithLabelValues(op, classifyStoreErr(err)).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyStoreErr(err error) string {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return "duplicate_key"
	case mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case mongo.IsNetworkError(err):
		return "connection"
	case errors.Is(err, mongo.ErrNoDocuments):
		return "not_found"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
