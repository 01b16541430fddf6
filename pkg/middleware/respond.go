package middleware

import (
	"context"
	"net/http"

	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	actorKey     contextKey = "actor"
)

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// reject writes the same error envelope handlers produce.
func reject(w http.ResponseWriter, err *apperrors.AppError) {
	_ = httputil.WriteError(w, err)
}
