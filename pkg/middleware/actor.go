package middleware

import (
	"context"
	"net/http"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// Actor reads the caller identity set by the upstream gateway. Requests
// without a valid identity are refused before reaching a handler.
func Actor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sanitizer.ActorID(r.Header.Get(HeaderActorID))
			role := model.Role(sanitizer.Token(r.Header.Get(HeaderActorRole)))

			if id == "" {
				reject(w, apperrors.Unauthorized("Missing "+HeaderActorID+" header"))
				return
			}
			if !role.Valid() {
				reject(w, apperrors.Unauthorized(HeaderActorRole+" must be guest or host"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), model.Actor{ID: id, Role: role})))
		})
	}
}

func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}
