package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/model"
)

type contextKey string

const actorKey contextKey = "actor"

// Authenticator resolves a bearer token to the acting identity.
// *core.SessionService satisfies this interface.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Actor, error)
}

// SessionHook is notified when an authenticated session touches the API.
// The onboarding service uses it to keep active actors under watch.
type SessionHook interface {
	SessionStarted(actor model.Actor)
}

// Auth validates the Authorization bearer token, puts the resolved actor on
// the request context, and notifies the session hook.
func Auth(auth Authenticator, hook SessionHook) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			actor, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "invalid session")
				return
			}

			if hook != nil {
				hook.SessionStarted(*actor)
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated actor set by Auth.
func ActorFromContext(ctx context.Context) (*model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(*model.Actor)
	return actor, ok
}

// WithActor returns a context carrying the actor. Used by tests and by the
// login handler, which authenticates outside the middleware chain.
func WithActor(ctx context.Context, actor *model.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
