// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gurkanbulca/taskboard/internal/authz"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

type contextKey string

const actorContextKey contextKey = "actor"

// Authenticator validates bearer tokens and injects the actor into the
// request context. Every route behind it sees an authenticated actor.
type Authenticator struct {
	tokenManager *auth.TokenManager
	unauthorized func(w http.ResponseWriter, message string)
}

// NewAuthenticator creates the middleware. unauthorized writes the 401
// response so the envelope format stays owned by the handler package.
func NewAuthenticator(tokenManager *auth.TokenManager, unauthorized func(w http.ResponseWriter, message string)) *Authenticator {
	return &Authenticator{
		tokenManager: tokenManager,
		unauthorized: unauthorized,
	}
}

// Middleware is the mux-compatible handler wrapper.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			a.unauthorized(w, "missing authorization header")
			return
		}

		token, err := auth.ExtractTokenFromHeader(authHeader)
		if err != nil {
			a.unauthorized(w, err.Error())
			return
		}

		claims, err := a.tokenManager.ValidateAccessToken(token)
		if err != nil {
			a.unauthorized(w, "invalid token")
			return
		}

		actor := authz.Actor{
			ID:       claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext extracts the authenticated actor.
func ActorFromContext(ctx context.Context) (authz.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(authz.Actor)
	return actor, ok
}

// WithActor returns a context carrying actor. Used by tests.
func WithActor(ctx context.Context, actor authz.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}
