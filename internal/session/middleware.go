package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"CatalogExplorer/pkg/kit"
)

// Header carries the session token in both directions.
const Header = "X-Session-Token"

type ctxKey string

const sessionIDKey ctxKey = "session_id"

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// FromContext returns the session id, or "" when the request carries none.
func FromContext(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// Middleware resolves the caller's session from Header. Requests without a
// valid token get a fresh session whose token is returned in the response.
func Middleware(tm *TokenMaker, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := r.Header.Get(Header); tok != "" {
				if c, err := tm.Parse(tok); err == nil {
					next.ServeHTTP(w, r.WithContext(WithID(r.Context(), c.SessionID)))
					return
				}
			}

			id := uuid.NewString()
			tok, err := tm.New(id)
			if err != nil {
				if log != nil {
					log.Error("issue session token", zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
				return
			}

			w.Header().Set(Header, tok)
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}
