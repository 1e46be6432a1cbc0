package middleware

import (
	"context"
	"net/http"

	"redfp/internal/core"
	"redfp/internal/entity"
)

type scopeKey struct{}

// Scoped reads the caller's role assignment from the X-Role, X-Network-ID
// and X-Center-ID headers set by the authenticating reverse proxy, and
// stores it in the request context. Requests with no or an unknown role
// header get the admin scope; real access control lives upstream.
func Scoped(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := core.Scope{
			Role:      entity.Role(r.Header.Get("X-Role")),
			NetworkID: r.Header.Get("X-Network-ID"),
			CenterID:  r.Header.Get("X-Center-ID"),
		}
		if !sc.Role.Valid() {
			sc = core.Scope{Role: entity.RoleAdmin}
		}
		ctx := context.WithValue(r.Context(), scopeKey{}, sc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ScopeFrom returns the scope stored by Scoped, defaulting to admin when
// the middleware did not run.
func ScopeFrom(ctx context.Context) core.Scope {
	if sc, ok := ctx.Value(scopeKey{}).(core.Scope); ok {
		return sc
	}
	return core.Scope{Role: entity.RoleAdmin}
}
