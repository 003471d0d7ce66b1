package auth

import (
	"net/http"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/transport"
)

// RequireRoles guards a route subtree with a role allowlist. It assumes the
// authentication middleware already ran and attached a principal.
func RequireRoles(base *transport.BaseHandler, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := UserFromContext(r.Context())
			if !ok {
				base.HandleServiceError(w, internal.ErrMissingToken)
				return
			}
			if !principal.HasAnyRole(roles...) {
				base.HandleServiceError(w, internal.ErrNotOwner)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for the admin-only subtrees.
func RequireAdmin(base *transport.BaseHandler) func(http.Handler) http.Handler {
	return RequireRoles(base, RoleAdmin)
}
