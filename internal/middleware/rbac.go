package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/od-portal-api/internal/models"
	"github.com/noah-isme/od-portal-api/internal/service"
	appErrors "github.com/noah-isme/od-portal-api/pkg/errors"
	"github.com/noah-isme/od-portal-api/pkg/response"
)

// ContextScopeKey is the gin context key storing the admin's whitelist entry.
const ContextScopeKey = "adminScope"

// RequireAdmin authorizes whitelisted administrators. The matched whitelist
// entry is attached to the context so handlers can scope queries to the
// admin's department. The whitelist is re-read on every request.
func RequireAdmin(authz *service.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		entry, err := authz.ResolveAdmin(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextScopeKey, entry)
		c.Next()
	}
}

// RequireUser authorizes ordinary members: trusted-domain identities that
// are not on the admin whitelist. Admins hitting user-only routes get 403.
func RequireUser(authz *service.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if err := authz.ResolveUser(c.Request.Context(), claims); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ResolveAdminScope attaches the admin whitelist entry when the caller is
// whitelisted but never blocks. Used on self-or-admin routes where the
// ownership decision belongs to the service.
func ResolveAdminScope(authz *service.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.Next()
			return
		}

		if entry, err := authz.ResolveAdmin(c.Request.Context(), claims); err == nil {
			c.Set(ContextScopeKey, entry)
		}

		c.Next()
	}
}

// AdminScope returns the whitelist entry stored by RequireAdmin or
// ResolveAdminScope. The second return reports whether the caller is an
// admin.
func AdminScope(c *gin.Context) (*models.WhitelistEntry, bool) {
	value, exists := c.Get(ContextScopeKey)
	if !exists {
		return nil, false
	}
	entry, ok := value.(*models.WhitelistEntry)
	return entry, ok
}
