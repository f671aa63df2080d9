package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/od-portal-api/internal/middleware"
	"github.com/noah-isme/od-portal-api/internal/service"
)

// Handlers groups every HTTP handler served under the API prefix.
type Handlers struct {
	User      *UserHandler
	OD        *ODHandler
	Timing    *TimingHandler
	Report    *ReportHandler
	Whitelist *WhitelistHandler
}

// RegisterRoutes mounts the API routes on the engine. All routes except the
// health probe sit behind the JWT middleware; role guards are attached per
// route group.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, authz *service.AuthzService) {
	api := r.Group(prefix)

	api.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	secured := api.Group("", middleware.JWT(auth))

	// Readable by any authenticated caller.
	secured.GET("/timings/:year", h.Timing.ListByYear)

	// Self-or-admin routes. The scope resolver never blocks; the service
	// decides based on ownership and the resolved admin flag.
	scoped := secured.Group("", middleware.ResolveAdminScope(authz))
	scoped.GET("/user/:id", h.User.Get)
	scoped.GET("/od/history/:userId", h.OD.History)

	// Member-only routes.
	users := secured.Group("", middleware.RequireUser(authz))
	users.POST("/user", h.User.Upsert)
	users.POST("/od/request", h.OD.Create)

	// Admin-only routes.
	admins := secured.Group("", middleware.RequireAdmin(authz))
	admins.GET("/od/pending", h.OD.Pending)
	admins.PUT("/od/review/:id", h.OD.Review)
	admins.GET("/reports/summary", h.Report.Summary)
	admins.GET("/reports/export", h.Report.Export)
	admins.POST("/admin/timings", h.Timing.Upsert)
	admins.GET("/admin/whitelist", h.Whitelist.List)
	admins.POST("/admin/whitelist", h.Whitelist.Add)
	admins.DELETE("/admin/whitelist/:email", h.Whitelist.Remove)
}
