package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/coworkhub/space-reservation/internal/handler"
	"github.com/coworkhub/space-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh token in the body or a bearer header; it
	// does not require the JWT middleware.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "MEMBER"))
	auth.GET("/me", a.Me)
}

// RegisterSpaces wires the space catalog.  Browse endpoints are open to
// any authenticated user and sit behind the optional response cache;
// mutations and the occupancy log require the ADMIN role.
func RegisterSpaces(e *echo.Echo, h *handler.SpaceHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	browse := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "MEMBER"))
	if cache != nil {
		browse.Use(cache)
	}
	browse.GET("/spaces", h.List)
	browse.GET("/spaces/:id", h.Get)

	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
	admin.POST("/spaces", h.Create)
	admin.PATCH("/spaces/:id", h.Update)
	admin.DELETE("/spaces/:id", h.Delete)
	admin.GET("/spaces/:id/occupancy", h.OccupancyLog)
}

// RegisterReservations wires the reservation lifecycle under /v1.  All
// routes accept both roles; handlers enforce per-reservation ownership
// and restrict status changes to admins.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "MEMBER"))
	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.List)
	g.GET("/reservations/:id", h.Get)
	g.PATCH("/reservations/:id", h.Update)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.POST("/reservations/:id/check-in", h.CheckIn)
	g.POST("/reservations/:id/check-out", h.CheckOut)
	g.DELETE("/reservations/:id", h.Delete)
}

// RegisterBilling wires billing statements and the payment lifecycle
// under /v1.  Listing and payment accept both roles; forced status
// transitions and deletion are admin only.
func RegisterBilling(e *echo.Echo, h *handler.BillingHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "MEMBER"))
	g.GET("/billings", h.List)
	g.GET("/billings/outstanding", h.Outstanding)
	g.GET("/billings/:id", h.Get)
	g.POST("/billings/:id/pay", h.Pay)

	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
	admin.GET("/billings/revenue", h.Revenue)
	admin.POST("/billings/:id/overdue", h.MarkOverdue)
	admin.POST("/billings/:id/cancel", h.Cancel)
	admin.POST("/billings/:id/refund", h.Refund)
	admin.DELETE("/billings/:id", h.Delete)
}
