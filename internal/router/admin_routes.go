package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/handler"
	"github.com/prudvivenkat/agriconnect/internal/middleware"
	"github.com/prudvivenkat/agriconnect/internal/model"
)

// RegisterAdmin registers admin-only endpoints under /v1/admin. All routes
// require a valid JWT carrying the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/dashboard", a.Dashboard)
	g.GET("/users", a.ListUsers)

	// ---- Moderation queue ----
	g.GET("/equipment/pending", a.PendingEquipment)
	g.GET("/workers/pending", a.PendingWorkers)
	g.PATCH("/equipment/:id/moderation", a.ModerateEquipment)
	g.PATCH("/workers/:id/moderation", a.ModerateWorker)

	// ---- Feedback queue ----
	g.GET("/feedback", a.ListFeedback)
	g.PATCH("/feedback/:id", a.UpdateFeedback)
}
