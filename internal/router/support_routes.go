package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/handler"
	"github.com/prudvivenkat/agriconnect/internal/middleware"
	"github.com/prudvivenkat/agriconnect/internal/model"
)

// RegisterSupport registers the feedback and crop advisory endpoints.
// Both require an authenticated user of any role.
func RegisterSupport(e *echo.Echo, f *handler.FeedbackHandler, adv *handler.AdvisoryHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleFarmer, model.RoleWorker, model.RoleRenter, model.RoleAdmin),
	)

	g.POST("/feedback", f.Create)
	// Crop recommendation via the external model, heuristic fallback when
	// no API key is configured.
	g.POST("/advisory/crop", adv.PredictCrop)
}
