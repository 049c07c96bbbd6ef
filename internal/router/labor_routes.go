package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/handler"
	"github.com/prudvivenkat/agriconnect/internal/middleware"
	"github.com/prudvivenkat/agriconnect/internal/model"
)

// RegisterLabor registers the labor hiring surface: worker profile
// management, hiring requests and their status transitions, and worker
// reviews. Profile routes are worker-only; hiring creation is farmer-only;
// transitions accept both sides because the allowed moves differ per actor
// and are enforced in the service layer.
func RegisterLabor(e *echo.Echo, w *handler.WorkerHandler, hi *handler.HiringHandler, r *handler.ReviewHandler, jwtSecret string) {
	jwt := middleware.JWTAuth(jwtSecret)

	// ---- Worker profiles ----
	wg := e.Group("/v1", jwt, middleware.RequireRole(model.RoleWorker))
	wg.POST("/workers", w.Create)
	wg.GET("/workers/me", w.Me)
	wg.PUT("/workers/me", w.Update)
	wg.PATCH("/workers/me", w.Update)
	// Hiring requests addressed to the caller's profile.
	wg.GET("/hirings/incoming", hi.Incoming)

	// ---- Hiring requests ----
	fg := e.Group("/v1", jwt, middleware.RequireRole(model.RoleFarmer))
	fg.POST("/hirings", hi.Create)
	fg.GET("/my/hirings", hi.Mine)
	// Farmers review workers after a completed engagement.
	fg.POST("/workers/:id/reviews", r.CreateForWorker)

	// Both sides move a hiring through its lifecycle; which transitions an
	// actor may perform depends on their relation to the record.
	tg := e.Group("/v1", jwt, middleware.RequireRole(model.RoleFarmer, model.RoleWorker))
	tg.PATCH("/hirings/:id/status", hi.Transition)
}
