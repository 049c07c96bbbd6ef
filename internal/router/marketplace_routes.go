package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/handler"
	"github.com/prudvivenkat/agriconnect/internal/middleware"
	"github.com/prudvivenkat/agriconnect/internal/model"
)

// RegisterMarketplace registers the equipment rental surface: listing
// management for owners and the booking lifecycle for renters. All routes
// require a valid JWT; record-level ownership checks live in the service
// and repository layers.
func RegisterMarketplace(e *echo.Echo, eq *handler.EquipmentHandler, b *handler.BookingHandler, r *handler.ReviewHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleFarmer, model.RoleWorker, model.RoleRenter, model.RoleAdmin),
	)

	// ---- Equipment listings ----
	g.POST("/equipment", eq.Create)
	g.PUT("/equipment/:id", eq.Update)
	g.PATCH("/equipment/:id", eq.Update) // partial updates share the handler
	g.DELETE("/equipment/:id", eq.Delete)
	g.GET("/my/equipment", eq.Mine)

	// ---- Bookings ----
	g.POST("/bookings", b.Create)
	g.GET("/bookings/:id", b.Get)
	g.PATCH("/bookings/:id/status", b.Transition)
	g.DELETE("/bookings/:id", b.Delete) // renter withdrawal, pending only
	g.GET("/my/bookings", b.Mine)
	// Requests against the caller's own listings.
	g.GET("/my/equipment/bookings", b.Incoming)

	// ---- Reviews ----
	g.POST("/equipment/:id/reviews", r.CreateForEquipment)
}
