package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints. These return
// approved listings only, so guests can search the marketplace before
// creating an account. The cache middleware is applied per route rather
// than globally so that detail pages and mutations stay uncached.
func RegisterPublic(e *echo.Echo, eq *handler.EquipmentHandler, w *handler.WorkerHandler, cache echo.MiddlewareFunc) {
	// Equipment directory with conjunctive filters (category, location,
	// max_price, available_only, free-text search).
	e.GET("/v1/equipment", eq.List, cache)
	// Distinct categories for filter dropdowns.
	e.GET("/v1/equipment/categories", eq.Categories, cache)
	// Equipment detail including its reviews and rating summary.
	e.GET("/v1/equipment/:id", eq.Get)

	// Worker directory ordered by daily rate, each entry carrying its
	// rating summary.
	e.GET("/v1/workers", w.List, cache)
	// Worker detail including reviews. The static /v1/workers/me route is
	// registered by the labor group and takes precedence over :id.
	e.GET("/v1/workers/:id", w.Get)
}
