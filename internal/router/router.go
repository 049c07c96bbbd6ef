package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/handler"
	"github.com/prudvivenkat/agriconnect/internal/middleware"
	"github.com/prudvivenkat/agriconnect/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while session and profile endpoints live under /v1 behind JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session. Registration and
	// OTP verification together establish the account; login and refresh
	// exchange credentials for token pairs.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/verify-otp", a.VerifyOTP)
	g.POST("/resend-otp", a.ResendOTP)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	// Session-scoped endpoints. Any marketplace role may manage its own
	// profile; role-specific surfaces get their own groups elsewhere.
	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleFarmer, model.RoleWorker, model.RoleRenter, model.RoleAdmin),
	)
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
	auth.PATCH("/me", a.UpdateProfile)
	// Password change is CSRF-gated: fetch a token first, then present it
	// in the change-password body.
	auth.GET("/csrf-token", a.CSRFToken)
	auth.POST("/me/password", a.ChangePassword)
}
