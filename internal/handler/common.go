// Package handler contains the Echo request layer. Handlers bind and
// validate input, call into the service layer, and translate its
// sentinel errors into HTTP responses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/service"
)

// getUserID extracts the authenticated user ID placed in context by
// the JWT middleware. JSON numeric claims arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as a uint64.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// serviceError maps the service sentinels onto HTTP responses. Errors
// outside the taxonomy become a 500 with a generic message.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrNotAvailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not available"})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSelfDealing),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidRating):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
