package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/advisory"
)

// AdvisoryHandler proxies crop economics predictions.
type AdvisoryHandler struct {
	Client *advisory.Client
}

func NewAdvisoryHandler(client *advisory.Client) *AdvisoryHandler {
	return &AdvisoryHandler{Client: client}
}

// PredictCrop analyzes a plot. The client always answers, falling
// back to a heuristic when the prediction API is unreachable.
func (h *AdvisoryHandler) PredictCrop(c echo.Context) error {
	var req advisory.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Crop == "" || req.Area <= 0 || req.SoilType == "" || req.Irrigation == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "crop, area, soil_type and irrigation required"})
	}
	return c.JSON(http.StatusOK, h.Client.Predict(c.Request().Context(), req))
}
