package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/service"
)

// HiringHandler exposes the labor engagement lifecycle.
type HiringHandler struct {
	Hirings *service.HiringService
}

func NewHiringHandler(hirings *service.HiringService) *HiringHandler {
	return &HiringHandler{Hirings: hirings}
}

type createHiringReq struct {
	WorkerProfileID uint64  `json:"worker_profile_id"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	WorkDescription *string `json:"work_description"`
}

// Create hires a worker for the authenticated farmer.
func (h *HiringHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createHiringReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.WorkerProfileID == 0 || req.StartDate == "" || req.EndDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "worker_profile_id, start_date and end_date required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hr, err := h.Hirings.Create(ctx, uid, req.WorkerProfileID, req.StartDate, req.EndDate, req.WorkDescription)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, hr)
}

// Transition moves a hiring along the role-scoped graph.
func (h *HiringHandler) Transition(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hr, err := h.Hirings.Transition(ctx, uid, id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, hr)
}

// Mine lists the authenticated farmer's hirings.
func (h *HiringHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Hirings.ListByFarmer(ctx, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hirings": items, "count": len(items)})
}

// Incoming lists engagements against the authenticated worker's
// profile.
func (h *HiringHandler) Incoming(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Hirings.ListForWorker(ctx, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hirings": items, "count": len(items)})
}
