package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/repository"
)

// AdminHandler serves moderation, the dashboard and the user
// directory. All routes sit behind RequireRole("admin").
type AdminHandler struct {
	Users     *repository.UserRepo
	Equipment *repository.EquipmentRepo
	Workers   *repository.WorkerRepo
	Feedback  *repository.FeedbackRepo
	Stats     *repository.StatsRepo
}

func NewAdminHandler(users *repository.UserRepo, equipment *repository.EquipmentRepo, workers *repository.WorkerRepo, feedback *repository.FeedbackRepo, stats *repository.StatsRepo) *AdminHandler {
	return &AdminHandler{Users: users, Equipment: equipment, Workers: workers, Feedback: feedback, Stats: stats}
}

// Dashboard returns the aggregate counts and recent activity.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Stats.Dashboard(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers returns accounts, optionally filtered by role.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset := 50, 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, c.QueryParam("role"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "count": len(users)})
}

// PendingEquipment returns the unreviewed listing queue.
func (h *AdminHandler) PendingEquipment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Equipment.ListPending(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"equipment": items, "count": len(items)})
}

// PendingWorkers returns the unreviewed profile queue.
func (h *AdminHandler) PendingWorkers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Workers.ListPending(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"workers": items, "count": len(items)})
}

type moderationReq struct {
	Approved bool    `json:"approved"`
	Reason   *string `json:"reason"`
}

// ModerateEquipment records an approve or reject decision on a
// listing. A rejection without a reason is refused.
func (h *AdminHandler) ModerateEquipment(c echo.Context) error {
	return h.moderate(c, h.Equipment.SetApproval)
}

// ModerateWorker records a decision on a worker profile.
func (h *AdminHandler) ModerateWorker(c echo.Context) error {
	return h.moderate(c, h.Workers.SetApproval)
}

func (h *AdminHandler) moderate(c echo.Context, apply func(context.Context, uint64, bool, *string) error) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req moderationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !req.Approved && (req.Reason == nil || *req.Reason == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason required for rejection"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := apply(ctx, id, req.Approved, req.Reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "decision recorded"})
}

// ListFeedback returns the report queue, optionally by status.
func (h *AdminHandler) ListFeedback(c echo.Context) error {
	limit, offset := 50, 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Feedback.List(ctx, c.QueryParam("status"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"feedback": items, "count": len(items)})
}

type feedbackStatusReq struct {
	Status   string  `json:"status"`
	Response *string `json:"response"`
}

// UpdateFeedback moves a report through the workflow.
func (h *AdminHandler) UpdateFeedback(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req feedbackStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Status {
	case model.FeedbackPending, model.FeedbackReviewed, model.FeedbackResolved:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Feedback.SetStatus(ctx, id, req.Status, req.Response); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}
