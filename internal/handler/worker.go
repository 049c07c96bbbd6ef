package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/repository"
	"github.com/prudvivenkat/agriconnect/internal/service"
)

// WorkerHandler serves worker profiles: the worker's own profile
// management and the public directory.
type WorkerHandler struct {
	Workers *repository.WorkerRepo
	Reviews *service.ReviewService
}

func NewWorkerHandler(workers *repository.WorkerRepo, reviews *service.ReviewService) *WorkerHandler {
	return &WorkerHandler{Workers: workers, Reviews: reviews}
}

type createWorkerReq struct {
	Skills     string  `json:"skills"`
	Experience *string `json:"experience"`
	DailyRate  float64 `json:"daily_rate"`
	Location   *string `json:"location"`
	ToolsOwned *string `json:"tools_owned"`
}

type updateWorkerReq struct {
	Skills     *string  `json:"skills"`
	Experience *string  `json:"experience"`
	DailyRate  *float64 `json:"daily_rate"`
	Location   *string  `json:"location"`
	ToolsOwned *string  `json:"tools_owned"`
}

// workerView decorates a profile with its rating summary for listings.
type workerView struct {
	model.WorkerProfile
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// Create registers the authenticated worker's profile.
func (h *WorkerHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createWorkerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Skills = strings.TrimSpace(req.Skills)
	if req.Skills == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "skills required"})
	}
	if req.DailyRate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "daily_rate must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Workers.Create(ctx, &model.WorkerProfile{
		UserID:     uid,
		Skills:     req.Skills,
		Experience: req.Experience,
		DailyRate:  req.DailyRate,
		Location:   req.Location,
		ToolsOwned: req.ToolsOwned,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile already exists"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "profile submitted for review"})
}

// Update edits the authenticated worker's own profile.
func (h *WorkerHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateWorkerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DailyRate != nil && *req.DailyRate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "daily_rate must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Workers.Update(ctx, uid, model.WorkerProfileUpdate{
		Skills:     req.Skills,
		Experience: req.Experience,
		DailyRate:  req.DailyRate,
		Location:   req.Location,
		ToolsOwned: req.ToolsOwned,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no profile for user"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// Me returns the authenticated worker's own profile.
func (h *WorkerHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	w, err := h.Workers.GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no profile for user"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

// List serves the public worker directory, cheapest first. Malformed
// numeric filters are ignored.
func (h *WorkerHandler) List(c echo.Context) error {
	f := model.WorkerFilter{
		Skills:     c.QueryParam("skills"),
		Location:   c.QueryParam("location"),
		ToolsOwned: c.QueryParam("tools_owned"),
		Limit:      20,
	}
	if v := c.QueryParam("max_rate"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxRate = &r
		}
	}
	if c.QueryParam("available_only") == "true" {
		f.AvailableOnly = true
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			f.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profiles, err := h.Workers.List(ctx, f)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]workerView, 0, len(profiles))
	for _, w := range profiles {
		s, err := h.Reviews.WorkerSummary(ctx, w.ID)
		if err != nil {
			return serviceError(c, err)
		}
		out = append(out, workerView{WorkerProfile: w, AverageRating: s.Average, ReviewCount: s.Count})
	}
	return c.JSON(http.StatusOK, echo.Map{"workers": out, "count": len(out)})
}

// Get returns one profile with its reviews.
func (h *WorkerHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	w, err := h.Workers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return serviceError(c, err)
	}
	reviews, summary, err := h.Reviews.WorkerReviews(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"worker":         w,
		"reviews":        reviews,
		"average_rating": summary.Average,
		"review_count":   summary.Count,
	})
}
