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

// EquipmentHandler serves the equipment registry: listing CRUD for
// owners and the filtered public catalog.
type EquipmentHandler struct {
	Equipment *repository.EquipmentRepo
	Reviews   *service.ReviewService
}

func NewEquipmentHandler(equipment *repository.EquipmentRepo, reviews *service.ReviewService) *EquipmentHandler {
	return &EquipmentHandler{Equipment: equipment, Reviews: reviews}
}

type createEquipmentReq struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	PricePerDay float64 `json:"price_per_day"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"image_url"`
}

type updateEquipmentReq struct {
	Name               *string  `json:"name"`
	Category           *string  `json:"category"`
	Description        *string  `json:"description"`
	PricePerDay        *float64 `json:"price_per_day"`
	Location           *string  `json:"location"`
	ImageURL           *string  `json:"image_url"`
	AvailabilityStatus *string  `json:"availability_status"`
}

// Create registers a listing for the authenticated owner. New
// listings await moderation before appearing in the catalog.
func (h *EquipmentHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEquipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and category required"})
	}
	if req.PricePerDay <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_day must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e := &model.Equipment{
		OwnerID:     uid,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	id, err := h.Equipment.Create(ctx, e)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate listing for this owner"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "listing submitted for review"})
}

// List serves the public catalog. Malformed numeric filters are
// ignored rather than rejected.
func (h *EquipmentHandler) List(c echo.Context) error {
	f := model.EquipmentFilter{
		Category: c.QueryParam("category"),
		Location: c.QueryParam("location"),
		Search:   c.QueryParam("search"),
		Limit:    20,
	}
	if v := c.QueryParam("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
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

	items, err := h.Equipment.List(ctx, f)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"equipment": items, "count": len(items)})
}

// Get returns one listing with its review summary.
func (h *EquipmentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return serviceError(c, err)
	}
	reviews, summary, err := h.Reviews.EquipmentReviews(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"equipment":      e,
		"reviews":        reviews,
		"average_rating": summary.Average,
		"review_count":   summary.Count,
	})
}

// Update edits an owner's listing.
func (h *EquipmentHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateEquipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PricePerDay != nil && *req.PricePerDay <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_day must be positive"})
	}
	if req.AvailabilityStatus != nil {
		switch *req.AvailabilityStatus {
		case model.AvailabilityAvailable, model.AvailabilityBooked, model.AvailabilityMaintenance:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid availability_status"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Equipment.Update(ctx, id, uid, model.EquipmentUpdate{
		Name:               req.Name,
		Category:           req.Category,
		Description:        req.Description,
		PricePerDay:        req.PricePerDay,
		Location:           req.Location,
		ImageURL:           req.ImageURL,
		AvailabilityStatus: req.AvailabilityStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// Delete removes an owner's listing.
func (h *EquipmentHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Equipment.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing"})
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// Mine lists the authenticated owner's listings, moderated or not.
func (h *EquipmentHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Equipment.ListByOwner(ctx, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"equipment": items, "count": len(items)})
}

// Categories lists the known equipment categories.
func (h *EquipmentHandler) Categories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Equipment.Categories(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}
