package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prudvivenkat/agriconnect/internal/model"
	"github.com/prudvivenkat/agriconnect/internal/repository"
)

// FeedbackHandler accepts user reports for the admin queue.
type FeedbackHandler struct {
	Feedback *repository.FeedbackRepo
}

func NewFeedbackHandler(feedback *repository.FeedbackRepo) *FeedbackHandler {
	return &FeedbackHandler{Feedback: feedback}
}

type createFeedbackReq struct {
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Create files a report from the authenticated user.
func (h *FeedbackHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createFeedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Subject = strings.TrimSpace(req.Subject)
	req.Description = strings.TrimSpace(req.Description)
	if !model.ValidFeedbackType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be bug, feature or feedback"})
	}
	if req.Subject == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject and description required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Feedback.Create(ctx, &model.Feedback{
		UserID:      uid,
		Type:        req.Type,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "message": "feedback received"})
}
