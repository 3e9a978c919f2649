package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"assessment-service/internal/models"
	"assessment-service/internal/repository"
	"assessment-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	Service *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: s}
}

// SubmitReview records one spaced-repetition review of an item.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req struct {
		ItemID         string                         `json:"item_id" binding:"required"`
		WasCorrect     *bool                          `json:"was_correct" binding:"required"`
		ResponseTimeMs int64                          `json:"response_time_ms"`
		Metrics        *models.UserPerformanceMetrics `json:"metrics,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	state, err := h.Service.SubmitReview(context.Background(), userID, req.ItemID, *req.WasCorrect, req.ResponseTimeMs, req.Metrics)
	if err != nil {
		if errors.Is(err, repository.ErrReviewConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Review submitted concurrently, reload and retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetDueItems lists memory states due for review, most overdue first.
func (h *ReviewHandler) GetDueItems(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 20
	}
	states, err := h.Service.DueItems(context.Background(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"due": states})
}
