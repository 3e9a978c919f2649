package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"assessment-service/internal/engine"
	"assessment-service/internal/models"
	"assessment-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

// CreateSession starts an adaptive session against an item bank.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req struct {
		BankID           string  `json:"bank_id" binding:"required"`
		InitialTier      string  `json:"initial_tier" binding:"required"`
		Strategy         string  `json:"strategy" binding:"required"`
		PassingThreshold float64 `json:"passing_threshold"`
		MaxQuestions     int     `json:"max_questions" binding:"required"`
		TimeLimitSeconds int     `json:"time_limit_seconds"`
		ShowFeedback     bool    `json:"show_feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	config := models.SessionConfig{
		InitialTier:      models.DifficultyTier(req.InitialTier),
		Strategy:         models.AdaptationStrategy(req.Strategy),
		PassingThreshold: req.PassingThreshold,
		MaxQuestions:     req.MaxQuestions,
		TimeLimitSeconds: req.TimeLimitSeconds,
		ShowFeedback:     req.ShowFeedback,
	}

	session, first, err := h.Service.StartSession(context.Background(), userID, req.BankID, config)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create session",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":    session,
		"first_item": redactItem(first),
	})
}

// SubmitAnswer scores an answer against the session's current item.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var sub engine.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.Service.SubmitAnswer(context.Background(), c.Param("id"), c.GetHeader("X-User-ID"), sub)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := gin.H{
		"completed": outcome.Completed,
		"reason":    outcome.Reason,
	}
	if outcome.Feedback != nil {
		resp["feedback"] = outcome.Feedback
	}
	if outcome.NextItem != nil {
		resp["next_item"] = redactItem(outcome.NextItem)
	}
	if outcome.Result != nil {
		resp["result"] = outcome.Result
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteSession finishes the session early from its partial answer log.
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	result, err := h.Service.CompleteSession(context.Background(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// AbandonSession marks the caller-cancelled terminal state.
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	if err := h.Service.AbandonSession(context.Background(), c.Param("id"), c.GetHeader("X-User-ID")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(models.StatusAbandoned)})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GetResult(c *gin.Context) {
	result, err := h.Service.GetResult(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) ListUserSessions(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 20
	}
	sessions, err := h.Service.ListUserSessions(context.Background(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrSessionNotActive), errors.Is(err, engine.ErrStaleSubmission):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// redactItem strips the answer key before an item leaves the service.
func redactItem(item *models.AssessableItem) gin.H {
	return gin.H{
		"id":         item.ID,
		"prompt":     item.Prompt,
		"options":    item.Options,
		"tier":       item.Tier,
		"topic_tags": item.TopicTags,
	}
}
