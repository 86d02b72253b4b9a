package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/leadscout/internal/feedback"
)

// Corrections applies labeled feedback to processed messages.
type Corrections interface {
	MarkRelevant(ctx context.Context, messageID int64) (*feedback.Result, error)
	MarkIrrelevant(ctx context.Context, messageID int64) (*feedback.Result, error)
}

// FeedbackHandler handles correction endpoints.
type FeedbackHandler struct {
	corrections Corrections
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(corrections Corrections) *FeedbackHandler {
	return &FeedbackHandler{corrections: corrections}
}

// FeedbackRequest is the body of POST /api/v1/feedback.
type FeedbackRequest struct {
	MessageID int64 `json:"message_id" binding:"required"`
	Relevant  *bool `json:"relevant" binding:"required"`
}

// Submit handles POST /api/v1/feedback.
// Parameters:
//   - c: Gin request context with a FeedbackRequest body.
// Returns: none (writes JSON response).
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var res *feedback.Result
	var err error
	if *req.Relevant {
		res, err = h.corrections.MarkRelevant(c.Request.Context(), req.MessageID)
	} else {
		res, err = h.corrections.MarkIrrelevant(c.Request.Context(), req.MessageID)
	}
	if err != nil {
		if errors.Is(err, feedback.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}
