package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/timmy/leadscout/internal/domain"
)

// MessageReader looks up processed messages and their decision trails.
type MessageReader interface {
	GetByMessageID(ctx context.Context, messageID int64) (*domain.Message, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Message, error)
}

// MessageHandler handles message trail endpoints.
type MessageHandler struct {
	messages MessageReader
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messages MessageReader) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List handles GET /api/v1/messages.
// Parameters:
//   - c: Gin request context, optional "limit" query (default 50, max 500).
// Returns: none (writes JSON response).
func (h *MessageHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	if limit > 500 {
		limit = 500
	}

	msgs, err := h.messages.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": msgs,
		"count":    len(msgs),
	})
}

// Get handles GET /api/v1/messages/:id.
// Parameters:
//   - c: Gin request context with the chat message ID path parameter.
// Returns: none (writes JSON response).
func (h *MessageHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	msg, err := h.messages.GetByMessageID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load message: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, msg)
}
