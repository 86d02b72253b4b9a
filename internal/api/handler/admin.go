package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/leadscout/internal/classifier"
	"github.com/timmy/leadscout/internal/domain"
)

// Trainer exposes on-demand training and classifier state.
type Trainer interface {
	Train(ctx context.Context) bool
	Stats() classifier.Stats
}

// StatsSource aggregates the daily processing counters.
type StatsSource interface {
	Summary(ctx context.Context, days int) (*domain.StatsSummary, error)
}

// HistoryPurger removes processed messages and counters past retention.
type HistoryPurger interface {
	PurgeHistory(ctx context.Context, retention time.Duration) (int64, error)
}

// AdminHandler handles stats, training and retention endpoints.
type AdminHandler struct {
	trainer   Trainer
	stats     StatsSource
	purger    HistoryPurger
	retention time.Duration
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(trainer Trainer, stats StatsSource, purger HistoryPurger, retention time.Duration) *AdminHandler {
	return &AdminHandler{
		trainer:   trainer,
		stats:     stats,
		purger:    purger,
		retention: retention,
	}
}

// Stats handles GET /api/v1/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	summary, err := h.stats.Summary(c.Request.Context(), 7)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"processing": summary,
		"classifier": h.trainer.Stats(),
	})
}

// Train handles POST /api/v1/train.
func (h *AdminHandler) Train(c *gin.Context) {
	trained := h.trainer.Train(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"trained":    trained,
		"classifier": h.trainer.Stats(),
	})
}

// ClearHistory handles DELETE /api/v1/history.
func (h *AdminHandler) ClearHistory(c *gin.Context) {
	removed, err := h.purger.PurgeHistory(c.Request.Context(), h.retention)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge history: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
