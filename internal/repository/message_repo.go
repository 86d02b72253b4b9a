package repository

import (
	"context"
	"time"

	"github.com/timmy/leadscout/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository handles processed-message records.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Upsert creates or replaces a message record keyed by its chat message ID.
// Concurrent writers for the same ID resolve last-write-wins.
func (r *MessageRepository) Upsert(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		UpdateAll: true,
	}).Create(msg).Error
}

// GetByMessageID retrieves a message by its chat message ID.
// Returns gorm.ErrRecordNotFound when no such message was processed.
func (r *MessageRepository) GetByMessageID(ctx context.Context, messageID int64) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.WithContext(ctx).First(&msg, "message_id = ?", messageID).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListRecent retrieves the most recently processed messages.
func (r *MessageRepository) ListRecent(ctx context.Context, limit int) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// PurgeOlderThan deletes messages created before the cutoff and reports
// how many rows were removed.
func (r *MessageRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.Message{})
	return res.RowsAffected, res.Error
}
