package repository

import (
	"context"

	"github.com/timmy/leadscout/internal/domain"
	"gorm.io/gorm"
)

// TrainingRepository handles the append-only training example log.
type TrainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository creates a new TrainingRepository.
func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// Append stores a new training example.
func (r *TrainingRepository) Append(ctx context.Context, example *domain.TrainingExample) error {
	return r.db.WithContext(ctx).Create(example).Error
}

// ListAll retrieves every training example in insertion order.
func (r *TrainingRepository) ListAll(ctx context.Context) ([]domain.TrainingExample, error) {
	var examples []domain.TrainingExample
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&examples).Error; err != nil {
		return nil, err
	}
	return examples, nil
}

// Count reports the number of stored training examples.
func (r *TrainingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.TrainingExample{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
