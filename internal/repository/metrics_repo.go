package repository

import (
	"context"
	"errors"

	"github.com/timmy/leadscout/internal/domain"
	"gorm.io/gorm"
)

// MetricsRepository handles append-only model metrics snapshots.
type MetricsRepository struct {
	db *gorm.DB
}

// NewMetricsRepository creates a new MetricsRepository.
func NewMetricsRepository(db *gorm.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Create stores a metrics snapshot.
func (r *MetricsRepository) Create(ctx context.Context, metrics *domain.ModelMetrics) error {
	return r.db.WithContext(ctx).Create(metrics).Error
}

// LatestByModel retrieves the most recent metrics snapshot for a model.
// Returns (nil, nil) when the model has never been trained.
func (r *MetricsRepository) LatestByModel(ctx context.Context, modelName string) (*domain.ModelMetrics, error) {
	var metrics domain.ModelMetrics
	err := r.db.WithContext(ctx).
		Where("model_name = ?", modelName).
		Order("created_at DESC").
		First(&metrics).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metrics, nil
}
