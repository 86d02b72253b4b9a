package repository

import (
	"context"
	"time"

	"github.com/timmy/leadscout/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository handles per-day processing counters.
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Increment adds the given deltas to the counters for the date, creating
// the row if it does not exist yet.
func (r *StatsRepository) Increment(ctx context.Context, date string, processed, forwarded, rejected, training int64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"messages_processed":      gorm.Expr("messages_processed + ?", processed),
			"messages_forwarded":      gorm.Expr("messages_forwarded + ?", forwarded),
			"messages_rejected":       gorm.Expr("messages_rejected + ?", rejected),
			"training_examples_added": gorm.Expr("training_examples_added + ?", training),
			"updated_at":              time.Now(),
		}),
	}).Create(&domain.DailyStats{
		Date:                  date,
		MessagesProcessed:     processed,
		MessagesForwarded:     forwarded,
		MessagesRejected:      rejected,
		TrainingExamplesAdded: training,
	}).Error
}

// Summary aggregates counters over the trailing number of days.
func (r *StatsRepository) Summary(ctx context.Context, days int) (*domain.StatsSummary, error) {
	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	var row struct {
		TotalProcessed int64
		TotalForwarded int64
		TotalRejected  int64
		TotalTraining  int64
		ActiveDays     int64
	}
	err := r.db.WithContext(ctx).Model(&domain.DailyStats{}).
		Select(
			"COALESCE(SUM(messages_processed),0) AS total_processed, " +
				"COALESCE(SUM(messages_forwarded),0) AS total_forwarded, " +
				"COALESCE(SUM(messages_rejected),0) AS total_rejected, " +
				"COALESCE(SUM(training_examples_added),0) AS total_training, " +
				"COUNT(*) AS active_days").
		Where("date >= ?", since).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	summary := &domain.StatsSummary{
		TotalProcessed: row.TotalProcessed,
		TotalForwarded: row.TotalForwarded,
		TotalRejected:  row.TotalRejected,
		TotalTraining:  row.TotalTraining,
		ActiveDays:     row.ActiveDays,
	}
	if row.TotalProcessed > 0 {
		summary.ForwardRate = float64(row.TotalForwarded) / float64(row.TotalProcessed)
	}
	return summary, nil
}

// PurgeOlderThan deletes daily stats rows with dates before the cutoff.
func (r *StatsRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("date < ?", cutoff.Format("2006-01-02")).
		Delete(&domain.DailyStats{})
	return res.RowsAffected, res.Error
}
