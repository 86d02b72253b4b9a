package domain

import "time"

// DailyStats accumulates per-day processing counters.
type DailyStats struct {
	ID                    uint      `gorm:"primaryKey" json:"-"`
	Date                  string    `gorm:"type:text;not null;uniqueIndex:idx_daily_stats_date" json:"date"`
	MessagesProcessed     int64     `json:"messages_processed"`
	MessagesForwarded     int64     `json:"messages_forwarded"`
	MessagesRejected      int64     `json:"messages_rejected"`
	TrainingExamplesAdded int64     `json:"training_examples_added"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName returns the database table name for DailyStats.
func (DailyStats) TableName() string {
	return "daily_stats"
}

// StatsSummary aggregates daily counters over a trailing window.
type StatsSummary struct {
	TotalProcessed int64   `json:"total_processed"`
	TotalForwarded int64   `json:"total_forwarded"`
	TotalRejected  int64   `json:"total_rejected"`
	TotalTraining  int64   `json:"total_training"`
	ActiveDays     int64   `json:"active_days"`
	ForwardRate    float64 `json:"forward_rate"`
}
