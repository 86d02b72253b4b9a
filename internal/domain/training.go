package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Vector is a fixed-length embedding stored as JSON in the database.
type Vector []float32

// Value implements the driver.Valuer interface for database serialization.
func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		*v = Vector{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan Vector")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, v)
}

// TrainingExample is one labeled (text, embedding) pair for the classifier.
// Rows are append-only; they are never edited or purged by retention cleanup.
type TrainingExample struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Embedding Vector    `gorm:"type:text;not null" json:"embedding"`
	Label     int       `gorm:"not null" json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for TrainingExample.
func (TrainingExample) TableName() string {
	return "training_examples"
}

// ModelMetrics is an append-only snapshot of training-set fit quality,
// written after every successful retrain. Latest-by-timestamp is authoritative.
type ModelMetrics struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	ModelName        string    `gorm:"type:text;not null;index:idx_model_metrics_name" json:"model_name"`
	Accuracy         float64   `json:"accuracy"`
	Precision        float64   `gorm:"column:precision_score" json:"precision"`
	Recall           float64   `gorm:"column:recall_score" json:"recall"`
	F1               float64   `gorm:"column:f1_score" json:"f1"`
	TrainingExamples int       `json:"training_examples"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name for ModelMetrics.
func (ModelMetrics) TableName() string {
	return "model_metrics"
}
