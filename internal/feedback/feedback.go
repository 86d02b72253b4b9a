// Package feedback turns human corrections on processed messages into
// labeled training examples for the classifier.
package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/timmy/leadscout/internal/domain"
	"github.com/timmy/leadscout/internal/logger"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the referenced message was never processed
// or has already been purged by retention cleanup.
var ErrNotFound = errors.New("message not found")

// MessageStore looks up processed messages by their chat message ID.
type MessageStore interface {
	GetByMessageID(ctx context.Context, messageID int64) (*domain.Message, error)
}

// Trainer accepts labeled examples and reports whether a retrain happened.
type Trainer interface {
	AddExample(ctx context.Context, text string, label int) (bool, error)
}

// Result describes the effect of one correction.
type Result struct {
	MessageID int64 `json:"message_id"`
	Label     int   `json:"label"`
	Retrained bool  `json:"retrained"`
}

// Loop routes corrections to the classifier. Training examples are
// append-only, so repeated corrections on the same message accumulate
// and the newest signal dominates through retraining.
type Loop struct {
	messages MessageStore
	trainer  Trainer
}

// NewLoop creates a feedback loop over the given stores.
func NewLoop(messages MessageStore, trainer Trainer) *Loop {
	return &Loop{messages: messages, trainer: trainer}
}

// MarkRelevant records the message as a positive example.
func (l *Loop) MarkRelevant(ctx context.Context, messageID int64) (*Result, error) {
	return l.mark(ctx, messageID, 1)
}

// MarkIrrelevant records the message as a negative example.
func (l *Loop) MarkIrrelevant(ctx context.Context, messageID int64) (*Result, error) {
	return l.mark(ctx, messageID, 0)
}

func (l *Loop) mark(ctx context.Context, messageID int64, label int) (*Result, error) {
	msg, err := l.messages.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load message %d: %w", messageID, err)
	}

	retrained, err := l.trainer.AddExample(ctx, msg.Text, label)
	if err != nil {
		return nil, fmt.Errorf("failed to record correction for message %d: %w", messageID, err)
	}

	logger.With(logger.Fields{
		logger.FieldComponent: "feedback",
		logger.FieldMessageID: messageID,
		"label":               label,
		"retrained":           retrained,
	}).Info(ctx, "Correction recorded")

	return &Result{MessageID: messageID, Label: label, Retrained: retrained}, nil
}
