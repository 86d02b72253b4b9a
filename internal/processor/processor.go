// Package processor orchestrates the per-message pipeline: dedup, decision,
// persistence, daily counters and relay to the target chats.
package processor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/timmy/leadscout/internal/domain"
	"github.com/timmy/leadscout/internal/engine"
	"github.com/timmy/leadscout/internal/logger"
)

// InboundMessage is one message received from the transport.
type InboundMessage struct {
	MessageID  int64
	Text       string
	Sender     domain.SenderProfile
	ChatTitle  string
	Date       time.Time
	IsOutgoing bool
}

// Evaluator decides whether a message is worth relaying.
type Evaluator interface {
	Evaluate(ctx context.Context, rawText string) engine.Verdict
}

// MessageStore persists processed messages with their decision trail.
type MessageStore interface {
	Upsert(ctx context.Context, msg *domain.Message) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// StatsStore accumulates the daily counters.
type StatsStore interface {
	Increment(ctx context.Context, date string, processed, forwarded, rejected, training int64) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sink delivers an accepted message to one target chat.
type Sink interface {
	Relay(ctx context.Context, targetChatID int64, msg InboundMessage, note string) error
}

// Processor runs the pipeline for every inbound message. The dedup set is
// session-scoped: a restart may re-relay a message, the Upsert keeps the
// stored record single.
type Processor struct {
	eng      Evaluator
	messages MessageStore
	stats    StatsStore
	sink     Sink
	targets  []int64

	mu   sync.Mutex
	seen map[int64]struct{}
}

// New creates a Processor relaying accepted messages to the target chats.
func New(eng Evaluator, messages MessageStore, stats StatsStore, sink Sink, targets []int64) *Processor {
	return &Processor{
		eng:      eng,
		messages: messages,
		stats:    stats,
		sink:     sink,
		targets:  targets,
		seen:     make(map[int64]struct{}),
	}
}

// Handle processes one inbound message end to end and returns its verdict.
// Outgoing and already-seen messages are skipped with a nil verdict.
func (p *Processor) Handle(ctx context.Context, msg InboundMessage) (*engine.Verdict, error) {
	if msg.IsOutgoing {
		return nil, nil
	}

	p.mu.Lock()
	if _, dup := p.seen[msg.MessageID]; dup {
		p.mu.Unlock()
		return nil, nil
	}
	p.seen[msg.MessageID] = struct{}{}
	p.mu.Unlock()

	ctx = logger.SetMessageID(ctx, msg.MessageID)
	v := p.eng.Evaluate(ctx, msg.Text)

	record := &domain.Message{
		MessageID:       msg.MessageID,
		Text:            msg.Text,
		SenderInfo:      domain.FormatSenderInfo(msg.Sender),
		ChatTitle:       msg.ChatTitle,
		MessageDate:     msg.Date.Format(time.RFC3339),
		SimilarityScore: v.Similarity,
		IsFullCycle:     v.IsFullCycle,
		MLProbability:   v.MLProbability,
		Forwarded:       v.Forwarded(),
	}
	// A failed save must not swallow the verdict; the message still counts
	// and still relays, it just cannot receive corrections later.
	if err := p.messages.Upsert(ctx, record); err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "processor",
		}).Error(ctx, "Failed to persist message %d: %v", msg.MessageID, err)
	}

	date := time.Now().Format("2006-01-02")
	var fwd, rej int64
	if v.Forwarded() {
		fwd = 1
	} else {
		rej = 1
	}
	if err := p.stats.Increment(ctx, date, 1, fwd, rej, 0); err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "processor",
		}).Warn(ctx, "Failed to update daily stats: %v", err)
	}

	if !v.Forwarded() {
		return &v, nil
	}

	note := formatTrailNote(msg, v)
	for _, target := range p.targets {
		if err := p.sink.Relay(ctx, target, msg, note); err != nil {
			logger.With(logger.Fields{
				logger.FieldComponent: "processor",
				logger.FieldChat:      target,
			}).Error(ctx, "Failed to relay message: %v", err)
		}
	}

	logger.With(logger.Fields{
		logger.FieldComponent: "processor",
		"reason":              v.Reason,
	}).WithCount(len(p.targets)).Info(ctx, "Message relayed")

	return &v, nil
}

// formatTrailNote renders the annotation sent alongside a relayed message,
// including the correction commands for the feedback loop.
func formatTrailNote(msg InboundMessage, v engine.Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", domain.FormatSenderInfo(msg.Sender))
	if msg.ChatTitle != "" {
		fmt.Fprintf(&b, "Chat: %s\n", msg.ChatTitle)
	}
	if !msg.Date.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", msg.Date.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "Similarity: %.2f", v.Similarity)
	if v.IsFullCycle {
		b.WriteString(" | full cycle")
	}
	if v.MLProbability != nil {
		fmt.Fprintf(&b, " | ML: %.2f", *v.MLProbability)
	}
	fmt.Fprintf(&b, "\nCorrect: /correct_%d | Wrong: /wrong_%d", msg.MessageID, msg.MessageID)
	return b.String()
}

// PurgeHistory deletes processed messages and daily stats older than the
// retention window. Training examples are never touched; corrections stay
// valuable past the life of the message they came from.
func (p *Processor) PurgeHistory(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	msgs, err := p.messages.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge messages: %w", err)
	}
	stats, err := p.stats.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return msgs, fmt.Errorf("failed to purge stats: %w", err)
	}

	logger.With(logger.Fields{
		logger.FieldComponent: "processor",
	}).WithCount(int(msgs + stats)).Info(ctx, "History purged")

	return msgs + stats, nil
}
