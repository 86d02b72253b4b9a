// Package telegram adapts the message pipeline to the Telegram Bot API:
// it feeds group messages into the processor, serves the operator command
// surface and delivers accepted messages to the target chats.
package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/timmy/leadscout/internal/classifier"
	"github.com/timmy/leadscout/internal/domain"
	"github.com/timmy/leadscout/internal/engine"
	"github.com/timmy/leadscout/internal/feedback"
	"github.com/timmy/leadscout/internal/logger"
	"github.com/timmy/leadscout/internal/processor"
)

var (
	correctRe = regexp.MustCompile(`^/correct_(\d+)$`)
	wrongRe   = regexp.MustCompile(`^/wrong_(\d+)$`)
)

// Pipeline is the message-processing side the bot feeds into.
type Pipeline interface {
	Handle(ctx context.Context, msg processor.InboundMessage) (*engine.Verdict, error)
	PurgeHistory(ctx context.Context, retention time.Duration) (int64, error)
}

// Corrections applies operator feedback to processed messages.
type Corrections interface {
	MarkRelevant(ctx context.Context, messageID int64) (*feedback.Result, error)
	MarkIrrelevant(ctx context.Context, messageID int64) (*feedback.Result, error)
}

// Trainer exposes on-demand training and classifier state.
type Trainer interface {
	Train(ctx context.Context) bool
	Stats() classifier.Stats
}

// StatsSource aggregates the daily processing counters.
type StatsSource interface {
	Summary(ctx context.Context, days int) (*domain.StatsSummary, error)
}

// Bot wires the Telegram transport to the pipeline. A nil Bot is valid and
// inert, so callers need no enabled-checks at every call site.
type Bot struct {
	api         *tgbotapi.BotAPI
	pipeline    Pipeline
	corrections Corrections
	trainer     Trainer
	stats       StatsSource
	retention   time.Duration
}

// NewBot authorizes against the Bot API. Returns (nil, nil) when the token
// is empty, which disables the transport. The pipeline is attached with
// SetPipeline once the processor exists; the bot relays for the processor
// and feeds it, so one of the two references is set late.
func NewBot(token string, corrections Corrections, trainer Trainer, stats StatsSource, retention time.Duration) (*Bot, error) {
	if token == "" {
		logger.Info("Telegram bot is disabled (no token configured)")
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized as @%s", api.Self.UserName)

	return &Bot{
		api:         api,
		corrections: corrections,
		trainer:     trainer,
		stats:       stats,
		retention:   retention,
	}, nil
}

// SetPipeline attaches the message pipeline. Safe on a nil Bot.
func (b *Bot) SetPipeline(pipeline Pipeline) {
	if b == nil {
		return
	}
	b.pipeline = pipeline
}

// Start consumes updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b == nil {
		return nil
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	logger.CtxInfo(ctx, "Telegram bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			logger.CtxInfo(ctx, "Telegram bot shutting down")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleUpdate(ctx, update.Message)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Text == "" {
		return
	}
	if msg.IsCommand() || correctRe.MatchString(msg.Text) || wrongRe.MatchString(msg.Text) {
		b.handleCommand(ctx, msg)
		return
	}
	if b.pipeline == nil {
		return
	}

	inbound := processor.InboundMessage{
		MessageID: int64(msg.MessageID),
		Text:      msg.Text,
		Sender:    senderProfile(msg),
		ChatTitle: msg.Chat.Title,
		Date:      msg.Time(),
	}
	if _, err := b.pipeline.Handle(ctx, inbound); err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "telegram",
			logger.FieldMessageID: inbound.MessageID,
		}).Error(ctx, "Failed to process message: %v", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	text := msg.Text
	chatID := msg.Chat.ID

	if m := correctRe.FindStringSubmatch(text); m != nil {
		b.applyCorrection(ctx, chatID, m[1], true)
		return
	}
	if m := wrongRe.FindStringSubmatch(text); m != nil {
		b.applyCorrection(ctx, chatID, m[1], false)
		return
	}

	switch msg.Command() {
	case "train":
		if b.trainer.Train(ctx) {
			b.reply(ctx, chatID, "Model retrained.")
		} else {
			b.reply(ctx, chatID, "Not enough labeled examples to train yet.")
		}
	case "stats":
		b.reply(ctx, chatID, b.formatStats(ctx))
	case "clear_history":
		n, err := b.pipeline.PurgeHistory(ctx, b.retention)
		if err != nil {
			b.reply(ctx, chatID, "Failed to clear history.")
			return
		}
		b.reply(ctx, chatID, fmt.Sprintf("Removed %d old records. Training examples are kept.", n))
	case "help", "start":
		b.reply(ctx, chatID, helpText)
	default:
		b.reply(ctx, chatID, "Unknown command. Send /help for the command list.")
	}
}

const helpText = `Commands:
/correct_<id> - mark a relayed message as relevant
/wrong_<id> - mark a relayed message as irrelevant
/train - retrain the classifier now
/stats - processing and model statistics
/clear_history - purge old messages and counters
/help - this message`

func (b *Bot) applyCorrection(ctx context.Context, chatID int64, rawID string, relevant bool) {
	messageID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.reply(ctx, chatID, "Invalid message ID.")
		return
	}

	var res *feedback.Result
	if relevant {
		res, err = b.corrections.MarkRelevant(ctx, messageID)
	} else {
		res, err = b.corrections.MarkIrrelevant(ctx, messageID)
	}
	if err != nil {
		if err == feedback.ErrNotFound {
			b.reply(ctx, chatID, fmt.Sprintf("Message %d not found.", messageID))
		} else {
			b.reply(ctx, chatID, "Failed to record the correction.")
		}
		return
	}

	answer := fmt.Sprintf("Recorded message %d as label %d.", res.MessageID, res.Label)
	if res.Retrained {
		answer += " Model retrained."
	}
	b.reply(ctx, chatID, answer)
}

func (b *Bot) formatStats(ctx context.Context) string {
	summary, err := b.stats.Summary(ctx, 7)
	if err != nil {
		return "Failed to load statistics."
	}
	cs := b.trainer.Stats()

	text := fmt.Sprintf(
		"Last 7 days:\nProcessed: %d\nForwarded: %d\nRejected: %d\nForward rate: %.1f%%\n\nModel %q: %d examples (%d+/%d-)",
		summary.TotalProcessed, summary.TotalForwarded, summary.TotalRejected,
		summary.ForwardRate*100,
		cs.ModelName, cs.TrainingExamples, cs.PositiveExamples, cs.NegativeExamples,
	)
	if cs.Metrics != nil {
		text += fmt.Sprintf("\nAccuracy: %.2f, F1: %.2f", cs.Metrics.Accuracy, cs.Metrics.F1)
	} else {
		text += "\nModel not trained yet."
	}
	return text
}

// Relay implements processor.Sink: the accepted message text is sent to the
// target chat followed by the decision trail note.
func (b *Bot) Relay(ctx context.Context, targetChatID int64, msg processor.InboundMessage, note string) error {
	if b == nil {
		return nil
	}

	out := tgbotapi.NewMessage(targetChatID, msg.Text)
	if _, err := b.api.Send(out); err != nil {
		return fmt.Errorf("failed to relay message %d: %w", msg.MessageID, err)
	}

	annotation := tgbotapi.NewMessage(targetChatID, note)
	annotation.DisableNotification = true
	if _, err := b.api.Send(annotation); err != nil {
		return fmt.Errorf("failed to send trail note for message %d: %w", msg.MessageID, err)
	}
	return nil
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "telegram",
			logger.FieldChat:      chatID,
		}).Error(ctx, "Failed to send reply: %v", err)
	}
}

func senderProfile(msg *tgbotapi.Message) domain.SenderProfile {
	var p domain.SenderProfile
	if msg.From != nil {
		p.DisplayName = msg.From.FirstName
		if msg.From.LastName != "" {
			p.DisplayName += " " + msg.From.LastName
		}
		p.Username = msg.From.UserName
	} else if msg.SenderChat != nil {
		// Channel or anonymous-admin posts carry the chat identity instead.
		p.Title = msg.SenderChat.Title
		p.Username = msg.SenderChat.UserName
	}
	return p
}
