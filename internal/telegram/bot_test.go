package telegram

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/timmy/leadscout/internal/classifier"
	"github.com/timmy/leadscout/internal/domain"
)

func TestCorrectionCommandPatterns(t *testing.T) {
	tests := []struct {
		text      string
		isCorrect bool
		isWrong   bool
		wantID    string
	}{
		{"/correct_123", true, false, "123"},
		{"/wrong_7", false, true, "7"},
		{"/correct_", false, false, ""},
		{"/correct_12x", false, false, ""},
		{"prefix /correct_1", false, false, ""},
		{"/train", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			mc := correctRe.FindStringSubmatch(tt.text)
			mw := wrongRe.FindStringSubmatch(tt.text)
			if (mc != nil) != tt.isCorrect {
				t.Errorf("correctRe match = %v, want %v", mc != nil, tt.isCorrect)
			}
			if (mw != nil) != tt.isWrong {
				t.Errorf("wrongRe match = %v, want %v", mw != nil, tt.isWrong)
			}
			if tt.isCorrect && mc[1] != tt.wantID {
				t.Errorf("extracted ID = %q, want %q", mc[1], tt.wantID)
			}
			if tt.isWrong && mw[1] != tt.wantID {
				t.Errorf("extracted ID = %q, want %q", mw[1], tt.wantID)
			}
		})
	}
}

func TestSenderProfile(t *testing.T) {
	tests := []struct {
		name string
		msg  *tgbotapi.Message
		want domain.SenderProfile
	}{
		{
			name: "regular user",
			msg: &tgbotapi.Message{
				From: &tgbotapi.User{FirstName: "Ann", LastName: "Lee", UserName: "annlee"},
				Chat: &tgbotapi.Chat{Title: "Some Chat"},
			},
			want: domain.SenderProfile{DisplayName: "Ann Lee", Username: "annlee"},
		},
		{
			name: "channel post",
			msg: &tgbotapi.Message{
				SenderChat: &tgbotapi.Chat{Title: "News Channel", UserName: "newschan"},
				Chat:       &tgbotapi.Chat{Title: "News Channel"},
			},
			want: domain.SenderProfile{Title: "News Channel", Username: "newschan"},
		},
		{
			name: "no sender at all",
			msg:  &tgbotapi.Message{Chat: &tgbotapi.Chat{Title: "Some Chat"}},
			want: domain.SenderProfile{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := senderProfile(tt.msg); got != tt.want {
				t.Errorf("senderProfile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type stubTrainer struct{ stats classifier.Stats }

func (s stubTrainer) Train(ctx context.Context) bool { return false }
func (s stubTrainer) Stats() classifier.Stats        { return s.stats }

type stubStats struct{ summary domain.StatsSummary }

func (s stubStats) Summary(ctx context.Context, days int) (*domain.StatsSummary, error) {
	return &s.summary, nil
}

func TestFormatStats(t *testing.T) {
	b := &Bot{
		trainer: stubTrainer{stats: classifier.Stats{
			ModelName:        "production_classifier",
			TrainingExamples: 10,
			PositiveExamples: 6,
			NegativeExamples: 4,
			Metrics:          &domain.ModelMetrics{Accuracy: 0.9, F1: 0.88},
		}},
		stats: stubStats{summary: domain.StatsSummary{
			TotalProcessed: 200,
			TotalForwarded: 40,
			TotalRejected:  160,
			ForwardRate:    0.2,
		}},
	}

	text := b.formatStats(context.Background())
	for _, want := range []string{
		"Processed: 200",
		"Forwarded: 40",
		"Forward rate: 20.0%",
		"10 examples (6+/4-)",
		"Accuracy: 0.90",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("stats text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatStatsUntrained(t *testing.T) {
	b := &Bot{
		trainer: stubTrainer{stats: classifier.Stats{ModelName: "production_classifier"}},
		stats:   stubStats{},
	}

	if text := b.formatStats(context.Background()); !strings.Contains(text, "not trained") {
		t.Errorf("expected untrained notice, got:\n%s", text)
	}
}
