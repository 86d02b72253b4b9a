package engine

import (
	"context"
	"testing"

	"github.com/timmy/leadscout/internal/config"
)

type fixedScorer struct{ score float64 }

func (s fixedScorer) Score(ctx context.Context, text string) float64 { return s.score }

type fixedPredictor struct{ p *float64 }

func (f fixedPredictor) Predict(ctx context.Context, text string) *float64 { return f.p }

func floatPtr(v float64) *float64 { return &v }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Filter.MinMessageLength = 5
	cfg.Filter.BlacklistWords = []string{"spam", "casino"}
	cfg.Filter.ForwardPatterns = []string{"forwarded message", "forwarded from"}
	cfg.Business.FullCyclePhrases = []string{"full cycle", "turnkey"}
	cfg.Business.PlanningTerms = []string{"concept", "planning"}
	cfg.Business.ProductionTerms = []string{"production", "filming"}
	cfg.Business.CompletionTerms = []string{"delivery", "final"}
	cfg.Business.CompletenessMarkers = []string{"full", "comprehensive"}
	cfg.ML.SimilarityThreshold = 0.7
	return cfg
}

func newTestEngine(t *testing.T, score float64, p *float64) *Engine {
	t.Helper()
	e, err := New(testConfig(), fixedScorer{score}, fixedPredictor{p})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestEvaluateRejectionFilters(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantReason string
	}{
		{"empty text", "", ReasonEmpty},
		{"only links and tags", "https://t.me/chan #promo @user", ReasonEmpty},
		{"forward notification", "This forwarded message came from another chat", ReasonForwardNotice},
		{"four words", "need a video edit", ReasonTooShort},
		{"blacklisted word", "huge casino bonus for new players today", ReasonBlacklisted},
	}

	// High similarity so only the filter chain can reject.
	e := newTestEngine(t, 0.99, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := e.Evaluate(context.Background(), tt.text)
			if v.Decision != DecisionReject {
				t.Fatalf("Decision = %v, want reject", v.Decision)
			}
			if v.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", v.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateBlacklistWholeWordOnly(t *testing.T) {
	e := newTestEngine(t, 0.99, nil)

	v := e.Evaluate(context.Background(), "we are spamming them with great offers daily")
	if v.Reason == ReasonBlacklisted {
		t.Error("substring inside a longer word triggered the blacklist")
	}
}

func TestEvaluateHeuristicsWithoutModel(t *testing.T) {
	tests := []struct {
		name       string
		score      float64
		text       string
		want       Decision
		wantReason string
	}{
		{
			name:       "similarity above threshold",
			score:      0.75,
			text:       "looking for someone to film our event",
			want:       DecisionForward,
			wantReason: ReasonSimilarity,
		},
		{
			name:       "similarity below threshold",
			score:      0.65,
			text:       "looking for someone to paint our office",
			want:       DecisionReject,
			wantReason: ReasonNoSignal,
		},
		{
			name:       "full cycle overrides low similarity",
			score:      0.1,
			text:       "we handle concept planning production filming and final delivery",
			want:       DecisionForward,
			wantReason: ReasonFullCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.score, nil)
			v := e.Evaluate(context.Background(), tt.text)
			if v.Decision != tt.want {
				t.Fatalf("Decision = %v, want %v", v.Decision, tt.want)
			}
			if v.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", v.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateModelSupersedesHeuristics(t *testing.T) {
	ctx := context.Background()

	// Negative model verdict beats strong heuristic signals.
	e := newTestEngine(t, 0.95, floatPtr(0.2))
	v := e.Evaluate(ctx, "full cycle production from concept to final delivery")
	if v.Decision != DecisionReject || v.Reason != ReasonMLNegative {
		t.Errorf("got (%v, %q), want model rejection", v.Decision, v.Reason)
	}
	if !v.IsFullCycle {
		t.Error("full-cycle signal should still be recorded on the verdict")
	}

	// Positive model verdict beats absent heuristic signals.
	e = newTestEngine(t, 0.1, floatPtr(0.8))
	v = e.Evaluate(ctx, "completely unrelated message about garden furniture")
	if v.Decision != DecisionForward || v.Reason != ReasonMLPositive {
		t.Errorf("got (%v, %q), want model acceptance", v.Decision, v.Reason)
	}
	if v.MLProbability == nil || *v.MLProbability != 0.8 {
		t.Error("model probability missing from verdict")
	}
}

func TestEvaluateBoundaryProbability(t *testing.T) {
	// Exactly 0.5 is not positive.
	e := newTestEngine(t, 0.0, floatPtr(0.5))
	v := e.Evaluate(context.Background(), "some borderline message about many things")
	if v.Decision != DecisionReject || v.Reason != ReasonMLNegative {
		t.Errorf("got (%v, %q), want rejection at p = 0.5", v.Decision, v.Reason)
	}
}
