package engine

import (
	"context"
	"fmt"
	"regexp"

	"github.com/timmy/leadscout/internal/config"
	"github.com/timmy/leadscout/internal/logger"
	"github.com/timmy/leadscout/internal/textproc"
)

// Decision is the outcome of evaluating one message.
type Decision string

const (
	DecisionForward Decision = "forward"
	DecisionReject  Decision = "reject"
)

// Rejection and acceptance reasons recorded on each verdict.
const (
	ReasonEmpty         = "empty_after_normalization"
	ReasonForwardNotice = "forward_notification"
	ReasonTooShort      = "too_short"
	ReasonBlacklisted   = "blacklisted"
	ReasonMLPositive    = "ml_positive"
	ReasonMLNegative    = "ml_negative"
	ReasonFullCycle     = "full_cycle"
	ReasonSimilarity    = "keyword_similarity"
	ReasonNoSignal      = "no_signal"
)

// Verdict is the full evaluation trail for one message.
type Verdict struct {
	Decision      Decision `json:"decision"`
	Reason        string   `json:"reason"`
	Normalized    string   `json:"normalized"`
	Similarity    float64  `json:"similarity"`
	IsFullCycle   bool     `json:"is_full_cycle"`
	MLProbability *float64 `json:"ml_probability,omitempty"`
}

// Forwarded reports whether the verdict accepts the message.
func (v Verdict) Forwarded() bool {
	return v.Decision == DecisionForward
}

// Scorer scores text relevance against the business keywords.
type Scorer interface {
	Score(ctx context.Context, text string) float64
}

// Predictor returns a relevance probability, or nil when no model exists.
type Predictor interface {
	Predict(ctx context.Context, text string) *float64
}

// Engine applies the filter chain and relevance signals to raw message text.
// Cheap rejection filters run first; a trained model's verdict supersedes
// the similarity and full-cycle heuristics.
type Engine struct {
	scorer    Scorer
	predictor Predictor
	fullCycle *textproc.FullCycleDetector

	forwardPatterns []*regexp.Regexp
	blacklist       []string
	minWords        int
	simThreshold    float64
}

// New builds an Engine from the filter and business configuration.
func New(cfg *config.Config, scorer Scorer, predictor Predictor) (*Engine, error) {
	patterns, err := textproc.CompileForwardPatterns(cfg.Filter.ForwardPatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to compile forward patterns: %w", err)
	}

	return &Engine{
		scorer:    scorer,
		predictor: predictor,
		fullCycle: textproc.NewFullCycleDetector(&textproc.FullCycleConfig{
			Phrases:         cfg.Business.FullCyclePhrases,
			PlanningTerms:   cfg.Business.PlanningTerms,
			ProductionTerms: cfg.Business.ProductionTerms,
			CompletionTerms: cfg.Business.CompletionTerms,
			Markers:         cfg.Business.CompletenessMarkers,
		}),
		forwardPatterns: patterns,
		blacklist:       cfg.Filter.BlacklistWords,
		minWords:        cfg.Filter.MinMessageLength,
		simThreshold:    cfg.ML.SimilarityThreshold,
	}, nil
}

// Evaluate runs the full decision chain on raw message text.
func (e *Engine) Evaluate(ctx context.Context, rawText string) Verdict {
	normalized := textproc.Normalize(rawText)

	if normalized == "" {
		return Verdict{Decision: DecisionReject, Reason: ReasonEmpty}
	}
	if textproc.IsForwardNotification(rawText, e.forwardPatterns) {
		return Verdict{Decision: DecisionReject, Reason: ReasonForwardNotice, Normalized: normalized}
	}
	if textproc.IsTooShort(normalized, e.minWords) {
		return Verdict{Decision: DecisionReject, Reason: ReasonTooShort, Normalized: normalized}
	}
	if textproc.ContainsBlacklisted(normalized, e.blacklist) {
		return Verdict{Decision: DecisionReject, Reason: ReasonBlacklisted, Normalized: normalized}
	}

	v := Verdict{
		Normalized:  normalized,
		Similarity:  e.scorer.Score(ctx, normalized),
		IsFullCycle: e.fullCycle.Detect(normalized),
	}
	v.MLProbability = e.predictor.Predict(ctx, normalized)

	switch {
	case v.MLProbability != nil:
		if *v.MLProbability > 0.5 {
			v.Decision, v.Reason = DecisionForward, ReasonMLPositive
		} else {
			v.Decision, v.Reason = DecisionReject, ReasonMLNegative
		}
	case v.IsFullCycle:
		v.Decision, v.Reason = DecisionForward, ReasonFullCycle
	case v.Similarity > e.simThreshold:
		v.Decision, v.Reason = DecisionForward, ReasonSimilarity
	default:
		v.Decision, v.Reason = DecisionReject, ReasonNoSignal
	}

	logger.With(logger.Fields{
		logger.FieldComponent: "engine",
		"decision":            string(v.Decision),
		"reason":              v.Reason,
		"similarity":          v.Similarity,
	}).Debug(ctx, "Message evaluated")

	return v
}
