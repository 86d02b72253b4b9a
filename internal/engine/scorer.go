package engine

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/timmy/leadscout/internal/embedding"
	"github.com/timmy/leadscout/internal/logger"
)

// SimilarityScorer scores text against the configured business keywords by
// maximum cosine similarity over their embeddings. Keyword vectors are
// fetched once and cached; any embedding failure scores 0.0 so a provider
// outage degrades to the other heuristics instead of blocking messages.
type SimilarityScorer struct {
	provider embedding.Provider
	keywords []string

	mu      sync.Mutex
	vectors [][]float32
}

// NewSimilarityScorer creates a scorer for the given keywords.
// Keywords are lower-cased; embedding is deferred to the first Score call.
func NewSimilarityScorer(provider embedding.Provider, keywords []string) *SimilarityScorer {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(strings.ToLower(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	return &SimilarityScorer{
		provider: provider,
		keywords: lowered,
	}
}

// Score returns the maximum cosine similarity between the text and any
// keyword, or 0.0 when there are no keywords or embedding fails.
func (s *SimilarityScorer) Score(ctx context.Context, text string) float64 {
	if text == "" || len(s.keywords) == 0 {
		return 0.0
	}

	keywordVecs, err := s.keywordVectors(ctx)
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "scorer",
		}).Warn(ctx, "Keyword embedding failed, scoring 0: %v", err)
		return 0.0
	}

	textVecs, err := s.provider.Embed(ctx, []string{strings.ToLower(text)})
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "scorer",
		}).Warn(ctx, "Text embedding failed, scoring 0: %v", err)
		return 0.0
	}

	best := 0.0
	for _, kv := range keywordVecs {
		if sim := cosineSimilarity(textVecs[0], kv); sim > best {
			best = sim
		}
	}
	return best
}

func (s *SimilarityScorer) keywordVectors(ctx context.Context) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vectors != nil {
		return s.vectors, nil
	}

	vectors, err := s.provider.Embed(ctx, s.keywords)
	if err != nil {
		return nil, err
	}
	s.vectors = vectors
	return vectors, nil
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector has zero norm.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
