package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/timmy/leadscout/internal/domain"
	"github.com/timmy/leadscout/internal/embedding"
	"github.com/timmy/leadscout/internal/logger"
	"github.com/timmy/leadscout/internal/textproc"
)

// TrainingStore persists labeled examples.
type TrainingStore interface {
	Append(ctx context.Context, example *domain.TrainingExample) error
	ListAll(ctx context.Context) ([]domain.TrainingExample, error)
	Count(ctx context.Context) (int64, error)
}

// MetricsStore persists training metrics snapshots.
type MetricsStore interface {
	Create(ctx context.Context, metrics *domain.ModelMetrics) error
	LatestByModel(ctx context.Context, modelName string) (*domain.ModelMetrics, error)
}

// Config controls training thresholds.
type Config struct {
	ModelName           string
	MinTrainingExamples int
	AutoTrainEvery      int
}

// Classifier accumulates labeled examples and trains a logistic regression
// over their embeddings. Until the first successful training it predicts
// nothing and callers fall back to heuristics.
type Classifier struct {
	mu       sync.RWMutex
	model    *logisticModel
	examples []domain.TrainingExample
	metrics  *domain.ModelMetrics

	provider embedding.Provider
	training TrainingStore
	store    MetricsStore

	modelName      string
	minExamples    int
	autoTrainEvery int
}

// New loads persisted examples, restores the latest metrics snapshot and
// retrains from scratch when enough examples exist. Model weights are not
// persisted; the example log is the source of truth.
func New(ctx context.Context, cfg Config, provider embedding.Provider, training TrainingStore, store MetricsStore) (*Classifier, error) {
	if cfg.MinTrainingExamples < 2 {
		cfg.MinTrainingExamples = 2
	}
	if cfg.AutoTrainEvery < 1 {
		cfg.AutoTrainEvery = 1
	}

	c := &Classifier{
		provider:       provider,
		training:       training,
		store:          store,
		modelName:      cfg.ModelName,
		minExamples:    cfg.MinTrainingExamples,
		autoTrainEvery: cfg.AutoTrainEvery,
	}

	examples, err := training.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load training examples: %w", err)
	}
	c.examples = examples

	metrics, err := store.LatestByModel(ctx, cfg.ModelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load model metrics: %w", err)
	}
	c.metrics = metrics

	if len(examples) >= c.minExamples {
		if trained := c.Train(ctx); trained {
			logger.With(logger.Fields{
				logger.FieldComponent: "classifier",
				logger.FieldModel:     c.modelName,
			}).WithCount(len(examples)).Info(ctx, "Classifier restored from persisted examples")
		}
	}

	return c, nil
}

// AddExample embeds and persists a labeled example, then retrains when the
// accumulated count crosses the auto-train schedule. Returns whether a
// retrain happened.
func (c *Classifier) AddExample(ctx context.Context, text string, label int) (bool, error) {
	normalized := textproc.Normalize(text)
	if normalized == "" {
		return false, fmt.Errorf("example text is empty after normalization")
	}

	vectors, err := c.provider.Embed(ctx, []string{normalized})
	if err != nil {
		return false, fmt.Errorf("failed to embed training example: %w", err)
	}

	example := domain.TrainingExample{
		Text:      normalized,
		Embedding: domain.Vector(vectors[0]),
		Label:     label,
	}
	if err := c.training.Append(ctx, &example); err != nil {
		return false, fmt.Errorf("failed to persist training example: %w", err)
	}

	c.mu.Lock()
	c.examples = append(c.examples, example)
	count := len(c.examples)
	c.mu.Unlock()

	logger.With(logger.Fields{
		logger.FieldComponent: "classifier",
		"label":               label,
	}).WithCount(count).Info(ctx, "Training example added")

	if count >= c.minExamples && count%c.autoTrainEvery == 0 {
		return c.Train(ctx), nil
	}
	return false, nil
}

// Train retrains the model from the in-memory example set. Returns false when
// there are too few examples or only one distinct label.
func (c *Classifier) Train(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trainLocked(ctx)
}

func (c *Classifier) trainLocked(ctx context.Context) bool {
	if len(c.examples) < c.minExamples {
		return false
	}

	X := make([][]float32, len(c.examples))
	y := make([]int, len(c.examples))
	labels := make(map[int]struct{})
	for i, ex := range c.examples {
		X[i] = ex.Embedding
		y[i] = ex.Label
		labels[ex.Label] = struct{}{}
	}
	if len(labels) < 2 {
		logger.With(logger.Fields{
			logger.FieldComponent: "classifier",
		}).WithCount(len(c.examples)).Warn(ctx, "Skipping training, only one class present")
		return false
	}

	model := fitLogistic(X, y, balancedSampleWeights(y))
	if model == nil {
		return false
	}

	yPred := make([]int, len(X))
	for i, x := range X {
		if model.predictProba(x) > 0.5 {
			yPred[i] = 1
		}
	}
	eval := evaluate(y, yPred)

	metrics := &domain.ModelMetrics{
		ModelName:        c.modelName,
		Accuracy:         eval.Accuracy,
		Precision:        eval.Precision,
		Recall:           eval.Recall,
		F1:               eval.F1,
		TrainingExamples: len(c.examples),
	}
	if err := c.store.Create(ctx, metrics); err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "classifier",
		}).Error(ctx, "Failed to persist model metrics: %v", err)
	}

	c.model = model
	c.metrics = metrics

	logger.With(logger.Fields{
		logger.FieldComponent: "classifier",
		logger.FieldModel:     c.modelName,
		"accuracy":            eval.Accuracy,
		"f1":                  eval.F1,
	}).WithCount(len(c.examples)).Info(ctx, "Classifier trained")
	return true
}

// Predict returns the positive-class probability for text, or nil when the
// model has not been trained yet. Embedding failures also return nil so the
// caller falls back to heuristics.
func (c *Classifier) Predict(ctx context.Context, text string) *float64 {
	c.mu.RLock()
	model := c.model
	c.mu.RUnlock()
	if model == nil {
		return nil
	}

	normalized := textproc.Normalize(text)
	if normalized == "" {
		return nil
	}

	vectors, err := c.provider.Embed(ctx, []string{normalized})
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "classifier",
		}).Warn(ctx, "Embedding failed, skipping prediction: %v", err)
		return nil
	}

	p := model.predictProba(vectors[0])
	return &p
}

// PredictBatch returns one probability per text, nil entries where the
// model is untrained, the text normalizes to empty, or embedding failed.
// Texts are embedded in a single provider call.
func (c *Classifier) PredictBatch(ctx context.Context, texts []string) []*float64 {
	out := make([]*float64, len(texts))

	c.mu.RLock()
	model := c.model
	c.mu.RUnlock()
	if model == nil {
		return out
	}

	normalized := make([]string, 0, len(texts))
	index := make([]int, 0, len(texts))
	for i, text := range texts {
		if n := textproc.Normalize(text); n != "" {
			normalized = append(normalized, n)
			index = append(index, i)
		}
	}
	if len(normalized) == 0 {
		return out
	}

	vectors, err := c.provider.Embed(ctx, normalized)
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "classifier",
		}).WithCount(len(normalized)).Warn(ctx, "Batch embedding failed, skipping predictions: %v", err)
		return out
	}

	for j, vec := range vectors {
		p := model.predictProba(vec)
		out[index[j]] = &p
	}
	return out
}

// Trained reports whether a usable model exists.
func (c *Classifier) Trained() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model != nil
}

// Stats describes the classifier state for reporting.
type Stats struct {
	ModelName        string               `json:"model_name"`
	Trained          bool                 `json:"trained"`
	TrainingExamples int                  `json:"training_examples"`
	PositiveExamples int                  `json:"positive_examples"`
	NegativeExamples int                  `json:"negative_examples"`
	Metrics          *domain.ModelMetrics `json:"metrics,omitempty"`
}

// Stats returns a snapshot of the classifier state.
func (c *Classifier) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		ModelName:        c.modelName,
		Trained:          c.model != nil,
		TrainingExamples: len(c.examples),
		Metrics:          c.metrics,
	}
	for _, ex := range c.examples {
		if ex.Label == 1 {
			s.PositiveExamples++
		} else {
			s.NegativeExamples++
		}
	}
	return s
}

// Seed adds labeled bootstrap examples only when the store is empty, so a
// fresh deployment can train before any human feedback arrives.
func (c *Classifier) Seed(ctx context.Context, positive, negative []string) error {
	count, err := c.training.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count training examples: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, text := range positive {
		if _, err := c.AddExample(ctx, text, 1); err != nil {
			return err
		}
	}
	for _, text := range negative {
		if _, err := c.AddExample(ctx, text, 0); err != nil {
			return err
		}
	}
	return nil
}
