package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/timmy/leadscout/internal/domain"
)

// fakeProvider embeds texts along two axes so the model can separate them:
// production vocabulary pulls toward [1,0], everything else toward [0,1].
type fakeProvider struct {
	err error
}

func (f *fakeProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.Contains(text, "video") || strings.Contains(text, "production") {
			out[i] = []float32{1, 0}
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

func (f *fakeProvider) Dimensions() int { return 2 }
func (f *fakeProvider) Model() string   { return "fake" }

type fakeTrainingStore struct {
	examples []domain.TrainingExample
}

func (s *fakeTrainingStore) Append(ctx context.Context, example *domain.TrainingExample) error {
	example.ID = uint(len(s.examples) + 1)
	s.examples = append(s.examples, *example)
	return nil
}

func (s *fakeTrainingStore) ListAll(ctx context.Context) ([]domain.TrainingExample, error) {
	return append([]domain.TrainingExample(nil), s.examples...), nil
}

func (s *fakeTrainingStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.examples)), nil
}

type fakeMetricsStore struct {
	snapshots []domain.ModelMetrics
}

func (s *fakeMetricsStore) Create(ctx context.Context, metrics *domain.ModelMetrics) error {
	s.snapshots = append(s.snapshots, *metrics)
	return nil
}

func (s *fakeMetricsStore) LatestByModel(ctx context.Context, modelName string) (*domain.ModelMetrics, error) {
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].ModelName == modelName {
			m := s.snapshots[i]
			return &m, nil
		}
	}
	return nil, nil
}

func newTestClassifier(t *testing.T) (*Classifier, *fakeTrainingStore, *fakeMetricsStore) {
	t.Helper()
	training := &fakeTrainingStore{}
	metrics := &fakeMetricsStore{}
	c, err := New(context.Background(), Config{
		ModelName:           "test_classifier",
		MinTrainingExamples: 3,
		AutoTrainEvery:      2,
	}, &fakeProvider{}, training, metrics)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, training, metrics
}

func TestPredictUntrained(t *testing.T) {
	c, _, _ := newTestClassifier(t)

	if p := c.Predict(context.Background(), "need video production"); p != nil {
		t.Errorf("untrained classifier predicted %v, want nil", *p)
	}
	if c.Trained() {
		t.Error("Trained() = true for a fresh classifier")
	}
}

func TestAddExampleAutoTrain(t *testing.T) {
	c, training, metrics := newTestClassifier(t)
	ctx := context.Background()

	// Counts 1-3 never hit the schedule (needs >= 3 and count % 2 == 0).
	for i, text := range []string{"video production needed", "production of a promo video", "full video production"} {
		trained, err := c.AddExample(ctx, text, 1)
		if err != nil {
			t.Fatalf("AddExample() error = %v", err)
		}
		if trained {
			t.Errorf("retrained after example %d, want no retrain before threshold", i+1)
		}
	}

	// Fourth example crosses the schedule with both classes present.
	trained, err := c.AddExample(ctx, "selling concert tickets cheap", 0)
	if err != nil {
		t.Fatalf("AddExample() error = %v", err)
	}
	if !trained {
		t.Fatal("expected auto-train on the fourth example")
	}
	if !c.Trained() {
		t.Error("Trained() = false after auto-train")
	}
	if len(metrics.snapshots) != 1 {
		t.Errorf("metrics snapshots = %d, want 1", len(metrics.snapshots))
	}
	if len(training.examples) != 4 {
		t.Errorf("persisted examples = %d, want 4", len(training.examples))
	}

	if p := c.Predict(ctx, "we need video production"); p == nil || *p <= 0.5 {
		t.Errorf("positive-class probability = %v, want > 0.5", p)
	}
	if p := c.Predict(ctx, "cheap tickets for sale"); p == nil || *p >= 0.5 {
		t.Errorf("negative-class probability = %v, want < 0.5", p)
	}
}

func TestPredictBatch(t *testing.T) {
	c, _, _ := newTestClassifier(t)
	ctx := context.Background()

	if got := c.PredictBatch(ctx, []string{"video production"}); got[0] != nil {
		t.Errorf("untrained batch prediction = %v, want nil", *got[0])
	}

	for _, tc := range []struct {
		text  string
		label int
	}{
		{"video production one", 1}, {"video production two", 1},
		{"random spam", 0}, {"other spam", 0},
	} {
		c.AddExample(ctx, tc.text, tc.label)
	}

	got := c.PredictBatch(ctx, []string{"video production", "#tag", "spam offer"})
	if got[0] == nil || *got[0] <= 0.5 {
		t.Errorf("batch positive probability = %v, want > 0.5", got[0])
	}
	if got[1] != nil {
		t.Errorf("empty-after-normalization entry = %v, want nil", *got[1])
	}
	if got[2] == nil || *got[2] >= 0.5 {
		t.Errorf("batch negative probability = %v, want < 0.5", got[2])
	}
}

func TestTrainSingleClassSkipped(t *testing.T) {
	c, _, _ := newTestClassifier(t)
	ctx := context.Background()

	for _, text := range []string{"video one", "video two", "video three", "video four"} {
		c.AddExample(ctx, text, 1)
	}
	if c.Trained() {
		t.Error("classifier trained on a single class")
	}
}

func TestNewRestoresFromPersistedExamples(t *testing.T) {
	training := &fakeTrainingStore{}
	metrics := &fakeMetricsStore{}
	ctx := context.Background()

	provider := &fakeProvider{}
	for text, label := range map[string]int{
		"video production":   1,
		"production company": 1,
		"spam advertisement": 0,
		"buy followers":      0,
	} {
		vecs, _ := provider.Embed(ctx, []string{text})
		training.Append(ctx, &domain.TrainingExample{Text: text, Embedding: vecs[0], Label: label})
	}

	c, err := New(ctx, Config{
		ModelName:           "test_classifier",
		MinTrainingExamples: 3,
		AutoTrainEvery:      2,
	}, provider, training, metrics)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !c.Trained() {
		t.Fatal("expected model restored from persisted examples")
	}

	s := c.Stats()
	if s.TrainingExamples != 4 || s.PositiveExamples != 2 || s.NegativeExamples != 2 {
		t.Errorf("Stats() = %+v, want 4 total, 2 positive, 2 negative", s)
	}
}

func TestPredictEmbeddingFailure(t *testing.T) {
	c, _, _ := newTestClassifier(t)
	ctx := context.Background()

	for _, tc := range []struct {
		text  string
		label int
	}{
		{"video production one", 1}, {"video production two", 1},
		{"random spam", 0}, {"other spam", 0},
	} {
		c.AddExample(ctx, tc.text, tc.label)
	}
	if !c.Trained() {
		t.Fatal("setup: classifier should be trained")
	}

	c.provider = &fakeProvider{err: errors.New("api down")}
	if p := c.Predict(ctx, "video production"); p != nil {
		t.Errorf("prediction with failing provider = %v, want nil", *p)
	}
}

func TestAddExampleEmptyText(t *testing.T) {
	c, training, _ := newTestClassifier(t)

	if _, err := c.AddExample(context.Background(), "https://spam.example #ad", 1); err == nil {
		t.Error("expected error for text that normalizes to empty")
	}
	if len(training.examples) != 0 {
		t.Error("empty-after-normalization example was persisted")
	}
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	c, training, _ := newTestClassifier(t)
	ctx := context.Background()

	positive := []string{"video production", "production studio"}
	negative := []string{"spam message", "buy now"}

	if err := c.Seed(ctx, positive, negative); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(training.examples) != 4 {
		t.Fatalf("seeded examples = %d, want 4", len(training.examples))
	}

	// A second seed call must not duplicate anything.
	if err := c.Seed(ctx, positive, negative); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(training.examples) != 4 {
		t.Errorf("examples after reseed = %d, want 4", len(training.examples))
	}
}
