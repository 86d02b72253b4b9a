package classifier

import (
	"math"
	"testing"
)

func TestSigmoid(t *testing.T) {
	tests := []struct {
		name string
		z    float64
		want float64
	}{
		{"zero", 0, 0.5},
		{"large positive", 20, 1.0},
		{"large negative", -20, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sigmoid(tt.z)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("sigmoid(%v) = %v, want %v", tt.z, got, tt.want)
			}
		})
	}
}

func TestFitLogisticSeparableData(t *testing.T) {
	X := [][]float32{
		{1, 0}, {0.9, 0.1}, {0.8, 0},
		{0, 1}, {0.1, 0.9}, {0, 0.8},
	}
	y := []int{1, 1, 1, 0, 0, 0}

	model := fitLogistic(X, y, balancedSampleWeights(y))
	if model == nil {
		t.Fatal("expected a trained model")
	}

	if p := model.predictProba([]float32{1, 0}); p <= 0.5 {
		t.Errorf("positive example got probability %v, want > 0.5", p)
	}
	if p := model.predictProba([]float32{0, 1}); p >= 0.5 {
		t.Errorf("negative example got probability %v, want < 0.5", p)
	}
}

func TestFitLogisticEmptyInput(t *testing.T) {
	if model := fitLogistic(nil, nil, nil); model != nil {
		t.Error("expected nil model for empty input")
	}
}

func TestBalancedSampleWeights(t *testing.T) {
	// 3 positives, 1 negative: the negative must carry 3x the weight.
	y := []int{1, 1, 1, 0}
	w := balancedSampleWeights(y)

	if math.Abs(w[3]/w[0]-3.0) > 1e-9 {
		t.Errorf("minority/majority weight ratio = %v, want 3", w[3]/w[0])
	}

	var sum float64
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-float64(len(y))) > 1e-9 {
		t.Errorf("weights sum to %v, want %v", sum, len(y))
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		yTrue, yPred []int
		wantAccuracy float64
		wantF1       float64
	}{
		{
			name:         "perfect",
			yTrue:        []int{1, 0, 1, 0},
			yPred:        []int{1, 0, 1, 0},
			wantAccuracy: 1.0,
			wantF1:       1.0,
		},
		{
			name:         "all wrong",
			yTrue:        []int{1, 0},
			yPred:        []int{0, 1},
			wantAccuracy: 0.0,
			wantF1:       0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := evaluate(tt.yTrue, tt.yPred)
			if math.Abs(res.Accuracy-tt.wantAccuracy) > 1e-9 {
				t.Errorf("accuracy = %v, want %v", res.Accuracy, tt.wantAccuracy)
			}
			if math.Abs(res.F1-tt.wantF1) > 1e-9 {
				t.Errorf("f1 = %v, want %v", res.F1, tt.wantF1)
			}
		})
	}
}

func TestEvaluateEmpty(t *testing.T) {
	res := evaluate(nil, nil)
	if res.Accuracy != 0 || res.F1 != 0 {
		t.Errorf("expected zero metrics for empty input, got %+v", res)
	}
}
