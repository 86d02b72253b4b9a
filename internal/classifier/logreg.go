package classifier

import "math"

// Training hyperparameters. Embedding inputs are dense, low-dimensional and
// roughly unit-norm, so plain batch gradient descent converges in a few
// hundred epochs on the tiny training sets this system accumulates.
const (
	learningRate = 0.5
	epochs       = 500
	l2Penalty    = 1e-4
)

// logisticModel is a binary logistic regression over embedding vectors.
type logisticModel struct {
	weights []float64
	bias    float64
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// fit trains the model on embeddings X with labels y in {0,1}.
// sampleWeights compensates for class imbalance: errors on the rarer class
// count proportionally more, mirroring inverse-class-frequency weighting.
func fitLogistic(X [][]float32, y []int, sampleWeights []float64) *logisticModel {
	if len(X) == 0 {
		return nil
	}

	dim := len(X[0])
	m := &logisticModel{weights: make([]float64, dim)}
	n := float64(len(X))

	gradW := make([]float64, dim)
	for epoch := 0; epoch < epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i, x := range X {
			z := m.bias
			for j, v := range x {
				z += m.weights[j] * float64(v)
			}
			err := (sigmoid(z) - float64(y[i])) * sampleWeights[i]
			for j, v := range x {
				gradW[j] += err * float64(v)
			}
			gradB += err
		}

		for j := range m.weights {
			m.weights[j] -= learningRate * (gradW[j]/n + l2Penalty*m.weights[j])
		}
		m.bias -= learningRate * gradB / n
	}

	return m
}

// predictProba returns the probability of the positive class.
func (m *logisticModel) predictProba(x []float32) float64 {
	z := m.bias
	for j, v := range x {
		if j >= len(m.weights) {
			break
		}
		z += m.weights[j] * float64(v)
	}
	return sigmoid(z)
}

// balancedSampleWeights returns one weight per example such that each class
// contributes equally to the loss: w_c = n / (k * n_c).
func balancedSampleWeights(y []int) []float64 {
	counts := make(map[int]float64)
	for _, label := range y {
		counts[label]++
	}

	n := float64(len(y))
	k := float64(len(counts))
	weights := make([]float64, len(y))
	for i, label := range y {
		weights[i] = n / (k * counts[label])
	}
	return weights
}
