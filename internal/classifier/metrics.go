package classifier

// evalResult holds weighted evaluation scores on the training set.
type evalResult struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// evaluate computes accuracy and support-weighted precision/recall/F1
// for predictions against the true labels.
func evaluate(yTrue, yPred []int) evalResult {
	if len(yTrue) == 0 {
		return evalResult{}
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	classes := make(map[int]struct{})
	for _, y := range yTrue {
		classes[y] = struct{}{}
	}

	var res evalResult
	res.Accuracy = float64(correct) / float64(len(yTrue))

	total := float64(len(yTrue))
	for c := range classes {
		var tp, fp, fn, support float64
		for i := range yTrue {
			switch {
			case yTrue[i] == c && yPred[i] == c:
				tp++
			case yTrue[i] != c && yPred[i] == c:
				fp++
			case yTrue[i] == c && yPred[i] != c:
				fn++
			}
			if yTrue[i] == c {
				support++
			}
		}

		var precision, recall, f1 float64
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}
		if tp+fn > 0 {
			recall = tp / (tp + fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		w := support / total
		res.Precision += w * precision
		res.Recall += w * recall
		res.F1 += w * f1
	}

	return res
}
