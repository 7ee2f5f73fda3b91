package ml

import "github.com/courtiq/tennis-predictor/internal/models"

// Evaluate computes the binary classification metrics with class 1 as the
// positive class. Degenerate denominators yield 0 rather than NaN.
func Evaluate(yTrue, yPred []int) models.ValidationMetrics {
	var tp, fp, fn, correct int
	for i := range yTrue {
		if yPred[i] == yTrue[i] {
			correct++
		}
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			tp++
		case yPred[i] == 1 && yTrue[i] == 0:
			fp++
		case yPred[i] == 0 && yTrue[i] == 1:
			fn++
		}
	}

	var m models.ValidationMetrics
	if len(yTrue) > 0 {
		m.Accuracy = float64(correct) / float64(len(yTrue))
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
