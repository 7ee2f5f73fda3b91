package ml

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const logisticType = "logistic_regression"

func init() {
	register(logisticType, builder{
		construct: func(params map[string]float64) Classifier {
			return newLogisticRegression(params)
		},
		defaults: map[string]float64{
			"learning_rate": 0.1,
			"epochs":        500,
			"l2":            0.01,
		},
		searchSpace: map[string][]float64{
			"learning_rate": {0.01, 0.05, 0.1, 0.2},
			"epochs":        {200, 500, 1000},
			"l2":            {0, 0.001, 0.01, 0.1},
		},
	})
}

// LogisticRegression is a batch gradient-descent logistic classifier with L2
// regularization. Inputs are standardized during training and the scaling is
// carried in the artifact, so inference sees the same transform.
type LogisticRegression struct {
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	L2           float64 `json:"l2"`

	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

func newLogisticRegression(params map[string]float64) *LogisticRegression {
	return &LogisticRegression{
		LearningRate: params["learning_rate"],
		Epochs:       int(params["epochs"]),
		L2:           params["l2"],
	}
}

func (lr *LogisticRegression) Type() string { return logisticType }

func (lr *LogisticRegression) Hyperparameters() map[string]float64 {
	return map[string]float64{
		"learning_rate": lr.LearningRate,
		"epochs":        float64(lr.Epochs),
		"l2":            lr.L2,
	}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func (lr *LogisticRegression) Train(X [][]float64, y []int) error {
	if err := validateTrainingData(X, y); err != nil {
		return fmt.Errorf("train %s: %w", logisticType, err)
	}
	n := len(X)
	d := len(X[0])

	lr.Mean = make([]float64, d)
	lr.Scale = make([]float64, d)
	for j := 0; j < d; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += X[i][j]
		}
		lr.Mean[j] = sum / float64(n)

		var variance float64
		for i := 0; i < n; i++ {
			diff := X[i][j] - lr.Mean[j]
			variance += diff * diff
		}
		lr.Scale[j] = math.Sqrt(variance / float64(n))
		if lr.Scale[j] == 0 {
			lr.Scale[j] = 1
		}
	}

	scaled := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			scaled.Set(i, j, (X[i][j]-lr.Mean[j])/lr.Scale[j])
		}
	}

	weights := mat.NewVecDense(d, nil)
	bias := 0.0
	residual := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)

	for epoch := 0; epoch < lr.Epochs; epoch++ {
		var z mat.VecDense
		z.MulVec(scaled, weights)

		var biasGrad float64
		for i := 0; i < n; i++ {
			p := sigmoid(z.AtVec(i) + bias)
			r := p - float64(y[i])
			residual.SetVec(i, r)
			biasGrad += r
		}

		grad.MulVec(scaled.T(), residual)
		scale := lr.LearningRate / float64(n)
		for j := 0; j < d; j++ {
			update := grad.AtVec(j) + lr.L2*weights.AtVec(j)
			weights.SetVec(j, weights.AtVec(j)-scale*update)
		}
		bias -= scale * biasGrad
	}

	lr.Weights = make([]float64, d)
	copy(lr.Weights, weights.RawVector().Data)
	lr.Bias = bias
	return nil
}

func (lr *LogisticRegression) proba1(x []float64) (float64, error) {
	if lr.Weights == nil {
		return 0, fmt.Errorf("%s model is not trained", logisticType)
	}
	if len(x) != len(lr.Weights) {
		return 0, fmt.Errorf("vector width %d, model expects %d", len(x), len(lr.Weights))
	}
	z := lr.Bias
	for j, v := range x {
		z += lr.Weights[j] * (v - lr.Mean[j]) / lr.Scale[j]
	}
	return sigmoid(z), nil
}

func (lr *LogisticRegression) Predict(x []float64) (int, error) {
	p, err := lr.proba1(x)
	if err != nil {
		return 0, err
	}
	if p >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (lr *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	p, err := lr.proba1(x)
	if err != nil {
		return nil, err
	}
	return []float64{1 - p, p}, nil
}

// FeatureImportance is the absolute weight per standardized feature.
func (lr *LogisticRegression) FeatureImportance() []float64 {
	if lr.Weights == nil {
		return nil
	}
	out := make([]float64, len(lr.Weights))
	for j, w := range lr.Weights {
		out[j] = math.Abs(w)
	}
	return out
}

func (lr *LogisticRegression) MarshalJSON() ([]byte, error) {
	type plain LogisticRegression
	return json.Marshal((*plain)(lr))
}

func (lr *LogisticRegression) UnmarshalJSON(data []byte) error {
	type plain LogisticRegression
	return json.Unmarshal(data, (*plain)(lr))
}
