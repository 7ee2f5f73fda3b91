package ml

import (
	"fmt"
	"math/rand"
	"sort"
)

// Tuner runs a bounded random search over a classifier type's hyperparameter
// space, scoring candidates by mean cross-validated accuracy.
type Tuner struct {
	Iterations int
	Folds      int
	Seed       int64
}

func NewTuner(iterations, folds int, seed int64) *Tuner {
	if iterations < 1 {
		iterations = 1
	}
	if folds < 2 {
		folds = 2
	}
	return &Tuner{Iterations: iterations, Folds: folds, Seed: seed}
}

// Tune searches the registered space for modelType and returns the best
// parameter set with its cross-validation score.
func (t *Tuner) Tune(modelType string, X [][]float64, y []int) (map[string]float64, float64, error) {
	b, ok := registry[modelType]
	if !ok {
		return nil, 0, fmt.Errorf("unknown model type %q", modelType)
	}
	if err := validateTrainingData(X, y); err != nil {
		return nil, 0, fmt.Errorf("tune %s: %w", modelType, err)
	}

	paramNames := make([]string, 0, len(b.searchSpace))
	for name := range b.searchSpace {
		paramNames = append(paramNames, name)
	}
	sort.Strings(paramNames)

	rng := rand.New(rand.NewSource(t.Seed))
	folds := t.makeFolds(len(X), rng)

	var bestParams map[string]float64
	bestScore := -1.0
	for iter := 0; iter < t.Iterations; iter++ {
		candidate := make(map[string]float64, len(paramNames))
		for _, name := range paramNames {
			choices := b.searchSpace[name]
			candidate[name] = choices[rng.Intn(len(choices))]
		}

		score, err := t.crossValidate(modelType, candidate, X, y, folds)
		if err != nil {
			return nil, 0, err
		}
		if score > bestScore {
			bestScore = score
			bestParams = candidate
		}
	}
	return bestParams, bestScore, nil
}

// makeFolds assigns each sample to one of Folds buckets after a shuffle.
func (t *Tuner) makeFolds(n int, rng *rand.Rand) [][]int {
	order := rng.Perm(n)
	folds := make([][]int, t.Folds)
	for pos, i := range order {
		f := pos % t.Folds
		folds[f] = append(folds[f], i)
	}
	return folds
}

func (t *Tuner) crossValidate(modelType string, params map[string]float64, X [][]float64, y []int, folds [][]int) (float64, error) {
	var total float64
	var scored int
	for holdout := range folds {
		if len(folds[holdout]) == 0 {
			continue
		}
		var XTrain [][]float64
		var yTrain []int
		for f, indexes := range folds {
			if f == holdout {
				continue
			}
			for _, i := range indexes {
				XTrain = append(XTrain, X[i])
				yTrain = append(yTrain, y[i])
			}
		}

		c, err := New(modelType, params)
		if err != nil {
			return 0, err
		}
		if err := c.Train(XTrain, yTrain); err != nil {
			return 0, fmt.Errorf("cross-validation fold %d: %w", holdout, err)
		}

		var correct int
		for _, i := range folds[holdout] {
			pred, err := c.Predict(X[i])
			if err != nil {
				return 0, err
			}
			if pred == y[i] {
				correct++
			}
		}
		total += float64(correct) / float64(len(folds[holdout]))
		scored++
	}
	if scored == 0 {
		return 0, fmt.Errorf("no usable cross-validation folds")
	}
	return total / float64(scored), nil
}
