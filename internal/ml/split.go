package ml

import (
	"fmt"
	"math/rand"
)

// StratifiedSplit partitions the data into train and validation sets while
// preserving the class balance. The shuffle is deterministic for a given
// seed.
func StratifiedSplit(X [][]float64, y []int, trainRatio float64, seed int64) (XTrain [][]float64, yTrain []int, XVal [][]float64, yVal []int, err error) {
	if err := validateTrainingData(X, y); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("stratified split: %w", err)
	}
	if trainRatio <= 0 || trainRatio >= 1 {
		return nil, nil, nil, nil, fmt.Errorf("stratified split: train ratio %v out of (0, 1)", trainRatio)
	}

	rng := rand.New(rand.NewSource(seed))
	var classes [2][]int
	for i, label := range y {
		classes[label] = append(classes[label], i)
	}

	for _, indexes := range classes {
		rng.Shuffle(len(indexes), func(a, b int) {
			indexes[a], indexes[b] = indexes[b], indexes[a]
		})
		cut := int(trainRatio * float64(len(indexes)))
		for pos, i := range indexes {
			if pos < cut {
				XTrain = append(XTrain, X[i])
				yTrain = append(yTrain, y[i])
			} else {
				XVal = append(XVal, X[i])
				yVal = append(yVal, y[i])
			}
		}
	}

	if len(XTrain) == 0 || len(XVal) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("stratified split: %d samples too few for ratio %v", len(X), trainRatio)
	}
	return XTrain, yTrain, XVal, yVal, nil
}
