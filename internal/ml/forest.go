package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const forestType = "random_forest"

func init() {
	register(forestType, builder{
		construct: func(params map[string]float64) Classifier {
			return newRandomForest(params)
		},
		defaults: map[string]float64{
			"n_estimators":      100,
			"max_depth":         6,
			"min_samples_split": 2,
			"random_state":      42,
		},
		searchSpace: map[string][]float64{
			"n_estimators":      {50, 100, 200, 300},
			"max_depth":         {3, 5, 7, 9},
			"min_samples_split": {2, 5, 10},
		},
	})
}

// treeNode is one node of a CART tree. Leaves carry the class-1 probability
// observed in their training samples.
type treeNode struct {
	Leaf      bool      `json:"leaf,omitempty"`
	Prob      float64   `json:"prob,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// RandomForest is a bootstrap ensemble of depth-bounded CART trees with
// per-split feature subsampling. Training is deterministic for a given seed.
type RandomForest struct {
	NumTrees        int   `json:"n_estimators"`
	MaxDepth        int   `json:"max_depth"`
	MinSamplesSplit int   `json:"min_samples_split"`
	Seed            int64 `json:"random_state"`

	NumInputs  int         `json:"num_inputs"`
	Trees      []*treeNode `json:"trees"`
	Importance []float64   `json:"importance"`
}

func newRandomForest(params map[string]float64) *RandomForest {
	return &RandomForest{
		NumTrees:        int(params["n_estimators"]),
		MaxDepth:        int(params["max_depth"]),
		MinSamplesSplit: int(params["min_samples_split"]),
		Seed:            int64(params["random_state"]),
	}
}

func (rf *RandomForest) Type() string { return forestType }

func (rf *RandomForest) Hyperparameters() map[string]float64 {
	return map[string]float64{
		"n_estimators":      float64(rf.NumTrees),
		"max_depth":         float64(rf.MaxDepth),
		"min_samples_split": float64(rf.MinSamplesSplit),
		"random_state":      float64(rf.Seed),
	}
}

func (rf *RandomForest) Train(X [][]float64, y []int) error {
	if err := validateTrainingData(X, y); err != nil {
		return fmt.Errorf("train %s: %w", forestType, err)
	}
	rf.NumInputs = len(X[0])
	rf.Trees = make([]*treeNode, 0, rf.NumTrees)
	rf.Importance = make([]float64, rf.NumInputs)

	featuresPerSplit := int(math.Ceil(math.Sqrt(float64(rf.NumInputs))))

	for t := 0; t < rf.NumTrees; t++ {
		rng := rand.New(rand.NewSource(rf.Seed + int64(t)))

		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}
		tree := rf.buildNode(X, y, sample, 0, featuresPerSplit, rng)
		rf.Trees = append(rf.Trees, tree)
	}

	var total float64
	for _, v := range rf.Importance {
		total += v
	}
	if total > 0 {
		for j := range rf.Importance {
			rf.Importance[j] /= total
		}
	}
	return nil
}

func classProb(y []int, indexes []int) float64 {
	if len(indexes) == 0 {
		return 0.5
	}
	var ones int
	for _, i := range indexes {
		ones += y[i]
	}
	return float64(ones) / float64(len(indexes))
}

func gini(p float64) float64 {
	return 2 * p * (1 - p)
}

func (rf *RandomForest) buildNode(X [][]float64, y []int, indexes []int, depth, featuresPerSplit int, rng *rand.Rand) *treeNode {
	prob := classProb(y, indexes)
	if depth >= rf.MaxDepth || len(indexes) < rf.MinSamplesSplit || prob == 0 || prob == 1 {
		return &treeNode{Leaf: true, Prob: prob}
	}

	feature, threshold, gain, ok := rf.bestSplit(X, y, indexes, featuresPerSplit, rng)
	if !ok {
		return &treeNode{Leaf: true, Prob: prob}
	}
	rf.Importance[feature] += gain * float64(len(indexes))

	var left, right []int
	for _, i := range indexes {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      rf.buildNode(X, y, left, depth+1, featuresPerSplit, rng),
		Right:     rf.buildNode(X, y, right, depth+1, featuresPerSplit, rng),
	}
}

// bestSplit searches a random feature subset for the threshold with the
// highest gini gain. Thresholds are midpoints between consecutive distinct
// values present in the node.
func (rf *RandomForest) bestSplit(X [][]float64, y []int, indexes []int, featuresPerSplit int, rng *rand.Rand) (feature int, threshold, gain float64, ok bool) {
	parentGini := gini(classProb(y, indexes))

	candidates := rng.Perm(rf.NumInputs)[:featuresPerSplit]
	sort.Ints(candidates)

	bestGain := 0.0
	for _, j := range candidates {
		values := make([]float64, 0, len(indexes))
		for _, i := range indexes {
			values = append(values, X[i][j])
		}
		sort.Float64s(values)

		for k := 1; k < len(values); k++ {
			if values[k] == values[k-1] {
				continue
			}
			cut := (values[k] + values[k-1]) / 2

			var left, right, leftOnes, rightOnes int
			for _, i := range indexes {
				if X[i][j] <= cut {
					left++
					leftOnes += y[i]
				} else {
					right++
					rightOnes += y[i]
				}
			}
			if left == 0 || right == 0 {
				continue
			}

			n := float64(len(indexes))
			weighted := float64(left)/n*gini(float64(leftOnes)/float64(left)) +
				float64(right)/n*gini(float64(rightOnes)/float64(right))
			if g := parentGini - weighted; g > bestGain {
				bestGain = g
				feature = j
				threshold = cut
				ok = true
			}
		}
	}
	return feature, threshold, bestGain, ok
}

func (rf *RandomForest) proba1(x []float64) (float64, error) {
	if len(rf.Trees) == 0 {
		return 0, fmt.Errorf("%s model is not trained", forestType)
	}
	if len(x) != rf.NumInputs {
		return 0, fmt.Errorf("vector width %d, model expects %d", len(x), rf.NumInputs)
	}
	var sum float64
	for _, tree := range rf.Trees {
		node := tree
		for !node.Leaf {
			if x[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		sum += node.Prob
	}
	return sum / float64(len(rf.Trees)), nil
}

func (rf *RandomForest) Predict(x []float64) (int, error) {
	p, err := rf.proba1(x)
	if err != nil {
		return 0, err
	}
	if p >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func (rf *RandomForest) PredictProba(x []float64) ([]float64, error) {
	p, err := rf.proba1(x)
	if err != nil {
		return nil, err
	}
	return []float64{1 - p, p}, nil
}

func (rf *RandomForest) FeatureImportance() []float64 {
	if rf.Importance == nil {
		return nil
	}
	out := make([]float64, len(rf.Importance))
	copy(out, rf.Importance)
	return out
}

func (rf *RandomForest) MarshalJSON() ([]byte, error) {
	type plain RandomForest
	return json.Marshal((*plain)(rf))
}

func (rf *RandomForest) UnmarshalJSON(data []byte) error {
	type plain RandomForest
	return json.Unmarshal(data, (*plain)(rf))
}
