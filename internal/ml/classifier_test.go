package ml

import (
	"math"
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"
)

// separableData builds a two-cluster dataset where class 1 lives at positive
// feature values and class 0 at negative ones.
func separableData(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, 0, n)
	y := make([]int, 0, n)
	for i := 0; i < n; i++ {
		label := i % 2
		center := -2.0
		if label == 1 {
			center = 2.0
		}
		X = append(X, []float64{
			center + rng.NormFloat64()*0.5,
			-center + rng.NormFloat64()*0.5,
			rng.NormFloat64(),
		})
		y = append(y, label)
	}
	return X, y
}

func trainedAccuracy(t *testing.T, c Classifier, X [][]float64, y []int) float64 {
	t.Helper()
	var correct int
	for i := range X {
		pred, err := c.Predict(X[i])
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X))
}

func TestNewUnknownType(t *testing.T) {
	if _, err := New("no_such_model", nil); err == nil {
		t.Error("New() with unknown type: expected error")
	}
}

func TestTypesRegistered(t *testing.T) {
	want := []string{logisticType, forestType}
	got := Types()
	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Types() missing %q, got %v", name, got)
		}
	}
}

func TestClassifiersLearnSeparableData(t *testing.T) {
	X, y := separableData(200, 7)

	for _, modelType := range Types() {
		t.Run(modelType, func(t *testing.T) {
			c, err := New(modelType, nil)
			if err != nil {
				t.Fatalf("New(%q) error = %v", modelType, err)
			}
			if err := c.Train(X, y); err != nil {
				t.Fatalf("Train() error = %v", err)
			}
			if acc := trainedAccuracy(t, c, X, y); acc < 0.9 {
				t.Errorf("training accuracy = %v, want >= 0.9", acc)
			}
		})
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	X, y := separableData(100, 11)

	for _, modelType := range Types() {
		t.Run(modelType, func(t *testing.T) {
			c, err := New(modelType, nil)
			if err != nil {
				t.Fatalf("New(%q) error = %v", modelType, err)
			}
			if err := c.Train(X, y); err != nil {
				t.Fatalf("Train() error = %v", err)
			}
			proba, err := c.PredictProba(X[0])
			if err != nil {
				t.Fatalf("PredictProba() error = %v", err)
			}
			if len(proba) != 2 {
				t.Fatalf("PredictProba() returned %d classes, want 2", len(proba))
			}
			if sum := proba[0] + proba[1]; math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("probabilities sum to %v, want 1", sum)
			}
		})
	}
}

func TestTrainingIsDeterministic(t *testing.T) {
	X, y := separableData(120, 3)

	for _, modelType := range Types() {
		t.Run(modelType, func(t *testing.T) {
			first, err := New(modelType, nil)
			if err != nil {
				t.Fatalf("New(%q) error = %v", modelType, err)
			}
			second, err := New(modelType, nil)
			if err != nil {
				t.Fatalf("New(%q) error = %v", modelType, err)
			}
			if err := first.Train(X, y); err != nil {
				t.Fatalf("first Train() error = %v", err)
			}
			if err := second.Train(X, y); err != nil {
				t.Fatalf("second Train() error = %v", err)
			}

			p1, err := first.PredictProba(X[5])
			if err != nil {
				t.Fatalf("PredictProba() error = %v", err)
			}
			p2, err := second.PredictProba(X[5])
			if err != nil {
				t.Fatalf("PredictProba() error = %v", err)
			}
			if !reflect.DeepEqual(p1, p2) {
				t.Errorf("two identically seeded trainings diverged: %v vs %v", p1, p2)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	X, y := separableData(100, 19)
	dir := t.TempDir()

	for _, modelType := range Types() {
		t.Run(modelType, func(t *testing.T) {
			c, err := New(modelType, nil)
			if err != nil {
				t.Fatalf("New(%q) error = %v", modelType, err)
			}
			if err := c.Train(X, y); err != nil {
				t.Fatalf("Train() error = %v", err)
			}

			path := filepath.Join(dir, modelType+".json")
			if err := Save(c, path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			restored, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if restored.Type() != modelType {
				t.Errorf("restored type = %q, want %q", restored.Type(), modelType)
			}

			for i := 0; i < 10; i++ {
				want, err := c.PredictProba(X[i])
				if err != nil {
					t.Fatalf("PredictProba() error = %v", err)
				}
				got, err := restored.PredictProba(X[i])
				if err != nil {
					t.Fatalf("restored PredictProba() error = %v", err)
				}
				if math.Abs(got[1]-want[1]) > 1e-9 {
					t.Errorf("sample %d: restored proba %v, want %v", i, got[1], want[1])
				}
			}
		})
	}
}

func TestTrainRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		X    [][]float64
		y    []int
	}{
		{"empty set", nil, nil},
		{"length mismatch", [][]float64{{1, 2}}, []int{1, 0}},
		{"ragged matrix", [][]float64{{1, 2}, {1}}, []int{1, 0}},
		{"non-binary label", [][]float64{{1, 2}, {3, 4}}, []int{0, 2}},
	}
	for _, modelType := range Types() {
		for _, tt := range tests {
			t.Run(modelType+"/"+tt.name, func(t *testing.T) {
				c, err := New(modelType, nil)
				if err != nil {
					t.Fatalf("New(%q) error = %v", modelType, err)
				}
				if err := c.Train(tt.X, tt.y); err == nil {
					t.Error("Train() accepted invalid data")
				}
			})
		}
	}
}

func TestPredictUntrained(t *testing.T) {
	for _, modelType := range Types() {
		t.Run(modelType, func(t *testing.T) {
			c, err := New(modelType, nil)
			if err != nil {
				t.Fatalf("New(%q) error = %v", modelType, err)
			}
			if _, err := c.Predict([]float64{1, 2, 3}); err == nil {
				t.Error("Predict() on untrained model: expected error")
			}
		})
	}
}

func TestFeatureImportance(t *testing.T) {
	X, y := separableData(150, 23)

	for _, modelType := range Types() {
		t.Run(modelType, func(t *testing.T) {
			c, err := New(modelType, nil)
			if err != nil {
				t.Fatalf("New(%q) error = %v", modelType, err)
			}
			if err := c.Train(X, y); err != nil {
				t.Fatalf("Train() error = %v", err)
			}
			imp := c.FeatureImportance()
			if len(imp) != 3 {
				t.Fatalf("importance width = %d, want 3", len(imp))
			}
			// the first two features carry the signal, the third is noise
			if imp[0] <= imp[2] && imp[1] <= imp[2] {
				t.Errorf("noise feature outranks both signal features: %v", imp)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []int
		yPred []int
		want  func(t *testing.T, acc, prec, rec, f1 float64)
	}{
		{
			name:  "perfect predictions",
			yTrue: []int{1, 0, 1, 0},
			yPred: []int{1, 0, 1, 0},
			want: func(t *testing.T, acc, prec, rec, f1 float64) {
				if acc != 1 || prec != 1 || rec != 1 || f1 != 1 {
					t.Errorf("got %v/%v/%v/%v, want all 1", acc, prec, rec, f1)
				}
			},
		},
		{
			name:  "never predicts positive",
			yTrue: []int{1, 1, 0, 0},
			yPred: []int{0, 0, 0, 0},
			want: func(t *testing.T, acc, prec, rec, f1 float64) {
				if prec != 0 || rec != 0 || f1 != 0 {
					t.Errorf("degenerate case: got precision=%v recall=%v f1=%v, want 0", prec, rec, f1)
				}
				if acc != 0.5 {
					t.Errorf("accuracy = %v, want 0.5", acc)
				}
			},
		},
		{
			name:  "mixed",
			yTrue: []int{1, 1, 0, 0},
			yPred: []int{1, 0, 1, 0},
			want: func(t *testing.T, acc, prec, rec, f1 float64) {
				if acc != 0.5 || prec != 0.5 || rec != 0.5 || f1 != 0.5 {
					t.Errorf("got %v/%v/%v/%v, want all 0.5", acc, prec, rec, f1)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Evaluate(tt.yTrue, tt.yPred)
			tt.want(t, m.Accuracy, m.Precision, m.Recall, m.F1)
		})
	}
}

func TestStratifiedSplit(t *testing.T) {
	X, y := separableData(100, 31)

	XTrain, yTrain, XVal, yVal, err := StratifiedSplit(X, y, 0.8, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	if len(XTrain)+len(XVal) != len(X) {
		t.Errorf("split lost samples: %d + %d != %d", len(XTrain), len(XVal), len(X))
	}
	if len(XTrain) != 80 {
		t.Errorf("train size = %d, want 80", len(XTrain))
	}

	countOnes := func(labels []int) int {
		var n int
		for _, v := range labels {
			n += v
		}
		return n
	}
	if ones := countOnes(yTrain); ones != 40 {
		t.Errorf("train class balance = %d/80 positives, want 40", ones)
	}
	if ones := countOnes(yVal); ones != 10 {
		t.Errorf("validation class balance = %d/20 positives, want 10", ones)
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	X, y := separableData(60, 5)

	_, yTrain1, _, _, err := StratifiedSplit(X, y, 0.8, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	_, yTrain2, _, _, err := StratifiedSplit(X, y, 0.8, 42)
	if err != nil {
		t.Fatalf("StratifiedSplit() error = %v", err)
	}
	if !reflect.DeepEqual(yTrain1, yTrain2) {
		t.Error("same seed produced different splits")
	}
}

func TestStratifiedSplitBadRatio(t *testing.T) {
	X, y := separableData(10, 1)
	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		if _, _, _, _, err := StratifiedSplit(X, y, ratio, 42); err == nil {
			t.Errorf("StratifiedSplit() accepted ratio %v", ratio)
		}
	}
}

func TestTunerStaysInSearchSpace(t *testing.T) {
	X, y := separableData(90, 13)
	tuner := NewTuner(4, 3, 42)

	for _, modelType := range Types() {
		t.Run(modelType, func(t *testing.T) {
			params, score, err := tuner.Tune(modelType, X, y)
			if err != nil {
				t.Fatalf("Tune() error = %v", err)
			}
			if score < 0 || score > 1 {
				t.Errorf("cv score = %v, want [0, 1]", score)
			}

			space := registry[modelType].searchSpace
			for name, value := range params {
				choices, ok := space[name]
				if !ok {
					t.Errorf("tuned parameter %q not in search space", name)
					continue
				}
				found := false
				for _, c := range choices {
					if c == value {
						found = true
					}
				}
				if !found {
					t.Errorf("parameter %q = %v not among choices %v", name, value, choices)
				}
			}
		})
	}
}
