package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Classifier is a trainable binary classifier over fixed-width feature
// vectors. Class 1 means "player 1 wins".
type Classifier interface {
	// Type is the registry tag stored on the model row.
	Type() string
	// Hyperparameters returns the parameters the classifier was built with.
	Hyperparameters() map[string]float64
	// Train fits the classifier. y values must be 0 or 1.
	Train(X [][]float64, y []int) error
	// Predict returns the predicted class for one vector.
	Predict(x []float64) (int, error)
	// PredictProba returns [P(class 0), P(class 1)] for one vector.
	PredictProba(x []float64) ([]float64, error)
	// FeatureImportance returns per-feature scores in schema order, or nil
	// when the classifier has none.
	FeatureImportance() []float64

	json.Marshaler
	json.Unmarshaler
}

type builder struct {
	construct   func(params map[string]float64) Classifier
	defaults    map[string]float64
	searchSpace map[string][]float64
}

var registry = map[string]builder{}

func register(name string, b builder) {
	registry[name] = b
}

// Types lists the registered classifier types in stable order.
func Types() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a classifier of the given type. Nil params select the type's
// defaults; partial params are filled from the defaults.
func New(modelType string, params map[string]float64) (Classifier, error) {
	b, ok := registry[modelType]
	if !ok {
		return nil, fmt.Errorf("unknown model type %q", modelType)
	}
	merged := make(map[string]float64, len(b.defaults))
	for k, v := range b.defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return b.construct(merged), nil
}

// DefaultHyperparameters returns a copy of the type's default parameters.
func DefaultHyperparameters(modelType string) (map[string]float64, error) {
	b, ok := registry[modelType]
	if !ok {
		return nil, fmt.Errorf("unknown model type %q", modelType)
	}
	out := make(map[string]float64, len(b.defaults))
	for k, v := range b.defaults {
		out[k] = v
	}
	return out, nil
}

// artifact is the on-disk envelope around a serialized classifier.
type artifact struct {
	ModelType string          `json:"model_type"`
	Payload   json.RawMessage `json:"payload"`
}

// Save writes a trained classifier to path as a JSON artifact.
func Save(c Classifier, path string) error {
	payload, err := c.MarshalJSON()
	if err != nil {
		return fmt.Errorf("serialize %s model: %w", c.Type(), err)
	}
	data, err := json.Marshal(artifact{ModelType: c.Type(), Payload: payload})
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Load reads a JSON artifact and reconstructs the trained classifier.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	c, err := New(a.ModelType, nil)
	if err != nil {
		return nil, err
	}
	if err := c.UnmarshalJSON(a.Payload); err != nil {
		return nil, fmt.Errorf("restore %s model from %s: %w", a.ModelType, path, err)
	}
	return c, nil
}

func validateTrainingData(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature/label length mismatch: %d vs %d", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("ragged feature matrix at row %d", i)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label %d at row %d is not binary", label, i)
		}
	}
	return nil
}
