package features

import "fmt"

// Weights is a validated multiplicative weighting profile over the fixed
// feature schema. Construct via FromMap or Uniform; a Weights value always
// covers every column.
type Weights struct {
	byName map[string]float64
}

// Uniform weights every feature 1.0.
func Uniform() Weights {
	byName := make(map[string]float64, len(featureColumns))
	for _, name := range featureColumns {
		byName[name] = 1.0
	}
	return Weights{byName: byName}
}

// FromMap validates a stored configuration against the schema. Every column
// must be present and no unknown names are tolerated; a partial profile is a
// configuration bug, not something to paper over at scoring time.
func FromMap(m map[string]float64) (Weights, error) {
	for name := range m {
		if !isColumn(name) {
			return Weights{}, fmt.Errorf("unknown feature %q in weight configuration", name)
		}
	}
	byName := make(map[string]float64, len(featureColumns))
	for _, name := range featureColumns {
		w, ok := m[name]
		if !ok {
			return Weights{}, fmt.Errorf("weight configuration missing feature %q", name)
		}
		byName[name] = w
	}
	return Weights{byName: byName}, nil
}

// Map returns the profile as a plain map, e.g. for seeding the default
// configuration row.
func (w Weights) Map() map[string]float64 {
	out := make(map[string]float64, len(w.byName))
	for name, v := range w.byName {
		out[name] = v
	}
	return out
}

// Apply scales a raw vector in schema order. The vector length must match
// the schema width.
func (w Weights) Apply(vector []float64) []float64 {
	out := make([]float64, len(vector))
	for i, name := range featureColumns {
		out[i] = vector[i] * w.byName[name]
	}
	return out
}

func isColumn(name string) bool {
	for _, c := range featureColumns {
		if c == name {
			return true
		}
	}
	return false
}
