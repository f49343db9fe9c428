package domain

import "math/rand/v2"

// Walker occupies a location in a field and advances according to its Policy.
// Walkers are compared by pointer identity; Name is for display only.
type Walker struct {
	Name   string
	Policy Policy
	rng    *rand.Rand
}

// NewWalker creates a walker drawing its steps from rng.
func NewWalker(name string, policy Policy, rng *rand.Rand) *Walker {
	if name == "" {
		name = policy.String()
	}
	return &Walker{Name: name, Policy: policy, rng: rng}
}

// TakeStep returns the next displacement.
func (w *Walker) TakeStep() (dx, dy float64) {
	s := w.Policy.Sample(w.rng)
	return s.DX, s.DY
}

func (w *Walker) String() string {
	if w == nil || w.Name == "" {
		return "anonymous"
	}
	return w.Name
}
