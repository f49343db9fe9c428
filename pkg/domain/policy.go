package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Step is a single displacement offered by a Policy.
type Step struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Policy selects the discrete distribution a walker draws its steps from.
// The set of variants is closed; each one carries a fixed candidate table
// sampled uniformly.
type Policy int

const (
	// Isotropic4 moves one unit north, south, east or west.
	Isotropic4 Policy = iota
	// ColdBiased is Isotropic4 with the southward step doubled.
	ColdBiased
	// EastWest2 only moves one unit east or west.
	EastWest2
)

var policySteps = [...][]Step{
	Isotropic4: {{0, 1}, {0, -1}, {1, 0}, {-1, 0}},
	ColdBiased: {{0, 1}, {0, -2}, {1, 0}, {-1, 0}},
	EastWest2:  {{1, 0}, {-1, 0}},
}

var policyNames = [...]string{
	Isotropic4: "isotropic4",
	ColdBiased: "cold-biased",
	EastWest2:  "east-west2",
}

var policyAliases = map[string]Policy{
	"usual":      Isotropic4,
	"usualdrunk": Isotropic4,
	"cold":       ColdBiased,
	"colddrunk":  ColdBiased,
	"ew":         EastWest2,
	"ewdrunk":    EastWest2,
	"east-west":  EastWest2,
}

// AllPolicies returns every variant in declaration order.
func AllPolicies() []Policy {
	return []Policy{Isotropic4, ColdBiased, EastWest2}
}

// ParsePolicy resolves a policy from its canonical name or a known alias.
// Matching is case-insensitive.
func ParsePolicy(name string) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for p, n := range policyNames {
		if n == key {
			return Policy(p), nil
		}
	}
	if p, ok := policyAliases[key]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Valid reports whether p is one of the shipped variants.
func (p Policy) Valid() bool {
	return p >= 0 && int(p) < len(policySteps)
}

func (p Policy) String() string {
	if !p.Valid() {
		return fmt.Sprintf("policy(%d)", int(p))
	}
	return policyNames[p]
}

// Steps returns a copy of the candidate table.
func (p Policy) Steps() []Step {
	if !p.Valid() {
		return nil
	}
	out := make([]Step, len(policySteps[p]))
	copy(out, policySteps[p])
	return out
}

// Sample draws one step uniformly from the candidate table.
// It panics on an invalid policy, like indexing out of range would.
func (p Policy) Sample(rng *rand.Rand) Step {
	choices := policySteps[p]
	return choices[rng.IntN(len(choices))]
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
