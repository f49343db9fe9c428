package domain

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Steps(t *testing.T) {
	assert.ElementsMatch(t, []Step{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}, Isotropic4.Steps())
	assert.ElementsMatch(t, []Step{{0, 1}, {0, -2}, {1, 0}, {-1, 0}}, ColdBiased.Steps())
	assert.ElementsMatch(t, []Step{{1, 0}, {-1, 0}}, EastWest2.Steps())
	assert.Nil(t, Policy(42).Steps())

	// Steps hands out a copy.
	s := Isotropic4.Steps()
	s[0] = Step{DX: 99}
	assert.NotEqual(t, s[0], Isotropic4.Steps()[0])
}

func TestPolicy_SampleStaysInCandidateSet(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, p := range AllPolicies() {
		candidates := p.Steps()
		seen := make(map[Step]int)
		for range 4000 {
			s := p.Sample(rng)
			require.Contains(t, candidates, s, "policy %s", p)
			seen[s]++
		}
		// Uniform sampling: every candidate shows up with a sane frequency.
		for _, c := range candidates {
			expected := 4000 / len(candidates)
			assert.InDelta(t, expected, seen[c], float64(expected)*0.15, "policy %s step %v", p, c)
		}
	}
}

func TestPolicy_Parse(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "isotropic4", want: Isotropic4},
		{in: "Cold-Biased", want: ColdBiased},
		{in: " east-west2 ", want: EastWest2},
		{in: "usual", want: Isotropic4},
		{in: "ColdDrunk", want: ColdBiased},
		{in: "ew", want: EastWest2},
		{in: "sober", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_TextRoundTrip(t *testing.T) {
	data, err := json.Marshal(map[string]Policy{"p": ColdBiased})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"cold-biased"}`, string(data))

	var decoded struct {
		P Policy `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p":"ew"}`), &decoded))
	assert.Equal(t, EastWest2, decoded.P)

	_, err = Policy(-1).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownPolicy)
	assert.Equal(t, "policy(-1)", Policy(-1).String())
}

func TestWalker_EastWestNeverMovesVertically(t *testing.T) {
	w := NewWalker("", EastWest2, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, "east-west2", w.Name)

	loc := Origin
	for range 500 {
		loc = loc.Move(w.TakeStep())
		require.Zero(t, loc.Y)
	}
}

func TestWalker_IsotropicSingleStepIsUnitManhattan(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for range 200 {
		w := NewWalker("homer", Isotropic4, rng)
		loc := Origin.Move(w.TakeStep())
		assert.Equal(t, 1.0, math.Abs(loc.X)+math.Abs(loc.Y))
	}
}
