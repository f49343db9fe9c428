package drunkard

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/drunkard/internal/runtime"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/stats"
)

// SweepPoint is the summary of one batch in a sweep.
type SweepPoint struct {
	Steps   int           `json:"steps" yaml:"steps"`
	Summary stats.Summary `json:"summary" yaml:"summary"`
}

// PolicySweep holds the per-step-count summaries of one policy.
type PolicySweep struct {
	Policy domain.Policy `json:"policy" yaml:"policy"`
	Trials int           `json:"trials" yaml:"trials"`
	Points []SweepPoint  `json:"points" yaml:"points"`
	// MeanCV is the average coefficient of variation across Points.
	MeanCV float64 `json:"mean_cv" yaml:"mean_cv"`
}

// MarshalJSON encodes a NaN MeanCV as null.
func (p PolicySweep) MarshalJSON() ([]byte, error) {
	type alias PolicySweep
	return json.Marshal(struct {
		alias
		MeanCV *float64 `json:"mean_cv"`
	}{alias: alias(p), MeanCV: stats.Finite(p.MeanCV)})
}

// StepCounts returns the x values of the sweep.
func (p PolicySweep) StepCounts() []int {
	out := make([]int, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Steps
	}
	return out
}

// Means returns the mean distance of every point.
func (p PolicySweep) Means() []float64 {
	out := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Summary.Mean
	}
	return out
}

// CVs returns the coefficient of variation of every point.
func (p PolicySweep) CVs() []float64 {
	out := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Summary.CV
	}
	return out
}

// LocationBatch is the scatter of final locations for one policy.
type LocationBatch struct {
	Policy    domain.Policy     `json:"policy" yaml:"policy"`
	Steps     int               `json:"steps" yaml:"steps"`
	Locations []domain.Location `json:"locations" yaml:"locations"`
	Mean      domain.Location   `json:"mean" yaml:"mean"`
}

// WalkTrace is the ordered path of one long walk.
type WalkTrace struct {
	Policy    domain.Policy     `json:"policy" yaml:"policy"`
	Walker    string            `json:"walker" yaml:"walker"`
	Locations []domain.Location `json:"locations" yaml:"locations"`
	Teleports int               `json:"teleports" yaml:"teleports"`
}

// Sweep runs one batch per step count and summarizes each.
func (s *Simulator) Sweep(ctx context.Context, stepCounts []int, numTrials int, policy domain.Policy) (PolicySweep, error) {
	sweep := PolicySweep{
		Policy: policy,
		Trials: numTrials,
		Points: make([]SweepPoint, 0, len(stepCounts)),
	}
	s.logger.Info("starting sweep", "policy", policy, "step_counts", len(stepCounts), "trials", numTrials)
	for _, numSteps := range stepCounts {
		distances, err := s.SimulateBatch(ctx, numSteps, numTrials, policy)
		if err != nil {
			return PolicySweep{}, fmt.Errorf("sweep %s at %d steps: %w", policy, numSteps, err)
		}
		summary, err := stats.Summarize(distances)
		if err != nil {
			return PolicySweep{}, err
		}
		sweep.Points = append(sweep.Points, SweepPoint{Steps: numSteps, Summary: summary})
	}
	sweep.MeanCV = stats.Mean(sweep.CVs())
	return sweep, nil
}

// SweepAll runs Sweep for every policy in order.
func (s *Simulator) SweepAll(ctx context.Context, stepCounts []int, numTrials int, policies ...domain.Policy) ([]PolicySweep, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("%w: no policies selected", domain.ErrUnknownPolicy)
	}
	out := make([]PolicySweep, 0, len(policies))
	for _, p := range policies {
		sweep, err := s.Sweep(ctx, stepCounts, numTrials, p)
		if err != nil {
			return nil, err
		}
		out = append(out, sweep)
	}
	return out, nil
}

// Scatter collects the final locations of numTrials walks for every policy.
func (s *Simulator) Scatter(ctx context.Context, numSteps, numTrials int, policies ...domain.Policy) ([]LocationBatch, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("%w: no policies selected", domain.ErrUnknownPolicy)
	}
	out := make([]LocationBatch, 0, len(policies))
	for _, p := range policies {
		locs, err := s.FinalLocations(ctx, numSteps, numTrials, p)
		if err != nil {
			return nil, fmt.Errorf("scatter %s: %w", p, err)
		}
		out = append(out, LocationBatch{
			Policy:    p,
			Steps:     numSteps,
			Locations: locs,
			Mean:      domain.MeanLocation(locs),
		})
	}
	return out, nil
}

// TraceWalks walks one walker per policy through a single shared field and
// records every location visited. The field is a wormhole field when the
// simulator was built WithAnomaly.
func (s *Simulator) TraceWalks(ctx context.Context, numSteps int, policies ...domain.Policy) ([]WalkTrace, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("%w: no policies selected", domain.ErrUnknownPolicy)
	}
	if numSteps < 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidSteps, numSteps)
	}
	for _, p := range policies {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: %d", domain.ErrUnknownPolicy, int(p))
		}
	}

	rng := s.drawSeeds(1)[0].rand()
	traces := make([]WalkTrace, len(policies))
	var current *WalkTrace

	f, err := s.newField(rng, func(e *domain.TeleportEvent) {
		if current != nil {
			current.Teleports++
		}
		if s.hooks.OnTeleport != nil {
			s.hooks.OnTeleport(e)
		}
	})
	if err != nil {
		return nil, err
	}

	for i, p := range policies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current = &traces[i]
		current.Policy = p
		current.Walker = fmt.Sprintf("%s-%d", p, i+1)

		w := domain.NewWalker(current.Walker, p, rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
		if err := f.Register(w, domain.Origin); err != nil {
			return nil, err
		}
		locs, err := runtime.Trace(f, w, numSteps)
		if err != nil {
			return nil, fmt.Errorf("trace %s: %w", p, err)
		}
		current.Locations = locs
		s.logger.Debug("trace complete", "policy", p, "steps", numSteps, "teleports", current.Teleports)
	}
	return traces, nil
}
