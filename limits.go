package drunkard

import (
	"errors"
	"fmt"
)

// ErrTooLarge is returned when a workload exceeds its Limits.
var ErrTooLarge = errors.New("request exceeds limits")

// Limits bound the work a single request may ask for. A zero field leaves
// that dimension unbounded.
type Limits struct {
	MaxSteps  int
	MaxTrials int
	MaxHoles  int
	// MaxWork caps Workload.Cost.
	MaxWork float64
}

// DefaultLimits keep one request under a few seconds on a laptop.
var DefaultLimits = Limits{
	MaxSteps:  1_000_000,
	MaxTrials: 10_000,
	MaxHoles:  10_000,
	MaxWork:   100_000_000,
}

// Workload describes what a request asks the simulator to do.
type Workload struct {
	Steps    []int
	Trials   int
	Policies int
	// Holes is the size of the wormhole table built for every trial.
	Holes int
}

// Cost counts the walker advances and wormhole draws of w: every trial of
// every step count and policy builds its field and walks it once.
func (w Workload) Cost() float64 {
	var total float64
	for _, s := range w.Steps {
		total += float64(max(s, 0)) + float64(max(w.Holes, 0)) + 1
	}
	return total * float64(max(w.Trials, 1)) * float64(max(w.Policies, 1))
}

// Check reports ErrTooLarge when w exceeds any bound of l.
func (l Limits) Check(w Workload) error {
	for _, s := range w.Steps {
		if l.MaxSteps > 0 && s > l.MaxSteps {
			return fmt.Errorf("%w: steps <= %d", ErrTooLarge, l.MaxSteps)
		}
	}
	if l.MaxTrials > 0 && w.Trials > l.MaxTrials {
		return fmt.Errorf("%w: trials <= %d", ErrTooLarge, l.MaxTrials)
	}
	if l.MaxHoles > 0 && w.Holes > l.MaxHoles {
		return fmt.Errorf("%w: holes <= %d", ErrTooLarge, l.MaxHoles)
	}
	if l.MaxWork > 0 {
		if cost := w.Cost(); cost > l.MaxWork {
			return fmt.Errorf("%w: work %.0f over budget %.0f", ErrTooLarge, cost, l.MaxWork)
		}
	}
	return nil
}
