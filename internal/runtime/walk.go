package runtime

import (
	"fmt"

	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/ports"
)

// Walk advances w exactly numSteps times inside f and returns the distance
// between where it started and where it ended. w must already be registered.
func Walk(f ports.Field, w *domain.Walker, numSteps int) (float64, error) {
	start, err := f.LocationOf(w)
	if err != nil {
		return 0, err
	}
	end, err := Displace(f, w, numSteps)
	if err != nil {
		return 0, err
	}
	return start.DistanceTo(end), nil
}

// Displace advances w numSteps times and returns its final location.
func Displace(f ports.Field, w *domain.Walker, numSteps int) (domain.Location, error) {
	if numSteps < 0 {
		return domain.Location{}, fmt.Errorf("%w: got %d", domain.ErrInvalidSteps, numSteps)
	}
	for s := 0; s < numSteps; s++ {
		if err := f.Advance(w); err != nil {
			return domain.Location{}, fmt.Errorf("step %d: %w", s, err)
		}
	}
	return f.LocationOf(w)
}

// Trace advances w numSteps times and returns the location reached after
// each step, in order. The starting location is not included.
func Trace(f ports.Field, w *domain.Walker, numSteps int) ([]domain.Location, error) {
	if numSteps < 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidSteps, numSteps)
	}
	locs := make([]domain.Location, 0, numSteps)
	for s := 0; s < numSteps; s++ {
		if err := f.Advance(w); err != nil {
			return nil, fmt.Errorf("step %d: %w", s, err)
		}
		loc, err := f.LocationOf(w)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}
