// Package stats computes the dispersion summaries reported for each batch of trials.
package stats

import (
	"encoding/json"
	"errors"
	"math"
)

// ErrEmptySample is returned when a summary is requested over no outcomes.
var ErrEmptySample = errors.New("empty sample")

// Summary describes a batch of trial outcomes.
type Summary struct {
	N      int     `json:"n" yaml:"n"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	// CV is StdDev/Mean, NaN when Mean is exactly zero.
	CV  float64 `json:"cv" yaml:"cv"`
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Mean returns the arithmetic mean of xs, or NaN when xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation of xs (divides by N).
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stdDevAround(xs, Mean(xs))
}

func stdDevAround(xs []float64, mean float64) float64 {
	var tot float64
	for _, x := range xs {
		d := x - mean
		tot += d * d
	}
	return math.Sqrt(tot / float64(len(xs)))
}

// CV returns the coefficient of variation of xs. A zero mean yields NaN
// instead of a division fault.
func CV(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	mean := Mean(xs)
	return cv(stdDevAround(xs, mean), mean)
}

func cv(stdDev, mean float64) float64 {
	if mean == 0 {
		return math.NaN()
	}
	return stdDev / mean
}

// Summarize computes every statistic of xs in one pass over the mean.
func Summarize(xs []float64) (Summary, error) {
	if len(xs) == 0 {
		return Summary{}, ErrEmptySample
	}
	mean := Mean(xs)
	sd := stdDevAround(xs, mean)
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return Summary{
		N:      len(xs),
		Mean:   mean,
		StdDev: sd,
		CV:     cv(sd, mean),
		Min:    lo,
		Max:    hi,
	}, nil
}

// MarshalJSON encodes NaN or infinite statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		N      int      `json:"n"`
		Mean   *float64 `json:"mean"`
		StdDev *float64 `json:"std_dev"`
		CV     *float64 `json:"cv"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
	}{
		N:      s.N,
		Mean:   Finite(s.Mean),
		StdDev: Finite(s.StdDev),
		CV:     Finite(s.CV),
		Min:    Finite(s.Min),
		Max:    Finite(s.Max),
	})
}

// UnmarshalJSON decodes null statistics back to NaN.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var raw struct {
		N      int      `json:"n"`
		Mean   *float64 `json:"mean"`
		StdDev *float64 `json:"std_dev"`
		CV     *float64 `json:"cv"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Summary{
		N:      raw.N,
		Mean:   orNaN(raw.Mean),
		StdDev: orNaN(raw.StdDev),
		CV:     orNaN(raw.CV),
		Min:    orNaN(raw.Min),
		Max:    orNaN(raw.Max),
	}
	return nil
}

// Finite returns a pointer to v, or nil when v is NaN or infinite.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
