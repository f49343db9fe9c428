package field

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/aretw0/drunkard/pkg/domain"
)

// Key is an exact integer coordinate pair.
type Key struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// KeyOf returns the key for loc, or false when either coordinate is not integral.
func KeyOf(loc domain.Location) (Key, bool) {
	if loc.X != math.Trunc(loc.X) || loc.Y != math.Trunc(loc.Y) {
		return Key{}, false
	}
	if math.Abs(loc.X) >= math.MaxInt64 || math.Abs(loc.Y) >= math.MaxInt64 {
		return Key{}, false
	}
	return Key{X: int64(loc.X), Y: int64(loc.Y)}, true
}

// WormholeConfig describes a randomly generated wormhole table.
type WormholeConfig struct {
	Holes  int `json:"holes" yaml:"holes" mapstructure:"holes"`
	XRange int `json:"x_range" yaml:"x_range" mapstructure:"x_range"`
	YRange int `json:"y_range" yaml:"y_range" mapstructure:"y_range"`
}

// MaxRange bounds XRange and YRange so that 2*r+1 fits an int64 draw and
// every coordinate is exactly representable as a float64.
const MaxRange = math.MaxInt32

// Validate rejects negative counts and ranges, and ranges above MaxRange.
func (c WormholeConfig) Validate() error {
	if c.Holes < 0 || c.XRange < 0 || c.YRange < 0 {
		return fmt.Errorf("%w: holes=%d x_range=%d y_range=%d", domain.ErrInvalidWormholes, c.Holes, c.XRange, c.YRange)
	}
	if c.XRange > MaxRange || c.YRange > MaxRange {
		return fmt.Errorf("%w: x_range and y_range must be <= %d", domain.ErrInvalidWormholes, MaxRange)
	}
	return nil
}

// Wormholes is a teleport table from exact source coordinates to destinations.
type Wormholes struct {
	holes map[Key]domain.Location
}

var _ Redirector = (*Wormholes)(nil)

// NewWormholes draws cfg.Holes (source, destination) pairs with uniform integer
// coordinates in [-XRange, XRange] x [-YRange, YRange]. A later source that
// collides with an earlier one replaces it.
func NewWormholes(rng *rand.Rand, cfg WormholeConfig) (*Wormholes, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &Wormholes{holes: make(map[Key]domain.Location, cfg.Holes)}
	for range cfg.Holes {
		x := randRange(rng, cfg.XRange)
		y := randRange(rng, cfg.YRange)
		newX := randRange(rng, cfg.XRange)
		newY := randRange(rng, cfg.YRange)
		w.holes[Key{X: x, Y: y}] = domain.NewLocation(float64(newX), float64(newY))
	}
	return w, nil
}

// randRange returns a uniform integer in [-r, r].
func randRange(rng *rand.Rand, r int) int64 {
	return rng.Int64N(2*int64(r)+1) - int64(r)
}

// Add installs a wormhole, replacing any existing one at src.
func (w *Wormholes) Add(src Key, dst domain.Location) {
	if w.holes == nil {
		w.holes = make(map[Key]domain.Location)
	}
	w.holes[src] = dst
}

// Lookup returns the destination of the wormhole at src.
func (w *Wormholes) Lookup(src Key) (domain.Location, bool) {
	dst, ok := w.holes[src]
	return dst, ok
}

// Redirect implements Redirector.
func (w *Wormholes) Redirect(loc domain.Location) (domain.Location, bool) {
	key, ok := KeyOf(loc)
	if !ok {
		return domain.Location{}, false
	}
	return w.Lookup(key)
}

// Len returns the number of distinct sources.
func (w *Wormholes) Len() int {
	return len(w.holes)
}

// Sources returns the source keys sorted by X then Y.
func (w *Wormholes) Sources() []Key {
	keys := make([]Key, 0, len(w.holes))
	for k := range w.holes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Y < keys[j].Y
	})
	return keys
}

// NewAnomaly builds a field whose walkers are teleported through a freshly
// generated wormhole table.
func NewAnomaly(rng *rand.Rand, cfg WormholeConfig, opts ...Option) (*Field, error) {
	holes, err := NewWormholes(rng, cfg)
	if err != nil {
		return nil, fmt.Errorf("anomaly field: %w", err)
	}
	return New(append([]Option{WithRedirector(holes)}, opts...)...), nil
}
