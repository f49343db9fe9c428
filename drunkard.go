package drunkard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/drunkard/internal/runtime"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/field"
	"golang.org/x/sync/errgroup"
)

// Simulator is the high-level entry point for running random-walk experiments.
// It owns the single random source every trial derives from, so two
// simulators built with the same seed report the same outcomes.
// A Simulator is safe for concurrent use.
type Simulator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	workers int
	anomaly *field.WormholeConfig
}

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithRand injects the master random source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) {
		s.rng = rng
	}
}

// WithSeed seeds the master random source deterministically.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets a custom structured logger for the simulator.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// With more than one worker, trial and teleport hooks may fire concurrently.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithWorkers runs the trials of a batch on up to n goroutines.
// Outcomes do not depend on n.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		s.workers = n
	}
}

// WithAnomaly makes every field a wormhole field generated from cfg.
func WithAnomaly(cfg field.WormholeConfig) Option {
	return func(s *Simulator) {
		s.anomaly = &cfg
	}
}

// New initializes a Simulator. Without WithRand or WithSeed the master source
// is seeded from the runtime's entropy.
func New(opts ...Option) (*Simulator, error) {
	s := &Simulator{workers: 1}
	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.anomaly != nil {
		if err := s.anomaly.Validate(); err != nil {
			return nil, err
		}
		s.logger = s.logger.With("anomaly", true)
	}
	return s, nil
}

type seedPair struct{ hi, lo uint64 }

// drawSeeds takes n independent seeds from the master source in order.
func (s *Simulator) drawSeeds(n int) []seedPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	seeds := make([]seedPair, n)
	for i := range seeds {
		seeds[i] = seedPair{hi: s.rng.Uint64(), lo: s.rng.Uint64()}
	}
	return seeds
}

func (p seedPair) rand() *rand.Rand {
	return rand.New(rand.NewPCG(p.hi, p.lo))
}

// newField builds the field for one trial or trace.
func (s *Simulator) newField(rng *rand.Rand, onTeleport func(*domain.TeleportEvent)) (*field.Field, error) {
	var opts []field.Option
	if onTeleport != nil {
		opts = append(opts, field.WithTeleportHook(onTeleport))
	}
	if s.anomaly == nil {
		return field.New(opts...), nil
	}
	return field.NewAnomaly(rng, *s.anomaly, opts...)
}

// runTrials calls fn once per trial with a source derived from the master
// source. Seeds are drawn before any trial runs, so results are identical
// whether trials run sequentially or concurrently.
func (s *Simulator) runTrials(ctx context.Context, numTrials int, fn func(i int, rng *rand.Rand) error) error {
	seeds := s.drawSeeds(numTrials)

	if s.workers == 1 {
		for i, seed := range seeds {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i, seed.rand()); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, seed := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i, seed.rand())
		})
	}
	return g.Wait()
}

func validateBatch(numSteps, numTrials int, policy domain.Policy) error {
	if numSteps < 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidSteps, numSteps)
	}
	if numTrials <= 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidTrials, numTrials)
	}
	if !policy.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrUnknownPolicy, int(policy))
	}
	return nil
}

// startTrial builds a fresh field and walker registered at the origin.
func (s *Simulator) startTrial(policy domain.Policy, rng *rand.Rand) (*field.Field, *domain.Walker, error) {
	f, err := s.newField(rng, s.hooks.OnTeleport)
	if err != nil {
		return nil, nil, err
	}
	w := domain.NewWalker(policy.String(), policy, rng)
	if err := f.Register(w, domain.Origin); err != nil {
		return nil, nil, err
	}
	return f, w, nil
}

// SimulateBatch runs numTrials independent walks of numSteps steps each and
// returns the distance from the origin at the end of every walk.
func (s *Simulator) SimulateBatch(ctx context.Context, numSteps, numTrials int, policy domain.Policy) ([]float64, error) {
	if err := validateBatch(numSteps, numTrials, policy); err != nil {
		return nil, err
	}

	started := time.Now()
	event := &domain.BatchEvent{
		EventBase: domain.EventBase{Timestamp: started, Type: domain.EventBatchStart},
		Policy:    policy,
		Steps:     numSteps,
		Trials:    numTrials,
	}
	if s.hooks.OnBatchStart != nil {
		s.hooks.OnBatchStart(ctx, event)
	}

	distances := make([]float64, numTrials)
	err := s.runTrials(ctx, numTrials, func(i int, rng *rand.Rand) error {
		f, w, err := s.startTrial(policy, rng)
		if err != nil {
			return err
		}
		d, err := runtime.Walk(f, w, numSteps)
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		distances[i] = d
		if s.hooks.OnTrialComplete != nil {
			s.hooks.OnTrialComplete(ctx, &domain.TrialEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTrialComplete},
				Policy:    policy,
				Steps:     numSteps,
				Trial:     i,
				Distance:  d,
			})
		}
		return nil
	})

	elapsed := time.Since(started)
	if s.hooks.OnBatchComplete != nil {
		s.hooks.OnBatchComplete(ctx, &domain.BatchEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBatchComplete},
			Policy:    policy,
			Steps:     numSteps,
			Trials:    numTrials,
			Elapsed:   elapsed,
			Failed:    err != nil,
		})
	}
	if err != nil {
		s.logger.Error("batch failed", "policy", policy, "steps", numSteps, "error", err)
		return nil, err
	}

	s.logger.Debug("batch complete",
		"policy", policy,
		"steps", numSteps,
		"trials", numTrials,
		"elapsed", elapsed,
	)
	return distances, nil
}

// FinalLocations runs numTrials independent walks and returns where each one ended.
func (s *Simulator) FinalLocations(ctx context.Context, numSteps, numTrials int, policy domain.Policy) ([]domain.Location, error) {
	if err := validateBatch(numSteps, numTrials, policy); err != nil {
		return nil, err
	}
	locs := make([]domain.Location, numTrials)
	err := s.runTrials(ctx, numTrials, func(i int, rng *rand.Rand) error {
		f, w, err := s.startTrial(policy, rng)
		if err != nil {
			return err
		}
		end, err := runtime.Displace(f, w, numSteps)
		if err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
		locs[i] = end
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locs, nil
}
