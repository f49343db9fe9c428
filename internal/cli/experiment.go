package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/internal/config"
	"github.com/aretw0/drunkard/internal/presentation/report"
	"github.com/aretw0/drunkard/internal/presentation/tui"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/muesli/termenv"
)

// Sections selects which phases of an experiment run.
type Sections struct {
	Sweep   bool
	Scatter bool
	Trace   bool
}

// AllSections runs the whole experiment.
var AllSections = Sections{Sweep: true, Scatter: true, Trace: true}

// SimulatorOptions translates an experiment into simulator options.
// The anomaly, when configured, applies to sweeps and scatters only.
func SimulatorOptions(cfg config.Experiment, logger *slog.Logger, hooks domain.LifecycleHooks) []drunkard.Option {
	opts := []drunkard.Option{
		drunkard.WithLogger(logger),
		drunkard.WithLifecycleHooks(hooks),
		drunkard.WithWorkers(cfg.Workers),
	}
	if cfg.Seed != 0 {
		opts = append(opts, drunkard.WithSeed(cfg.Seed))
	}
	if cfg.Anomaly != nil {
		opts = append(opts, drunkard.WithAnomaly(*cfg.Anomaly))
	}
	return opts
}

// traceOptions are the simulator options for the traced walk, which runs
// through the trace wormholes instead of the experiment anomaly.
func traceOptions(cfg config.Experiment, logger *slog.Logger, hooks domain.LifecycleHooks) []drunkard.Option {
	trace := cfg
	trace.Anomaly = cfg.Trace.Wormholes
	return SimulatorOptions(trace, logger.With("phase", "trace"), hooks)
}

// resolveSeed returns seed, or a fresh nonzero seed drawn from entropy when
// seed is 0.
func resolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}

// RunExperiment runs the selected sections of cfg and gathers them into a
// report. An unseeded experiment is given an entropy seed first, and the
// report names it so the run can be repeated.
func RunExperiment(ctx context.Context, cfg config.Experiment, sections Sections, logger *slog.Logger, hooks domain.LifecycleHooks) (report.Report, error) {
	if err := cfg.Validate(); err != nil {
		return report.Report{}, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = resolveSeed(0)
		logger.Info("Seeded from entropy", "seed", cfg.Seed)
	}
	r := report.Report{Seed: cfg.Seed}

	sim, err := drunkard.New(SimulatorOptions(cfg, logger, hooks)...)
	if err != nil {
		return report.Report{}, err
	}

	if sections.Sweep {
		logger.Info("Running sweep", "policies", len(cfg.Policies), "step_counts", len(cfg.Steps), "trials", cfg.Trials)
		r.Sweeps, err = sim.SweepAll(ctx, cfg.Steps, cfg.Trials, cfg.Policies...)
		if err != nil {
			return r, fmt.Errorf("sweep: %w", err)
		}
	}

	if sections.Scatter {
		logger.Info("Collecting final locations", "steps", cfg.Scatter.Steps, "trials", cfg.Scatter.Trials)
		r.Scatter, err = sim.Scatter(ctx, cfg.Scatter.Steps, cfg.Scatter.Trials, cfg.Policies...)
		if err != nil {
			return r, fmt.Errorf("scatter: %w", err)
		}
	}

	if sections.Trace {
		tracer, err := drunkard.New(traceOptions(cfg, logger, hooks)...)
		if err != nil {
			return r, err
		}
		logger.Info("Tracing walks", "steps", cfg.Trace.Steps)
		r.Traces, err = tracer.TraceWalks(ctx, cfg.Trace.Steps, cfg.Policies...)
		if err != nil {
			return r, fmt.Errorf("trace: %w", err)
		}
	}

	return r, nil
}

// Emit writes r to out in format f. Markdown is rendered with glamour and
// text is colored only when out is a terminal.
func Emit(out *os.File, r report.Report, f report.Format) error {
	tty := IsTerminal(out)
	return emit(out, r, f, tty, terminalWidth(out))
}

func emit(w io.Writer, r report.Report, f report.Format, tty bool, width int) error {
	switch f {
	case report.FormatJSON, report.FormatYAML:
		return report.Encode(w, r, f)
	case report.FormatText:
		profile := termenv.Ascii
		if tty {
			profile = termenv.EnvColorProfile()
		}
		report.WriteText(w, r, profile)
		return nil
	}

	size := report.DefaultPlotSize
	if width > 0 && width-8 < size.Width {
		size.Width = max(width-8, 20)
	}
	md := report.Markdown(r, size)
	if tty {
		rendered, err := tui.NewRenderer(width)(md)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		md = rendered
	}
	_, err := io.WriteString(w, md)
	return err
}
