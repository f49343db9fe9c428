package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/drunkard/internal/logging"
	"github.com/aretw0/drunkard/pkg/domain"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger on Stderr, keeping Stdout
// a clean report. Debug overrides level.
func CreateLogger(debug bool, level slog.Level, format string) *slog.Logger {
	if debug {
		level = slog.LevelDebug
	}
	if format == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

// DebugHooks logs every batch and teleport at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBatchStart: func(ctx context.Context, e *domain.BatchEvent) {
			logger.Debug("Batch Start", "policy", e.Policy, "steps", e.Steps, "trials", e.Trials)
		},
		OnBatchComplete: func(ctx context.Context, e *domain.BatchEvent) {
			if e.Failed {
				logger.Debug("Batch Failed", "policy", e.Policy, "steps", e.Steps, "elapsed", e.Elapsed)
				return
			}
			logger.Debug("Batch Complete", "policy", e.Policy, "steps", e.Steps, "elapsed", e.Elapsed)
		},
		OnTeleport: func(e *domain.TeleportEvent) {
			logger.Debug("Teleport", "walker", e.Walker, "from", e.From, "to", e.To)
		},
	}
}

// printSystemMessage prints a standardized system message to w.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of f, or 0 when unknown.
func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// HandleExecutionError maps an interrupted run to a clean exit and reports
// which signal stopped it. Other errors are returned unchanged.
func HandleExecutionError(w io.Writer, err error, sig os.Signal) error {
	if err == nil || !isInterrupted(err) {
		return err
	}
	switch {
	case sig == os.Interrupt:
		printSystemMessage(w, "Interrupted.")
	case sig != nil:
		printSystemMessage(w, "Terminated (%v).", sig)
	default:
		printSystemMessage(w, "Cancelled.")
	}
	return nil
}
