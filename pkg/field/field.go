package field

import (
	"fmt"
	"time"

	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/ports"
)

// Redirector may relocate a walker after it lands on loc.
// It returns the destination and true when a redirection applies.
type Redirector interface {
	Redirect(loc domain.Location) (domain.Location, bool)
}

// Field is the in-memory walker registry.
// It is not safe for concurrent use; each trial owns its own Field.
type Field struct {
	walkers    map[*domain.Walker]domain.Location
	redirector Redirector
	onTeleport func(*domain.TeleportEvent)
}

var _ ports.Field = (*Field)(nil)

// Option configures a Field.
type Option func(*Field)

// WithRedirector installs a post-move redirection rule, e.g. a wormhole table.
func WithRedirector(r Redirector) Option {
	return func(f *Field) {
		f.redirector = r
	}
}

// WithTeleportHook registers a callback fired once per redirection.
func WithTeleportHook(fn func(*domain.TeleportEvent)) Option {
	return func(f *Field) {
		f.onTeleport = fn
	}
}

// New creates an empty field.
func New(opts ...Option) *Field {
	f := &Field{
		walkers: make(map[*domain.Walker]domain.Location),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register places w at loc.
func (f *Field) Register(w *domain.Walker, loc domain.Location) error {
	if _, ok := f.walkers[w]; ok {
		return fmt.Errorf("register %s: %w", w, domain.ErrDuplicateWalker)
	}
	f.walkers[w] = loc
	return nil
}

// Advance moves w by one step. When a redirector is installed and the new
// position matches one of its rules, w ends up at the rule's destination.
// Only one redirection happens per call.
func (f *Field) Advance(w *domain.Walker) error {
	cur, ok := f.walkers[w]
	if !ok {
		return fmt.Errorf("advance %s: %w", w, domain.ErrUnknownWalker)
	}
	next := cur.Move(w.TakeStep())
	if f.redirector != nil {
		if dst, hit := f.redirector.Redirect(next); hit {
			if f.onTeleport != nil {
				f.onTeleport(&domain.TeleportEvent{
					EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTeleport},
					Walker:    w.String(),
					From:      next,
					To:        dst,
				})
			}
			next = dst
		}
	}
	f.walkers[w] = next
	return nil
}

// LocationOf returns the current location of w.
func (f *Field) LocationOf(w *domain.Walker) (domain.Location, error) {
	loc, ok := f.walkers[w]
	if !ok {
		return domain.Location{}, fmt.Errorf("locate %s: %w", w, domain.ErrUnknownWalker)
	}
	return loc, nil
}

// Len returns the number of registered walkers.
func (f *Field) Len() int {
	return len(f.walkers)
}
