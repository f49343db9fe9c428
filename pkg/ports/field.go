package ports

import "github.com/aretw0/drunkard/pkg/domain"

// Field maps walkers to their current location.
// A walker is registered at most once; every operation on a walker the
// field does not hold fails with domain.ErrUnknownWalker.
type Field interface {
	// Register places w at loc.
	// Returns domain.ErrDuplicateWalker if w is already present.
	Register(w *domain.Walker, loc domain.Location) error

	// Advance moves w by one step drawn from its policy.
	Advance(w *domain.Walker) error

	// LocationOf returns the current location of w.
	LocationOf(w *domain.Walker) (domain.Location, error)
}

// FieldFactory builds a fresh, empty Field.
type FieldFactory func() (Field, error)
