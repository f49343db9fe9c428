package domain

import "errors"

// ErrDuplicateWalker is returned when a walker is registered twice in the same field.
var ErrDuplicateWalker = errors.New("duplicate walker")

// ErrUnknownWalker is returned when a field is asked about a walker it does not hold.
var ErrUnknownWalker = errors.New("walker not in field")

// ErrUnknownPolicy is returned when a policy name or value is not recognised.
var ErrUnknownPolicy = errors.New("unknown step policy")

// ErrInvalidSteps is returned for a negative step count.
var ErrInvalidSteps = errors.New("step count must be >= 0")

// ErrInvalidTrials is returned when a batch is requested with fewer than one trial.
var ErrInvalidTrials = errors.New("trial count must be > 0")

// ErrInvalidWormholes is returned for negative wormhole counts or ranges.
var ErrInvalidWormholes = errors.New("invalid wormhole configuration")
