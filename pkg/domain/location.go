package domain

import (
	"fmt"
	"math"
)

// Origin is the starting point of every trial.
var Origin = Location{}

// Location is an immutable point on the plane.
type Location struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewLocation returns the point (x, y).
func NewLocation(x, y float64) Location {
	return Location{X: x, Y: y}
}

// Move returns the location translated by (dx, dy). The receiver is not modified.
func (l Location) Move(dx, dy float64) Location {
	return Location{X: l.X + dx, Y: l.Y + dy}
}

// DistanceTo returns the Euclidean distance between l and other.
func (l Location) DistanceTo(other Location) float64 {
	return math.Hypot(l.X-other.X, l.Y-other.Y)
}

func (l Location) String() string {
	return fmt.Sprintf("<%g, %g>", l.X, l.Y)
}

// MeanLocation returns the centroid of locs, or Origin when locs is empty.
func MeanLocation(locs []Location) Location {
	if len(locs) == 0 {
		return Origin
	}
	var sx, sy float64
	for _, l := range locs {
		sx += l.X
		sy += l.Y
	}
	n := float64(len(locs))
	return Location{X: sx / n, Y: sy / n}
}
