// Package target picks which detected marker the cursor should chase.
package target

import "image"

// Axis selects the coordinate a Band constrains.
type Axis int

const (
	AxisY Axis = iota // vertical, the default
	AxisX
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Band is an inclusive coordinate interval on one axis.
type Band struct {
	Min, Max int
	Axis     Axis
}

// Valid reports whether the band admits at least one coordinate.
func (b Band) Valid() bool { return b.Min <= b.Max }

// Contains reports whether p lies inside the band.
func (b Band) Contains(p image.Point) bool {
	v := p.Y
	if b.Axis == AxisX {
		v = p.X
	}
	return v >= b.Min && v <= b.Max
}

// Select returns the candidate nearest to ref among those inside band (all
// candidates when band is nil). The first minimal candidate wins ties.
func Select(candidates []image.Point, ref image.Point, band *Band) (image.Point, bool) {
	var (
		best  image.Point
		bestD int
		found bool
	)
	for _, c := range candidates {
		if band != nil && !band.Contains(c) {
			continue
		}
		d := DistSq(c, ref)
		if !found || d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}

// DistSq is the squared Euclidean distance between a and b.
func DistSq(a, b image.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
