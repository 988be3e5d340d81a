// Package collide separates overlapping square bodies by fixed-count pairwise
// relaxation. It is not an exact solver: dense layouts can keep small residual
// overlaps after the last iteration, and scoring is tuned for that.
package collide

import (
	"math"

	"github.com/samui/samui/backend-go/internal/geom"
)

// Defaults used by the proximity game.
const (
	DefaultIterations       = 8
	DefaultPadding          = 20
	DefaultCollisionPadding = 5
)

// Options configures Resolve. Width and Height are the container extent.
type Options struct {
	Iterations       int
	Padding          float64
	CollisionPadding float64
	Width            float64
	Height           float64
}

// DefaultOptions returns the standard settings for a container.
func DefaultOptions(width, height float64) Options {
	return Options{
		Iterations:       DefaultIterations,
		Padding:          DefaultPadding,
		CollisionPadding: DefaultCollisionPadding,
		Width:            width,
		Height:           height,
	}
}

// Resolve pushes overlapping bodies apart in place. Every iteration visits
// each unordered pair once, then clamps every body into the padded container.
// All iterations always run.
func Resolve(bodies []geom.Square, opts Options) {
	for it := 0; it < opts.Iterations; it++ {
		for j := 0; j < len(bodies); j++ {
			for k := j + 1; k < len(bodies); k++ {
				separate(&bodies[j], &bodies[k], opts.CollisionPadding)
			}
		}
		for i := range bodies {
			clampInto(&bodies[i], opts)
		}
	}
}

func separate(a, b *geom.Square, pad float64) {
	ca, cb := a.Center(), b.Center()
	dx := ca.X - cb.X
	dy := ca.Y - cb.Y
	combined := (a.Size+b.Size)/2 + pad

	if math.Abs(dx) >= combined || math.Abs(dy) >= combined {
		return
	}

	ox := combined - math.Abs(dx)
	oy := combined - math.Abs(dy)
	if ox < oy {
		a.X += ox / 2 * sign(dx)
		b.X -= ox / 2 * sign(dx)
	} else {
		a.Y += oy / 2 * sign(dy)
		b.Y -= oy / 2 * sign(dy)
	}
}

// clampInto applies the lower bound first, so a body larger than the
// container ends at the upper bound.
func clampInto(s *geom.Square, opts Options) {
	s.X = math.Min(math.Max(s.X, opts.Padding), opts.Width-opts.Padding-s.Size)
	s.Y = math.Min(math.Max(s.Y, opts.Padding), opts.Height-opts.Padding-s.Size)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Overlapping reports whether a and b are closer than their combined
// half-extents plus pad on both axes.
func Overlapping(a, b geom.Square, pad float64) bool {
	ca, cb := a.Center(), b.Center()
	combined := (a.Size+b.Size)/2 + pad
	return math.Abs(ca.X-cb.X) < combined && math.Abs(ca.Y-cb.Y) < combined
}
