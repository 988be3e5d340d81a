// Package scoring turns the geometry of each mini-game into a 0-100
// completion percentage. Every function is pure: the same configuration always
// yields the same percentage.
package scoring

import (
	"math"

	"github.com/samui/samui/backend-go/internal/geom"
)

var (
	// IncompleteColor and CompleteColor are the ends of the progress gradient.
	IncompleteColor = geom.RGB(249, 93, 93)
	CompleteColor   = geom.RGB(83, 234, 205)
)

// Falloff maps a deviation onto [0, 1]: 1 at zero deviation, falling linearly
// to 0 at maxDeviation and beyond. A non-positive or NaN maxDeviation is
// degenerate and counts as complete.
func Falloff(deviation, maxDeviation float64) float64 {
	if !(maxDeviation > 0) {
		return 1
	}
	if math.IsNaN(deviation) {
		return 0
	}
	d := math.Min(math.Abs(deviation), maxDeviation)
	return geom.Clamp01(1 - d/maxDeviation)
}

// ClampPercent rounds v and limits it to [0, 100]. NaN becomes 0.
func ClampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(geom.Clamp(math.Round(v), 0, 100))
}

// Color returns the progress colour for a percentage.
func Color(percentage int) geom.Color {
	t := geom.Clamp01(float64(percentage) / 100)
	return geom.LerpColor(IncompleteColor, CompleteColor, t)
}
