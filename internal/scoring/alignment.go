package scoring

import "math"

// AlignTolerance is the anchor spread, in pixels, treated as aligned.
const AlignTolerance = 1

// Bar is one horizontal bar: its width and its centre's offset from the
// container's centre line.
type Bar struct {
	Width  float64 `json:"width"`
	Offset float64 `json:"offset"`
}

// Anchor returns the x of the bar's left edge in a container of width cw.
func (b Bar) Anchor(cw float64) float64 {
	return cw/2 + b.Offset - b.Width/2
}

// Alignment scores how closely the left edges of bars line up. The spread of
// the anchors falls off to 0 at half the container width. A spread within
// AlignTolerance is exactly 100. No bars counts as aligned.
func Alignment(bars []Bar, containerWidth float64) int {
	if len(bars) == 0 {
		return 100
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, b := range bars {
		x := b.Anchor(containerWidth)
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	deviation := maxX - minX

	if deviation <= AlignTolerance {
		return 100
	}
	return ClampPercent(100 * Falloff(deviation, containerWidth/2))
}
