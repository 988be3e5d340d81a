package scoring

import (
	"math"

	"github.com/samui/samui/backend-go/internal/geom"
)

// Group box constants shared with the proximity layout.
const (
	GroupPadding     = 20
	CollisionPadding = 5
)

// ProximityInput is the state the proximity score is derived from.
// MinArea is the sum of both groups' minimum areas; InitialArea is the sum of
// both groups' bounding-box areas right after layout.
type ProximityInput struct {
	Squares     []geom.Square
	Circles     []geom.Square
	MinArea     float64
	InitialArea float64
}

// ProximityScore is the composite score with its two halves.
type ProximityScore struct {
	Area       float64 // 0..50
	Overlap    float64 // 0..50
	Percentage int
}

// MinimumArea is the area of the tightest single-row packing of items:
// sizes side by side with collision padding between them, one item tall,
// padded like a group box.
func MinimumArea(items []geom.Square) float64 {
	if len(items) == 0 {
		return 0
	}
	var totalW, maxH float64
	for _, s := range items {
		totalW += s.Size
		maxH = math.Max(maxH, s.Size)
	}
	totalW += float64(len(items)-1) * CollisionPadding
	return (totalW + GroupPadding*2) * (maxH + GroupPadding*2)
}

// GroupBoxes returns the padded bounding boxes of both groups and their
// overlap, if any.
func GroupBoxes(squares, circles []geom.Square) (sq, ci geom.Box, overlap geom.Box, overlapping bool) {
	sq = geom.BoundingBox(squares, GroupPadding)
	ci = geom.BoundingBox(circles, GroupPadding)
	overlap, overlapping = geom.Intersect(sq, ci)
	return sq, ci, overlap, overlapping
}

// Proximity scores two halves of 50 points each: how far the groups' total
// box area has shrunk from its initial value toward its minimum, and how
// little the two group boxes overlap relative to half the total area.
// A layout missing either group scores 0.
func Proximity(in ProximityInput) ProximityScore {
	if len(in.Squares) == 0 || len(in.Circles) == 0 {
		return ProximityScore{}
	}

	sq, ci, overlap, ok := GroupBoxes(in.Squares, in.Circles)
	overlapArea := 0.0
	if ok {
		overlapArea = overlap.Area()
	}
	current := sq.Area() + ci.Area()

	areaRatio := 1.0
	if rng := in.InitialArea - in.MinArea; rng > 0 {
		areaRatio = 1 - (current-in.MinArea)/rng
	}
	overlapRatio := 1.0
	if maxOverlap := current * 0.5; maxOverlap > 0 {
		overlapRatio = 1 - overlapArea/maxOverlap
	}

	s := ProximityScore{
		Area:    geom.Clamp01(areaRatio) * 50,
		Overlap: geom.Clamp01(overlapRatio) * 50,
	}
	s.Percentage = ClampPercent(s.Area + s.Overlap)
	return s
}
