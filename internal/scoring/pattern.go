package scoring

import "math"

// PatternRow is a draggable tape of Patterns repeating cells, each CellWidth
// wide, scrolled by Offset. The row is correct when TargetIndex is centred.
type PatternRow struct {
	Offset      float64 `json:"offset"`
	CellWidth   float64 `json:"cellWidth"`
	Patterns    int     `json:"patterns"`
	TargetIndex int     `json:"targetIndex"`
}

// TapeWidth is the length of one full repetition of the tape.
func (r PatternRow) TapeWidth() float64 {
	return r.CellWidth * float64(r.Patterns)
}

// TargetOffset is the offset that centres the target pattern.
func (r PatternRow) TargetOffset() float64 {
	return -float64(r.TargetIndex) * r.CellWidth
}

// Wrap normalises x into [0, w).
func Wrap(x, w float64) float64 {
	return math.Mod(math.Mod(x, w)+w, w)
}

// Correctness returns how close the row is to its target in [0, 1], taking
// the shorter way around the tape. Half a tape away is 0. A zero-width tape
// is trivially correct.
func (r PatternRow) Correctness() float64 {
	w := r.TapeWidth()
	if !(w > 0) {
		return 1
	}
	d := math.Abs(Wrap(r.Offset, w) - Wrap(r.TargetOffset(), w))
	shortest := math.Min(d, w-d)
	return Falloff(shortest, w/2)
}

// Pattern sums each row's correctness, weighted equally across rows. No rows
// counts as complete.
func Pattern(rows []PatternRow) int {
	if len(rows) == 0 {
		return 100
	}
	share := 100 / float64(len(rows))
	total := 0.0
	for _, r := range rows {
		total += r.Correctness() * share
	}
	return ClampPercent(total)
}
