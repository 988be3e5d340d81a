package games

import "github.com/samui/samui/backend-go/internal/geom"

var (
	colorBar       = geom.RGB(198, 198, 198)
	colorGuide     = geom.RGB(2, 2, 2)
	colorGuideDone = geom.RGB(83, 234, 205)
	colorGray      = geom.MustHex("#9ca3af")
	colorLightGray = geom.MustHex("#d1d5db")
	colorGreen     = geom.MustHex("#10b981")
	colorHint      = geom.MustHex("#a1a1aa")
	colorOverlap   = geom.Color{R: 255, A: 26}
)

// Hover outline style.
const hoverWidth = 2

var hoverDash = []float64{5, 5}
