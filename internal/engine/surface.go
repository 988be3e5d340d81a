package engine

import "github.com/samui/samui/backend-go/internal/geom"

// Surface is an immediate-mode 2D drawing target. Coordinates are surface
// pixels. Implementations must tolerate any call order; clips nest.
type Surface interface {
	Clear(region geom.Box)
	FillShape(s Shape, c geom.Color)
	StrokeShape(s Shape, c geom.Color, width float64, dash []float64)
	MeasureText(text string, size float64) float64
	DrawText(text string, x, y, size float64, c geom.Color)
	PushClip(region geom.Box)
	PopClip()
}

// DrawTextCentered draws text horizontally centred on x with its baseline
// at y.
func DrawTextCentered(surface Surface, text string, x, y, size float64, c geom.Color) {
	if surface == nil {
		return
	}
	w := surface.MeasureText(text, size)
	surface.DrawText(text, x-w/2, y, size, c)
}
