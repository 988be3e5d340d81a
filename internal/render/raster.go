// Package render rasterises engine surfaces with gogpu/gg for PNG previews
// and server-side snapshots.
package render

import (
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/samui/samui/backend-go/internal/engine"
	"github.com/samui/samui/backend-go/internal/geom"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func defaultFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Raster is an engine.Surface backed by a gg context. Clear paints the
// region with Background.
type Raster struct {
	Background geom.Color

	ctx   *gg.Context
	font  *text.FontSource
	faces map[float64]text.Face
	clips int
}

var _ engine.Surface = (*Raster)(nil)

// New creates a white width x height raster.
func New(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	font, err := defaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r := &Raster{
		Background: geom.RGB(255, 255, 255),
		ctx:        gg.NewContext(width, height),
		font:       font,
		faces:      make(map[float64]text.Face),
	}
	r.ctx.SetColor(r.Background)
	r.ctx.DrawRectangle(0, 0, float64(width), float64(height))
	if err := r.ctx.Fill(); err != nil {
		return nil, fmt.Errorf("clear raster: %w", err)
	}
	return r, nil
}

func (r *Raster) Width() int  { return r.ctx.Width() }
func (r *Raster) Height() int { return r.ctx.Height() }

func (r *Raster) Clear(region geom.Box) {
	r.ctx.SetColor(r.Background)
	r.ctx.DrawRectangle(region.X, region.Y, region.W, region.H)
	r.ctx.Fill()
}

func (r *Raster) FillShape(s engine.Shape, c geom.Color) {
	if s.Kind == engine.ShapePolyline {
		return
	}
	r.path(s)
	r.ctx.SetColor(c)
	r.ctx.Fill()
}

func (r *Raster) StrokeShape(s engine.Shape, c geom.Color, width float64, dash []float64) {
	r.path(s)
	r.ctx.SetColor(c)
	r.ctx.SetLineWidth(width)
	if len(dash) > 0 {
		r.ctx.SetDash(dash...)
	} else {
		r.ctx.ClearDash()
	}
	r.ctx.Stroke()
	r.ctx.ClearDash()
}

func (r *Raster) path(s engine.Shape) {
	switch s.Kind {
	case engine.ShapeCircle:
		r.ctx.DrawCircle(s.X, s.Y, s.Radius)
	case engine.ShapeRectangle:
		r.ctx.DrawRectangle(s.X-s.Width/2, s.Y-s.Height/2, s.Width, s.Height)
	case engine.ShapeTriangle, engine.ShapePolyline:
		for i, p := range s.Points {
			if i == 0 {
				r.ctx.MoveTo(p.X, p.Y)
			} else {
				r.ctx.LineTo(p.X, p.Y)
			}
		}
		if s.Kind == engine.ShapeTriangle {
			r.ctx.ClosePath()
		}
	}
}

func (r *Raster) face(size float64) text.Face {
	f, ok := r.faces[size]
	if !ok {
		f = r.font.Face(size)
		r.faces[size] = f
	}
	return f
}

func (r *Raster) MeasureText(s string, size float64) float64 {
	w, _ := text.Measure(s, r.face(size))
	return w
}

// DrawText draws s with its baseline at y.
func (r *Raster) DrawText(s string, x, y, size float64, c geom.Color) {
	r.ctx.SetFont(r.face(size))
	r.ctx.SetColor(c)
	r.ctx.DrawString(s, x, y)
}

func (r *Raster) PushClip(region geom.Box) {
	r.ctx.Push()
	r.ctx.ClipRect(region.X, region.Y, region.W, region.H)
	r.clips++
}

// PopClip restores the clip. Unbalanced pops are ignored.
func (r *Raster) PopClip() {
	if r.clips == 0 {
		return
	}
	r.clips--
	r.ctx.Pop()
}

func (r *Raster) Image() image.Image { return r.ctx.Image() }

func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.ctx.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Raster) Close() error { return r.ctx.Close() }
