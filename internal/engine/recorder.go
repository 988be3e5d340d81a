package engine

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/samui/samui/backend-go/internal/geom"
)

// DrawCommand represents a single drawing operation for a frontend to execute.
// The frontend receives a list of these and replays them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "clear", "fill", "stroke", "text", "clip", "unclip"
	Shape       string        `json:"shape,omitempty"`       // circle, rectangle, triangle, polyline
	X           float64       `json:"x"`                     // centre, or text origin
	Y           float64       `json:"y"`                     //
	Radius      float64       `json:"radius"`                // circles
	Width       float64       `json:"width"`                 // rectangles, clear/clip regions
	Height      float64       `json:"height"`                //
	Path        []PathCommand `json:"path,omitempty"`        // triangles and polylines
	Color       string        `json:"color,omitempty"`       // CSS colour
	StrokeWidth float64       `json:"strokeWidth,omitempty"` //
	Dash        []float64     `json:"dash,omitempty"`        // absent = solid
	Text        string        `json:"text,omitempty"`        //
	FontSize    float64       `json:"fontSize,omitempty"`    //
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Z"].
type PathCommand []interface{}

// Recorder is a Surface that buffers draw commands in painter's order.
// Text is measured with a fixed advance of 0.6em per rune.
type Recorder struct {
	commands []DrawCommand
}

// NewRecorder creates an empty command buffer.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Commands returns the buffered commands.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops all buffered commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// Take returns the buffered commands and starts a fresh buffer.
func (r *Recorder) Take() []DrawCommand {
	out := r.commands
	r.commands = nil
	return out
}

func (r *Recorder) Clear(region geom.Box) {
	r.commands = append(r.commands, DrawCommand{
		Op: "clear", X: region.X, Y: region.Y, Width: region.W, Height: region.H,
	})
}

func (r *Recorder) FillShape(s Shape, c geom.Color) {
	cmd := shapeCommand("fill", s)
	cmd.Color = c.String()
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) StrokeShape(s Shape, c geom.Color, width float64, dash []float64) {
	cmd := shapeCommand("stroke", s)
	cmd.Color = c.String()
	cmd.StrokeWidth = width
	if len(dash) > 0 {
		cmd.Dash = append([]float64(nil), dash...)
	}
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) MeasureText(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.6
}

func (r *Recorder) DrawText(text string, x, y, size float64, c geom.Color) {
	r.commands = append(r.commands, DrawCommand{
		Op: "text", Text: text, X: x, Y: y, FontSize: size, Color: c.String(),
	})
}

func (r *Recorder) PushClip(region geom.Box) {
	r.commands = append(r.commands, DrawCommand{
		Op: "clip", X: region.X, Y: region.Y, Width: region.W, Height: region.H,
	})
}

func (r *Recorder) PopClip() {
	r.commands = append(r.commands, DrawCommand{Op: "unclip"})
}

func shapeCommand(op string, s Shape) DrawCommand {
	cmd := DrawCommand{Op: op, Shape: s.Kind.String()}
	switch s.Kind {
	case ShapeCircle:
		cmd.X, cmd.Y, cmd.Radius = s.X, s.Y, s.Radius
	case ShapeRectangle:
		cmd.X, cmd.Y, cmd.Width, cmd.Height = s.X, s.Y, s.Width, s.Height
	default:
		cmd.Path = make([]PathCommand, 0, len(s.Points)+1)
		for i, p := range s.Points {
			verb := "L"
			if i == 0 {
				verb = "M"
			}
			cmd.Path = append(cmd.Path, PathCommand{verb, p.X, p.Y})
		}
		if s.Kind == ShapeTriangle {
			cmd.Path = append(cmd.Path, PathCommand{"Z"})
		}
	}
	return cmd
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
