package surface

import (
	"fmt"
	"image"
	"image/color"
)

// Op is one drawing call captured by a Recorder.
type Op struct {
	Kind   string
	X, Y   float64
	Rect   Rect
	Stroke StrokeStyle
	Color  color.NRGBA
	// Source is the recorder composited by a "draw" op.
	Source *Recorder
}

func (o Op) String() string {
	switch o.Kind {
	case "move", "line":
		return fmt.Sprintf("%s(%g,%g)", o.Kind, o.X, o.Y)
	case "rect":
		return fmt.Sprintf("rect(%g,%g,%g,%g)", o.Rect.X, o.Rect.Y, o.Rect.W, o.Rect.H)
	case "draw":
		return fmt.Sprintf("draw(%g,%g)", o.X, o.Y)
	default:
		return o.Kind
	}
}

// Recorder is a Surface that records the calls made to it. It is useful for
// tests and for replaying a drawing onto another surface.
type Recorder struct {
	size image.Point
	Ops  []Op
	// Buffers holds every surface acquired through NewBuffer.
	Buffers []*Recorder
	// FailBuffers makes NewBuffer fail.
	FailBuffers bool
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder of the given size.
func NewRecorder(size image.Point) *Recorder {
	return &Recorder{size: size}
}

func (r *Recorder) Size() image.Point { return r.size }

func (r *Recorder) Resize(size image.Point) {
	r.size = size
	r.Ops = r.Ops[:0]
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops[:0], Op{Kind: "clear"})
}

func (r *Recorder) BeginPath() { r.Ops = append(r.Ops, Op{Kind: "begin"}) }

func (r *Recorder) MoveTo(x, y float64) { r.Ops = append(r.Ops, Op{Kind: "move", X: x, Y: y}) }

func (r *Recorder) LineTo(x, y float64) { r.Ops = append(r.Ops, Op{Kind: "line", X: x, Y: y}) }

func (r *Recorder) ClosePath() { r.Ops = append(r.Ops, Op{Kind: "close"}) }

func (r *Recorder) Stroke(style StrokeStyle) {
	r.Ops = append(r.Ops, Op{Kind: "stroke", Stroke: style})
}

func (r *Recorder) Fill(c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "fill", Color: c})
}

func (r *Recorder) FillRect(rect Rect, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Rect: rect, Color: c})
}

func (r *Recorder) DrawSurface(src Surface, x, y float64) {
	rec, _ := src.(*Recorder)
	r.Ops = append(r.Ops, Op{Kind: "draw", X: x, Y: y, Source: rec})
}

func (r *Recorder) NewBuffer(size image.Point) (Surface, error) {
	if r.FailBuffers {
		return nil, fmt.Errorf("recorder refused buffer of size %v", size)
	}
	b := NewRecorder(size)
	r.Buffers = append(r.Buffers, b)
	return b, nil
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Path returns the String form of every move and line op, in order.
func (r *Recorder) Path() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "move" || op.Kind == "line" || op.Kind == "close" {
			out = append(out, op.String())
		}
	}
	return out
}

// Replay issues the recorded ops against dst.
func (r *Recorder) Replay(dst Surface) {
	for _, op := range r.Ops {
		switch op.Kind {
		case "clear":
			dst.Clear()
		case "begin":
			dst.BeginPath()
		case "move":
			dst.MoveTo(op.X, op.Y)
		case "line":
			dst.LineTo(op.X, op.Y)
		case "close":
			dst.ClosePath()
		case "stroke":
			dst.Stroke(op.Stroke)
		case "fill":
			dst.Fill(op.Color)
		case "rect":
			dst.FillRect(op.Rect, op.Color)
		}
	}
}
