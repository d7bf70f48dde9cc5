// Package gio draws charts with Gio and provides a chart widget.
package gio

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/x/stroke"
	"golang.org/x/exp/constraints"

	"git.sr.ht/~whereswaldon/ugraph/surface"
)

type segment struct {
	move bool
	pt   f32.Point
}

// Surface records drawing calls as Gio operations. Every stroke or fill
// becomes a macro in the surface's own op list, so a surface can be
// composited into a frame any number of times until it is cleared.
type Surface struct {
	size  image.Point
	ops   op.Ops
	calls []op.CallOp
	path  []segment
}

var _ surface.Surface = (*Surface)(nil)

func NewSurface(size image.Point) *Surface {
	return &Surface{size: size}
}

func (s *Surface) Size() image.Point { return s.size }

func (s *Surface) Resize(size image.Point) {
	s.size = size
	s.Clear()
}

func (s *Surface) Clear() {
	s.ops.Reset()
	s.calls = s.calls[:0]
	s.BeginPath()
}

func (s *Surface) BeginPath() {
	s.path = s.path[:0]
}

func (s *Surface) MoveTo(x, y float64) {
	s.path = append(s.path, segment{move: true, pt: pt(x, y)})
}

func (s *Surface) LineTo(x, y float64) {
	if len(s.path) == 0 {
		s.MoveTo(x, y)
		return
	}
	s.path = append(s.path, segment{pt: pt(x, y)})
}

func (s *Surface) ClosePath() {
	start := s.subpathStart()
	if start < 0 {
		return
	}
	s.path = append(s.path, segment{pt: s.path[start].pt})
}

// subpathStart returns the index of the last move, or -1.
func (s *Surface) subpathStart() int {
	for i := len(s.path) - 1; i >= 0; i-- {
		if s.path[i].move {
			return i
		}
	}
	return -1
}

func pt(x, y float64) f32.Point {
	return f32.Pt(float32(x), float32(y))
}

func (s *Surface) record(draw func(ops *op.Ops)) {
	macro := op.Record(&s.ops)
	draw(&s.ops)
	s.calls = append(s.calls, macro.Stop())
}

func strokeCap(c surface.Cap) stroke.StrokeCap {
	switch c {
	case surface.CapRound:
		return stroke.RoundCap
	case surface.CapSquare:
		return stroke.SquareCap
	default:
		return stroke.FlatCap
	}
}

func (s *Surface) Stroke(style surface.StrokeStyle) {
	defer s.BeginPath()
	if len(s.path) < 2 {
		return
	}
	segments := make([]stroke.Segment, 0, len(s.path))
	for _, seg := range s.path {
		if seg.move {
			segments = append(segments, stroke.MoveTo(seg.pt))
		} else {
			segments = append(segments, stroke.LineTo(seg.pt))
		}
	}
	s.record(func(ops *op.Ops) {
		shape := stroke.Stroke{
			Path:  stroke.Path{Segments: segments},
			Width: float32(style.Width),
			Cap:   strokeCap(style.Cap),
		}.Op(ops)
		paint.FillShape(ops, style.Color, shape)
	})
}

func (s *Surface) Fill(c color.NRGBA) {
	defer s.BeginPath()
	if len(s.path) < 3 {
		return
	}
	s.record(func(ops *op.Ops) {
		var p clip.Path
		p.Begin(ops)
		for i, seg := range s.path {
			if seg.move {
				if i > 0 {
					p.Close()
				}
				p.MoveTo(seg.pt)
				continue
			}
			p.LineTo(seg.pt)
		}
		p.Close()
		paint.FillShape(ops, c, clip.Outline{Path: p.End()}.Op())
	})
}

func (s *Surface) FillRect(r surface.Rect, c color.NRGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	rect := image.Rect(
		int(floor(r.X)), int(floor(r.Y)),
		int(ceil(r.X+r.W)), int(ceil(r.Y+r.H)),
	)
	s.record(func(ops *op.Ops) {
		paint.FillShape(ops, c, clip.Rect(rect).Op())
	})
}

// DrawSurface composites src, which must be a *Surface.
func (s *Surface) DrawSurface(src surface.Surface, x, y float64) {
	buffer, ok := src.(*Surface)
	if !ok || len(buffer.calls) == 0 {
		return
	}
	calls := append([]op.CallOp(nil), buffer.calls...)
	s.record(func(ops *op.Ops) {
		defer op.Affine(f32.Affine2D{}.Offset(pt(x, y))).Push(ops).Pop()
		for _, call := range calls {
			call.Add(ops)
		}
	})
}

func (s *Surface) NewBuffer(size image.Point) (surface.Surface, error) {
	return NewSurface(size), nil
}

// Len returns the number of recorded drawing operations.
func (s *Surface) Len() int { return len(s.calls) }

// Add draws the surface into ops, clipped to its size.
func (s *Surface) Add(ops *op.Ops) {
	defer clip.Rect{Max: s.size}.Push(ops).Pop()
	for _, call := range s.calls {
		call.Add(ops)
	}
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}
