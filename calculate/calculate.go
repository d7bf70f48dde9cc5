// Package calculate reduces raw series into axis extents and the point
// arrays consumed by renderers.
//
// Every point of every series is emitted into the resulting frame, but only
// the points accepted by the visitor contribute to the extents. This lets a
// zoomed chart scale its axes to the visible window while still drawing the
// whole polyline, so lines do not break at the edge of the window.
package calculate

import (
	"math"

	"git.sr.ht/~whereswaldon/ugraph/series"
)

// RenderPoint is a point ready for projection. Y0 is the base the point is
// stacked on, and is always zero for unstacked calculations.
type RenderPoint struct {
	X, Y, Y0 float64
}

// Top returns the upper edge of the point, that is its stack base plus its
// own value.
func (p RenderPoint) Top() float64 {
	return p.Y0 + p.Y
}

// Entry holds the calculated points of one series.
type Entry struct {
	Series *series.Series
	Data   []RenderPoint
}

// Frame is the result of one calculation. It is never modified after being
// returned; the next calculation produces a new frame.
type Frame struct {
	XMin, XMax    float64
	YMin, YMax    float64
	Width, Height float64
	Data          []Entry
}

// Empty reports whether the frame has no usable extents, which happens when
// no point was visible. Such a frame must not be projected.
func (f *Frame) Empty() bool {
	for _, v := range [...]float64{f.XMin, f.XMax, f.YMin, f.YMax} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Visitor is invoked for each point in calculation order. stacked reports
// whether p.Y0 carries a stack base. Returning false excludes the point from
// the extents without dropping it from the frame.
type Visitor func(s *series.Series, p RenderPoint, stacked bool) bool

// Calculator turns a set of series into a frame.
type Calculator func(source []*series.Series, visit Visitor) *Frame

var (
	// Normal bounds the frame by the visible points.
	Normal Calculator = seeded(math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1))
	// ZeroBased is like Normal, but always includes y=0 in the extents.
	ZeroBased Calculator = seeded(math.Inf(1), math.Inf(-1), 0, math.Inf(-1))
)

func always(*series.Series, RenderPoint, bool) bool { return true }

type extents struct {
	xmin, xmax, ymin, ymax float64
}

func (e *extents) frame(data []Entry) *Frame {
	return &Frame{
		XMin:   e.xmin,
		XMax:   e.xmax,
		YMin:   e.ymin,
		YMax:   e.ymax,
		Width:  e.xmax - e.xmin,
		Height: e.ymax - e.ymin,
		Data:   data,
	}
}

func seeded(xmin, xmax, ymin, ymax float64) Calculator {
	return func(source []*series.Series, visit Visitor) *Frame {
		if visit == nil {
			visit = always
		}
		e := extents{xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax}
		data := make([]Entry, 0, len(source))
		for _, s := range source {
			points := make([]RenderPoint, 0, len(s.Data))
			for _, p := range s.Data {
				rp := RenderPoint{X: p.X, Y: p.Y}
				points = append(points, rp)
				if !visit(s, rp, false) {
					continue
				}
				e.xmin = min(p.X, e.xmin)
				e.xmax = max(p.X, e.xmax)
				e.ymin = min(p.Y, e.ymin)
				e.ymax = max(p.Y, e.ymax)
			}
			data = append(data, Entry{Series: s, Data: points})
		}
		return e.frame(data)
	}
}

// Stacked stacks each series on top of the series before it. Points are
// stacked by exact X, so stacked series should share an X grid; an X that
// only one series has simply starts its own stack at zero.
func Stacked(source []*series.Series, visit Visitor) *Frame {
	if visit == nil {
		visit = always
	}
	e := extents{
		xmin: math.Inf(1), xmax: math.Inf(-1),
		ymin: math.Inf(1), ymax: math.Inf(-1),
	}
	stacking := make(map[float64]float64)
	data := make([]Entry, 0, len(source))
	for _, s := range source {
		points := make([]RenderPoint, 0, len(s.Data))
		for _, p := range s.Data {
			y0 := stacking[p.X]
			rp := RenderPoint{X: p.X, Y: p.Y, Y0: y0}
			points = append(points, rp)
			stacking[p.X] = y0 + p.Y
			if !visit(s, rp, true) {
				continue
			}
			e.xmin = min(p.X, e.xmin)
			e.xmax = max(p.X, e.xmax)
			e.ymin = min(y0, e.ymin)
			e.ymax = max(rp.Top(), e.ymax)
		}
		data = append(data, Entry{Series: s, Data: points})
	}
	return e.frame(data)
}
