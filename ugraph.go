// Package ugraph implements an interactive time series chart.
//
// A Graph calculates the extents of a set of series, draws them onto an
// offscreen surface, and composites that surface with a crosshair and a drag
// selection onto a visible surface once per frame. Pointer events and values
// observed from other charts are merged during the frame, and observers are
// notified once per change, so several charts can share a crosshair, a
// selection and a zoom window.
package ugraph

import (
	"errors"

	"git.sr.ht/~whereswaldon/ugraph/highlight"
	"git.sr.ht/~whereswaldon/ugraph/render"
)

var (
	// ErrNoSurface is returned by New when the host provides no surface.
	ErrNoSurface = errors.New("ugraph: no drawing surface")
	// ErrNoBuffer is returned by New when the offscreen surface could not
	// be acquired.
	ErrNoBuffer = errors.New("ugraph: no offscreen surface")
	// ErrUnknownRenderer is returned for renderer names that are not
	// registered.
	ErrUnknownRenderer = render.ErrUnknownRenderer
)

// Focus is the zoom window of a chart. The zero value is NoFocus, which shows
// the full extent of the data.
type Focus struct {
	set      bool
	min, max float64
}

// NoFocus shows the full extent of the data.
var NoFocus Focus

// NewFocus returns the window between a and b, in either order.
func NewFocus(a, b float64) Focus {
	return Focus{set: true, min: min(a, b), max: max(a, b)}
}

// IsNone reports whether f is NoFocus.
func (f Focus) IsNone() bool { return !f.set }

// Window returns the bounds of the focus.
func (f Focus) Window() (lo, hi float64) { return f.min, f.max }

// Contains reports whether x is inside the window. Everything is inside
// NoFocus.
func (f Focus) Contains(x float64) bool {
	return !f.set || (x >= f.min && x <= f.max)
}

// Range is a selection in data coordinates, anchored where the drag started.
// The zero value is NoRange.
type Range struct {
	set        bool
	x, y       float64
	xEnd, yEnd float64
}

// NoRange is the absence of a selection.
var NoRange Range

func NewRange(x, y, xEnd, yEnd float64) Range {
	return Range{set: true, x: x, y: y, xEnd: xEnd, yEnd: yEnd}
}

func (r Range) IsNone() bool { return !r.set }

// Start returns the anchor of the range.
func (r Range) Start() (x, y float64) { return r.x, r.y }

// End returns the point the range was dragged to.
func (r Range) End() (x, y float64) { return r.xEnd, r.yEnd }

// XSpan returns the ordered x bounds of the range.
func (r Range) XSpan() (lo, hi float64) {
	return min(r.x, r.xEnd), max(r.x, r.xEnd)
}

// Highlight is the set of points under the crosshair. Highlights are
// compared by identity; every index rebuild produces new ones.
type Highlight = *highlight.Entry

// NoHighlight is the highlight of nothing.
var NoHighlight Highlight = highlight.None

type HighlightEvent struct {
	Highlight Highlight
}

type RangeEvent struct {
	Range Range
}

type FocusEvent struct {
	Focus Focus
}

// Button identifies a pointer button.
type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// MouseEvent is a pointer event in surface coordinates.
type MouseEvent struct {
	X, Y   float64
	Button Button
}
