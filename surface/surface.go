// Package surface defines the drawing capability charts render onto.
//
// A Surface behaves like a 2D canvas context: paths are built with MoveTo
// and LineTo and then stroked or filled, and whole surfaces can be composited
// onto each other. Styles are passed with each stroke or fill instead of being
// kept as mutable context state.
package surface

import (
	"image"
	"image/color"
)

// Cap is the shape used at the ends of stroked lines.
type Cap uint8

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

func (c Cap) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapRound:
		return "round"
	case CapSquare:
		return "square"
	default:
		return "unknown"
	}
}

// StrokeStyle describes how a path is stroked.
type StrokeStyle struct {
	Width float64
	Cap   Cap
	Color color.NRGBA
}

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Surface is a drawing target.
type Surface interface {
	// Size returns the size of the surface in pixels.
	Size() image.Point
	// Resize changes the size of the surface, discarding its content.
	Resize(size image.Point)
	// Clear erases the whole surface.
	Clear()
	// BeginPath discards the current path.
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// ClosePath connects the current point to the start of the subpath.
	ClosePath()
	// Stroke draws the current path and then discards it.
	Stroke(style StrokeStyle)
	// Fill fills the current path and then discards it.
	Fill(c color.NRGBA)
	FillRect(r Rect, c color.NRGBA)
	// DrawSurface composites src onto this surface with its origin at
	// (x, y). src must have been created by NewBuffer of a surface of the
	// same implementation.
	DrawSurface(src Surface, x, y float64)
	// NewBuffer acquires an offscreen surface that can be composited onto
	// this one.
	NewBuffer(size image.Point) (Surface, error)
}
