// Package raster draws charts into in-memory RGBA images, for rendering
// without a window.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"

	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// Surface is a surface.Surface backed by a gg context. Like the context,
// Stroke, Fill and FillRect consume the current path.
type Surface struct {
	dc *gg.Context
}

var _ surface.Surface = (*Surface)(nil)

// New returns a transparent surface of the given size.
func New(size image.Point) *Surface {
	return &Surface{dc: gg.NewContext(max(size.X, 0), max(size.Y, 0))}
}

func (s *Surface) Size() image.Point {
	return image.Pt(s.dc.Width(), s.dc.Height())
}

// Resize replaces the surface's image with an empty one of the given size.
func (s *Surface) Resize(size image.Point) {
	if size == s.Size() {
		s.Clear()
		return
	}
	s.dc = gg.NewContext(max(size.X, 0), max(size.Y, 0))
}

func (s *Surface) Clear() {
	s.dc.ClearPath()
	s.dc.SetColor(color.Transparent)
	s.dc.Clear()
}

func (s *Surface) BeginPath() { s.dc.ClearPath() }
func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64) { s.dc.LineTo(x, y) }
func (s *Surface) ClosePath() { s.dc.ClosePath() }

func lineCap(c surface.Cap) gg.LineCap {
	switch c {
	case surface.CapRound:
		return gg.LineCapRound
	case surface.CapSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func (s *Surface) Stroke(style surface.StrokeStyle) {
	s.dc.SetLineWidth(style.Width)
	s.dc.SetLineCap(lineCap(style.Cap))
	s.dc.SetLineJoinRound()
	s.dc.SetColor(style.Color)
	s.dc.Stroke()
}

func (s *Surface) Fill(c color.NRGBA) {
	s.dc.SetColor(c)
	s.dc.Fill()
}

func (s *Surface) FillRect(r surface.Rect, c color.NRGBA) {
	s.dc.ClearPath()
	if r.W <= 0 || r.H <= 0 {
		return
	}
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.Fill(c)
}

// DrawSurface composites src, which must be a *Surface, at the nearest whole
// pixel offset.
func (s *Surface) DrawSurface(src surface.Surface, x, y float64) {
	buffer, ok := src.(*Surface)
	if !ok {
		return
	}
	s.dc.DrawImage(buffer.dc.Image(), int(math.Round(x)), int(math.Round(y)))
}

var errBufferSize = errors.New("raster: invalid buffer size")

func (s *Surface) NewBuffer(size image.Point) (surface.Surface, error) {
	if size.X < 0 || size.Y < 0 {
		return nil, fmt.Errorf("%w %v", errBufferSize, size)
	}
	return New(size), nil
}

// Image returns the surface's pixels. The image is reused by later drawing.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// Flatten returns a copy of the surface composited over an opaque
// background.
func (s *Surface) Flatten(background color.Color) image.Image {
	out := gg.NewContext(s.dc.Width(), s.dc.Height())
	out.SetColor(background)
	out.Clear()
	out.DrawImage(s.dc.Image(), 0, 0)
	return out.Image()
}

// EncodePNG writes the surface over background to w.
func (s *Surface) EncodePNG(w io.Writer, background color.Color) error {
	if err := gg.NewContextForImage(s.Flatten(background)).EncodePNG(w); err != nil {
		return fmt.Errorf("failed encoding PNG: %w", err)
	}
	return nil
}

// SavePNG writes the surface over background to the file at path.
func (s *Surface) SavePNG(path string, background color.Color) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed creating %q: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return s.EncodePNG(f, background)
}
