package ugraph

import (
	"image/color"

	"git.sr.ht/~whereswaldon/ugraph/render"
	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// Config holds the appearance and behaviour of a chart. It is copied into the
// chart at construction and never read again.
type Config struct {
	// ClickThreshold is the width in pixels under which a drag is a click.
	ClickThreshold float64
	// DragColor shades the area outside of a drag selection.
	DragColor color.NRGBA

	LineCap    surface.Cap
	LineWidth  float64
	LineColors []render.Color

	HighlightCap   surface.Cap
	HighlightWidth float64
	HighlightColor color.NRGBA

	Padding float64
	// Cadence is the largest x distance between consecutive points that is
	// still drawn as connected. Zero disables gaps.
	Cadence   float64
	ZeroBased bool
	// Renderer is the registered name of the renderer, see render.Names.
	Renderer string
	// Highlight enables the crosshair.
	Highlight bool
}

// Palette is the default series palette.
var Palette = []render.Color{
	{Stroke: rgb(0xa6cee3)},
	{Stroke: rgb(0x1f78b4)},
	{Stroke: rgb(0xb2df8a)},
	{Stroke: rgb(0x33a02c)},
	{Stroke: rgb(0xfb9a99)},
	{Stroke: rgb(0xe31a1c)},
	{Stroke: rgb(0xfdbf6f)},
	{Stroke: rgb(0xff7f00)},
	{Stroke: rgb(0xcab2d6)},
	{Stroke: rgb(0x6a3d9a)},
	{Stroke: rgb(0xffff99)},
	{Stroke: rgb(0xb15928)},
}

func rgb(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
}

// DefaultConfig returns the configuration of a line chart with a crosshair.
func DefaultConfig() Config {
	return Config{
		ClickThreshold: 5,
		DragColor:      color.NRGBA{A: 77},
		LineCap:        surface.CapRound,
		LineWidth:      2,
		LineColors:     append([]render.Color(nil), Palette...),
		HighlightCap:   surface.CapButt,
		HighlightWidth: 3,
		HighlightColor: color.NRGBA{A: 0xff},
		Padding:        10,
		Renderer:       "line",
		Highlight:      true,
	}
}

func (c Config) style() render.Style {
	return render.Style{Cap: c.LineCap, Width: c.LineWidth, Colors: c.LineColors}
}

func (c Config) highlightStroke() surface.StrokeStyle {
	return surface.StrokeStyle{Width: c.HighlightWidth, Cap: c.HighlightCap, Color: c.HighlightColor}
}
