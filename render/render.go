// Package render turns calculated frames into drawing calls on a surface.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"git.sr.ht/~whereswaldon/ugraph/calculate"
	"git.sr.ht/~whereswaldon/ugraph/series"
	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// ErrUnknownRenderer is returned when looking up a renderer name that is not
// registered.
var ErrUnknownRenderer = errors.New("unknown renderer")

// Color is the palette entry of one series. A zero Fill falls back to Stroke.
type Color struct {
	Stroke color.NRGBA
	Fill   color.NRGBA
}

func (c Color) fill() color.NRGBA {
	if c.Fill == (color.NRGBA{}) {
		return c.Stroke
	}
	return c.Fill
}

// Style holds the line appearance shared by every series.
type Style struct {
	Cap    surface.Cap
	Width  float64
	Colors []Color
}

// color returns the palette entry of the i'th series.
func (s Style) color(i int) Color {
	if len(s.Colors) == 0 {
		return Color{Stroke: color.NRGBA{A: 255}}
	}
	return s.Colors[i%len(s.Colors)]
}

func (s Style) stroke(i int) surface.StrokeStyle {
	return surface.StrokeStyle{Width: s.Width, Cap: s.Cap, Color: s.color(i).Stroke}
}

// GapFunc reports whether the line between two consecutive points should be
// broken.
type GapFunc func(prev, cur calculate.RenderPoint) bool

// Never is the GapFunc of a chart without a cadence.
func Never(prev, cur calculate.RenderPoint) bool { return false }

// Cadence returns a GapFunc breaking lines wherever consecutive points are
// further apart than cadence. A cadence <= 0 never breaks lines.
func Cadence(cadence float64) GapFunc {
	if cadence <= 0 {
		return Never
	}
	return func(prev, cur calculate.RenderPoint) bool {
		return cur.X-prev.X > cadence
	}
}

// Config configures a renderer. X and Y project data coordinates onto the
// surface; nil projections are the identity.
type Config struct {
	X, Y      func(float64) float64
	Gap       GapFunc
	ZeroBased bool
	Style     Style
}

func identity(v float64) float64 { return v }

func (c Config) withDefaults() Config {
	if c.X == nil {
		c.X = identity
	}
	if c.Y == nil {
		c.Y = identity
	}
	if c.Gap == nil {
		c.Gap = Never
	}
	return c
}

// Renderer calculates frames from series and draws them.
type Renderer interface {
	// Calculate builds the frame this renderer knows how to draw.
	Calculate(source []*series.Series, visit calculate.Visitor) *calculate.Frame
	// Render draws the entries of a frame calculated by this renderer.
	Render(s surface.Surface, data []calculate.Entry)
}

// Factory builds a renderer from its configuration.
type Factory func(Config) Renderer

var registry = map[string]Factory{
	"line":         NewLine,
	"stacked-line": NewStackedLine,
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, name)
	}
	return f, nil
}

// Names lists the registered renderer names in lexical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
