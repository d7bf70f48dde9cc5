// Package style reads chart configuration from YAML files. A style file
// lists only the settings it changes:
//
//	renderer: stacked-line
//	line_width: 1.5
//	line_colors:
//	  - "#1f78b4"
//	  - stroke: "#33a02c"
//	    fill: "#33a02c80"
//	highlight_cap: square
//	cadence: 60
package style

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"git.sr.ht/~whereswaldon/ugraph"
	"git.sr.ht/~whereswaldon/ugraph/render"
	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// Color is a colour written as "#rrggbb" or "#rrggbbaa".
type Color color.NRGBA

func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return Color{}, fmt.Errorf("invalid colour %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// Cap is a line cap written as butt, round or square.
type Cap surface.Cap

func (c *Cap) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	for _, known := range []surface.Cap{surface.CapButt, surface.CapRound, surface.CapSquare} {
		if s == known.String() {
			*c = Cap(known)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown line cap %q", value.Line, s)
}

// SeriesColor is one palette entry. It is written either as a single colour
// or as a mapping with stroke and fill colours.
type SeriesColor struct {
	Stroke Color  `yaml:"stroke"`
	Fill   *Color `yaml:"fill"`
}

func (s *SeriesColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = SeriesColor{}
		return value.Decode(&s.Stroke)
	}
	type plain SeriesColor
	return value.Decode((*plain)(s))
}

func (s SeriesColor) color() render.Color {
	c := render.Color{Stroke: color.NRGBA(s.Stroke)}
	if s.Fill != nil {
		c.Fill = color.NRGBA(*s.Fill)
	}
	return c
}

// File is the content of a style file. Nil fields keep their defaults.
type File struct {
	ClickThreshold *float64      `yaml:"click_threshold"`
	DragColor      *Color        `yaml:"drag_color"`
	LineCap        *Cap          `yaml:"line_cap"`
	LineWidth      *float64      `yaml:"line_width"`
	LineColors     []SeriesColor `yaml:"line_colors"`
	HighlightCap   *Cap          `yaml:"highlight_cap"`
	HighlightWidth *float64      `yaml:"highlight_width"`
	HighlightColor *Color        `yaml:"highlight_color"`
	Padding        *float64      `yaml:"padding"`
	Cadence        *float64      `yaml:"cadence"`
	ZeroBased      *bool         `yaml:"zero_based"`
	Renderer       *string       `yaml:"renderer"`
	Highlight      *bool         `yaml:"highlight"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Apply returns cfg with the settings of the file applied.
func (f File) Apply(cfg ugraph.Config) ugraph.Config {
	set(&cfg.ClickThreshold, f.ClickThreshold)
	if f.DragColor != nil {
		cfg.DragColor = color.NRGBA(*f.DragColor)
	}
	if f.LineCap != nil {
		cfg.LineCap = surface.Cap(*f.LineCap)
	}
	set(&cfg.LineWidth, f.LineWidth)
	if len(f.LineColors) > 0 {
		cfg.LineColors = make([]render.Color, len(f.LineColors))
		for i, c := range f.LineColors {
			cfg.LineColors[i] = c.color()
		}
	}
	if f.HighlightCap != nil {
		cfg.HighlightCap = surface.Cap(*f.HighlightCap)
	}
	set(&cfg.HighlightWidth, f.HighlightWidth)
	if f.HighlightColor != nil {
		cfg.HighlightColor = color.NRGBA(*f.HighlightColor)
	}
	set(&cfg.Padding, f.Padding)
	set(&cfg.Cadence, f.Cadence)
	set(&cfg.ZeroBased, f.ZeroBased)
	set(&cfg.Renderer, f.Renderer)
	set(&cfg.Highlight, f.Highlight)
	return cfg
}

// Parse reads a style document and applies it to ugraph.DefaultConfig. An
// empty document yields the defaults.
func Parse(r io.Reader) (ugraph.Config, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return ugraph.Config{}, fmt.Errorf("failed decoding style: %w", err)
	}
	cfg := f.Apply(ugraph.DefaultConfig())
	if _, err := render.Lookup(cfg.Renderer); err != nil {
		return ugraph.Config{}, fmt.Errorf("invalid style: %w", err)
	}
	return cfg, nil
}

// Load reads the style file at path.
func Load(path string) (_ ugraph.Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return ugraph.Config{}, fmt.Errorf("failed opening style: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	cfg, err := Parse(f)
	if err != nil {
		return ugraph.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
