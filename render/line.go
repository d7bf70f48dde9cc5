package render

import (
	"git.sr.ht/~whereswaldon/ugraph/calculate"
	"git.sr.ht/~whereswaldon/ugraph/series"
	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// Line draws every series as a polyline.
type Line struct {
	cfg Config
}

// NewLine returns a line renderer.
func NewLine(cfg Config) Renderer {
	return Line{cfg: cfg.withDefaults()}
}

func (l Line) Calculate(source []*series.Series, visit calculate.Visitor) *calculate.Frame {
	if l.cfg.ZeroBased {
		return calculate.ZeroBased(source, visit)
	}
	return calculate.Normal(source, visit)
}

func (l Line) Render(s surface.Surface, data []calculate.Entry) {
	for i, entry := range data {
		if len(entry.Data) == 0 {
			continue
		}
		l.line(s, entry.Data)
		s.Stroke(l.cfg.Style.stroke(i))
	}
}

// line builds the path through points, lifting the pen across gaps.
func (l Line) line(s surface.Surface, points []calculate.RenderPoint) {
	x, y := l.cfg.X, l.cfg.Y
	s.BeginPath()
	prev := points[0]
	s.MoveTo(x(prev.X), y(prev.Y))
	for _, p := range points[1:] {
		if l.cfg.Gap(prev, p) {
			s.MoveTo(x(p.X), y(p.Y))
		} else {
			s.LineTo(x(p.X), y(p.Y))
		}
		prev = p
	}
}
