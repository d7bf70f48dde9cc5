package render

import (
	"git.sr.ht/~whereswaldon/ugraph/calculate"
	"git.sr.ht/~whereswaldon/ugraph/series"
	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// StackedLine fills the area between each series and the series below it,
// then strokes the upper edge.
type StackedLine struct {
	cfg Config
}

// NewStackedLine returns a stacked area renderer. ZeroBased has no effect on
// it, since stacks always start at zero.
func NewStackedLine(cfg Config) Renderer {
	return StackedLine{cfg: cfg.withDefaults()}
}

func (r StackedLine) Calculate(source []*series.Series, visit calculate.Visitor) *calculate.Frame {
	return calculate.Stacked(source, visit)
}

func (r StackedLine) Render(s surface.Surface, data []calculate.Entry) {
	for i, entry := range data {
		if len(entry.Data) == 0 {
			continue
		}
		fill := r.cfg.Style.color(i).fill()
		for _, run := range r.runs(entry.Data) {
			r.area(s, run)
			s.Fill(fill)
		}
		r.top(s, entry.Data)
		s.Stroke(r.cfg.Style.stroke(i))
	}
}

// runs splits points into gap-free runs.
func (r StackedLine) runs(points []calculate.RenderPoint) [][]calculate.RenderPoint {
	var runs [][]calculate.RenderPoint
	start := 0
	for i := 1; i < len(points); i++ {
		if r.cfg.Gap(points[i-1], points[i]) {
			runs = append(runs, points[start:i])
			start = i
		}
	}
	return append(runs, points[start:])
}

// area walks forward along the top of the run and back along its base.
func (r StackedLine) area(s surface.Surface, run []calculate.RenderPoint) {
	x, y := r.cfg.X, r.cfg.Y
	s.BeginPath()
	s.MoveTo(x(run[0].X), y(run[0].Top()))
	for _, p := range run[1:] {
		s.LineTo(x(p.X), y(p.Top()))
	}
	for i := len(run) - 1; i >= 0; i-- {
		s.LineTo(x(run[i].X), y(run[i].Y0))
	}
	s.ClosePath()
}

func (r StackedLine) top(s surface.Surface, points []calculate.RenderPoint) {
	x, y := r.cfg.X, r.cfg.Y
	s.BeginPath()
	prev := points[0]
	s.MoveTo(x(prev.X), y(prev.Top()))
	for _, p := range points[1:] {
		if r.cfg.Gap(prev, p) {
			s.MoveTo(x(p.X), y(p.Top()))
		} else {
			s.LineTo(x(p.X), y(p.Top()))
		}
		prev = p
	}
}
