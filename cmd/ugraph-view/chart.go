package main

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strconv"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"git.sr.ht/~gioverse/skel/stream"

	"git.sr.ht/~whereswaldon/ugraph"
	"git.sr.ht/~whereswaldon/ugraph/gio"
	"git.sr.ht/~whereswaldon/ugraph/highlight"
	"git.sr.ht/~whereswaldon/ugraph/render"
	"git.sr.ht/~whereswaldon/ugraph/series"
	"git.sr.ht/~whereswaldon/ugraph/source"
)

// Panel is one charted file: the chart and a key listing the highlighted
// value of every series.
type Panel struct {
	Name  string
	Chart *gio.Chart

	colors   []render.Color
	sessions *stream.Stream[source.Session]
	session  source.Session
	shown    []*series.Series
	keyTable component.GridState
}

// NewPanel builds a panel showing the sessions produced by provider.
func NewPanel(name string, cfg ugraph.Config, ctrl *stream.Controller, invalidate func(), provider func(ctx context.Context) <-chan source.Session) (*Panel, error) {
	chart, err := gio.NewChart(cfg, invalidate)
	if err != nil {
		return nil, fmt.Errorf("failed creating chart for %s: %w", name, err)
	}
	return &Panel{
		Name:     name,
		Chart:    chart,
		colors:   cfg.LineColors,
		sessions: stream.New(ctrl, provider),
	}, nil
}

// Update shows the latest snapshot of the panel's file.
func (p *Panel) Update(gtx C) {
	session, isNew := p.sessions.ReadNew(gtx)
	if !isNew {
		return
	}
	p.session = session
	if len(session.Series) == 0 {
		return
	}
	if len(p.shown) > 0 && p.shown[0] == session.Series[0] {
		return
	}
	p.shown = session.Series
	p.Chart.UpdateSource(p.shown)
}

func (p *Panel) title() string {
	name := filepath.Base(p.Name)
	if p.session.Err != nil {
		return name + ": " + p.session.Err.Error()
	}
	return name
}

func (p *Panel) Layout(gtx C, th *material.Theme) D {
	p.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			l := material.Body2(th, p.title())
			l.MaxLines = 1
			return layout.UniformInset(4).Layout(gtx, l.Layout)
		}),
		layout.Flexed(1, func(gtx C) D {
			return p.Chart.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			if len(p.shown) == 0 {
				return D{}
			}
			rowHeight := gtx.Sp(20)
			gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(min(len(p.shown), 4)+1)+gtx.Dp(4))
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			return p.layoutKey(gtx, th, rowHeight)
		}),
	)
}

// valueOf finds the highlighted value of s.
func valueOf(h ugraph.Highlight, s *series.Series) (highlight.Value, bool) {
	if h.IsNone() {
		return highlight.Value{}, false
	}
	for _, v := range h.Data {
		if v.Series == s {
			return v, true
		}
	}
	return highlight.Value{}, false
}

func formatValue(v highlight.Value) string {
	s := strconv.FormatFloat(v.Value, 'g', 6, 64)
	if v.Stacked {
		s += " (" + strconv.FormatFloat(v.StackValue, 'g', 6, 64) + ")"
	}
	return s
}

func (p *Panel) layoutKey(gtx C, th *material.Theme, rowHeight int) D {
	table := component.Table(th, &p.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	valueColWidth := gtx.Dp(160)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - valueColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	const (
		colorCol = iota
		seriesNameCol
		valueCol
		numCols
	)
	h := p.Chart.Highlight()
	return table.Layout(gtx, len(p.shown), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			case valueCol:
				size = valueColWidth
			}
			return min(max(size, 0), constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Color")
			case seriesNameCol:
				l = material.Body1(th, "Series")
				l.Alignment = text.Middle
			case valueCol:
				label := "Value"
				if !h.IsNone() {
					label = "Value at " + strconv.FormatFloat(h.X, 'g', 6, 64)
				}
				l = material.Body1(th, label)
				l.Alignment = text.End
			}
			l.Color = th.ContrastFg
			l.MaxLines = 1
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			s := p.shown[row]
			var swatch render.Color
			if len(p.colors) > 0 {
				swatch = p.colors[row%len(p.colors)]
			}
			return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case colorCol:
					return layout.Center.Layout(gtx, func(gtx C) D {
						sideLen := gtx.Dp(10)
						sz := image.Pt(sideLen, sideLen)
						paint.FillShape(gtx.Ops, swatch.Stroke, clip.Rect{Max: sz}.Op())
						return D{Size: sz}
					})
				case seriesNameCol:
					return material.Body2(th, s.Name).Layout(gtx)
				case valueCol:
					value := "-"
					if v, ok := valueOf(h, s); ok {
						value = formatValue(v)
					}
					l := material.Body2(th, value)
					l.Alignment = text.End
					return l.Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
		})
}
