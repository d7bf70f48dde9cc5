package gio

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"

	"git.sr.ht/~whereswaldon/ugraph"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// FrameScheduler runs chart frames during the next Gio frame. Scheduling a
// frame invalidates the window so that the next frame happens.
type FrameScheduler struct {
	Invalidate func()
	pending    []func()
}

func (f *FrameScheduler) ScheduleFrame(frame func()) {
	f.pending = append(f.pending, frame)
	if f.Invalidate != nil {
		f.Invalidate()
	}
}

// Run executes the frames scheduled so far.
func (f *FrameScheduler) Run() {
	pending := f.pending
	f.pending = nil
	for _, frame := range pending {
		frame()
	}
}

// Chart is a widget displaying a ugraph.Graph. It sizes the chart to the
// maximum constraints it is laid out with and forwards pointer events to it.
type Chart struct {
	*ugraph.Graph
	surface *Surface
	frames  FrameScheduler
	size    image.Point
}

// NewChart builds a chart widget. invalidate must request a new frame from
// the window displaying the chart, and may be called from observers.
func NewChart(cfg ugraph.Config, invalidate func()) (*Chart, error) {
	c := &Chart{
		surface: NewSurface(image.Point{}),
	}
	c.frames.Invalidate = invalidate
	g, err := ugraph.New(cfg, ugraph.Host{
		Surface:   c.surface,
		Size:      func() image.Point { return c.size },
		Scheduler: &c.frames,
		Apply: func(notify func()) {
			notify()
			if invalidate != nil {
				invalidate()
			}
		},
	})
	if err != nil {
		return nil, err
	}
	c.Graph = g
	return c, nil
}

func buttonOf(b pointer.Buttons) (ugraph.Button, bool) {
	switch {
	case b.Contain(pointer.ButtonPrimary):
		return ugraph.ButtonPrimary, true
	case b.Contain(pointer.ButtonSecondary):
		return ugraph.ButtonSecondary, true
	case b.Contain(pointer.ButtonTertiary):
		return ugraph.ButtonTertiary, true
	}
	return 0, false
}

// Update measures the chart and processes pointer events.
func (c *Chart) Update(gtx C) {
	if c.size != gtx.Constraints.Max {
		c.size = gtx.Constraints.Max
		c.Resize()
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Press | pointer.Release | pointer.Drag | pointer.Move | pointer.Leave | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		me := ugraph.MouseEvent{X: float64(e.Position.X), Y: float64(e.Position.Y)}
		switch e.Kind {
		case pointer.Press:
			button, ok := buttonOf(e.Buttons)
			if !ok {
				continue
			}
			me.Button = button
			c.MouseDown(me)
		case pointer.Move, pointer.Drag:
			c.MouseMove(me)
		case pointer.Release:
			c.MouseUp(me)
		case pointer.Leave, pointer.Cancel:
			c.MouseLeave(me)
		}
	}
}

// Layout runs the chart's pending frames and draws it.
func (c *Chart) Layout(gtx C) D {
	c.Update(gtx)
	c.frames.Run()
	defer clip.Rect{Max: c.size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, c)
	c.surface.Add(gtx.Ops)
	return D{Size: c.size}
}
