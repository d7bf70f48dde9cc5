package ugraph

import (
	"fmt"
	"image"
	"math"

	"git.sr.ht/~whereswaldon/ugraph/calculate"
	"git.sr.ht/~whereswaldon/ugraph/highlight"
	"git.sr.ht/~whereswaldon/ugraph/render"
	"git.sr.ht/~whereswaldon/ugraph/scale"
	"git.sr.ht/~whereswaldon/ugraph/series"
	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// Sizer reports the size the chart should occupy.
type Sizer func() image.Point

// Host provides a Graph with everything it needs from its environment.
type Host struct {
	// Surface is the visible surface. Required.
	Surface surface.Surface
	// Size measures the chart. Defaults to the size of Surface.
	Size Sizer
	// Scheduler runs frames. Defaults to Immediate.
	Scheduler Scheduler
	// Apply runs observer notifications caused by pointer events and
	// frames, so the host can batch the changes they cause. Defaults to
	// calling the function directly.
	Apply func(func())
}

// Graph is an interactive chart. It is not safe for concurrent use; every
// method must be called from the goroutine running the scheduler's frames.
type Graph struct {
	cfg       Config
	visible   surface.Surface
	buffer    surface.Surface
	sizer     Sizer
	scheduler Scheduler
	apply     func(func())
	size      image.Point

	source       []*series.Series
	factory      render.Factory
	rendererName string
	renderer     render.Renderer
	padding      float64
	cadence      float64
	zeroBased    bool
	highlighting bool

	frame          *calculate.Frame
	index          *highlight.Index
	xScale, yScale scale.Linear

	focus     Focus
	rng       Range
	highlight Highlight

	// localHover is set while the pointer hovers the chart, and until the
	// frame after it left (hoverLeft).
	localHover bool
	hoverLeft  bool
	localX     float64
	// localDrag is set while dragging, and until the frame after the drag
	// ended, which is when localRange becomes NoRange.
	localDrag  bool
	localRange Range

	autoX     float64
	autoXOK   bool
	autoDirty bool
	autoRange Range

	requested bool

	onHighlight      func(HighlightEvent)
	onHoverHighlight func(HighlightEvent)
	onRange          func(RangeEvent)
	onDragRange      func(RangeEvent)
	onFocus          func(FocusEvent)
}

// New builds a chart drawing onto the host's surface.
func New(cfg Config, host Host) (*Graph, error) {
	if host.Surface == nil {
		return nil, ErrNoSurface
	}
	factory, err := render.Lookup(cfg.Renderer)
	if err != nil {
		return nil, fmt.Errorf("ugraph: %w", err)
	}
	buffer, err := host.Surface.NewBuffer(host.Surface.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoBuffer, err)
	}
	g := &Graph{
		cfg:          cfg,
		visible:      host.Surface,
		buffer:       buffer,
		sizer:        host.Size,
		scheduler:    host.Scheduler,
		apply:        host.Apply,
		factory:      factory,
		rendererName: cfg.Renderer,
		padding:      cfg.Padding,
		cadence:      max(cfg.Cadence, 0),
		zeroBased:    cfg.ZeroBased,
		highlighting: cfg.Highlight,
		highlight:    NoHighlight,
	}
	if g.sizer == nil {
		g.sizer = host.Surface.Size
	}
	if g.scheduler == nil {
		g.scheduler = Immediate
	}
	if g.apply == nil {
		g.apply = func(f func()) { f() }
	}
	g.OnHighlight(nil)
	g.OnHoverHighlight(nil)
	g.OnRange(nil)
	g.OnDragRange(nil)
	g.OnFocus(nil)
	g.renderer = g.newRenderer()
	g.Resize()
	return g, nil
}

func (g *Graph) newRenderer() render.Renderer {
	return g.factory(render.Config{
		X:         g.projectX,
		Y:         g.projectY,
		Gap:       render.Cadence(g.cadence),
		ZeroBased: g.zeroBased,
		Style:     g.cfg.style(),
	})
}

func (g *Graph) projectX(v float64) float64 { return g.xScale.Apply(v) }
func (g *Graph) projectY(v float64) float64 { return g.yScale.Apply(v) }

// Resize measures the chart and recomputes it if its size changed.
func (g *Graph) Resize() {
	size := g.sizer()
	if size == g.size {
		return
	}
	g.size = size
	g.visible.Resize(size)
	g.buffer.Resize(size)
	g.Update()
}

// UpdateSource replaces the charted series and recomputes the chart. A nil
// source recomputes the current series.
func (g *Graph) UpdateSource(source []*series.Series) {
	if source != nil {
		g.source = source
	}
	g.Update()
}

// Update recalculates the frame, the projection and the highlight index,
// renders the series offscreen and requests a frame. It does nothing until
// the chart has both a source and a non-empty size.
func (g *Graph) Update() {
	if g.source == nil || g.size.X <= 0 || g.size.Y <= 0 {
		return
	}
	var visible calculate.Visitor
	if focus := g.focus; !focus.IsNone() {
		visible = func(_ *series.Series, p calculate.RenderPoint, _ bool) bool {
			return focus.Contains(p.X)
		}
	}
	builder := highlight.NewBuilder()
	g.frame = g.renderer.Calculate(g.source, builder.Visitor(visible))
	g.index = builder.Build()
	g.autoDirty = true

	g.buffer.Clear()
	if !g.frame.Empty() {
		g.project()
		g.renderer.Render(g.buffer, g.frame.Data)
	}
	g.RequestRender()
}

func (g *Graph) project() {
	x0, x1 := g.frame.XMin, g.frame.XMax
	if !g.focus.IsNone() {
		x0, x1 = g.focus.Window()
	}
	w, h := float64(g.size.X), float64(g.size.Y)
	g.xScale = scale.New(x0, x1, g.padding, w-g.padding)
	g.yScale = scale.New(g.frame.YMin, g.frame.YMax, h-g.padding, g.padding)
}

// drawable reports whether the current frame has been projected.
func (g *Graph) drawable() bool {
	return g.frame != nil && !g.frame.Empty()
}

// UpdateFocus zooms the chart to f. Focus observers are notified directly,
// without going through the host's Apply.
func (g *Graph) UpdateFocus(f Focus) {
	if f == g.focus {
		return
	}
	g.focus = f
	g.onFocus(FocusEvent{Focus: f})
	g.Update()
}

// UpdateRenderer switches to the renderer registered under name.
func (g *Graph) UpdateRenderer(name string) error {
	factory, err := render.Lookup(name)
	if err != nil {
		return fmt.Errorf("ugraph: %w", err)
	}
	if name == g.rendererName {
		return nil
	}
	g.factory = factory
	g.rendererName = name
	g.renderer = g.newRenderer()
	g.Update()
	return nil
}

func (g *Graph) UpdatePadding(padding float64) {
	if padding == g.padding {
		return
	}
	g.padding = padding
	g.Update()
}

// UpdateCadence sets the largest x distance drawn as connected. A cadence
// <= 0 disables gaps.
func (g *Graph) UpdateCadence(cadence float64) {
	cadence = max(cadence, 0)
	if cadence == g.cadence {
		return
	}
	g.cadence = cadence
	g.renderer = g.newRenderer()
	g.Update()
}

func (g *Graph) UpdateZeroBased(zeroBased bool) {
	if zeroBased == g.zeroBased {
		return
	}
	g.zeroBased = zeroBased
	g.renderer = g.newRenderer()
	g.Update()
}

// UpdateHighlight shows or hides the crosshair.
func (g *Graph) UpdateHighlight(enabled bool) {
	if enabled == g.highlighting {
		return
	}
	g.highlighting = enabled
	g.RequestRender()
}

// UpdateAutoXval sets the x highlighted from outside of the chart. It is
// resolved to an exact data point on the next frame. ok false clears it.
func (g *Graph) UpdateAutoXval(x float64, ok bool) {
	if ok == g.autoXOK && (!ok || x == g.autoX) {
		return
	}
	g.autoX, g.autoXOK = x, ok
	g.autoDirty = true
	g.RequestRender()
}

// UpdateAutoRange sets the range displayed from outside of the chart. It is
// shown whenever the chart is not being dragged.
func (g *Graph) UpdateAutoRange(r Range) {
	if r == g.autoRange {
		return
	}
	g.autoRange = r
	g.RequestRender()
}

func (g *Graph) invert(e MouseEvent) (x, y float64) {
	return g.xScale.Invert(e.X), g.yScale.Invert(e.Y)
}

// MouseDown starts a drag selection with the primary button.
func (g *Graph) MouseDown(e MouseEvent) {
	if e.Button != ButtonPrimary {
		return
	}
	x, y := g.invert(e)
	g.localRange = NewRange(x, y, x, y)
	g.localDrag = true
	g.RequestRender()
}

func (g *Graph) dragging() bool {
	return !g.localRange.IsNone()
}

// MouseMove extends an active drag and moves the crosshair.
func (g *Graph) MouseMove(e MouseEvent) {
	x, y := g.invert(e)
	if g.dragging() {
		sx, sy := g.localRange.Start()
		g.localRange = NewRange(sx, sy, x, y)
		g.RequestRender()
	}
	if g.highlighting {
		g.localHover = true
		g.hoverLeft = false
		g.localX = x
		g.RequestRender()
	}
}

// MouseUp ends an active drag.
func (g *Graph) MouseUp(e MouseEvent) {
	if !g.dragging() {
		return
	}
	g.stopDrag(e)
}

// MouseLeave ends an active drag and hides the local crosshair.
func (g *Graph) MouseLeave(e MouseEvent) {
	if g.dragging() {
		g.stopDrag(e)
	}
	if g.localHover {
		g.hoverLeft = true
		g.RequestRender()
	}
}

// stopDrag commits the drag that ends at e as the focus. Drags narrower than
// the click threshold are clicks, which reset the focus.
func (g *Graph) stopDrag(e MouseEvent) {
	x, _ := g.invert(e)
	sx, _ := g.localRange.Start()
	lo, hi := min(sx, x), max(sx, x)
	g.localRange = NoRange

	focus := NoFocus
	if math.Abs(g.xScale.Apply(hi)-g.xScale.Apply(lo)) >= g.cfg.ClickThreshold {
		focus = NewFocus(lo, hi)
	}
	g.focus = focus
	g.apply(func() { g.onFocus(FocusEvent{Focus: focus}) })
	g.Update()
	// Update does nothing without a source, but the ended drag still has to
	// be reconciled.
	g.RequestRender()
}

// RequestRender schedules a frame unless one is already pending.
func (g *Graph) RequestRender() {
	if g.requested {
		return
	}
	g.requested = true
	g.scheduler.ScheduleFrame(g.Render)
}

// Render reconciles local and external state and composites the chart onto
// the visible surface. It is the frame callback passed to the scheduler.
func (g *Graph) Render() {
	if g.localHover {
		g.reconcileLocalHighlight()
	}
	// The frame in which hovering or dragging ends also resolves the external
	// state.
	if !g.localHover {
		g.reconcileAutoHighlight()
	}
	if g.localDrag {
		g.reconcileLocalRange()
	}
	if !g.localDrag {
		g.reconcileAutoRange()
	}

	g.visible.Clear()
	g.visible.DrawSurface(g.buffer, 0, 0)
	if g.drawable() {
		if g.highlighting && !g.highlight.IsNone() {
			g.renderHighlight()
		}
		if !g.rng.IsNone() {
			g.renderRange()
		}
	}
	g.requested = false
}

func (g *Graph) setHighlight(h Highlight, hover bool) {
	if h == g.highlight {
		return
	}
	g.highlight = h
	g.apply(func() {
		g.onHighlight(HighlightEvent{Highlight: h})
		if hover {
			g.onHoverHighlight(HighlightEvent{Highlight: h})
		}
	})
}

func (g *Graph) reconcileLocalHighlight() {
	if g.hoverLeft {
		g.hoverLeft = false
		g.localHover = false
		g.autoDirty = true
		g.setHighlight(NoHighlight, true)
		return
	}
	g.setHighlight(g.index.FindNearest(g.localX), true)
}

func (g *Graph) reconcileAutoHighlight() {
	if !g.autoDirty {
		return
	}
	g.autoDirty = false
	h := NoHighlight
	if g.autoXOK {
		h = g.index.FindExact(g.autoX)
	}
	g.setHighlight(h, false)
}

func (g *Graph) setRange(r Range, drag bool) {
	if r == g.rng {
		return
	}
	g.rng = r
	g.apply(func() {
		g.onRange(RangeEvent{Range: r})
		if drag {
			g.onDragRange(RangeEvent{Range: r})
		}
	})
}

func (g *Graph) reconcileLocalRange() {
	if g.localRange.IsNone() {
		g.localDrag = false
	}
	g.setRange(g.localRange, true)
}

func (g *Graph) reconcileAutoRange() { g.setRange(g.autoRange, false) }

func (g *Graph) renderHighlight() {
	x := g.xScale.Apply(g.highlight.X)
	g.visible.BeginPath()
	g.visible.MoveTo(x, 0)
	g.visible.LineTo(x, float64(g.size.Y))
	g.visible.Stroke(g.cfg.highlightStroke())
}

// renderRange shades the chart outside of the selected x span.
func (g *Graph) renderRange() {
	lo, hi := g.rng.XSpan()
	xmn, xmx := g.xScale.Apply(lo), g.xScale.Apply(hi)
	if xmx-xmn < g.cfg.ClickThreshold {
		return
	}
	w := float64(g.size.X)
	h := float64(g.size.Y) - 2*g.padding
	g.visible.FillRect(surface.Rect{X: g.padding, Y: g.padding, W: xmn - g.padding, H: h}, g.cfg.DragColor)
	g.visible.FillRect(surface.Rect{X: xmx, Y: g.padding, W: w - xmx - g.padding, H: h}, g.cfg.DragColor)
}

// OnHighlight registers the observer of every highlight change. Passing nil
// removes it.
func (g *Graph) OnHighlight(f func(HighlightEvent)) {
	if f == nil {
		f = func(HighlightEvent) {}
	}
	g.onHighlight = f
}

// OnHoverHighlight registers the observer of highlight changes caused by the
// pointer hovering over this chart.
func (g *Graph) OnHoverHighlight(f func(HighlightEvent)) {
	if f == nil {
		f = func(HighlightEvent) {}
	}
	g.onHoverHighlight = f
}

// OnRange registers the observer of every displayed range change.
func (g *Graph) OnRange(f func(RangeEvent)) {
	if f == nil {
		f = func(RangeEvent) {}
	}
	g.onRange = f
}

// OnDragRange registers the observer of range changes caused by dragging
// over this chart.
func (g *Graph) OnDragRange(f func(RangeEvent)) {
	if f == nil {
		f = func(RangeEvent) {}
	}
	g.onDragRange = f
}

func (g *Graph) OnFocus(f func(FocusEvent)) {
	if f == nil {
		f = func(FocusEvent) {}
	}
	g.onFocus = f
}

func (g *Graph) Focus() Focus { return g.focus }

// Range returns the range displayed by the last frame.
func (g *Graph) Range() Range { return g.rng }

// Highlight returns the highlight displayed by the last frame.
func (g *Graph) Highlight() Highlight { return g.highlight }

// Frame returns the last calculated frame, or nil.
func (g *Graph) Frame() *calculate.Frame { return g.frame }

// Index returns the highlight index of the last calculated frame.
func (g *Graph) Index() *highlight.Index { return g.index }

func (g *Graph) Size() image.Point { return g.size }

// XScale returns the projection of the x axis.
func (g *Graph) XScale() scale.Linear { return g.xScale }

// YScale returns the projection of the y axis.
func (g *Graph) YScale() scale.Linear { return g.yScale }
