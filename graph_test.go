package ugraph

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"git.sr.ht/~whereswaldon/ugraph/series"
	"git.sr.ht/~whereswaldon/ugraph/surface"
)

// ramp returns a series with y == x for every integer x in [from, to].
func ramp(name string, from, to int) *series.Series {
	s := series.New(name)
	for x := from; x <= to; x++ {
		s.Data = append(s.Data, series.Point{X: float64(x), Y: float64(x)})
	}
	return s
}

type observed struct {
	highlights      []HighlightEvent
	hoverHighlights []HighlightEvent
	ranges          []RangeEvent
	dragRanges      []RangeEvent
	focuses         []FocusEvent
	applied         int
}

type harness struct {
	*Graph
	rec   *surface.Recorder
	sched *ManualScheduler
	seen  *observed
}

// newHarness builds a 120x100 chart with padding 10 charting y == x over
// [0,10], so that data x maps onto pixel 10+10x.
func newHarness(t *testing.T, cfg Config) harness {
	t.Helper()
	rec := surface.NewRecorder(image.Pt(120, 100))
	sched := &ManualScheduler{}
	seen := &observed{}
	g, err := New(cfg, Host{
		Surface:   rec,
		Scheduler: sched,
		Apply: func(f func()) {
			seen.applied++
			f()
		},
	})
	require.NoError(t, err)
	g.OnHighlight(func(e HighlightEvent) { seen.highlights = append(seen.highlights, e) })
	g.OnHoverHighlight(func(e HighlightEvent) { seen.hoverHighlights = append(seen.hoverHighlights, e) })
	g.OnRange(func(e RangeEvent) { seen.ranges = append(seen.ranges, e) })
	g.OnDragRange(func(e RangeEvent) { seen.dragRanges = append(seen.dragRanges, e) })
	g.OnFocus(func(e FocusEvent) { seen.focuses = append(seen.focuses, e) })
	g.UpdateSource([]*series.Series{ramp("ramp", 0, 10)})
	sched.Flush()
	return harness{Graph: g, rec: rec, sched: sched, seen: seen}
}

func (h harness) rects() []surface.Rect {
	var out []surface.Rect
	for _, op := range h.rec.Ops {
		if op.Kind == "rect" {
			out = append(out, op.Rect)
		}
	}
	return out
}

func TestNewErrors(t *testing.T) {
	_, err := New(DefaultConfig(), Host{})
	require.ErrorIs(t, err, ErrNoSurface)

	rec := surface.NewRecorder(image.Pt(10, 10))
	rec.FailBuffers = true
	_, err = New(DefaultConfig(), Host{Surface: rec})
	require.ErrorIs(t, err, ErrNoBuffer)

	cfg := DefaultConfig()
	cfg.Renderer = "pie"
	_, err = New(cfg, Host{Surface: surface.NewRecorder(image.Pt(10, 10))})
	require.ErrorIs(t, err, ErrUnknownRenderer)
}

func TestInitialState(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	require.Equal(t, NoFocus, h.Focus())
	require.Equal(t, NoRange, h.Range())
	require.Same(t, NoHighlight, h.Highlight())
	require.Empty(t, h.seen.highlights)
	require.Empty(t, h.seen.ranges)
	require.Empty(t, h.seen.focuses)
	require.Equal(t, []string{"clear", "draw(0,0)"}, opStrings(h.rec.Ops))
	require.Same(t, h.rec.Buffers[0], h.rec.Ops[1].Source)
}

func opStrings(ops []surface.Op) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

func TestNoOpUpdates(t *testing.T) {
	size := image.Point{}
	rec := surface.NewRecorder(size)
	sched := &ManualScheduler{}
	g, err := New(DefaultConfig(), Host{
		Surface:   rec,
		Size:      func() image.Point { return size },
		Scheduler: sched,
	})
	require.NoError(t, err)

	g.Update()
	require.Nil(t, g.Frame(), "no source")
	g.UpdateSource([]*series.Series{ramp("ramp", 0, 10)})
	require.Nil(t, g.Frame(), "zero size")
	require.Zero(t, sched.Pending())

	size = image.Pt(50, 40)
	g.Resize()
	require.NotNil(t, g.Frame())
	require.Equal(t, size, g.Size())
	require.Equal(t, size, rec.Size())
	require.Equal(t, size, rec.Buffers[0].Size())
	require.Equal(t, 1, sched.Pending())
	require.Equal(t, 1, sched.Flush())

	g.Resize()
	require.Zero(t, sched.Pending(), "unchanged size must not recompute")
}

func TestEmptyFrame(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateSource([]*series.Series{series.New("empty")})
	require.True(t, h.Frame().Empty())
	h.MouseMove(MouseEvent{X: 30, Y: 50})
	h.sched.Flush()
	require.Same(t, NoHighlight, h.Highlight())
	require.Equal(t, []string{"clear", "draw(0,0)"}, opStrings(h.rec.Ops))
	require.Equal(t, []string{"clear"}, opStrings(h.rec.Buffers[0].Ops))
}

func TestProjection(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	require.Equal(t, 10.0, h.XScale().Apply(0))
	require.Equal(t, 110.0, h.XScale().Apply(10))
	require.Equal(t, 90.0, h.YScale().Apply(0))
	require.Equal(t, 10.0, h.YScale().Apply(10))

	buffer := h.rec.Buffers[0]
	require.Equal(t, 1, buffer.Count("stroke"))
	path := buffer.Path()
	require.Equal(t, "move(10,90)", path[0])
	require.Equal(t, "line(110,10)", path[len(path)-1])
}

// A drag narrower than the click threshold resets the focus.
func TestClickResetsFocus(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateFocus(NewFocus(1, 9))
	require.Len(t, h.seen.focuses, 1)
	require.Equal(t, 1.0, h.Frame().XMin)
	h.sched.Flush()

	h.MouseDown(MouseEvent{X: 10, Y: 10})
	h.MouseMove(MouseEvent{X: 12, Y: 10})
	h.MouseUp(MouseEvent{X: 12, Y: 10})

	require.Equal(t, NoFocus, h.Focus())
	require.Len(t, h.seen.focuses, 2)
	require.Equal(t, NoFocus, h.seen.focuses[1].Focus)
	require.Equal(t, 0.0, h.Frame().XMin)
	require.Equal(t, 10.0, h.Frame().XMax)
}

func TestDragFocuses(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.MouseDown(MouseEvent{X: 30, Y: 50})
	h.MouseMove(MouseEvent{X: 90, Y: 50})
	require.Empty(t, h.seen.dragRanges, "notifications wait for the frame")
	h.sched.Flush()

	require.Len(t, h.seen.dragRanges, 1)
	require.Len(t, h.seen.ranges, 1)
	x, y := h.seen.dragRanges[0].Range.Start()
	require.InDelta(t, 2, x, 1e-9)
	require.InDelta(t, 5, y, 1e-9)
	xEnd, _ := h.seen.dragRanges[0].Range.End()
	require.InDelta(t, 8, xEnd, 1e-9)
	requireRects(t, []surface.Rect{
		{X: 10, Y: 10, W: 20, H: 80},
		{X: 90, Y: 10, W: 20, H: 80},
	}, h.rects())

	h.MouseUp(MouseEvent{X: 90, Y: 50})
	require.Len(t, h.seen.focuses, 1)
	lo, hi := h.Focus().Window()
	require.InDelta(t, 2, lo, 1e-9)
	require.InDelta(t, 8, hi, 1e-9)
	require.InDelta(t, 2, h.XScale().D0, 1e-9)
	require.InDelta(t, 8, h.XScale().D1, 1e-9)
	require.InDelta(t, 2, h.Frame().XMin, 1e-9)
	require.InDelta(t, 8, h.Frame().XMax, 1e-9)
	require.Equal(t, 11, h.Index().Len(), "every point stays indexed")

	h.sched.Flush()
	require.Equal(t, NoRange, h.Range())
	require.Len(t, h.seen.dragRanges, 2)
	require.Equal(t, NoRange, h.seen.dragRanges[1].Range)
	require.Empty(t, h.rects())
}

func requireRects(t *testing.T, want, got []surface.Rect) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i].X, got[i].X, 1e-9)
		require.InDelta(t, want[i].Y, got[i].Y, 1e-9)
		require.InDelta(t, want[i].W, got[i].W, 1e-9)
		require.InDelta(t, want[i].H, got[i].H, 1e-9)
	}
}

func TestSecondaryButtonDoesNotDrag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Highlight = false
	h := newHarness(t, cfg)
	h.MouseDown(MouseEvent{X: 30, Y: 50, Button: ButtonSecondary})
	h.MouseMove(MouseEvent{X: 90, Y: 50})
	require.Zero(t, h.sched.Pending())
	h.MouseUp(MouseEvent{X: 90, Y: 50})
	require.Empty(t, h.seen.focuses)
}

func TestHoverHighlight(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.MouseMove(MouseEvent{X: 31, Y: 50})
	h.MouseMove(MouseEvent{X: 32, Y: 50})
	require.Equal(t, 1, h.sched.Pending())
	h.sched.Flush()
	require.Equal(t, 2.0, h.Highlight().X)
	require.Len(t, h.seen.highlights, 1)
	require.Len(t, h.seen.hoverHighlights, 1)
	require.Equal(t, 1, h.seen.applied)
	require.Equal(t, []string{"move(30,0)", "line(30,100)"}, h.rec.Path())
	stroke := h.rec.Ops[len(h.rec.Ops)-1]
	require.Equal(t, "stroke", stroke.Kind)
	require.Equal(t, DefaultConfig().highlightStroke(), stroke.Stroke)

	// Moving within the same nearest point notifies nothing.
	h.MouseMove(MouseEvent{X: 28, Y: 50})
	h.sched.Flush()
	require.Len(t, h.seen.highlights, 1)

	h.MouseLeave(MouseEvent{X: 28, Y: 50})
	h.sched.Flush()
	require.Same(t, NoHighlight, h.Highlight())
	require.Len(t, h.seen.hoverHighlights, 2)
	require.Same(t, NoHighlight, h.seen.hoverHighlights[1].Highlight)
	require.Empty(t, h.rec.Path())
}

func TestHoverEndRevealsAutoHighlight(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateAutoXval(5, true)
	h.MouseMove(MouseEvent{X: 31, Y: 50})
	h.sched.Flush()
	require.Equal(t, 2.0, h.Highlight().X, "local hover wins")

	h.MouseLeave(MouseEvent{})
	h.sched.Flush()
	require.Equal(t, 5.0, h.Highlight().X)
	last := h.seen.highlights[len(h.seen.highlights)-1]
	require.Equal(t, 5.0, last.Highlight.X)
	require.Same(t, NoHighlight, h.seen.hoverHighlights[len(h.seen.hoverHighlights)-1].Highlight)
}

func TestHighlightDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Highlight = false
	h := newHarness(t, cfg)
	h.MouseMove(MouseEvent{X: 31, Y: 50})
	require.Zero(t, h.sched.Pending())

	h.UpdateAutoXval(3, true)
	h.sched.Flush()
	require.Equal(t, 3.0, h.Highlight().X, "the highlight is tracked")
	require.Empty(t, h.rec.Path(), "but not drawn")

	h.UpdateHighlight(true)
	h.sched.Flush()
	require.Equal(t, []string{"move(40,0)", "line(40,100)"}, h.rec.Path())
}

func TestFrameCoalescing(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	for x := 1; x <= 7; x++ {
		h.UpdateAutoXval(float64(x), true)
	}
	require.Equal(t, 1, h.sched.Pending())
	h.sched.Flush()
	require.Len(t, h.seen.highlights, 1)
	require.Equal(t, 7.0, h.seen.highlights[0].Highlight.X)
	require.Empty(t, h.seen.hoverHighlights, "auto highlights are not hovers")
}

func TestReconciliationIdempotent(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateAutoXval(4, true)
	h.UpdateAutoRange(NewRange(2, 0, 8, 0))
	h.sched.Flush()
	require.Len(t, h.seen.highlights, 1)
	require.Len(t, h.seen.ranges, 1)

	for i := 0; i < 3; i++ {
		h.RequestRender()
		h.sched.Flush()
	}
	require.Len(t, h.seen.highlights, 1)
	require.Len(t, h.seen.ranges, 1)
	require.Empty(t, h.seen.dragRanges)
	require.Len(t, h.rects(), 2)
}

func TestSentinelsAreUnchanged(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateAutoXval(0, false)
	h.UpdateAutoRange(NoRange)
	h.UpdateFocus(NoFocus)
	h.UpdateFocus(Focus{})
	require.Zero(t, h.sched.Pending())
	require.Empty(t, h.seen.focuses)

	h.UpdateAutoXval(3.5, true)
	h.sched.Flush()
	require.Same(t, NoHighlight, h.Highlight(), "no exact match")
	require.Empty(t, h.seen.highlights)
}

func TestAutoHighlightFollowsIndex(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateAutoXval(3, true)
	h.sched.Flush()
	first := h.Highlight()

	h.UpdateSource(nil)
	h.sched.Flush()
	require.NotSame(t, first, h.Highlight())
	require.Equal(t, 3.0, h.Highlight().X)
	require.Len(t, h.seen.highlights, 2)

	h.UpdateFocus(NewFocus(2, 4))
	h.UpdateAutoXval(9, true)
	h.sched.Flush()
	require.Equal(t, 9.0, h.Highlight().X, "points outside of the focus stay indexed")

	h.UpdateAutoXval(0, false)
	h.sched.Flush()
	require.Same(t, NoHighlight, h.Highlight())
}

func TestFocusNotifiesDirectly(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateFocus(NewFocus(8, 2))
	require.Len(t, h.seen.focuses, 1)
	require.Zero(t, h.seen.applied)
	lo, hi := h.Focus().Window()
	require.Equal(t, 2.0, lo)
	require.Equal(t, 8.0, hi)

	h.MouseDown(MouseEvent{X: 10, Y: 50})
	h.MouseUp(MouseEvent{X: 11, Y: 50})
	require.Equal(t, 1, h.seen.applied, "pointer focus goes through apply")
	require.Equal(t, NoFocus, h.Focus())
}

func TestAutoRange(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	r := NewRange(2, 0, 8, 0)
	h.UpdateAutoRange(r)
	h.sched.Flush()
	require.Equal(t, r, h.Range())
	require.Len(t, h.seen.ranges, 1)
	require.Empty(t, h.seen.dragRanges)

	// A local drag supersedes the external range.
	h.MouseDown(MouseEvent{X: 20, Y: 50})
	h.MouseMove(MouseEvent{X: 60, Y: 50})
	h.sched.Flush()
	require.Len(t, h.seen.dragRanges, 1)
	h.MouseUp(MouseEvent{X: 60, Y: 50})
	h.sched.Flush()
	require.Equal(t, r, h.Range(), "external range is shown again")
	require.Equal(t, NoRange, h.seen.dragRanges[len(h.seen.dragRanges)-1].Range)
}

func TestNarrowRangeIsNotShaded(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateAutoRange(NewRange(2, 0, 2.2, 0))
	h.sched.Flush()
	require.Empty(t, h.rects())
}

func TestSettersRecompute(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.UpdatePadding(20)
	require.Equal(t, 20.0, h.XScale().R0)
	require.Equal(t, 100.0, h.XScale().R1)
	h.sched.Flush()
	h.UpdatePadding(20)
	require.Zero(t, h.sched.Pending())

	h.UpdateSource([]*series.Series{series.New("offset", series.Point{X: 0, Y: 3}, series.Point{X: 1, Y: 6})})
	require.Equal(t, 3.0, h.Frame().YMin)
	h.UpdateZeroBased(true)
	require.Equal(t, 0.0, h.Frame().YMin)
	h.sched.Flush()

	h.UpdateCadence(-3)
	require.Zero(t, h.sched.Pending(), "negative cadence is no cadence")
	h.UpdateCadence(0.5)
	require.Equal(t, []string{"move(20,50)", "move(100,20)"}, h.rec.Buffers[0].Path())
}

func TestUpdateRenderer(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.UpdateSource([]*series.Series{ramp("a", 0, 10), ramp("b", 0, 10)})
	require.Equal(t, 10.0, h.Frame().YMax)

	require.ErrorIs(t, h.UpdateRenderer("pie"), ErrUnknownRenderer)
	require.NoError(t, h.UpdateRenderer("stacked-line"))
	require.Equal(t, 20.0, h.Frame().YMax)
	require.Equal(t, 2, h.rec.Buffers[0].Count("fill"))

	h.sched.Flush()
	require.NoError(t, h.UpdateRenderer("stacked-line"))
	require.Zero(t, h.sched.Pending())
}

func TestObserverReset(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.OnHighlight(nil)
	h.UpdateAutoXval(1, true)
	require.NotPanics(t, func() { h.sched.Flush() })
	require.Empty(t, h.seen.highlights)
}
