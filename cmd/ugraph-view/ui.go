package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/ugraph"
	"git.sr.ht/~whereswaldon/ugraph/gio"
	"git.sr.ht/~whereswaldon/ugraph/source"
)

type (
	C = gio.C
	D = gio.D
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

var zoomOutIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ActionZoomOut)
	return icon
}()

type opened struct {
	file io.ReadCloser
	err  error
}

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ctrl       *stream.Controller
	invalidate func()
	expl       *explorer.Explorer
	cfg        ugraph.Config
	th         *material.Theme

	panels    []*Panel
	openBtn   widget.Clickable
	resetBtn  widget.Clickable
	stacked   widget.Bool
	zeroBased widget.Bool
	crosshair widget.Bool
	opened    chan opened
	choosing  bool
	err       string
}

func NewUI(ctx context.Context, w *app.Window, expl *explorer.Explorer, cfg ugraph.Config) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	return &UI{
		ctrl:       stream.NewController(ctx, w.Invalidate),
		invalidate: w.Invalidate,
		expl:       expl,
		cfg:        cfg,
		th:         th,
		stacked:    widget.Bool{Value: cfg.Renderer == "stacked-line"},
		zeroBased:  widget.Bool{Value: cfg.ZeroBased},
		crosshair:  widget.Bool{Value: cfg.Highlight},
		opened:     make(chan opened, 1),
	}
}

// Watch adds a chart following the CSV file at path.
func (ui *UI) Watch(path string) error {
	return ui.add(path, func(ctx context.Context) <-chan source.Session {
		sessions, err := source.Watch(ctx, path)
		if err != nil {
			out := make(chan source.Session, 1)
			out <- source.Session{Path: path, Err: err}
			close(out)
			return out
		}
		return sessions
	})
}

// open adds a chart for a file picked with the explorer. Files on disk are
// followed; anything else is read once.
func (ui *UI) open(f io.ReadCloser) error {
	if osFile, ok := f.(*os.File); ok {
		path := osFile.Name()
		if err := f.Close(); err != nil {
			log.Printf("failed closing %q: %v", path, err)
		}
		return ui.Watch(path)
	}
	s, err := source.Load(f)
	if closeErr := f.Close(); closeErr != nil {
		log.Printf("failed closing chosen file: %v", closeErr)
	}
	session := source.Session{Path: "chosen file", Series: s, Err: err}
	return ui.add(session.Path, func(ctx context.Context) <-chan source.Session {
		out := make(chan source.Session, 1)
		out <- session
		close(out)
		return out
	})
}

func (ui *UI) add(name string, provider func(ctx context.Context) <-chan source.Session) error {
	p, err := NewPanel(name, ui.config(), ui.ctrl, ui.invalidate, provider)
	if err != nil {
		return err
	}
	if len(ui.panels) > 0 {
		p.Chart.UpdateFocus(ui.panels[0].Chart.Focus())
	}
	ui.link(p)
	ui.panels = append(ui.panels, p)
	return nil
}

// config is the configuration of new charts, including the toolbar toggles.
func (ui *UI) config() ugraph.Config {
	cfg := ui.cfg
	cfg.Renderer = ui.rendererName()
	cfg.ZeroBased = ui.zeroBased.Value
	cfg.Highlight = ui.crosshair.Value
	return cfg
}

func (ui *UI) rendererName() string {
	if ui.stacked.Value {
		return "stacked-line"
	}
	if ui.cfg.Renderer == "stacked-line" {
		return "line"
	}
	return ui.cfg.Renderer
}

// link shares the hover highlight, the drag selection and the zoom of p with
// every other chart.
func (ui *UI) link(p *Panel) {
	others := func(f func(c *gio.Chart)) {
		for _, other := range ui.panels {
			if other != p {
				f(other.Chart)
			}
		}
	}
	p.Chart.OnHoverHighlight(func(e ugraph.HighlightEvent) {
		others(func(c *gio.Chart) { c.UpdateAutoXval(e.Highlight.X, !e.Highlight.IsNone()) })
	})
	p.Chart.OnDragRange(func(e ugraph.RangeEvent) {
		others(func(c *gio.Chart) { c.UpdateAutoRange(e.Range) })
	})
	p.Chart.OnFocus(func(e ugraph.FocusEvent) {
		others(func(c *gio.Chart) { c.UpdateFocus(e.Focus) })
	})
}

func (ui *UI) choose() {
	ui.choosing = true
	go func() {
		f, err := ui.expl.ChooseFile(".csv")
		ui.opened <- opened{file: f, err: err}
		ui.invalidate()
	}()
}

// Update processes the toolbar and the results of the file chooser.
func (ui *UI) Update(gtx C) {
	select {
	case o := <-ui.opened:
		ui.choosing = false
		if o.err != nil {
			if !errors.Is(o.err, explorer.ErrUserDecline) {
				ui.err = o.err.Error()
			}
			break
		}
		if err := ui.open(o.file); err != nil {
			ui.err = err.Error()
		}
	default:
	}
	if !ui.choosing && ui.openBtn.Clicked(gtx) {
		ui.choose()
	}
	if ui.resetBtn.Clicked(gtx) {
		for _, p := range ui.panels {
			p.Chart.UpdateFocus(ugraph.NoFocus)
		}
	}
	if ui.stacked.Update(gtx) {
		for _, p := range ui.panels {
			if err := p.Chart.UpdateRenderer(ui.rendererName()); err != nil {
				ui.err = err.Error()
			}
		}
	}
	if ui.zeroBased.Update(gtx) {
		for _, p := range ui.panels {
			p.Chart.UpdateZeroBased(ui.zeroBased.Value)
		}
	}
	if ui.crosshair.Update(gtx) {
		for _, p := range ui.panels {
			p.Chart.UpdateHighlight(ui.crosshair.Value)
		}
	}
}

func (ui *UI) layoutToolbar(gtx C) D {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			if ui.choosing {
				gtx = gtx.Disabled()
			}
			return material.IconButton(ui.th, &ui.openBtn, openIcon, "Open CSV").Layout(gtx)
		}),
		layout.Rigid(material.IconButton(ui.th, &ui.resetBtn, zoomOutIcon, "Reset zoom").Layout),
		layout.Rigid(material.CheckBox(ui.th, &ui.stacked, "Stacked").Layout),
		layout.Rigid(material.CheckBox(ui.th, &ui.zeroBased, "From zero").Layout),
		layout.Rigid(material.CheckBox(ui.th, &ui.crosshair, "Crosshair").Layout),
		layout.Flexed(1, func(gtx C) D {
			if len(ui.err) == 0 {
				return D{Size: gtx.Constraints.Min}
			}
			l := material.Body2(ui.th, ui.err)
			l.Color = color.NRGBA{R: 150, A: 255}
			l.MaxLines = 1
			return layout.UniformInset(4).Layout(gtx, l.Layout)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	l := material.Body1(ui.th, "No data yet.")
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			if ui.choosing {
				gtx = gtx.Disabled()
			}
			return material.Button(ui.th, &ui.openBtn, "Open CSV").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body2(ui.th, ui.err).Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if len(ui.panels) == 0 {
		return ui.layoutStartScreen(gtx)
	}
	children := make([]layout.FlexChild, 0, len(ui.panels)+1)
	children = append(children, layout.Rigid(ui.layoutToolbar))
	for _, p := range ui.panels {
		p := p
		children = append(children, layout.Flexed(1, func(gtx C) D {
			return p.Layout(gtx, ui.th)
		}))
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}
