// Command ugraph-view charts CSV files in a window. Every file given on the
// command line gets its own chart, and the charts share their crosshair,
// drag selection and zoom. Files are followed as they grow.
//
//	ugraph-view [-style style.yaml] [-renderer stacked-line] data.csv...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/x/explorer"

	"git.sr.ht/~whereswaldon/ugraph"
	"git.sr.ht/~whereswaldon/ugraph/internal/style"
	"git.sr.ht/~whereswaldon/ugraph/render"
)

func main() {
	stylePath := flag.String("style", "", "YAML file of chart style settings")
	renderer := flag.String("renderer", "", fmt.Sprintf("renderer to start with, one of %v", render.Names()))
	flag.Parse()

	cfg := ugraph.DefaultConfig()
	if *stylePath != "" {
		var err error
		cfg, err = style.Load(*stylePath)
		if err != nil {
			log.Fatalf("failed loading style: %v", err)
		}
	}
	if *renderer != "" {
		cfg.Renderer = *renderer
	}
	if _, err := render.Lookup(cfg.Renderer); err != nil {
		log.Fatalf("invalid -renderer: %v", err)
	}

	go func() {
		w := app.NewWindow(app.Title("ugraph"))
		if err := loop(w, cfg, flag.Args()); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, cfg ugraph.Config, paths []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	expl := explorer.NewExplorer(w)
	ui := NewUI(ctx, w, expl, cfg)
	for _, path := range paths {
		if err := ui.Watch(path); err != nil {
			return err
		}
	}
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
