// Command ugraph-render draws a CSV file to a PNG image without opening a
// window.
//
//	ugraph-render -o chart.png [-w 800 -h 400] [-focus 10:20] [-highlight 15] data.csv
//
// With -watch, the file is followed and the image is redrawn as rows are
// appended, at most once per -interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"git.sr.ht/~whereswaldon/ugraph"
	"git.sr.ht/~whereswaldon/ugraph/internal/style"
	"git.sr.ht/~whereswaldon/ugraph/raster"
	"git.sr.ht/~whereswaldon/ugraph/render"
	"git.sr.ht/~whereswaldon/ugraph/series"
	"git.sr.ht/~whereswaldon/ugraph/source"
)

type options struct {
	size       image.Point
	cfg        ugraph.Config
	focus      ugraph.Focus
	highlight  float64
	highlit    bool
	background color.Color
}

// parseFocus parses a window written as "from:to". The empty string is no
// focus.
func parseFocus(s string) (ugraph.Focus, error) {
	if s == "" {
		return ugraph.NoFocus, nil
	}
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return ugraph.NoFocus, fmt.Errorf("invalid focus %q: want from:to", s)
	}
	a, err := strconv.ParseFloat(from, 64)
	if err != nil {
		return ugraph.NoFocus, fmt.Errorf("invalid focus start: %w", err)
	}
	b, err := strconv.ParseFloat(to, 64)
	if err != nil {
		return ugraph.NoFocus, fmt.Errorf("invalid focus end: %w", err)
	}
	return ugraph.NewFocus(a, b), nil
}

// draw renders data with a fresh chart and returns the surface it drew on.
func draw(data []*series.Series, opts options) (*raster.Surface, error) {
	surface := raster.New(opts.size)
	var frames ugraph.ManualScheduler
	g, err := ugraph.New(opts.cfg, ugraph.Host{Surface: surface, Scheduler: &frames})
	if err != nil {
		return nil, err
	}
	g.UpdateFocus(opts.focus)
	g.UpdateSource(data)
	if opts.highlit {
		g.UpdateAutoXval(opts.highlight, true)
	}
	frames.Flush()
	return surface, nil
}

func renderFile(out string, data []*series.Series, opts options) error {
	surface, err := draw(data, opts)
	if err != nil {
		return err
	}
	return surface.SavePNG(out, opts.background)
}

// watch redraws out every time the file at path changes until ctx is done.
func watch(ctx context.Context, path, out string, opts options, interval time.Duration) error {
	sessions, err := source.Watch(ctx, path)
	if err != nil {
		return err
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for session := range sessions {
		if session.Err != nil {
			return session.Err
		}
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		// Skip to the newest snapshot if more arrived while waiting.
		for drained := false; !drained; {
			select {
			case next, ok := <-sessions:
				if !ok {
					drained = true
					break
				}
				session = next
			default:
				drained = true
			}
		}
		if session.Err != nil {
			return session.Err
		}
		if err := renderFile(out, session.Series, opts); err != nil {
			return err
		}
		log.Printf("rendered %d series to %s", len(session.Series), out)
	}
	return nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: draw a CSV file to a PNG image
Usage:

 %[1]s [flags] data.csv

The first column of the file holds x values, every other column is a series
named by its heading.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	out := flag.String("o", "chart.png", "output PNG file")
	width := flag.Int("w", 800, "image width in pixels")
	height := flag.Int("h", 400, "image height in pixels")
	stylePath := flag.String("style", "", "YAML file of chart style settings")
	renderer := flag.String("renderer", "", fmt.Sprintf("renderer, one of %v", render.Names()))
	zero := flag.Bool("zero", false, "start the y axis at zero")
	cadence := flag.Float64("cadence", 0, "break lines between points further apart than this")
	focus := flag.String("focus", "", "x window to draw, as from:to")
	highlightX := flag.String("highlight", "", "x value to draw the crosshair at")
	background := flag.String("background", "#ffffff", "background colour")
	watchFile := flag.Bool("watch", false, "redraw the image as the file grows")
	interval := flag.Duration("interval", time.Second, "minimum time between redraws with -watch")
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	opts := options{
		size: image.Pt(*width, *height),
		cfg:  ugraph.DefaultConfig(),
	}
	var err error
	if *stylePath != "" {
		opts.cfg, err = style.Load(*stylePath)
		if err != nil {
			log.Fatalf("failed loading style: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "renderer":
			opts.cfg.Renderer = *renderer
		case "zero":
			opts.cfg.ZeroBased = *zero
		case "cadence":
			opts.cfg.Cadence = *cadence
		}
	})
	opts.focus, err = parseFocus(*focus)
	if err != nil {
		log.Fatal(err)
	}
	if *highlightX != "" {
		opts.highlight, err = strconv.ParseFloat(*highlightX, 64)
		if err != nil {
			log.Fatalf("invalid -highlight: %v", err)
		}
		opts.highlit = true
	}
	bg, err := style.ParseColor(*background)
	if err != nil {
		log.Fatalf("invalid -background: %v", err)
	}
	opts.background = color.NRGBA(bg)

	if *watchFile {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watch(ctx, path, *out, opts, *interval); err != nil {
			log.Fatal(err)
		}
		return
	}
	data, err := source.LoadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := renderFile(*out, data, opts); err != nil {
		log.Fatal(err)
	}
}
