// Package source loads chart series from CSV files.
//
// The first column of a file holds x values and every other column is one
// series named by its heading:
//
//	x, cpu, gpu
//	0, 1.5, 3
//	1, 2.25,
//	2, 2, 4
//
// Empty cells are skipped, so series may be sparse. Files that are still
// being written can be followed with Watch.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.sr.ht/~whereswaldon/ugraph/series"
)

// ErrNoSeries is returned for a CSV document whose heading row names no
// series.
var ErrNoSeries = errors.New("source: no series columns")

// Session is a snapshot of the series read from one file so far. The series
// in a session are never modified after it is sent, so each snapshot holds
// distinct series values.
type Session struct {
	Path   string
	Series []*series.Series
	Err    error
}

type parser struct {
	series []*series.Series
}

func newParser(headings []string) (*parser, error) {
	if len(headings) < 2 {
		return nil, ErrNoSeries
	}
	p := &parser{}
	for _, heading := range headings[1:] {
		p.series = append(p.series, series.New(strings.TrimSpace(heading)))
	}
	return p, nil
}

// add parses one record into the series. Cells that cannot be parsed are
// logged and dropped. It reports whether any point was inserted.
func (p *parser) add(rec []string) bool {
	if len(rec) < 1 {
		return false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	if err != nil {
		log.Printf("failed parsing x value %q: %v", rec[0], err)
		return false
	}
	changed := false
	for i, cell := range rec[1:] {
		if i >= len(p.series) {
			break
		}
		cell = strings.TrimSpace(cell)
		if len(cell) < 1 {
			// Skip null cells.
			continue
		}
		y, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			log.Printf("failed parsing %s[%v]=%q: %v", p.series[i].Name, x, cell, err)
			continue
		}
		if p.series[i].Insert(series.Point{X: x, Y: y}) {
			changed = true
		}
	}
	return changed
}

func (p *parser) snapshot() []*series.Series {
	out := make([]*series.Series, len(p.series))
	for i, s := range p.series {
		out[i] = s.Clone()
	}
	return out
}

func newCSVReader(r io.Reader) *csv.Reader {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.Comment = '#'
	return csvReader
}

// Load reads a complete CSV document.
func Load(r io.Reader) ([]*series.Series, error) {
	csvReader := newCSVReader(r)
	headings, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoSeries
	} else if err != nil {
		return nil, fmt.Errorf("failed reading CSV headings: %w", err)
	}
	p, err := newParser(headings)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			return p.series, nil
		} else if err != nil {
			return nil, fmt.Errorf("failed reading CSV data: %w", err)
		}
		p.add(rec)
	}
}

// LoadFile reads the CSV file at path.
func LoadFile(path string) (_ []*series.Series, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed opening %q: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed loading %q: %w", path, err)
	}
	return s, nil
}

// Watch follows the CSV file at path. See Follow.
func Watch(ctx context.Context, path string) (<-chan Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed opening %q: %w", path, err)
	}
	return Follow(ctx, f), nil
}

type named interface{ Name() string }

// Follow parses r in the background and sends a session every time it has
// consumed all available input and the series changed. If r is a file, it
// is watched for writes and rows appended to it are picked up until ctx is
// done or the file is removed. Any other reader ends the stream at EOF.
// A read error is delivered as the final session's Err. Follow closes r when
// it stops, and closes the returned channel after that.
func Follow(ctx context.Context, r io.ReadCloser) <-chan Session {
	out := make(chan Session, 1)
	go func() {
		defer close(out)
		defer r.Close()
		session := Session{}
		send := func(s Session) bool {
			select {
			case out <- s:
				return true
			case <-ctx.Done():
				return false
			}
		}
		var watcher *fsnotify.Watcher
		if f, ok := r.(named); ok {
			session.Path = f.Name()
			w, err := fsnotify.NewWatcher()
			if err != nil {
				session.Err = fmt.Errorf("failed creating file watcher: %w", err)
				send(session)
				return
			}
			defer w.Close()
			if err := w.Add(f.Name()); err != nil {
				session.Err = fmt.Errorf("failed watching %q: %w", f.Name(), err)
				send(session)
				return
			}
			watcher = w
		}
		// wait blocks until the watched file grows. It reports false when
		// following should stop.
		wait := func() bool {
			if watcher == nil {
				return false
			}
			for {
				select {
				case <-ctx.Done():
					return false
				case ev, ok := <-watcher.Events:
					if !ok {
						return false
					}
					if ev.Has(fsnotify.Write) {
						return true
					}
					if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
						log.Printf("stopped following %q: %v", ev.Name, ev.Op)
						return false
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return false
					}
					log.Printf("file watcher error: %v", err)
				}
			}
		}

		csvReader := newCSVReader(newLineReader(r))
		var p *parser
		for p == nil {
			headings, err := csvReader.Read()
			switch {
			case errors.Is(err, io.EOF):
				if !wait() {
					session.Err = ErrNoSeries
					send(session)
					return
				}
				continue
			case err != nil:
				session.Err = fmt.Errorf("failed reading CSV headings: %w", err)
				send(session)
				return
			}
			p, err = newParser(headings)
			if err != nil {
				session.Err = err
				send(session)
				return
			}
		}
		dirty := true
		for {
			rec, err := csvReader.Read()
			if err != nil {
				if errors.Is(err, io.EOF) {
					if dirty {
						session.Series = p.snapshot()
						if !send(session) {
							return
						}
						dirty = false
					}
					if wait() {
						continue
					}
					return
				}
				log.Printf("could not read CSV data: %v", err)
				session.Series = p.snapshot()
				session.Err = fmt.Errorf("failed reading CSV data: %w", err)
				send(session)
				return
			}
			if p.add(rec) {
				dirty = true
			}
		}
	}()
	return out
}
