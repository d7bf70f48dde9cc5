// Package highlight indexes the points of a calculated chart by X so the
// points under a crosshair can be found with a binary search.
package highlight

import (
	"math"
	"slices"
	"sort"

	"git.sr.ht/~whereswaldon/ugraph/calculate"
	"git.sr.ht/~whereswaldon/ugraph/series"
)

// Value is the point of one series at a highlighted X.
type Value struct {
	Series *series.Series
	Value  float64
	// StackValue is the stack base of the point, meaningful when Stacked.
	StackValue float64
	Stacked    bool
}

// Entry is every point sharing one X.
type Entry struct {
	X    float64
	Data []Value
}

// None is the highlight of nothing. It is a singleton so that it can be
// compared by identity.
var None = &Entry{X: math.NaN()}

// IsNone reports whether e is the None sentinel (or nil).
func (e *Entry) IsNone() bool {
	return e == nil || e == None
}

// Builder accumulates points while a frame is being calculated.
type Builder struct {
	entries map[float64]*Entry
}

func NewBuilder() *Builder {
	return &Builder{entries: make(map[float64]*Entry)}
}

// Add records a calculated point. Points with the same X, across all series,
// are merged into one entry.
func (b *Builder) Add(s *series.Series, p calculate.RenderPoint, stacked bool) {
	e, ok := b.entries[p.X]
	if !ok {
		e = &Entry{X: p.X}
		b.entries[p.X] = e
	}
	e.Data = append(e.Data, Value{Series: s, Value: p.Y, StackValue: p.Y0, Stacked: stacked})
}

// Visitor returns a calculation visitor recording every point into the
// builder and deferring the visibility decision to visible, which may be nil.
func (b *Builder) Visitor(visible calculate.Visitor) calculate.Visitor {
	return func(s *series.Series, p calculate.RenderPoint, stacked bool) bool {
		b.Add(s, p, stacked)
		if visible == nil {
			return true
		}
		return visible(s, p, stacked)
	}
}

// Build sorts the accumulated entries into an index.
func (b *Builder) Build() *Index {
	entries := make([]*Entry, 0, len(b.entries))
	for _, e := range b.entries {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *Entry) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})
	xs := make([]float64, len(entries))
	for i, e := range entries {
		xs[i] = e.X
	}
	return &Index{xs: xs, entries: entries}
}

// Index maps ascending X values to their entries.
type Index struct {
	xs      []float64
	entries []*Entry
}

// Len returns the number of distinct X values.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.xs)
}

// Entries returns the entries in ascending X order.
func (ix *Index) Entries() []*Entry {
	if ix == nil {
		return nil
	}
	return ix.entries
}

// bisect returns the insertion point of x to the right of any equal value.
func (ix *Index) bisect(x float64) int {
	return sort.Search(len(ix.xs), func(i int) bool {
		return ix.xs[i] > x
	})
}

// FindExact returns the entry at exactly x, or None.
func (ix *Index) FindExact(x float64) *Entry {
	if ix.Len() == 0 {
		return None
	}
	index := ix.bisect(x)
	if index == 0 {
		return None
	}
	candidate := ix.entries[index-1]
	if candidate.X != x {
		return None
	}
	return candidate
}

// FindNearest returns the entry whose X is closest to x. Ties resolve to the
// larger X. It only returns None for an empty index.
func (ix *Index) FindNearest(x float64) *Entry {
	if ix.Len() == 0 {
		return None
	}
	index := ix.bisect(x)
	if index == len(ix.entries) {
		return ix.entries[len(ix.entries)-1]
	}
	nearest := ix.entries[index]
	if index > 0 {
		prev := ix.entries[index-1]
		if math.Abs(prev.X-x) < math.Abs(nearest.X-x) {
			nearest = prev
		}
	}
	return nearest
}
