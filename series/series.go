// Package series holds the raw input of a chart: named sequences of points.
package series

import "slices"

// Point is one sample of a series.
type Point struct {
	X, Y float64
}

// Series represents one data set in a visualization. Charts identify a
// series by its pointer, so callers must not copy a Series they have
// already handed to a chart and expect the copy to be treated as the same
// series.
type Series struct {
	Name string
	// Data is expected to be ordered by non-decreasing X.
	Data []Point
}

// New returns a series with the given name and points. The points are used
// as-is.
func New(name string, data ...Point) *Series {
	return &Series{Name: name, Data: data}
}

// Insert adds a point to the series, keeping Data ordered by X. In the event
// that the series already contains a point at that X, nothing is added and
// the method returns false. Otherwise, the method returns true.
func (s *Series) Insert(p Point) (inserted bool) {
	index, found := slices.BinarySearchFunc(s.Data, p.X, func(e Point, x float64) int {
		switch {
		case e.X < x:
			return -1
		case e.X > x:
			return 1
		}
		return 0
	})
	if found {
		return false
	}
	s.Data = slices.Insert(s.Data, index, p)
	return true
}

// Domain returns the smallest and largest X of the series. ok is false for
// an empty series.
func (s *Series) Domain() (minimum, maximum float64, ok bool) {
	if len(s.Data) < 1 {
		return 0, 0, false
	}
	return s.Data[0].X, s.Data[len(s.Data)-1].X, true
}

// Clone returns a deep copy of the series. The copy is a distinct series as
// far as charts are concerned.
func (s *Series) Clone() *Series {
	return &Series{Name: s.Name, Data: slices.Clone(s.Data)}
}
