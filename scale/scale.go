// Package scale provides the linear mappings between data space and
// surface space.
package scale

// Linear maps the domain [D0,D1] onto the range [R0,R1]. The range may be
// inverted (R0 > R1), which is how the y axis of a chart grows upwards on a
// surface whose y grows downwards.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// New returns a scale mapping [d0,d1] onto [r0,r1].
func New(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Domain returns a copy of the scale with a new domain.
func (l Linear) Domain(d0, d1 float64) Linear {
	l.D0, l.D1 = d0, d1
	return l
}

// Range returns a copy of the scale with a new range.
func (l Linear) Range(r0, r1 float64) Linear {
	l.R0, l.R1 = r0, r1
	return l
}

// Apply maps a domain value into the range. A degenerate domain maps every
// value onto R0.
func (l Linear) Apply(v float64) float64 {
	return interpolate(l.R0, l.R1, normalize(l.D0, l.D1, v))
}

// Invert maps a range value back into the domain. A degenerate range maps
// every value onto D0.
func (l Linear) Invert(v float64) float64 {
	return interpolate(l.D0, l.D1, normalize(l.R0, l.R1, v))
}

func normalize(a, b, v float64) float64 {
	if b == a {
		return 0
	}
	return (v - a) / (b - a)
}

func interpolate(a, b, t float64) float64 {
	return a + (b-a)*t
}
