// Package geom provides the spatial regions fields carry as bounds. A nil
// Geometry on a field is the legal unbounded state; the only concrete shape
// fields need is the axis-aligned Box.
package geom

import (
	"fmt"
	"strings"
)

// Geometry is an opaque spatial region.
type Geometry interface {
	// Rank returns the number of spatial dimensions.
	Rank() int
	String() string
}

// Box is an axis-aligned region spanning [Lower[i], Upper[i]] along each axis.
type Box struct {
	Lower []float64
	Upper []float64
}

var _ Geometry = (*Box)(nil)

// NewBox returns the box spanning lower to upper. The corners must have the
// same rank and upper may not fall below lower on any axis.
func NewBox(lower, upper []float64) (*Box, error) {
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("box: lower has %d axes, upper has %d", len(lower), len(upper))
	}
	for i := range lower {
		if upper[i] < lower[i] {
			return nil, fmt.Errorf("box: axis %d spans %g to %g", i, lower[i], upper[i])
		}
	}
	return &Box{
		Lower: append([]float64(nil), lower...),
		Upper: append([]float64(nil), upper...),
	}, nil
}

// UnitBox returns the box spanning 0 to 1 along every axis.
func UnitBox(rank int) *Box {
	b := &Box{Lower: make([]float64, rank), Upper: make([]float64, rank)}
	for i := range b.Upper {
		b.Upper[i] = 1
	}
	return b
}

// Rank returns the number of spatial dimensions.
func (b *Box) Rank() int {
	return len(b.Lower)
}

// Size returns the edge length along each axis.
func (b *Box) Size() []float64 {
	out := make([]float64, len(b.Lower))
	for i := range out {
		out[i] = b.Upper[i] - b.Lower[i]
	}
	return out
}

// Equal reports whether two boxes span the same region.
func (b *Box) Equal(other *Box) bool {
	if other == nil || len(b.Lower) != len(other.Lower) {
		return false
	}
	for i := range b.Lower {
		if b.Lower[i] != other.Lower[i] || b.Upper[i] != other.Upper[i] {
			return false
		}
	}
	return true
}

func (b *Box) String() string {
	spans := make([]string, len(b.Lower))
	for i := range spans {
		spans[i] = fmt.Sprintf("%g..%g", b.Lower[i], b.Upper[i])
	}
	return "box[" + strings.Join(spans, ", ") + "]"
}
