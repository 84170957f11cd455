package field

import (
	"fmt"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/geom"
)

// Constant is a spatially uniform field: one value everywhere, independent of
// dimensionality. Its rank is AnyRank and it has no sample points.
type Constant struct {
	name   string
	bounds *geom.Box
	data   any
	count  int
	flags  []Flag
	be     backend.Backend
}

var _ Field = (*Constant)(nil)

// NewConstant returns the uniform field holding value, a scalar or a
// per-component vector.
func NewConstant(name string, value any, opts ...Option) (*Constant, error) {
	o := newOptions(opts)
	if o.be == nil {
		o.be = backend.Default
	}
	coerced, err := o.be.AsTensor(value)
	if err != nil {
		return nil, fmt.Errorf("constant %q: %w", name, err)
	}
	shape, err := o.be.StaticShape(coerced)
	if err != nil {
		return nil, fmt.Errorf("constant %q: %w", name, err)
	}
	count := 1
	for _, n := range shape {
		count *= n
	}
	c := &Constant{
		name:   name,
		bounds: o.bounds,
		data:   coerced,
		count:  count,
		be:     o.be,
	}
	if c.flags, err = normalizeFlags(name, o.flags, AnyRank, count); err != nil {
		return nil, err
	}
	return c, nil
}

// Name identifies the quantity.
func (c *Constant) Name() string { return c.name }

// Bounds is the region the constant is defined inside, nil when unbounded.
func (c *Constant) Bounds() geom.Geometry {
	if c.bounds == nil {
		return nil
	}
	return c.bounds
}

// Data holds the uniform value.
func (c *Constant) Data() any { return c.data }

// Flags lists the properties known to hold.
func (c *Constant) Flags() []Flag { return append([]Flag(nil), c.flags...) }

// Rank reports AnyRank: a constant exists in any dimensionality.
func (c *Constant) Rank() int { return AnyRank }

// ComponentCount is the number of entries in the value.
func (c *Constant) ComponentCount() int { return c.count }

// BatchSize reports 1: the value is shared across batches.
func (c *Constant) BatchSize() int { return 1 }

// Backend is the engine the constant computes with.
func (c *Constant) Backend() backend.Backend { return c.be }

// HasPoints reports false: a constant has no sample locations.
func (c *Constant) HasPoints() bool { return false }

// Points reports the no-points layout.
func (c *Constant) Points() (SamplePoints, error) {
	return SamplePoints{Layout: PointsNone}, nil
}

func (c *Constant) String() string {
	return fmt.Sprintf("constant %q", c.name)
}

// SampleAt broadcasts the value to the query points: the result has the
// points' leading shape with one entry per component.
func (c *Constant) SampleAt(points any) (any, error) {
	anchor, err := c.be.Sum(points, []int{-1}, true)
	if err != nil {
		return nil, fmt.Errorf("constant %q sample: %w", c.name, err)
	}
	zeros, err := c.be.ZerosLike(anchor)
	if err != nil {
		return nil, fmt.Errorf("constant %q sample: %w", c.name, err)
	}
	return c.be.Add(zeros, c.data)
}

// Compatible reports true: a constant matches any sample structure.
func (c *Constant) Compatible(other Field) bool { return true }

// Unstack splits the value into one scalar constant per component.
func (c *Constant) Unstack() ([]Field, error) {
	flat, err := c.be.Reshape(c.data, []int{c.count})
	if err != nil {
		return nil, fmt.Errorf("constant %q unstack: %w", c.name, err)
	}
	parts, err := c.be.Unstack(flat, 0)
	if err != nil {
		return nil, fmt.Errorf("constant %q unstack: %w", c.name, err)
	}
	childFlags := PropagateChildren(c.flags, AnyRank, 1)
	out := make([]Field, len(parts))
	for i, p := range parts {
		child, err := NewConstant(fmt.Sprintf("%s[%d]", c.name, i), p,
			WithBounds(c.bounds),
			WithBackend(c.be),
			WithFlags(childFlags...))
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return out, nil
}

// WithValues returns a copy of the constant carrying a new value and flags.
func (c *Constant) WithValues(data any, flags []Flag) (Field, error) {
	return NewConstant(c.name, data,
		WithBounds(c.bounds),
		WithBackend(c.be),
		WithFlags(flags...))
}
