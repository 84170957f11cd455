package field

import (
	"fmt"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/geom"
)

// Composite is an ordered collection of single-component fields acting as one
// multi-component field. Its components are sampled at per-component
// locations (the staggered layout), so its data is the children themselves
// rather than one array.
type Composite struct {
	name     string
	bounds   *geom.Box
	children []Field
	flags    []Flag
	be       backend.Backend
}

var _ Field = (*Composite)(nil)

// NewComposite returns the field composed of the given single-component
// children. All children must share one spatial rank. Without an explicit
// backend the first child's engine is used.
func NewComposite(name string, children []Field, opts ...Option) (*Composite, error) {
	o := newOptions(opts)
	if len(children) == 0 {
		return nil, fmt.Errorf("composite %q: needs at least one child", name)
	}
	rank := children[0].Rank()
	for i, ch := range children {
		if ch.ComponentCount() != 1 {
			return nil, fmt.Errorf("composite %q: child %d has %d components, want 1", name, i, ch.ComponentCount())
		}
		if ch.Rank() != rank {
			return nil, fmt.Errorf("composite %q: child %d has rank %d, want %d", name, i, ch.Rank(), rank)
		}
	}
	if o.be == nil {
		o.be = children[0].Backend()
	}
	c := &Composite{
		name:     name,
		bounds:   o.bounds,
		children: append([]Field(nil), children...),
		be:       o.be,
	}
	var err error
	if c.flags, err = normalizeFlags(name, o.flags, rank, len(children)); err != nil {
		return nil, err
	}
	return c, nil
}

// Name identifies the quantity.
func (c *Composite) Name() string { return c.name }

// Bounds is the composite's own region when set, else the first child's.
func (c *Composite) Bounds() geom.Geometry {
	if c.bounds != nil {
		return c.bounds
	}
	return c.children[0].Bounds()
}

// Data holds the ordered children.
func (c *Composite) Data() any {
	return append([]Field(nil), c.children...)
}

// Flags lists the properties known to hold for the composite as a whole.
func (c *Composite) Flags() []Flag { return append([]Flag(nil), c.flags...) }

// Rank is the children's shared spatial rank.
func (c *Composite) Rank() int { return c.children[0].Rank() }

// ComponentCount is the number of children.
func (c *Composite) ComponentCount() int { return len(c.children) }

// BatchSize is the first child's batch dimension.
func (c *Composite) BatchSize() int { return c.children[0].BatchSize() }

// Backend is the engine the composite computes with.
func (c *Composite) Backend() backend.Backend { return c.be }

// HasPoints reports true: every component has sample locations of its own.
func (c *Composite) HasPoints() bool { return true }

// Points reports the per-component layout. The locations themselves are
// reachable through Unstack.
func (c *Composite) Points() (SamplePoints, error) {
	return SamplePoints{Layout: PointsPerComponent}, nil
}

func (c *Composite) String() string {
	return fmt.Sprintf("composite %q(%d)", c.name, len(c.children))
}

// SampleAt evaluates every child at the shared query points and concatenates
// the results along the component axis.
func (c *Composite) SampleAt(points any) (any, error) {
	parts := make([]any, len(c.children))
	for i, ch := range c.children {
		p, err := ch.SampleAt(points)
		if err != nil {
			return nil, fmt.Errorf("composite %q sample: %w", c.name, err)
		}
		parts[i] = p
	}
	return c.be.Concat(parts, -1)
}

// Compatible reports whether other is a composite of pairwise-compatible
// children. Fields without sample points are vacuously compatible.
func (c *Composite) Compatible(other Field) bool {
	if !other.HasPoints() {
		return true
	}
	o, ok := other.(*Composite)
	if !ok || len(o.children) != len(c.children) {
		return false
	}
	for i, ch := range c.children {
		if !ch.Compatible(o.children[i]) {
			return false
		}
	}
	return true
}

// Unstack returns the children, each carrying the composite flags that
// propagate onto per-component sub-fields.
func (c *Composite) Unstack() ([]Field, error) {
	out := make([]Field, len(c.children))
	for i, ch := range c.children {
		inherited := PropagateChildren(c.flags, ch.Rank(), ch.ComponentCount())
		if len(inherited) == 0 {
			out[i] = ch
			continue
		}
		merged := append(append([]Flag(nil), ch.Flags()...), inherited...)
		child, err := ch.WithValues(ch.Data(), dedupFlags(merged))
		if err != nil {
			return nil, fmt.Errorf("composite %q unstack: %w", c.name, err)
		}
		out[i] = child
	}
	return out, nil
}

// WithValues returns a copy with new children and flags. Data must be one
// single-component field per component.
func (c *Composite) WithValues(data any, flags []Flag) (Field, error) {
	children, ok := data.([]Field)
	if !ok {
		return nil, fmt.Errorf("composite %q: values must be []Field, got %T", c.name, data)
	}
	return NewComposite(c.name, children,
		WithBounds(c.bounds),
		WithBackend(c.be),
		WithFlags(flags...))
}
