package field

import (
	"fmt"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/geom"
)

// Grid is a cell-centered regular grid: values of shape
// [batch, spatial..., components] sampled at the cell centers of Bounds.
// Unbounded grids sample as if spanning the unit box.
type Grid struct {
	name          string
	bounds        *geom.Box
	data          any
	shape         []int
	flags         []Flag
	be            backend.Backend
	extrapolation backend.Boundary
}

var _ Field = (*Grid)(nil)

// NewGrid returns a cell-centered grid over data of shape
// [batch, spatial..., components]. Data is coerced through the backend's
// canonical tensor representation.
func NewGrid(name string, data any, opts ...Option) (*Grid, error) {
	o := newOptions(opts)
	if o.be == nil {
		o.be = backend.Default
	}
	coerced, err := o.be.AsTensor(data)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", name, err)
	}
	shape, err := o.be.StaticShape(coerced)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", name, err)
	}
	if len(shape) < 3 {
		return nil, fmt.Errorf("grid %q: values must be [batch, spatial..., components], got shape %v", name, shape)
	}
	g := &Grid{
		name:          name,
		bounds:        o.bounds,
		data:          coerced,
		shape:         shape,
		be:            o.be,
		extrapolation: o.extrapolation,
	}
	if g.bounds != nil && g.bounds.Rank() != g.Rank() {
		return nil, fmt.Errorf("grid %q: bounds rank %d does not match spatial rank %d", name, g.bounds.Rank(), g.Rank())
	}
	if g.flags, err = normalizeFlags(name, o.flags, g.Rank(), g.ComponentCount()); err != nil {
		return nil, err
	}
	return g, nil
}

// Name identifies the quantity.
func (g *Grid) Name() string { return g.name }

// Bounds is the region the grid spans, nil when unbounded.
func (g *Grid) Bounds() geom.Geometry {
	if g.bounds == nil {
		return nil
	}
	return g.bounds
}

// Data holds the cell values, shaped [batch, spatial..., components].
func (g *Grid) Data() any { return g.data }

// Flags lists the properties known to hold.
func (g *Grid) Flags() []Flag { return append([]Flag(nil), g.flags...) }

// Rank is the number of spatial dimensions.
func (g *Grid) Rank() int { return len(g.shape) - 2 }

// ComponentCount is the number of components per cell.
func (g *Grid) ComponentCount() int { return g.shape[len(g.shape)-1] }

// BatchSize is the leading batch dimension.
func (g *Grid) BatchSize() int { return g.shape[0] }

// Resolution returns the cell count along each spatial axis.
func (g *Grid) Resolution() []int {
	return append([]int(nil), g.shape[1:len(g.shape)-1]...)
}

// Backend is the engine the grid computes with.
func (g *Grid) Backend() backend.Backend { return g.be }

// HasPoints reports true: grid values live at cell centers.
func (g *Grid) HasPoints() bool { return true }

func (g *Grid) String() string {
	return fmt.Sprintf("grid %q%v", g.name, g.shape)
}

// sampleBox is the region sampling maps into: the bounds, or the unit box
// for unbounded grids.
func (g *Grid) sampleBox() *geom.Box {
	if g.bounds != nil {
		return g.bounds
	}
	return geom.UnitBox(g.Rank())
}

// cellSize returns the world-space edge length of one cell per axis.
func (g *Grid) cellSize() []float64 {
	size := g.sampleBox().Size()
	for i, n := range g.shape[1 : len(g.shape)-1] {
		size[i] /= float64(n)
	}
	return size
}

// Points returns the shared cell-center mesh as a vector grid flagged as its
// own sample locations.
func (g *Grid) Points() (SamplePoints, error) {
	mesh, err := g.pointsMesh()
	if err != nil {
		return SamplePoints{}, fmt.Errorf("grid %q points: %w", g.name, err)
	}
	pts, err := NewGrid(g.name+".points", mesh,
		WithBounds(g.bounds),
		WithBackend(g.be),
		WithExtrapolation(g.extrapolation),
		WithFlags(SamplePointsFlag))
	if err != nil {
		return SamplePoints{}, err
	}
	return SamplePoints{Layout: PointsShared, Shared: pts}, nil
}

// pointsMesh builds the [1, spatial..., rank] world coordinates of every cell
// center through the backend: per axis a centered range scaled into the box,
// tiled across the remaining axes and stacked into vectors.
func (g *Grid) pointsMesh() (any, error) {
	res := g.shape[1 : len(g.shape)-1]
	box := g.sampleBox()
	cell := g.cellSize()
	axes := make([]any, len(res))
	for a := range res {
		line, err := g.be.Range(0, res[a], 1)
		if err != nil {
			return nil, err
		}
		if line, err = g.be.Add(line, 0.5); err != nil {
			return nil, err
		}
		if line, err = g.be.Mul(line, cell[a]); err != nil {
			return nil, err
		}
		if line, err = g.be.Add(line, box.Lower[a]); err != nil {
			return nil, err
		}
		dims := make([]int, len(res))
		mult := make([]int, len(res))
		for i := range dims {
			dims[i], mult[i] = 1, res[i]
		}
		dims[a], mult[a] = res[a], 1
		if line, err = g.be.Reshape(line, dims); err != nil {
			return nil, err
		}
		if line, err = g.be.Tile(line, mult); err != nil {
			return nil, err
		}
		axes[a] = line
	}
	mesh, err := g.be.Stack(axes, -1)
	if err != nil {
		return nil, err
	}
	return g.be.ExpandDims(mesh, 0, 1)
}

// SampleAt interpolates the grid at world-space points of shape
// [batch, ..., rank]. Points map into continuous cell-index space; the
// extrapolation mode handles reads outside the grid.
func (g *Grid) SampleAt(points any) (any, error) {
	box := g.sampleBox()
	local, err := g.be.Sub(points, box.Lower)
	if err != nil {
		return nil, fmt.Errorf("grid %q sample: %w", g.name, err)
	}
	idx, err := g.be.Div(local, g.cellSize())
	if err != nil {
		return nil, fmt.Errorf("grid %q sample: %w", g.name, err)
	}
	if idx, err = g.be.Sub(idx, 0.5); err != nil {
		return nil, fmt.Errorf("grid %q sample: %w", g.name, err)
	}
	return g.be.Resample(g.data, idx, backend.InterpolationLinear, g.extrapolation)
}

// Compatible reports whether other is a grid of the same resolution over the
// same bounds. Fields without sample points are vacuously compatible.
func (g *Grid) Compatible(other Field) bool {
	if !other.HasPoints() {
		return true
	}
	o, ok := other.(*Grid)
	if !ok || len(o.shape) != len(g.shape) {
		return false
	}
	for i := 1; i < len(g.shape)-1; i++ {
		if g.shape[i] != o.shape[i] {
			return false
		}
	}
	if (g.bounds == nil) != (o.bounds == nil) {
		return false
	}
	return g.bounds == nil || g.bounds.Equal(o.bounds)
}

// Unstack splits the grid into one single-component grid per component.
func (g *Grid) Unstack() ([]Field, error) {
	parts, err := g.be.Unstack(g.data, -1)
	if err != nil {
		return nil, fmt.Errorf("grid %q unstack: %w", g.name, err)
	}
	childFlags := PropagateChildren(g.flags, g.Rank(), 1)
	out := make([]Field, len(parts))
	for i, p := range parts {
		comp, err := g.be.ExpandDims(p, -1, 1)
		if err != nil {
			return nil, fmt.Errorf("grid %q unstack: %w", g.name, err)
		}
		child, err := NewGrid(fmt.Sprintf("%s[%d]", g.name, i), comp,
			WithBounds(g.bounds),
			WithBackend(g.be),
			WithExtrapolation(g.extrapolation),
			WithFlags(childFlags...))
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return out, nil
}

// WithValues returns a copy of the grid carrying new values and flags.
func (g *Grid) WithValues(data any, flags []Flag) (Field, error) {
	return NewGrid(g.name, data,
		WithBounds(g.bounds),
		WithBackend(g.be),
		WithExtrapolation(g.extrapolation),
		WithFlags(flags...))
}
