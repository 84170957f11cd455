// Package field layers spatial metadata on raw array data. A field is an
// immutable value combining a name, optional bounds, array data and property
// flags; sampling, resampling and arithmetic derive the metadata of every
// result through the flag propagation rules.
package field

import (
	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/geom"
)

// AnyRank marks a field independent of spatial dimensionality.
const AnyRank = -1

// PointsLayout discriminates how a field's sample locations are organized.
type PointsLayout int

const (
	// PointsNone means the field has no sample points (a constant).
	PointsNone PointsLayout = iota
	// PointsShared means every component is sampled at the same locations.
	PointsShared
	// PointsPerComponent means each component is sampled at its own
	// locations (a staggered layout). The per-component points are reachable
	// through Unstack.
	PointsPerComponent
)

// SamplePoints describes where a field's values live. Callers branch on
// Layout; Shared carries the sample-point field only for PointsShared.
type SamplePoints struct {
	Layout PointsLayout
	Shared Field
}

// Field is an immutable spatial quantity. Every transformation returns a new
// value; the only mutation is the one-time normalization (flag dedup and
// applicability validation, data coercion) during construction.
type Field interface {
	// Name identifies the quantity.
	Name() string

	// Bounds is the region the field is defined inside. Nil means unbounded;
	// values outside the bounds are undefined.
	Bounds() geom.Geometry

	// Data holds the field values in the order given by Points. Composite
	// fields hold their []Field children instead of one array.
	Data() any

	// Flags lists the properties known to hold for the field.
	Flags() []Flag

	// Rank is the spatial dimensionality, or AnyRank when the field is
	// independent of it.
	Rank() int

	// ComponentCount is the number of components per sample.
	ComponentCount() int

	// BatchSize is the leading batch dimension of the data.
	BatchSize() int

	// Unstack splits the field into one single-component field per
	// component.
	Unstack() ([]Field, error)

	// Points returns the field's sample locations.
	Points() (SamplePoints, error)

	// HasPoints reports whether the field has sample locations at all.
	// Per-component layouts count as having points.
	HasPoints() bool

	// SampleAt evaluates the field at arbitrary points, given as an array of
	// shape [batch, ..., rank]. Values outside Bounds are undefined.
	SampleAt(points any) (any, error)

	// Compatible reports whether other is sampled at the same points in the
	// same order. The check is cheap and conservative: a false negative is
	// possible, a false positive is not.
	Compatible(other Field) bool

	// Backend is the engine the field computes with.
	Backend() backend.Backend

	// WithValues returns a copy carrying new data and flags, re-normalized.
	WithValues(data any, flags []Flag) (Field, error)
}

// Option configures field construction.
type Option func(*options)

type options struct {
	bounds        *geom.Box
	flags         []Flag
	be            backend.Backend
	extrapolation backend.Boundary
}

func newOptions(opts []Option) options {
	o := options{extrapolation: backend.BoundaryConstant}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBounds sets the region the field spans.
func WithBounds(b *geom.Box) Option {
	return func(o *options) { o.bounds = b }
}

// WithFlags attaches property flags, validated against the field shape.
func WithFlags(flags ...Flag) Option {
	return func(o *options) { o.flags = flags }
}

// WithBackend selects the compute engine. The default is the process-wide
// dispatcher.
func WithBackend(be backend.Backend) Option {
	return func(o *options) { o.be = be }
}

// WithExtrapolation selects how grid sampling reads outside the bounds. Only
// grids use it.
func WithExtrapolation(mode backend.Boundary) Option {
	return func(o *options) { o.extrapolation = mode }
}
