// Copyright 2026 Eddy Simulation Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package field provides the public API for spatial fields.
//
// A field combines a name, optional bounds, array data and property flags
// into one immutable value. Three layouts cover the common cases:
//   - Grid: values sampled at the cell centers of a regular grid
//   - Constant: one value everywhere, independent of dimensionality
//   - Composite: per-component sub-fields acting as one field (staggered
//     layouts)
//
// Arithmetic and resampling derive the metadata of every result through
// flag propagation, so properties like divergence-freeness follow the data
// exactly as far as they remain true.
//
// Example:
//
//	import (
//	    "github.com/eddy-sim/eddy/field"
//	    "github.com/eddy-sim/eddy/geom"
//	    _ "github.com/eddy-sim/eddy/backend/native"
//	)
//
//	func main() {
//	    box, _ := geom.NewBox([]float64{0}, []float64{1})
//	    density, err := field.NewGrid("density", [][][]float64{{{1}, {2}, {3}, {4}}},
//	        field.WithBounds(box))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    doubled, err := field.Mul(density, 2.0)
//	    ...
//	}
package field

import (
	"github.com/eddy-sim/eddy/backend"
	"github.com/eddy-sim/eddy/geom"
	"github.com/eddy-sim/eddy/internal/field"
)

// Field is an immutable spatial quantity. Every transformation returns a
// new value.
type Field = field.Field

// AnyRank marks a field independent of spatial dimensionality.
const AnyRank = field.AnyRank

// SamplePoints describes where a field's values live.
type SamplePoints = field.SamplePoints

// PointsLayout discriminates how a field's sample locations are organized.
type PointsLayout = field.PointsLayout

// Point layouts.
const (
	PointsNone         PointsLayout = field.PointsNone
	PointsShared       PointsLayout = field.PointsShared
	PointsPerComponent PointsLayout = field.PointsPerComponent
)

// Concrete layouts.

// Grid is a cell-centered regular grid.
type Grid = field.Grid

// Constant is a spatially uniform field.
type Constant = field.Constant

// Composite is an ordered collection of single-component fields acting as
// one multi-component field.
type Composite = field.Composite

// Option configures field construction.
type Option = field.Option

// WithBounds sets the region the field spans.
func WithBounds(b *geom.Box) Option {
	return field.WithBounds(b)
}

// WithFlags attaches property flags, validated against the field shape.
func WithFlags(flags ...Flag) Option {
	return field.WithFlags(flags...)
}

// WithBackend selects the compute engine. The default is the process-wide
// dispatcher.
func WithBackend(be backend.Backend) Option {
	return field.WithBackend(be)
}

// WithExtrapolation selects how grid sampling reads outside the bounds.
func WithExtrapolation(mode backend.Boundary) Option {
	return field.WithExtrapolation(mode)
}

// NewGrid returns a cell-centered grid over data of shape
// [batch, spatial..., components].
//
// Example:
//
//	g, err := field.NewGrid("density", [][][]float64{{{1}, {2}, {3}}})
func NewGrid(name string, data any, opts ...Option) (*Grid, error) {
	return field.NewGrid(name, data, opts...)
}

// NewConstant returns the uniform field holding value, a scalar or a
// per-component vector.
func NewConstant(name string, value any, opts ...Option) (*Constant, error) {
	return field.NewConstant(name, value, opts...)
}

// NewComposite returns the field composed of the given single-component
// children.
func NewComposite(name string, children []Field, opts ...Option) (*Composite, error) {
	return field.NewComposite(name, children, opts...)
}

// Flags.

// Flag is an immutable descriptor of a property a field is known to have.
type Flag = field.Flag

// Propagator names a context in which flag survival is evaluated.
type Propagator = field.Propagator

// Propagation contexts.
const (
	Resample         Propagator = field.Resample
	Children         Propagator = field.Children
	LinearOperations Propagator = field.LinearOperations
	AllOperations    Propagator = field.AllOperations
)

// DivergenceFree marks a vector field whose divergence vanishes everywhere.
var DivergenceFree = field.DivergenceFree

// SamplePointsFlag marks a field whose values are its own sample locations.
var SamplePointsFlag = field.SamplePointsFlag

// Flag propagation rules. Field operations apply these internally; they are
// exported for engines and layouts built outside this package.

// PropagateResample computes the flags surviving a resample of source onto
// a new layout.
func PropagateResample(source Field, structureFlags []Flag, resultingRank int) []Flag {
	return field.PropagateResample(source, structureFlags, resultingRank)
}

// PropagateChildren computes the flags a per-component child field inherits.
func PropagateChildren(flags []Flag, childRank, childComponentCount int) []Flag {
	return field.PropagateChildren(flags, childRank, childComponentCount)
}

// PropagateOperation computes the data-bound flags surviving an
// element-wise combination.
func PropagateOperation(flags []Flag, linear bool, resultRank, resultComponentCount int) []Flag {
	return field.PropagateOperation(flags, linear, resultRank, resultComponentCount)
}

// Operations.

// At resamples f onto the sample points of target, returning a field
// compatible with target.
func At(f, target Field) (Field, error) {
	return field.At(f, target)
}

// BroadcastAt resamples f onto a target whose components are sampled at
// per-component locations.
func BroadcastAt(f, target Field) (Field, error) {
	return field.BroadcastAt(f, target)
}

// Add returns f + other. Other is either a field sampled at the same points
// or a raw value combined element-wise with the data.
func Add(f Field, other any) (Field, error) {
	return field.Add(f, other)
}

// Sub returns f - other.
func Sub(f Field, other any) (Field, error) {
	return field.Sub(f, other)
}

// SubFrom returns other - f.
func SubFrom(f Field, other any) (Field, error) {
	return field.SubFrom(f, other)
}

// Mul returns f * other. Scaling by a raw value is linear, so flags
// restricted to linear operations survive it.
func Mul(f Field, other any) (Field, error) {
	return field.Mul(f, other)
}

// Errors.

// IncompatibleFieldsError reports two fields whose sample structures cannot
// be combined or resampled onto one another.
type IncompatibleFieldsError = field.IncompatibleFieldsError

// InapplicableFlagError reports a flag that does not apply to a field's
// shape.
type InapplicableFlagError = field.InapplicableFlagError
