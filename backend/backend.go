// Copyright 2026 Eddy Simulation Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backend provides the public API for multi-engine dispatch.
//
// The package defines two things:
//   - Backend: the capability interface every compute engine implements
//   - Dispatcher: a priority-ordered registry of engines that is itself a
//     Backend, routing each operation to the first engine accepting its
//     operands
//
// Engines register into the process-wide Default dispatcher from their
// package init, so activating one is a blank import:
//
//	import (
//	    "github.com/eddy-sim/eddy/backend"
//	    _ "github.com/eddy-sim/eddy/backend/native"
//	)
//
//	func main() {
//	    sum, err := backend.Default.Add([]float64{1, 2}, []float64{3, 4})
//	    ...
//	}
//
// Code written against the Backend interface runs unchanged over one engine
// or many.
package backend

import (
	"github.com/eddy-sim/eddy/internal/backend"
)

// Backend is the capability interface a compute engine implements. Operands
// are untyped: each engine decides via IsApplicable which values it accepts.
type Backend = backend.Backend

// Dispatcher routes operations to the first registered backend whose
// IsApplicable accepts the operands. Registration order is priority order.
type Dispatcher = backend.Dispatcher

// Option configures a Dispatcher.
type Option = backend.Option

// WithLogger routes registry events to the given logger instead of
// discarding them.
var WithLogger = backend.WithLogger

// NewDispatcher returns an empty registry.
//
// Most callers use the process-wide Default instead and pick engines with
// blank imports; a private dispatcher isolates engine choice per component.
func NewDispatcher(opts ...Option) *Dispatcher {
	return backend.NewDispatcher(opts...)
}

// Default is the process-wide dispatcher engine packages register into.
var Default = backend.Default

// Enumerations shared by engines.

// PadMode selects how Pad fills elements outside the source tensor.
type PadMode = backend.PadMode

// Pad modes.
const (
	PadConstant  PadMode = backend.PadConstant
	PadReplicate PadMode = backend.PadReplicate
	PadCircular  PadMode = backend.PadCircular
	PadSymmetric PadMode = backend.PadSymmetric
)

// Boundary selects how Resample reads coordinates outside the grid.
type Boundary = backend.Boundary

// Resample boundary modes.
const (
	BoundaryConstant  Boundary = backend.BoundaryConstant
	BoundaryReplicate Boundary = backend.BoundaryReplicate
	BoundaryCircular  Boundary = backend.BoundaryCircular
)

// Interpolation selects the Resample interpolation scheme.
type Interpolation = backend.Interpolation

// Interpolation schemes.
const InterpolationLinear Interpolation = backend.InterpolationLinear

// ConvPadding selects the Conv output extent.
type ConvPadding = backend.ConvPadding

// Convolution paddings.
const (
	ConvSame  ConvPadding = backend.ConvSame
	ConvValid ConvPadding = backend.ConvValid
)

// DuplicatesHandling selects how Scatter combines values written to the
// same coordinate.
type DuplicatesHandling = backend.DuplicatesHandling

// Scatter duplicate policies.
const (
	DuplicatesUndefined DuplicatesHandling = backend.DuplicatesUndefined
	DuplicatesAdd       DuplicatesHandling = backend.DuplicatesAdd
	DuplicatesMean      DuplicatesHandling = backend.DuplicatesMean
)

// Control-flow callback types.

// Function is a host computation wrapped by WithCustomGradient.
type Function = backend.Function

// Gradient computes the input gradient for a WithCustomGradient wrapper.
type Gradient = backend.Gradient

// Predicate is a WhileLoop continuation test over the loop variables.
type Predicate = backend.Predicate

// Transform is one WhileLoop body step over the loop variables.
type Transform = backend.Transform

// Errors.

// NoBackendFoundError reports that no registered engine accepted a
// dispatch's operands.
type NoBackendFoundError = backend.NoBackendFoundError

// DuplicateBackendError reports a Register call whose backend name collides
// with an existing entry.
type DuplicateBackendError = backend.DuplicateBackendError

// IsNoBackendFound reports whether err is a dispatch failure.
func IsNoBackendFound(err error) bool {
	return backend.IsNoBackendFound(err)
}
