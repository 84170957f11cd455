// Copyright 2026 Eddy Simulation Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the array values the native engine computes on.
//
// The package defines the canonical data representation shared by engines
// and fields:
//   - Dense: contiguous n-dimensional array with runtime dtype
//   - Sparse: coordinate-format sparse tensor
//   - Shape, DataType: core type definitions
//
// Engines other than the native one are free to use their own value types;
// the dispatcher routes on the concrete type of the operands, not on this
// package.
//
// Example:
//
//	x, err := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(x.Shape(), x.DType())
package tensor

import (
	"github.com/eddy-sim/eddy/internal/tensor"
)

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants. Eddy standardizes on Go's 64-bit numeric widths.
const (
	Float64    DataType = tensor.Float64
	Int64      DataType = tensor.Int64
	Bool       DataType = tensor.Bool
	Complex128 DataType = tensor.Complex128
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// An empty Shape is a scalar.
type Shape = tensor.Shape

// Dense is a contiguous n-dimensional array.
type Dense = tensor.Dense

// Sparse is a coordinate-format sparse tensor. Duplicate coordinates sum on
// densification.
type Sparse = tensor.Sparse

// Creation functions

// NewDense creates a zero-filled tensor with the given shape and dtype.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	return tensor.NewDense(shape, dtype)
}

// FromFloat64s creates a float64 tensor from values in row-major order.
//
// Example:
//
//	x, err := tensor.FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromFloat64s(values []float64, shape Shape) (*Dense, error) {
	return tensor.FromFloat64s(values, shape)
}

// FromInt64s creates an int64 tensor from values in row-major order.
func FromInt64s(values []int64, shape Shape) (*Dense, error) {
	return tensor.FromInt64s(values, shape)
}

// FromBools creates a bool tensor from values in row-major order.
func FromBools(values []bool, shape Shape) (*Dense, error) {
	return tensor.FromBools(values, shape)
}

// FromComplex128s creates a complex128 tensor from values in row-major order.
func FromComplex128s(values []complex128, shape Shape) (*Dense, error) {
	return tensor.FromComplex128s(values, shape)
}

// Scalar creates a rank-0 float64 tensor.
func Scalar(value float64) *Dense {
	return tensor.Scalar(value)
}

// FromAny converts a Go number or (nested) slice into a tensor. Nested
// slices must be rectangular; mixed element types promote to the widest
// type encountered.
//
// Example:
//
//	x, err := tensor.FromAny([][]float64{{1, 2}, {3, 4}})
func FromAny(value any) (*Dense, error) {
	return tensor.FromAny(value)
}

// IsTensorValue reports whether a value is one of the tensor types this
// package defines, without attempting a conversion.
func IsTensorValue(value any) bool {
	return tensor.IsTensorValue(value)
}

// NewSparse creates a sparse tensor from [nnz, rank] int64 coordinates and
// nnz values.
func NewSparse(indices, values *Dense, shape Shape) (*Sparse, error) {
	return tensor.NewSparse(indices, values, shape)
}

// Utility functions

// Promote returns the data type that can represent values of both operands
// without loss: complex128 > float64 > int64 > bool.
func Promote(a, b DataType) DataType {
	return tensor.Promote(a, b)
}

// BroadcastShapes computes the broadcast shape for two shapes following
// NumPy broadcasting rules.
//
// Example:
//
//	shape, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
//	// shape = [3, 4]
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
