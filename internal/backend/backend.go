// Package backend defines the capability interface compute engines implement
// and the dispatcher that routes each operation to the first registered engine
// accepting its operands.
package backend

import (
	"github.com/eddy-sim/eddy/internal/tensor"
)

// PadMode selects how Pad fills elements outside the source tensor.
type PadMode string

const (
	PadConstant  PadMode = "constant"
	PadReplicate PadMode = "replicate"
	PadCircular  PadMode = "circular"
	PadSymmetric PadMode = "symmetric"
)

// Boundary selects how Resample reads coordinates outside the grid.
type Boundary string

const (
	BoundaryConstant  Boundary = "constant"
	BoundaryReplicate Boundary = "replicate"
	BoundaryCircular  Boundary = "circular"
)

// Interpolation selects the Resample interpolation scheme.
type Interpolation string

const InterpolationLinear Interpolation = "linear"

// ConvPadding selects the Conv output extent.
type ConvPadding string

const (
	ConvSame  ConvPadding = "SAME"
	ConvValid ConvPadding = "VALID"
)

// DuplicatesHandling selects how Scatter combines values written to the same
// coordinate.
type DuplicatesHandling string

const (
	DuplicatesUndefined DuplicatesHandling = "undefined"
	DuplicatesAdd       DuplicatesHandling = "add"
	DuplicatesMean      DuplicatesHandling = "mean"
)

// Function is a host computation wrapped by WithCustomGradient.
type Function func(inputs []any) (any, error)

// Gradient computes the input gradient for a WithCustomGradient wrapper.
// Engines without differentiation ignore it.
type Gradient func(inputs []any, output, outputGradient any) (any, error)

// Predicate is a WhileLoop continuation test over the loop variables.
type Predicate func(vars []any) (bool, error)

// Transform is one WhileLoop body step over the loop variables.
type Transform func(vars []any) ([]any, error)

// Backend is the capability interface a compute engine implements. Operands
// are untyped: each engine decides via IsApplicable which values it accepts,
// and the dispatcher forwards every argument unchanged to the first engine
// that does.
//
// Implementations:
//   - native: pure Go reference engine over internal/tensor values
//   - Dispatcher: routes to registered engines, is itself a Backend
type Backend interface {
	// Metadata
	Name() string

	// IsApplicable reports whether the engine accepts every operand in the
	// sequence.
	IsApplicable(values []any) bool

	// IsTensor reports whether x is a tensor value of this engine.
	IsTensor(x any) bool

	// Construction and inspection
	AsTensor(x any) (any, error)                   // coerce to the engine's canonical tensor
	RandomUniform(shape []int) (any, error)        // uniform samples in [0, 1)
	Range(start, limit, delta any) (any, error)    // arange; nil limit counts [0, start)
	ZerosLike(value any) (any, error)
	OnesLike(value any) (any, error)
	Shape(value any) (any, error)                  // dims as an int tensor
	StaticShape(value any) ([]int, error)          // dims as plain ints
	DType(value any) (tensor.DataType, error)

	// Element-wise binary operations
	Add(a, b any) (any, error)
	Sub(a, b any) (any, error)
	Mul(a, b any) (any, error)
	Div(a, b any) (any, error)
	Pow(base, exp any) (any, error)
	Maximum(a, b any) (any, error)
	Minimum(a, b any) (any, error)
	DivideNoNan(x, y any) (any, error) // x/y, but 0 where y == 0
	Equal(x, y any) (any, error)       // element-wise comparison, bool result

	// Element-wise unary operations
	Abs(x any) (any, error)
	Sign(x any) (any, error)
	Round(x any) (any, error)
	Ceil(x any) (any, error)
	Floor(x any) (any, error)
	Sqrt(x any) (any, error)
	Exp(x any) (any, error)
	Sin(x any) (any, error)
	Cos(x any) (any, error)
	IsFinite(x any) (any, error)

	// Reductions; nil axes reduce everything
	Sum(value any, axes []int, keepDims bool) (any, error)
	Prod(value any, axes []int) (any, error)
	Mean(value any, axes []int, keepDims bool) (any, error)
	Std(x any, axes []int) (any, error)
	Max(x any, axes []int) (any, error)
	Min(x any, axes []int) (any, error)
	Any(booleanTensor any, axes []int, keepDims bool) (any, error)
	All(booleanTensor any, axes []int, keepDims bool) (any, error)

	// Shape manipulation
	Stack(values []any, axis int) (any, error)
	Concat(values []any, axis int) (any, error)
	Unstack(value any, axis int) ([]any, error)
	Tile(value any, multiples []int) (any, error)
	Pad(value any, padWidth [][2]int, mode PadMode, constantValue any) (any, error)
	Reshape(value any, shape []int) (any, error)
	ExpandDims(value any, axis, number int) (any, error)

	// Linear algebra
	Dot(a, b any, aAxes, bAxes []int) (any, error) // tensordot over the paired axes
	MatMul(a, b any) (any, error)                  // matrix product; a may be sparse
	Conv(value, kernel any, padding ConvPadding) (any, error)

	// Grid sampling
	Resample(values, sampleCoords any, interpolation Interpolation, boundary Boundary) (any, error)

	// Spectral
	FFT(x any) (any, error)  // forward transform over the spatial axes
	IFFT(k any) (any, error) // inverse transform over the spatial axes
	Real(x any) (any, error)
	Imag(x any) (any, error)

	// Indexing
	Where(condition, x, y any) (any, error)
	Gather(values, indices any) (any, error)   // select along axis 0
	GatherND(values, indices any) (any, error) // select by coordinate rows
	BooleanMask(x, mask any) (any, error)      // keep axis-0 entries where mask is true
	Scatter(points, indices, values any, shape []int, duplicatesHandling DuplicatesHandling) (any, error)

	// Sparse
	SparseTensor(indices, values any, shape []int) (any, error)

	// Type conversion
	ToFloat(x any) (any, error)
	ToInt(x any) (any, error)
	ToComplex(x any) (any, error)
	Cast(x any, dtype tensor.DataType) (any, error)

	// Control flow
	WhileLoop(cond Predicate, body Transform, loopVars []any, maximumIterations int) ([]any, error)
	WithCustomGradient(function Function, inputs []any, gradient Gradient, inputIndex, outputIndex int, nameBase string) (any, error)
}
