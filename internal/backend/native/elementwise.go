package native

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/eddy-sim/eddy/internal/parallel"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// binaryKernel describes one element-wise combination per element type.
// A nil intFn promotes integer operands to float64 before applying floatFn.
// A nil complexFn rejects complex operands.
type binaryKernel struct {
	intFn     func(a, b int64) int64
	floatFn   func(a, b float64) float64
	complexFn func(a, b complex128) complex128
}

// binary applies k over the broadcast of a and b with NumPy-style promotion:
// the result dtype is the wider operand dtype, bools count as ints for
// arithmetic.
func (n *Backend) binary(op string, a, b any, k binaryKernel) (any, error) {
	da, err := toDense(a)
	if err != nil {
		return nil, opErr(op, err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, opErr(op, err)
	}
	outShape, err := tensor.BroadcastShapes(da.Shape(), db.Shape())
	if err != nil {
		return nil, opErr(op, err)
	}
	dt := tensor.Promote(da.DType(), db.DType())
	if dt == tensor.Bool {
		dt = tensor.Int64
	}
	if dt == tensor.Int64 && k.intFn == nil {
		dt = tensor.Float64
	}
	if dt == tensor.Complex128 && k.complexFn == nil {
		return nil, fmt.Errorf("%s: complex operands are not supported", op)
	}
	out, err := tensor.NewDense(outShape, dt)
	if err != nil {
		return nil, opErr(op, err)
	}
	parallel.For(out.NumElements(), n.par, func(start, end int) {
		for i := start; i < end; i++ {
			ia := tensor.BroadcastIndex(i, outShape, da.Shape())
			ib := tensor.BroadcastIndex(i, outShape, db.Shape())
			switch dt {
			case tensor.Int64:
				out.AsInt64()[i] = k.intFn(da.Int64At(ia), db.Int64At(ib))
			case tensor.Float64:
				out.AsFloat64()[i] = k.floatFn(da.Float64At(ia), db.Float64At(ib))
			case tensor.Complex128:
				out.AsComplex128()[i] = k.complexFn(da.Complex128At(ia), db.Complex128At(ib))
			}
		}
	})
	return out, nil
}

// Add performs element-wise addition with broadcasting.
func (n *Backend) Add(a, b any) (any, error) {
	return n.binary("add", a, b, binaryKernel{
		intFn:     func(a, b int64) int64 { return a + b },
		floatFn:   func(a, b float64) float64 { return a + b },
		complexFn: func(a, b complex128) complex128 { return a + b },
	})
}

// Sub performs element-wise subtraction with broadcasting.
func (n *Backend) Sub(a, b any) (any, error) {
	return n.binary("sub", a, b, binaryKernel{
		intFn:     func(a, b int64) int64 { return a - b },
		floatFn:   func(a, b float64) float64 { return a - b },
		complexFn: func(a, b complex128) complex128 { return a - b },
	})
}

// Mul performs element-wise multiplication with broadcasting.
func (n *Backend) Mul(a, b any) (any, error) {
	return n.binary("mul", a, b, binaryKernel{
		intFn:     func(a, b int64) int64 { return a * b },
		floatFn:   func(a, b float64) float64 { return a * b },
		complexFn: func(a, b complex128) complex128 { return a * b },
	})
}

// Div performs element-wise true division: integer operands produce float64.
func (n *Backend) Div(a, b any) (any, error) {
	return n.binary("div", a, b, binaryKernel{
		floatFn:   func(a, b float64) float64 { return a / b },
		complexFn: func(a, b complex128) complex128 { return a / b },
	})
}

// Pow raises base to exp element-wise; integer operands produce float64.
func (n *Backend) Pow(base, exp any) (any, error) {
	return n.binary("pow", base, exp, binaryKernel{
		floatFn:   math.Pow,
		complexFn: cmplx.Pow,
	})
}

// Maximum takes the element-wise larger of a and b.
func (n *Backend) Maximum(a, b any) (any, error) {
	return n.binary("maximum", a, b, binaryKernel{
		intFn:   func(a, b int64) int64 { return max(a, b) },
		floatFn: math.Max,
	})
}

// Minimum takes the element-wise smaller of a and b.
func (n *Backend) Minimum(a, b any) (any, error) {
	return n.binary("minimum", a, b, binaryKernel{
		intFn:   func(a, b int64) int64 { return min(a, b) },
		floatFn: math.Min,
	})
}

// DivideNoNan divides x by y but yields 0 wherever y is 0.
func (n *Backend) DivideNoNan(x, y any) (any, error) {
	return n.binary("divide_no_nan", x, y, binaryKernel{
		floatFn: func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
		complexFn: func(a, b complex128) complex128 {
			if b == 0 {
				return 0
			}
			return a / b
		},
	})
}

// Equal compares element-wise and returns a bool tensor.
func (n *Backend) Equal(x, y any) (any, error) {
	dx, err := toDense(x)
	if err != nil {
		return nil, opErr("equal", err)
	}
	dy, err := toDense(y)
	if err != nil {
		return nil, opErr("equal", err)
	}
	outShape, err := tensor.BroadcastShapes(dx.Shape(), dy.Shape())
	if err != nil {
		return nil, opErr("equal", err)
	}
	out, err := tensor.NewDense(outShape, tensor.Bool)
	if err != nil {
		return nil, opErr("equal", err)
	}
	for i := 0; i < out.NumElements(); i++ {
		ix := tensor.BroadcastIndex(i, outShape, dx.Shape())
		iy := tensor.BroadcastIndex(i, outShape, dy.Shape())
		out.AsBool()[i] = dx.Complex128At(ix) == dy.Complex128At(iy)
	}
	return out, nil
}
