package native

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/eddy-sim/eddy/internal/parallel"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// unaryFloat applies f element-wise with a float64 result, or fc with a
// complex128 result when the operand is complex. A nil fc rejects complex
// operands.
func (n *Backend) unaryFloat(op string, x any, f func(float64) float64, fc func(complex128) complex128) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr(op, err)
	}
	if d.DType() == tensor.Complex128 {
		if fc == nil {
			return nil, fmt.Errorf("%s: complex operands are not supported", op)
		}
		out, err := tensor.NewDense(d.Shape(), tensor.Complex128)
		if err != nil {
			return nil, opErr(op, err)
		}
		src := d.AsComplex128()
		dst := out.AsComplex128()
		for i := range src {
			dst[i] = fc(src[i])
		}
		return out, nil
	}
	out, err := tensor.NewDense(d.Shape(), tensor.Float64)
	if err != nil {
		return nil, opErr(op, err)
	}
	dst := out.AsFloat64()
	parallel.For(len(dst), n.par, func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(d.Float64At(i))
		}
	})
	return out, nil
}

// Abs returns element-wise magnitudes. Integer input stays integer and
// complex input yields its float64 modulus.
func (n *Backend) Abs(x any) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr("abs", err)
	}
	switch d.DType() {
	case tensor.Int64:
		out, err := tensor.NewDense(d.Shape(), tensor.Int64)
		if err != nil {
			return nil, opErr("abs", err)
		}
		src, dst := d.AsInt64(), out.AsInt64()
		for i := range src {
			if src[i] < 0 {
				dst[i] = -src[i]
			} else {
				dst[i] = src[i]
			}
		}
		return out, nil
	case tensor.Complex128:
		out, err := tensor.NewDense(d.Shape(), tensor.Float64)
		if err != nil {
			return nil, opErr("abs", err)
		}
		src, dst := d.AsComplex128(), out.AsFloat64()
		for i := range src {
			dst[i] = cmplx.Abs(src[i])
		}
		return out, nil
	}
	return n.unaryFloat("abs", x, math.Abs, nil)
}

// Sign returns -1, 0 or 1 per element.
func (n *Backend) Sign(x any) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr("sign", err)
	}
	if d.DType() == tensor.Int64 {
		out, err := tensor.NewDense(d.Shape(), tensor.Int64)
		if err != nil {
			return nil, opErr("sign", err)
		}
		src, dst := d.AsInt64(), out.AsInt64()
		for i := range src {
			switch {
			case src[i] > 0:
				dst[i] = 1
			case src[i] < 0:
				dst[i] = -1
			}
		}
		return out, nil
	}
	return n.unaryFloat("sign", x, func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}, nil)
}

// Round rounds half away from zero, as a float64 result.
func (n *Backend) Round(x any) (any, error) {
	return n.unaryFloat("round", x, math.Round, nil)
}

// Ceil returns the element-wise ceiling as a float64 result.
func (n *Backend) Ceil(x any) (any, error) {
	return n.unaryFloat("ceil", x, math.Ceil, nil)
}

// Floor returns the element-wise floor as a float64 result.
func (n *Backend) Floor(x any) (any, error) {
	return n.unaryFloat("floor", x, math.Floor, nil)
}

// Sqrt returns element-wise square roots.
func (n *Backend) Sqrt(x any) (any, error) {
	return n.unaryFloat("sqrt", x, math.Sqrt, cmplx.Sqrt)
}

// Exp returns element-wise exponentials.
func (n *Backend) Exp(x any) (any, error) {
	return n.unaryFloat("exp", x, math.Exp, cmplx.Exp)
}

// Sin returns element-wise sines.
func (n *Backend) Sin(x any) (any, error) {
	return n.unaryFloat("sin", x, math.Sin, cmplx.Sin)
}

// Cos returns element-wise cosines.
func (n *Backend) Cos(x any) (any, error) {
	return n.unaryFloat("cos", x, math.Cos, cmplx.Cos)
}

// IsFinite reports element-wise finiteness as a bool tensor. Integer and
// bool input is finite everywhere.
func (n *Backend) IsFinite(x any) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr("isfinite", err)
	}
	out, err := tensor.NewDense(d.Shape(), tensor.Bool)
	if err != nil {
		return nil, opErr("isfinite", err)
	}
	dst := out.AsBool()
	switch d.DType() {
	case tensor.Float64:
		src := d.AsFloat64()
		for i := range src {
			dst[i] = !math.IsInf(src[i], 0) && !math.IsNaN(src[i])
		}
	case tensor.Complex128:
		src := d.AsComplex128()
		for i := range src {
			dst[i] = !cmplx.IsInf(src[i]) && !cmplx.IsNaN(src[i])
		}
	default:
		for i := range dst {
			dst[i] = true
		}
	}
	return out, nil
}

// Real extracts the real part of complex input; any other input passes
// through unchanged.
func (n *Backend) Real(x any) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr("real", err)
	}
	if d.DType() != tensor.Complex128 {
		return d, nil
	}
	out, err := tensor.NewDense(d.Shape(), tensor.Float64)
	if err != nil {
		return nil, opErr("real", err)
	}
	src, dst := d.AsComplex128(), out.AsFloat64()
	for i := range src {
		dst[i] = real(src[i])
	}
	return out, nil
}

// Imag extracts the imaginary part of complex input; any other input yields
// zeros of its own dtype.
func (n *Backend) Imag(x any) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr("imag", err)
	}
	if d.DType() != tensor.Complex128 {
		return tensor.NewDense(d.Shape(), d.DType())
	}
	out, err := tensor.NewDense(d.Shape(), tensor.Float64)
	if err != nil {
		return nil, opErr("imag", err)
	}
	src, dst := d.AsComplex128(), out.AsFloat64()
	for i := range src {
		dst[i] = imag(src[i])
	}
	return out, nil
}

// Cast converts x to the given element type. Complex to real keeps the real
// part; numeric to bool is a nonzero test.
func (n *Backend) Cast(x any, dtype tensor.DataType) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr("cast", err)
	}
	return castDense(d, dtype)
}

// ToFloat converts x to float64 elements.
func (n *Backend) ToFloat(x any) (any, error) {
	return n.Cast(x, tensor.Float64)
}

// ToInt converts x to int64 elements, truncating toward zero.
func (n *Backend) ToInt(x any) (any, error) {
	return n.Cast(x, tensor.Int64)
}

// ToComplex converts x to complex128 elements.
func (n *Backend) ToComplex(x any) (any, error) {
	return n.Cast(x, tensor.Complex128)
}

func castDense(d *tensor.Dense, dtype tensor.DataType) (*tensor.Dense, error) {
	if d.DType() == dtype {
		return d, nil
	}
	out, err := tensor.NewDense(d.Shape(), dtype)
	if err != nil {
		return nil, opErr("cast", err)
	}
	for i := 0; i < d.NumElements(); i++ {
		switch dtype {
		case tensor.Float64:
			if d.DType() == tensor.Complex128 {
				out.AsFloat64()[i] = real(d.AsComplex128()[i])
			} else {
				out.AsFloat64()[i] = d.Float64At(i)
			}
		case tensor.Int64:
			if d.DType() == tensor.Complex128 {
				out.AsInt64()[i] = int64(real(d.AsComplex128()[i]))
			} else {
				out.AsInt64()[i] = d.Int64At(i)
			}
		case tensor.Complex128:
			out.AsComplex128()[i] = d.Complex128At(i)
		case tensor.Bool:
			out.AsBool()[i] = d.Complex128At(i) != 0
		}
	}
	return out, nil
}

// ZerosLike returns a zero tensor with value's shape and dtype.
func (n *Backend) ZerosLike(value any) (any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("zeros_like", err)
	}
	return tensor.NewDense(d.Shape(), d.DType())
}

// OnesLike returns a one-filled tensor with value's shape and dtype.
func (n *Backend) OnesLike(value any) (any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("ones_like", err)
	}
	out, err := tensor.NewDense(d.Shape(), d.DType())
	if err != nil {
		return nil, opErr("ones_like", err)
	}
	switch out.DType() {
	case tensor.Float64:
		dst := out.AsFloat64()
		for i := range dst {
			dst[i] = 1
		}
	case tensor.Int64:
		dst := out.AsInt64()
		for i := range dst {
			dst[i] = 1
		}
	case tensor.Bool:
		dst := out.AsBool()
		for i := range dst {
			dst[i] = true
		}
	case tensor.Complex128:
		dst := out.AsComplex128()
		for i := range dst {
			dst[i] = 1
		}
	}
	return out, nil
}
