// Package native implements the pure Go reference engine. It accepts plain Go
// numbers, bools, nested numeric slices and the tensor package's dense and
// sparse values, and computes with straightforward loops. Correctness over
// speed: this engine is the baseline other engines are checked against.
package native

import (
	"fmt"
	"reflect"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/parallel"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// Backend is the reference engine. It holds no mutable state and is safe
// for concurrent use. Large element-wise and sampling loops run in chunks
// across CPU cores.
type Backend struct {
	par parallel.Config
}

var _ backend.Backend = (*Backend)(nil)

// New returns the reference engine.
func New() *Backend {
	return &Backend{par: parallel.DefaultConfig()}
}

// Name returns the engine name.
func (n *Backend) Name() string {
	return "native"
}

// IsApplicable reports whether every operand is a value this engine computes
// on: nil, a Go number or bool, a (nested) slice of such, or a tensor value.
func (n *Backend) IsApplicable(values []any) bool {
	for _, v := range values {
		if !applicable(v) {
			return false
		}
	}
	return true
}

func applicable(v any) bool {
	switch v.(type) {
	case nil, *tensor.Dense, *tensor.Sparse,
		float64, float32, int, int64, int32, bool, complex128:
		return true
	case []any:
		for _, e := range v.([]any) {
			if !applicable(e) {
				return false
			}
		}
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if !applicable(rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	return false
}

// IsTensor reports whether x is one of this engine's tensor values. Plain
// numbers and slices are applicable operands but not tensors.
func (n *Backend) IsTensor(x any) bool {
	return tensor.IsTensorValue(x)
}

// AsTensor coerces x into the engine's canonical representation. Tensor
// values pass through unchanged.
func (n *Backend) AsTensor(x any) (any, error) {
	if s, ok := x.(*tensor.Sparse); ok {
		return s, nil
	}
	return tensor.FromAny(x)
}

// DType reports the element type x would have as a tensor.
func (n *Backend) DType(value any) (tensor.DataType, error) {
	if s, ok := value.(*tensor.Sparse); ok {
		return s.DType(), nil
	}
	d, err := tensor.FromAny(value)
	if err != nil {
		return 0, err
	}
	return d.DType(), nil
}

// Shape returns the dims of value as a rank-1 int tensor.
func (n *Backend) Shape(value any) (any, error) {
	dims, err := n.StaticShape(value)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(dims))
	for i, d := range dims {
		out[i] = int64(d)
	}
	return tensor.FromInt64s(out, tensor.Shape{len(out)})
}

// StaticShape returns the dims of value as plain ints.
func (n *Backend) StaticShape(value any) ([]int, error) {
	if s, ok := value.(*tensor.Sparse); ok {
		return append([]int(nil), s.Shape()...), nil
	}
	d, err := tensor.FromAny(value)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), d.Shape()...), nil
}

// toDense coerces an operand to a dense tensor, materializing sparse values.
func toDense(x any) (*tensor.Dense, error) {
	if s, ok := x.(*tensor.Sparse); ok {
		return s.Dense()
	}
	return tensor.FromAny(x)
}

func opErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
