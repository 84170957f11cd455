package tensor

import (
	"fmt"
	"strings"
	"unsafe"
)

// Dense is a contiguous row-major array value. It is the canonical data
// representation fields carry and the native backend computes on.
//
// The element buffer is stored untyped; As* accessors reinterpret it without
// copying. A Dense is treated as immutable once handed to a field, so sharing
// across goroutines is safe by convention.
type Dense struct {
	buf   []byte
	shape Shape
	dtype DataType
}

// NewDense allocates a zero-initialized tensor with the given shape and type.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense{
		buf:   make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// FromFloat64s wraps float64 values in a tensor of the given shape.
// The values are copied.
func FromFloat64s(values []float64, shape Shape) (*Dense, error) {
	d, err := newChecked(shape, Float64, len(values))
	if err != nil {
		return nil, err
	}
	copy(d.AsFloat64(), values)
	return d, nil
}

// FromInt64s wraps int64 values in a tensor of the given shape.
func FromInt64s(values []int64, shape Shape) (*Dense, error) {
	d, err := newChecked(shape, Int64, len(values))
	if err != nil {
		return nil, err
	}
	copy(d.AsInt64(), values)
	return d, nil
}

// FromBools wraps bool values in a tensor of the given shape.
func FromBools(values []bool, shape Shape) (*Dense, error) {
	d, err := newChecked(shape, Bool, len(values))
	if err != nil {
		return nil, err
	}
	copy(d.AsBool(), values)
	return d, nil
}

// FromComplex128s wraps complex128 values in a tensor of the given shape.
func FromComplex128s(values []complex128, shape Shape) (*Dense, error) {
	d, err := newChecked(shape, Complex128, len(values))
	if err != nil {
		return nil, err
	}
	copy(d.AsComplex128(), values)
	return d, nil
}

// Scalar wraps a single value in a rank-0 tensor.
func Scalar(value float64) *Dense {
	d, _ := NewDense(Shape{}, Float64)
	d.AsFloat64()[0] = value
	return d
}

func newChecked(shape Shape, dtype DataType, n int) (*Dense, error) {
	if shape.NumElements() != n {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), n)
	}
	return NewDense(shape, dtype)
}

// Shape returns the tensor's shape. The returned slice must not be mutated.
func (d *Dense) Shape() Shape {
	return d.shape
}

// DType returns the tensor's element type.
func (d *Dense) DType() DataType {
	return d.dtype
}

// NumElements returns the total number of elements.
func (d *Dense) NumElements() int {
	return d.shape.NumElements()
}

// AsFloat64 interprets the buffer as []float64.
// Panics if the tensor's dtype is not Float64.
func (d *Dense) AsFloat64() []float64 {
	if d.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", d.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsInt64 interprets the buffer as []int64.
// Panics if the tensor's dtype is not Int64.
func (d *Dense) AsInt64() []int64 {
	if d.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", d.dtype))
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsBool interprets the buffer as []bool.
// Panics if the tensor's dtype is not Bool.
func (d *Dense) AsBool() []bool {
	if d.dtype != Bool {
		panic(fmt.Sprintf("tensor dtype is %s, not bool", d.dtype))
	}
	return unsafe.Slice((*bool)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsComplex128 interprets the buffer as []complex128.
// Panics if the tensor's dtype is not Complex128.
func (d *Dense) AsComplex128() []complex128 {
	if d.dtype != Complex128 {
		panic(fmt.Sprintf("tensor dtype is %s, not complex128", d.dtype))
	}
	return unsafe.Slice((*complex128)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// Float64At returns element i converted to float64, for any numeric dtype.
func (d *Dense) Float64At(i int) float64 {
	switch d.dtype {
	case Float64:
		return d.AsFloat64()[i]
	case Int64:
		return float64(d.AsInt64()[i])
	case Bool:
		if d.AsBool()[i] {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("cannot read %s element as float64", d.dtype))
	}
}

// Complex128At returns element i converted to complex128.
func (d *Dense) Complex128At(i int) complex128 {
	if d.dtype == Complex128 {
		return d.AsComplex128()[i]
	}
	return complex(d.Float64At(i), 0)
}

// Int64At returns element i converted to int64.
func (d *Dense) Int64At(i int) int64 {
	switch d.dtype {
	case Int64:
		return d.AsInt64()[i]
	case Float64:
		return int64(d.AsFloat64()[i])
	case Bool:
		if d.AsBool()[i] {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("cannot read %s element as int64", d.dtype))
	}
}

// Clone returns a deep copy of the tensor.
func (d *Dense) Clone() *Dense {
	out := &Dense{
		buf:   make([]byte, len(d.buf)),
		shape: d.shape.Clone(),
		dtype: d.dtype,
	}
	copy(out.buf, d.buf)
	return out
}

// Reshaped returns a view-copy of the tensor with a new shape holding the same
// number of elements.
func (d *Dense) Reshaped(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	if shape.NumElements() != d.NumElements() {
		return nil, fmt.Errorf("cannot reshape tensor with %d elements to shape %v (%d elements)",
			d.NumElements(), shape, shape.NumElements())
	}
	out := d.Clone()
	out.shape = shape.Clone()
	return out, nil
}

// Narrow returns a copy of the sub-tensor spanning [start, start+length) along
// the given axis.
func (d *Dense) Narrow(axis, start, length int) (*Dense, error) {
	if axis < 0 {
		axis += len(d.shape)
	}
	if axis < 0 || axis >= len(d.shape) {
		return nil, fmt.Errorf("narrow: axis %d out of range for shape %v", axis, d.shape)
	}
	if start < 0 || length <= 0 || start+length > d.shape[axis] {
		return nil, fmt.Errorf("narrow: range [%d,%d) invalid for axis %d of shape %v", start, start+length, axis, d.shape)
	}
	outShape := d.shape.Clone()
	outShape[axis] = length
	out, err := NewDense(outShape, d.dtype)
	if err != nil {
		return nil, err
	}
	size := d.dtype.Size()
	// Copy runs of contiguous elements after the narrowed axis.
	inner := 1
	for i := axis + 1; i < len(d.shape); i++ {
		inner *= d.shape[i]
	}
	outer := 1
	for i := 0; i < axis; i++ {
		outer *= d.shape[i]
	}
	for o := 0; o < outer; o++ {
		srcOff := (o*d.shape[axis] + start) * inner * size
		dstOff := o * length * inner * size
		copy(out.buf[dstOff:dstOff+length*inner*size], d.buf[srcOff:srcOff+length*inner*size])
	}
	return out, nil
}

// String returns a compact description of the tensor.
func (d *Dense) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dense[%s]%v", d.dtype, d.shape)
	if d.NumElements() <= 8 {
		fmt.Fprint(&sb, "{")
		for i := 0; i < d.NumElements(); i++ {
			if i > 0 {
				fmt.Fprint(&sb, ", ")
			}
			switch d.dtype {
			case Float64:
				fmt.Fprintf(&sb, "%g", d.AsFloat64()[i])
			case Int64:
				fmt.Fprintf(&sb, "%d", d.AsInt64()[i])
			case Bool:
				fmt.Fprintf(&sb, "%t", d.AsBool()[i])
			case Complex128:
				fmt.Fprintf(&sb, "%v", d.AsComplex128()[i])
			}
		}
		fmt.Fprint(&sb, "}")
	}
	return sb.String()
}
