package tensor

import (
	"fmt"
	"reflect"
)

// FromAny coerces a Go value into a tensor. Scalars become rank-0 tensors,
// flat and nested slices become dense tensors of the matching rank, and
// values that already are tensors pass through unchanged.
//
// Nested slices must be rectangular. Element types are promoted to the
// widest type encountered, so []any{1, 2.5} yields a float64 tensor.
func FromAny(value any) (*Dense, error) {
	switch v := value.(type) {
	case *Dense:
		return v, nil
	case float64:
		return scalarOf(Float64, func(d *Dense) { d.AsFloat64()[0] = v })
	case float32:
		return scalarOf(Float64, func(d *Dense) { d.AsFloat64()[0] = float64(v) })
	case int:
		return scalarOf(Int64, func(d *Dense) { d.AsInt64()[0] = int64(v) })
	case int64:
		return scalarOf(Int64, func(d *Dense) { d.AsInt64()[0] = v })
	case int32:
		return scalarOf(Int64, func(d *Dense) { d.AsInt64()[0] = int64(v) })
	case bool:
		return scalarOf(Bool, func(d *Dense) { d.AsBool()[0] = v })
	case complex128:
		return scalarOf(Complex128, func(d *Dense) { d.AsComplex128()[0] = v })
	case []float64:
		return FromFloat64s(v, Shape{len(v)})
	case []int64:
		return FromInt64s(v, Shape{len(v)})
	case []int:
		out := make([]int64, len(v))
		for i, e := range v {
			out[i] = int64(e)
		}
		return FromInt64s(out, Shape{len(v)})
	case []bool:
		return FromBools(v, Shape{len(v)})
	case []complex128:
		return FromComplex128s(v, Shape{len(v)})
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return fromNested(rv)
	}
	return nil, fmt.Errorf("cannot convert %T to a tensor", value)
}

// IsTensorValue reports whether a value is one of the tensor types this
// package defines, without attempting a conversion.
func IsTensorValue(value any) bool {
	switch value.(type) {
	case *Dense, *Sparse:
		return true
	}
	return false
}

func scalarOf(dtype DataType, set func(*Dense)) (*Dense, error) {
	d, err := NewDense(Shape{}, dtype)
	if err != nil {
		return nil, err
	}
	set(d)
	return d, nil
}

func fromNested(rv reflect.Value) (*Dense, error) {
	shape, err := nestedShape(rv)
	if err != nil {
		return nil, err
	}
	dtype, err := nestedDType(rv)
	if err != nil {
		return nil, err
	}
	d, err := NewDense(shape, dtype)
	if err != nil {
		return nil, err
	}
	i := 0
	if err := fillNested(d, rv, &i); err != nil {
		return nil, err
	}
	return d, nil
}

func nestedShape(rv reflect.Value) (Shape, error) {
	var shape Shape
	for rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			return nil, fmt.Errorf("cannot convert empty slice to a tensor")
		}
		first := rv.Index(0)
		for first.Kind() == reflect.Interface {
			first = first.Elem()
		}
		// Check siblings agree on length one level down.
		if first.Kind() == reflect.Slice || first.Kind() == reflect.Array {
			want := first.Len()
			for i := 1; i < rv.Len(); i++ {
				e := rv.Index(i)
				for e.Kind() == reflect.Interface {
					e = e.Elem()
				}
				if e.Kind() != reflect.Slice && e.Kind() != reflect.Array {
					return nil, fmt.Errorf("ragged nesting: element %d is %s, expected a slice", i, e.Kind())
				}
				if e.Len() != want {
					return nil, fmt.Errorf("ragged nesting: element %d has length %d, expected %d", i, e.Len(), want)
				}
			}
		}
		rv = first
	}
	return shape, nil
}

func nestedDType(rv reflect.Value) (DataType, error) {
	dtype := Bool
	seen := false
	var walk func(reflect.Value) error
	walk = func(v reflect.Value) error {
		for v.Kind() == reflect.Interface {
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < v.Len(); i++ {
				if err := walk(v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		case reflect.Float32, reflect.Float64:
			dtype = Promote(dtype, Float64)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			dtype = Promote(dtype, Int64)
		case reflect.Bool:
			dtype = Promote(dtype, Bool)
		case reflect.Complex64, reflect.Complex128:
			dtype = Promote(dtype, Complex128)
		default:
			return fmt.Errorf("cannot convert %s element to a tensor", v.Kind())
		}
		seen = true
		return nil
	}
	if err := walk(rv); err != nil {
		return 0, err
	}
	if !seen {
		return 0, fmt.Errorf("cannot convert empty slice to a tensor")
	}
	return dtype, nil
}

func fillNested(d *Dense, rv reflect.Value, i *int) error {
	for rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for j := 0; j < rv.Len(); j++ {
			if err := fillNested(d, rv.Index(j), i); err != nil {
				return err
			}
		}
		return nil
	}
	switch d.dtype {
	case Float64:
		d.AsFloat64()[*i] = scalarAsFloat64(rv)
	case Int64:
		d.AsInt64()[*i] = scalarAsInt64(rv)
	case Bool:
		d.AsBool()[*i] = rv.Bool()
	case Complex128:
		d.AsComplex128()[*i] = scalarAsComplex128(rv)
	}
	*i++
	return nil
}

func scalarAsFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return float64(v.Uint())
	default:
		return float64(v.Int())
	}
}

func scalarAsInt64(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(v.Uint())
	default:
		return v.Int()
	}
}

func scalarAsComplex128(v reflect.Value) complex128 {
	switch v.Kind() {
	case reflect.Complex64, reflect.Complex128:
		return v.Complex()
	default:
		return complex(scalarAsFloat64(v), 0)
	}
}
