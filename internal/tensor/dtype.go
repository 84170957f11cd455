// Package tensor provides the canonical dense and sparse array values that the
// native backend computes on and that fields store their sampled data in.
package tensor

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported element types. Eddy standardizes on Go's 64-bit numeric widths.
const (
	Float64 DataType = iota
	Int64
	Bool
	Complex128
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float64, Int64:
		return 8
	case Bool:
		return 1
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether arithmetic is defined for the data type.
func (dt DataType) IsNumeric() bool {
	return dt == Float64 || dt == Int64 || dt == Complex128
}

// Promote returns the data type that can represent values of both operands
// without loss: complex128 > float64 > int64 > bool.
func Promote(a, b DataType) DataType {
	if a == Complex128 || b == Complex128 {
		return Complex128
	}
	if a == Float64 || b == Float64 {
		return Float64
	}
	if a == Int64 || b == Int64 {
		return Int64
	}
	return Bool
}
