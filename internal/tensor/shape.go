package tensor

import "fmt"

// Shape represents the dimensions of a tensor. An empty Shape is a scalar.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal reports whether two shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Strides returns row-major memory strides: stride[i] is the product of all
// dimensions after i.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}
	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Index converts multi-dimensional indices to a flat row-major offset.
func (s Shape) Index(indices []int) int {
	strides := s.Strides()
	offset := 0
	for i, idx := range indices {
		offset += idx * strides[i]
	}
	return offset
}

// Unravel converts a flat row-major offset into multi-dimensional indices.
func (s Shape) Unravel(flat int) []int {
	indices := make([]int, len(s))
	strides := s.Strides()
	for i := range s {
		indices[i] = flat / strides[i]
		flat %= strides[i]
	}
	return indices
}

// BroadcastShapes implements NumPy-style broadcasting rules: dimensions are
// compared right to left and are compatible when equal or when one of them is
// 1; missing leading dimensions count as 1. Returns the broadcast shape and an
// error when the shapes are incompatible.
func BroadcastShapes(a, b Shape) (Shape, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	result := make(Shape, n)
	for i := 0; i < n; i++ {
		aDim, bDim := 1, 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}
		switch {
		case aDim == bDim:
			result[n-1-i] = aDim
		case aDim == 1:
			result[n-1-i] = bDim
		case bDim == 1:
			result[n-1-i] = aDim
		default:
			return nil, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, n-1-i, aDim, bDim)
		}
	}
	return result, nil
}

// BroadcastIndex maps a flat index in the broadcast output shape to the flat
// index of the contributing element in the (possibly smaller) input shape.
func BroadcastIndex(flat int, out, in Shape) int {
	indices := out.Unravel(flat)
	inStrides := in.Strides()
	offset := len(out) - len(in)
	idx := 0
	for i := 0; i < len(in); i++ {
		dimIdx := indices[offset+i]
		if in[i] == 1 {
			dimIdx = 0
		}
		idx += dimIdx * inStrides[i]
	}
	return idx
}
