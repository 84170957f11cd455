package tensor

import "fmt"

// Sparse is a coordinate-format sparse tensor: a [nnz, rank] int64 index
// tensor paired with a [nnz] value tensor and a dense shape. Duplicate
// coordinates are allowed; their values sum on densification.
type Sparse struct {
	indices *Dense
	values  *Dense
	shape   Shape
}

// NewSparse builds a sparse tensor from COO indices and values.
func NewSparse(indices, values *Dense, shape Shape) (*Sparse, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sparse shape: %w", err)
	}
	if len(indices.Shape()) != 2 {
		return nil, fmt.Errorf("sparse indices must be [nnz, rank], got shape %v", indices.Shape())
	}
	if indices.DType() != Int64 {
		return nil, fmt.Errorf("sparse indices must be int64, got %s", indices.DType())
	}
	if len(values.Shape()) != 1 {
		return nil, fmt.Errorf("sparse values must be rank 1, got shape %v", values.Shape())
	}
	nnz, rank := indices.Shape()[0], indices.Shape()[1]
	if rank != len(shape) {
		return nil, fmt.Errorf("sparse indices have rank %d coordinates, shape %v has rank %d", rank, shape, len(shape))
	}
	if values.Shape()[0] != nnz {
		return nil, fmt.Errorf("sparse has %d index rows but %d values", nnz, values.Shape()[0])
	}
	idx := indices.AsInt64()
	for r := 0; r < nnz; r++ {
		for a := 0; a < rank; a++ {
			c := idx[r*rank+a]
			if c < 0 || int(c) >= shape[a] {
				return nil, fmt.Errorf("sparse coordinate %d out of range [0,%d) on axis %d", c, shape[a], a)
			}
		}
	}
	return &Sparse{indices: indices, values: values, shape: shape.Clone()}, nil
}

// Indices returns the [nnz, rank] coordinate tensor.
func (s *Sparse) Indices() *Dense { return s.indices }

// Values returns the [nnz] value tensor.
func (s *Sparse) Values() *Dense { return s.values }

// Shape returns the dense shape the coordinates index into.
func (s *Sparse) Shape() Shape { return s.shape }

// DType returns the value dtype.
func (s *Sparse) DType() DataType { return s.values.DType() }

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return s.indices.Shape()[0] }

// Dense materializes the sparse tensor, summing duplicate coordinates.
func (s *Sparse) Dense() (*Dense, error) {
	out, err := NewDense(s.shape, s.values.DType())
	if err != nil {
		return nil, err
	}
	idx := s.indices.AsInt64()
	rank := len(s.shape)
	strides := s.shape.Strides()
	for r := 0; r < s.NNZ(); r++ {
		flat := 0
		for a := 0; a < rank; a++ {
			flat += int(idx[r*rank+a]) * strides[a]
		}
		switch out.DType() {
		case Float64:
			out.AsFloat64()[flat] += s.values.AsFloat64()[r]
		case Int64:
			out.AsInt64()[flat] += s.values.AsInt64()[r]
		case Complex128:
			out.AsComplex128()[flat] += s.values.AsComplex128()[r]
		case Bool:
			out.AsBool()[flat] = out.AsBool()[flat] || s.values.AsBool()[r]
		}
	}
	return out, nil
}

func (s *Sparse) String() string {
	return fmt.Sprintf("Sparse[%s]%v nnz=%d", s.DType(), s.shape, s.NNZ())
}
