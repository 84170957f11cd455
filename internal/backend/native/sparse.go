package native

import (
	"github.com/eddy-sim/eddy/internal/tensor"
)

// SparseTensor builds a coordinate-format sparse tensor from [nnz, rank]
// indices and [nnz] values.
func (n *Backend) SparseTensor(indices, values any, shape []int) (any, error) {
	di, err := intIndices("sparse_tensor", indices)
	if err != nil {
		return nil, err
	}
	dv, err := toDense(values)
	if err != nil {
		return nil, opErr("sparse_tensor", err)
	}
	s, err := tensor.NewSparse(di, dv, tensor.Shape(shape))
	if err != nil {
		return nil, opErr("sparse_tensor", err)
	}
	return s, nil
}
