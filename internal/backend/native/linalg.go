package native

import (
	"fmt"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// Dot contracts a and b over the paired axes, generalizing matrix products
// to arbitrary rank.
func (n *Backend) Dot(a, b any, aAxes, bAxes []int) (any, error) {
	da, err := toDense(a)
	if err != nil {
		return nil, opErr("dot", err)
	}
	db, err := toDense(b)
	if err != nil {
		return nil, opErr("dot", err)
	}
	if len(aAxes) != len(bAxes) {
		return nil, fmt.Errorf("dot: %d axes paired with %d", len(aAxes), len(bAxes))
	}
	aAxes = append([]int(nil), aAxes...)
	bAxes = append([]int(nil), bAxes...)
	contract := make(tensor.Shape, len(aAxes))
	for k := range aAxes {
		if aAxes[k], err = normalizeAxis(aAxes[k], len(da.Shape())); err != nil {
			return nil, opErr("dot", err)
		}
		if bAxes[k], err = normalizeAxis(bAxes[k], len(db.Shape())); err != nil {
			return nil, opErr("dot", err)
		}
		if da.Shape()[aAxes[k]] != db.Shape()[bAxes[k]] {
			return nil, fmt.Errorf("dot: contracted dims %d and %d differ", da.Shape()[aAxes[k]], db.Shape()[bAxes[k]])
		}
		contract[k] = da.Shape()[aAxes[k]]
	}
	aFree := freeAxes(len(da.Shape()), aAxes)
	bFree := freeAxes(len(db.Shape()), bAxes)
	outShape := make(tensor.Shape, 0, len(aFree)+len(bFree))
	for _, ax := range aFree {
		outShape = append(outShape, da.Shape()[ax])
	}
	for _, ax := range bFree {
		outShape = append(outShape, db.Shape()[ax])
	}
	dt := tensor.Promote(da.DType(), db.DType())
	if dt == tensor.Bool {
		dt = tensor.Int64
	}
	out, err := tensor.NewDense(outShape, dt)
	if err != nil {
		return nil, opErr("dot", err)
	}
	ca := make([]int, len(da.Shape()))
	cb := make([]int, len(db.Shape()))
	for i := 0; i < out.NumElements(); i++ {
		oc := outShape.Unravel(i)
		for k, ax := range aFree {
			ca[ax] = oc[k]
		}
		for k, ax := range bFree {
			cb[ax] = oc[len(aFree)+k]
		}
		var sf float64
		var si int64
		var sc complex128
		for j := 0; j < contract.NumElements(); j++ {
			cc := contract.Unravel(j)
			for k := range aAxes {
				ca[aAxes[k]] = cc[k]
				cb[bAxes[k]] = cc[k]
			}
			ia := da.Shape().Index(ca)
			ib := db.Shape().Index(cb)
			switch dt {
			case tensor.Float64:
				sf += da.Float64At(ia) * db.Float64At(ib)
			case tensor.Int64:
				si += da.Int64At(ia) * db.Int64At(ib)
			case tensor.Complex128:
				sc += da.Complex128At(ia) * db.Complex128At(ib)
			}
		}
		switch dt {
		case tensor.Float64:
			out.AsFloat64()[i] = sf
		case tensor.Int64:
			out.AsInt64()[i] = si
		case tensor.Complex128:
			out.AsComplex128()[i] = sc
		}
	}
	return out, nil
}

// MatMul multiplies a matrix with a vector or matrix. A sparse left operand
// multiplies by its stored entries only.
func (n *Backend) MatMul(a, b any) (any, error) {
	db, err := toDense(b)
	if err != nil {
		return nil, opErr("matmul", err)
	}
	if s, ok := a.(*tensor.Sparse); ok {
		return sparseMatMul(s, db)
	}
	da, err := toDense(a)
	if err != nil {
		return nil, opErr("matmul", err)
	}
	if len(da.Shape()) != 2 {
		return nil, fmt.Errorf("matmul: left operand must be a matrix, got shape %v", da.Shape())
	}
	switch len(db.Shape()) {
	case 1, 2:
		return n.Dot(da, db, []int{1}, []int{0})
	}
	return nil, fmt.Errorf("matmul: right operand must be a vector or matrix, got shape %v", db.Shape())
}

func sparseMatMul(s *tensor.Sparse, b *tensor.Dense) (*tensor.Dense, error) {
	if len(s.Shape()) != 2 {
		return nil, fmt.Errorf("matmul: sparse operand must be a matrix, got shape %v", s.Shape())
	}
	m, k := s.Shape()[0], s.Shape()[1]
	var cols int
	switch len(b.Shape()) {
	case 1:
		cols = 1
	case 2:
		cols = b.Shape()[1]
	default:
		return nil, fmt.Errorf("matmul: right operand must be a vector or matrix, got shape %v", b.Shape())
	}
	if b.Shape()[0] != k {
		return nil, fmt.Errorf("matmul: inner dims %d and %d differ", k, b.Shape()[0])
	}
	outShape := tensor.Shape{m}
	if len(b.Shape()) == 2 {
		outShape = tensor.Shape{m, cols}
	}
	out, err := tensor.NewDense(outShape, tensor.Float64)
	if err != nil {
		return nil, opErr("matmul", err)
	}
	idx := s.Indices().AsInt64()
	dst := out.AsFloat64()
	for r := 0; r < s.NNZ(); r++ {
		i, j := int(idx[r*2]), int(idx[r*2+1])
		v := s.Values().Float64At(r)
		for c := 0; c < cols; c++ {
			dst[i*cols+c] += v * b.Float64At(j*cols+c)
		}
	}
	return out, nil
}

// Conv correlates value with kernel over the spatial axes. Value is laid out
// [batch, *spatial, inChannels], kernel [*spatial, inChannels, outChannels].
// SAME keeps the spatial extent with zero margins; VALID shrinks it by the
// kernel size.
func (n *Backend) Conv(value, kernel any, padding backend.ConvPadding) (any, error) {
	dv, err := toDense(value)
	if err != nil {
		return nil, opErr("conv", err)
	}
	dk, err := toDense(kernel)
	if err != nil {
		return nil, opErr("conv", err)
	}
	rank := len(dv.Shape()) - 2
	if rank < 1 {
		return nil, fmt.Errorf("conv: value must have batch, spatial and channel axes, got shape %v", dv.Shape())
	}
	if len(dk.Shape()) != rank+2 {
		return nil, fmt.Errorf("conv: kernel shape %v does not fit value shape %v", dk.Shape(), dv.Shape())
	}
	inC := dv.Shape()[rank+1]
	if dk.Shape()[rank] != inC {
		return nil, fmt.Errorf("conv: kernel expects %d input channels, value has %d", dk.Shape()[rank], inC)
	}
	outC := dk.Shape()[rank+1]
	batch := dv.Shape()[0]
	inSpatial := tensor.Shape(dv.Shape()[1 : rank+1])
	kSpatial := tensor.Shape(dk.Shape()[:rank])

	outSpatial := make(tensor.Shape, rank)
	offset := make([]int, rank)
	for a := 0; a < rank; a++ {
		switch padding {
		case backend.ConvSame:
			outSpatial[a] = inSpatial[a]
			offset[a] = (kSpatial[a] - 1) / 2
		case backend.ConvValid:
			outSpatial[a] = inSpatial[a] - kSpatial[a] + 1
			if outSpatial[a] < 1 {
				return nil, fmt.Errorf("conv: kernel size %d exceeds value size %d on axis %d", kSpatial[a], inSpatial[a], a)
			}
		default:
			return nil, fmt.Errorf("conv: unknown padding %q", padding)
		}
	}
	outShape := make(tensor.Shape, 0, rank+2)
	outShape = append(outShape, batch)
	outShape = append(outShape, outSpatial...)
	outShape = append(outShape, outC)
	out, err := tensor.NewDense(outShape, tensor.Float64)
	if err != nil {
		return nil, opErr("conv", err)
	}
	dst := out.AsFloat64()
	vc := make([]int, rank+2)
	kc := make([]int, rank+2)
	for i := 0; i < out.NumElements(); i++ {
		oc := outShape.Unravel(i)
		b := oc[0]
		o := oc[rank+1]
		var sum float64
		for j := 0; j < kSpatial.NumElements(); j++ {
			dx := kSpatial.Unravel(j)
			inside := true
			for a := 0; a < rank; a++ {
				p := oc[1+a] + dx[a] - offset[a]
				if p < 0 || p >= inSpatial[a] {
					inside = false
					break
				}
				vc[1+a] = p
				kc[a] = dx[a]
			}
			if !inside {
				continue
			}
			vc[0] = b
			kc[rank+1] = o
			for c := 0; c < inC; c++ {
				vc[rank+1] = c
				kc[rank] = c
				sum += dv.Float64At(dv.Shape().Index(vc)) * dk.Float64At(dk.Shape().Index(kc))
			}
		}
		dst[i] = sum
	}
	return out, nil
}

// freeAxes lists the axes of rank not present in used, in order.
func freeAxes(rank int, used []int) []int {
	taken := make([]bool, rank)
	for _, a := range used {
		taken[a] = true
	}
	var free []int
	for a := 0; a < rank; a++ {
		if !taken[a] {
			free = append(free, a)
		}
	}
	return free
}
