package native

import (
	"fmt"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// Where selects x where condition holds and y elsewhere, broadcasting all
// three operands.
func (n *Backend) Where(condition, x, y any) (any, error) {
	dc, err := toDense(condition)
	if err != nil {
		return nil, opErr("where", err)
	}
	dx, err := toDense(x)
	if err != nil {
		return nil, opErr("where", err)
	}
	dy, err := toDense(y)
	if err != nil {
		return nil, opErr("where", err)
	}
	outShape, err := tensor.BroadcastShapes(dc.Shape(), dx.Shape())
	if err != nil {
		return nil, opErr("where", err)
	}
	if outShape, err = tensor.BroadcastShapes(outShape, dy.Shape()); err != nil {
		return nil, opErr("where", err)
	}
	dt := tensor.Promote(dx.DType(), dy.DType())
	cx, err := castDense(dx, dt)
	if err != nil {
		return nil, err
	}
	cy, err := castDense(dy, dt)
	if err != nil {
		return nil, err
	}
	out, err := tensor.NewDense(outShape, dt)
	if err != nil {
		return nil, opErr("where", err)
	}
	for i := 0; i < out.NumElements(); i++ {
		cond := dc.Complex128At(tensor.BroadcastIndex(i, outShape, dc.Shape())) != 0
		if cond {
			copyElement(out, i, cx, tensor.BroadcastIndex(i, outShape, cx.Shape()))
		} else {
			copyElement(out, i, cy, tensor.BroadcastIndex(i, outShape, cy.Shape()))
		}
	}
	return out, nil
}

// Gather selects rows of values along axis 0. The result has the indices'
// shape followed by the remaining value dims. Negative indices wrap.
func (n *Backend) Gather(values, indices any) (any, error) {
	dv, err := toDense(values)
	if err != nil {
		return nil, opErr("gather", err)
	}
	di, err := intIndices("gather", indices)
	if err != nil {
		return nil, err
	}
	if len(dv.Shape()) < 1 {
		return nil, fmt.Errorf("gather: cannot index a scalar")
	}
	rows := dv.Shape()[0]
	tail := dv.NumElements() / rows
	outShape := make(tensor.Shape, 0, len(di.Shape())+len(dv.Shape())-1)
	outShape = append(outShape, di.Shape()...)
	outShape = append(outShape, dv.Shape()[1:]...)
	out, err := tensor.NewDense(outShape, dv.DType())
	if err != nil {
		return nil, opErr("gather", err)
	}
	idx := di.AsInt64()
	for r := 0; r < len(idx); r++ {
		row := int(idx[r])
		if row < 0 {
			row += rows
		}
		if row < 0 || row >= rows {
			return nil, fmt.Errorf("gather: index %d out of range [0,%d)", idx[r], rows)
		}
		for t := 0; t < tail; t++ {
			copyElement(out, r*tail+t, dv, row*tail+t)
		}
	}
	return out, nil
}

// GatherND selects blocks of values by coordinate rows. The last indices dim
// holds a coordinate into the leading value axes; the result keeps the
// remaining axes.
func (n *Backend) GatherND(values, indices any) (any, error) {
	dv, err := toDense(values)
	if err != nil {
		return nil, opErr("gather_nd", err)
	}
	di, err := intIndices("gather_nd", indices)
	if err != nil {
		return nil, err
	}
	if len(di.Shape()) < 1 {
		return nil, fmt.Errorf("gather_nd: indices must carry a coordinate axis")
	}
	k := di.Shape()[len(di.Shape())-1]
	if k > len(dv.Shape()) {
		return nil, fmt.Errorf("gather_nd: %d-coordinates exceed value rank %d", k, len(dv.Shape()))
	}
	tail := 1
	for _, s := range dv.Shape()[k:] {
		tail *= s
	}
	strides := dv.Shape().Strides()
	outShape := make(tensor.Shape, 0, len(di.Shape())-1+len(dv.Shape())-k)
	outShape = append(outShape, di.Shape()[:len(di.Shape())-1]...)
	outShape = append(outShape, dv.Shape()[k:]...)
	out, err := tensor.NewDense(outShape, dv.DType())
	if err != nil {
		return nil, opErr("gather_nd", err)
	}
	idx := di.AsInt64()
	rows := len(idx) / k
	for r := 0; r < rows; r++ {
		base := 0
		for j := 0; j < k; j++ {
			c := int(idx[r*k+j])
			if c < 0 {
				c += dv.Shape()[j]
			}
			if c < 0 || c >= dv.Shape()[j] {
				return nil, fmt.Errorf("gather_nd: coordinate %d out of range [0,%d) on axis %d", idx[r*k+j], dv.Shape()[j], j)
			}
			base += c * strides[j]
		}
		for t := 0; t < tail; t++ {
			copyElement(out, r*tail+t, dv, base+t)
		}
	}
	return out, nil
}

// BooleanMask keeps the axis-0 entries of x where mask is true.
func (n *Backend) BooleanMask(x, mask any) (any, error) {
	dx, err := toDense(x)
	if err != nil {
		return nil, opErr("boolean_mask", err)
	}
	dm, err := toDense(mask)
	if err != nil {
		return nil, opErr("boolean_mask", err)
	}
	if len(dm.Shape()) != 1 {
		return nil, fmt.Errorf("boolean_mask: mask must be rank 1, got shape %v", dm.Shape())
	}
	if len(dx.Shape()) < 1 || dx.Shape()[0] != dm.Shape()[0] {
		return nil, fmt.Errorf("boolean_mask: mask length %d does not match axis 0 of %v", dm.Shape()[0], dx.Shape())
	}
	kept := 0
	for i := 0; i < dm.NumElements(); i++ {
		if dm.Complex128At(i) != 0 {
			kept++
		}
	}
	if kept == 0 {
		return nil, fmt.Errorf("boolean_mask: mask selects no entries")
	}
	tail := dx.NumElements() / dx.Shape()[0]
	outShape := append(tensor.Shape{kept}, dx.Shape()[1:]...)
	out, err := tensor.NewDense(outShape, dx.DType())
	if err != nil {
		return nil, opErr("boolean_mask", err)
	}
	w := 0
	for r := 0; r < dx.Shape()[0]; r++ {
		if dm.Complex128At(r) == 0 {
			continue
		}
		for t := 0; t < tail; t++ {
			copyElement(out, w*tail+t, dx, r*tail+t)
		}
		w++
	}
	return out, nil
}

// Scatter writes value rows into a zero tensor of the given shape at the
// given coordinates. Points are the sample locations that routed the
// dispatch; only indices, values and shape determine the result. Duplicate
// coordinates combine per duplicatesHandling: add accumulates, mean
// averages, undefined keeps the last write.
func (n *Backend) Scatter(points, indices, values any, shape []int, duplicatesHandling backend.DuplicatesHandling) (any, error) {
	di, err := intIndices("scatter", indices)
	if err != nil {
		return nil, err
	}
	dv, err := toDense(values)
	if err != nil {
		return nil, opErr("scatter", err)
	}
	outShape := tensor.Shape(shape)
	if err := outShape.Validate(); err != nil {
		return nil, opErr("scatter", err)
	}
	if len(di.Shape()) != 2 {
		return nil, fmt.Errorf("scatter: indices must be [n, coords], got shape %v", di.Shape())
	}
	rows, k := di.Shape()[0], di.Shape()[1]
	if k > len(outShape) {
		return nil, fmt.Errorf("scatter: %d-coordinates exceed target rank %d", k, len(outShape))
	}
	tail := 1
	for _, s := range outShape[k:] {
		tail *= s
	}
	if dv.NumElements() != rows*tail {
		return nil, fmt.Errorf("scatter: %d values do not fill %d rows of %d elements", dv.NumElements(), rows, tail)
	}
	dt := dv.DType()
	if dt == tensor.Bool || dt == tensor.Int64 {
		dt = tensor.Float64
	}
	cv, err := castDense(dv, dt)
	if err != nil {
		return nil, err
	}
	out, err := tensor.NewDense(outShape, dt)
	if err != nil {
		return nil, opErr("scatter", err)
	}
	strides := outShape.Strides()
	var counts []int
	if duplicatesHandling == backend.DuplicatesMean {
		counts = make([]int, out.NumElements())
	}
	idx := di.AsInt64()
	for r := 0; r < rows; r++ {
		base := 0
		for j := 0; j < k; j++ {
			c := int(idx[r*k+j])
			if c < 0 || c >= outShape[j] {
				return nil, fmt.Errorf("scatter: coordinate %d out of range [0,%d) on axis %d", c, outShape[j], j)
			}
			base += c * strides[j]
		}
		for t := 0; t < tail; t++ {
			switch duplicatesHandling {
			case backend.DuplicatesAdd, backend.DuplicatesMean:
				switch dt {
				case tensor.Float64:
					out.AsFloat64()[base+t] += cv.AsFloat64()[r*tail+t]
				case tensor.Complex128:
					out.AsComplex128()[base+t] += cv.AsComplex128()[r*tail+t]
				}
			default:
				copyElement(out, base+t, cv, r*tail+t)
			}
		}
		if counts != nil {
			for t := 0; t < tail; t++ {
				counts[base+t]++
			}
		}
	}
	if counts != nil {
		for i, c := range counts {
			if c > 1 {
				switch dt {
				case tensor.Float64:
					out.AsFloat64()[i] /= float64(c)
				case tensor.Complex128:
					out.AsComplex128()[i] /= complex(float64(c), 0)
				}
			}
		}
	}
	return out, nil
}

// intIndices coerces an index operand to an int64 tensor.
func intIndices(op string, indices any) (*tensor.Dense, error) {
	d, err := toDense(indices)
	if err != nil {
		return nil, opErr(op, err)
	}
	if d.DType() == tensor.Float64 || d.DType() == tensor.Complex128 {
		return nil, fmt.Errorf("%s: indices must be integers, got %s", op, d.DType())
	}
	return castDense(d, tensor.Int64)
}
