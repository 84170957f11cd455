package native

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// Concat joins tensors along an existing axis. All inputs must agree on every
// other dim; dtypes promote to the widest input.
func (n *Backend) Concat(values []any, axis int) (any, error) {
	ds, dt, err := denseOperands("concat", values)
	if err != nil {
		return nil, err
	}
	rank := len(ds[0].Shape())
	axis, err = normalizeAxis(axis, rank)
	if err != nil {
		return nil, opErr("concat", err)
	}
	outShape := ds[0].Shape().Clone()
	outShape[axis] = 0
	for _, d := range ds {
		if len(d.Shape()) != rank {
			return nil, fmt.Errorf("concat: rank mismatch between %v and %v", ds[0].Shape(), d.Shape())
		}
		for a := 0; a < rank; a++ {
			if a != axis && d.Shape()[a] != outShape[a] {
				return nil, fmt.Errorf("concat: shape %v does not match %v outside axis %d", d.Shape(), ds[0].Shape(), axis)
			}
		}
		outShape[axis] += d.Shape()[axis]
	}
	out, err := tensor.NewDense(outShape, dt)
	if err != nil {
		return nil, opErr("concat", err)
	}
	offset := 0
	for _, d := range ds {
		cd, err := castDense(d, dt)
		if err != nil {
			return nil, err
		}
		for i := 0; i < cd.NumElements(); i++ {
			coords := cd.Shape().Unravel(i)
			coords[axis] += offset
			copyElement(out, outShape.Index(coords), cd, i)
		}
		offset += d.Shape()[axis]
	}
	return out, nil
}

// Stack joins equally shaped tensors along a new axis.
func (n *Backend) Stack(values []any, axis int) (any, error) {
	ds, dt, err := denseOperands("stack", values)
	if err != nil {
		return nil, err
	}
	rank := len(ds[0].Shape())
	axis, err = normalizeAxis(axis, rank+1)
	if err != nil {
		return nil, opErr("stack", err)
	}
	for _, d := range ds {
		if !d.Shape().Equal(ds[0].Shape()) {
			return nil, fmt.Errorf("stack: shape %v does not match %v", d.Shape(), ds[0].Shape())
		}
	}
	outShape := make(tensor.Shape, 0, rank+1)
	outShape = append(outShape, ds[0].Shape()[:axis]...)
	outShape = append(outShape, len(ds))
	outShape = append(outShape, ds[0].Shape()[axis:]...)
	out, err := tensor.NewDense(outShape, dt)
	if err != nil {
		return nil, opErr("stack", err)
	}
	for k, d := range ds {
		cd, err := castDense(d, dt)
		if err != nil {
			return nil, err
		}
		for i := 0; i < cd.NumElements(); i++ {
			coords := cd.Shape().Unravel(i)
			oc := make([]int, 0, rank+1)
			oc = append(oc, coords[:axis]...)
			oc = append(oc, k)
			oc = append(oc, coords[axis:]...)
			copyElement(out, outShape.Index(oc), cd, i)
		}
	}
	return out, nil
}

// Unstack splits a tensor into slices along an axis, dropping that axis.
func (n *Backend) Unstack(value any, axis int) ([]any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("unstack", err)
	}
	rank := len(d.Shape())
	axis, err = normalizeAxis(axis, rank)
	if err != nil {
		return nil, opErr("unstack", err)
	}
	sliceShape := make(tensor.Shape, 0, rank-1)
	sliceShape = append(sliceShape, d.Shape()[:axis]...)
	sliceShape = append(sliceShape, d.Shape()[axis+1:]...)
	out := make([]any, d.Shape()[axis])
	for k := range out {
		nr, err := d.Narrow(axis, k, 1)
		if err != nil {
			return nil, opErr("unstack", err)
		}
		s, err := nr.Reshaped(sliceShape)
		if err != nil {
			return nil, opErr("unstack", err)
		}
		out[k] = s
	}
	return out, nil
}

// Tile repeats a tensor along each axis. A multiples list longer than the
// rank prepends new axes.
func (n *Backend) Tile(value any, multiples []int) (any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("tile", err)
	}
	inShape := d.Shape()
	if len(multiples) > len(inShape) {
		pad := make(tensor.Shape, len(multiples)-len(inShape))
		for i := range pad {
			pad[i] = 1
		}
		inShape = append(pad, inShape...)
		if d, err = d.Reshaped(inShape); err != nil {
			return nil, opErr("tile", err)
		}
	} else if len(multiples) < len(inShape) {
		pad := make([]int, len(inShape)-len(multiples))
		for i := range pad {
			pad[i] = 1
		}
		multiples = append(pad, multiples...)
	}
	outShape := make(tensor.Shape, len(inShape))
	for i := range outShape {
		if multiples[i] <= 0 {
			return nil, fmt.Errorf("tile: multiple %d on axis %d must be positive", multiples[i], i)
		}
		outShape[i] = inShape[i] * multiples[i]
	}
	out, err := tensor.NewDense(outShape, d.DType())
	if err != nil {
		return nil, opErr("tile", err)
	}
	coords := make([]int, len(inShape))
	for i := 0; i < out.NumElements(); i++ {
		oc := outShape.Unravel(i)
		for a := range coords {
			coords[a] = oc[a] % inShape[a]
		}
		copyElement(out, i, d, inShape.Index(coords))
	}
	return out, nil
}

// Pad grows a tensor by padWidth[axis] = {before, after} elements per axis.
// The mode decides what fills the margin: a constant, the clamped edge, the
// wrapped-around values, or the mirror image.
func (n *Backend) Pad(value any, padWidth [][2]int, mode backend.PadMode, constantValue any) (any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("pad", err)
	}
	rank := len(d.Shape())
	if len(padWidth) != rank {
		return nil, fmt.Errorf("pad: got %d axis widths for rank %d", len(padWidth), rank)
	}
	outShape := make(tensor.Shape, rank)
	for a, w := range padWidth {
		if w[0] < 0 || w[1] < 0 {
			return nil, fmt.Errorf("pad: negative width %v on axis %d", w, a)
		}
		outShape[a] = d.Shape()[a] + w[0] + w[1]
	}
	out, err := tensor.NewDense(outShape, d.DType())
	if err != nil {
		return nil, opErr("pad", err)
	}
	var fill *tensor.Dense
	if mode == backend.PadConstant {
		if constantValue == nil {
			constantValue = 0
		}
		cv, err := tensor.FromAny(constantValue)
		if err != nil {
			return nil, opErr("pad", err)
		}
		if fill, err = castDense(cv, d.DType()); err != nil {
			return nil, err
		}
		if fill.NumElements() != 1 {
			return nil, fmt.Errorf("pad: constant value must be a scalar")
		}
	}
	coords := make([]int, rank)
	for i := 0; i < out.NumElements(); i++ {
		oc := outShape.Unravel(i)
		inside := true
		for a := range coords {
			c := oc[a] - padWidth[a][0]
			size := d.Shape()[a]
			if c < 0 || c >= size {
				switch mode {
				case backend.PadConstant:
					inside = false
				case backend.PadReplicate:
					c = min(max(c, 0), size-1)
				case backend.PadCircular:
					c = ((c % size) + size) % size
				case backend.PadSymmetric:
					period := 2 * size
					c = ((c % period) + period) % period
					if c >= size {
						c = period - 1 - c
					}
				default:
					return nil, fmt.Errorf("pad: unknown mode %q", mode)
				}
			}
			if !inside {
				break
			}
			coords[a] = c
		}
		if inside {
			copyElement(out, i, d, d.Shape().Index(coords))
		} else {
			copyElement(out, i, fill, 0)
		}
	}
	return out, nil
}

// Reshape reinterprets a tensor with a new shape; one dim may be -1 and is
// inferred from the element count.
func (n *Backend) Reshape(value any, shape []int) (any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("reshape", err)
	}
	target := make(tensor.Shape, len(shape))
	infer := -1
	known := 1
	for i, s := range shape {
		switch {
		case s == -1:
			if infer >= 0 {
				return nil, fmt.Errorf("reshape: at most one dim may be -1, got %v", shape)
			}
			infer = i
			target[i] = 1
		case s <= 0:
			return nil, fmt.Errorf("reshape: invalid dim %d in %v", s, shape)
		default:
			target[i] = s
			known *= s
		}
	}
	if infer >= 0 {
		if d.NumElements()%known != 0 {
			return nil, fmt.Errorf("reshape: cannot infer dim for %d elements and shape %v", d.NumElements(), shape)
		}
		target[infer] = d.NumElements() / known
	}
	return d.Reshaped(target)
}

// ExpandDims inserts `number` size-1 axes at the given position.
func (n *Backend) ExpandDims(value any, axis, number int) (any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("expand_dims", err)
	}
	rank := len(d.Shape())
	axis, err = normalizeAxis(axis, rank+1)
	if err != nil {
		return nil, opErr("expand_dims", err)
	}
	if number < 1 {
		return nil, fmt.Errorf("expand_dims: number %d must be at least 1", number)
	}
	target := make(tensor.Shape, 0, rank+number)
	target = append(target, d.Shape()[:axis]...)
	for i := 0; i < number; i++ {
		target = append(target, 1)
	}
	target = append(target, d.Shape()[axis:]...)
	return d.Reshaped(target)
}

// Range returns evenly spaced values in [start, limit) stepping by delta.
// A nil limit counts from 0 to start. Integer bounds yield an int64 tensor,
// anything else float64.
func (n *Backend) Range(start, limit, delta any) (any, error) {
	if limit == nil {
		start, limit = 0, start
	}
	if delta == nil {
		delta = 1
	}
	sv, si, err := scalarOperand("range", start)
	if err != nil {
		return nil, err
	}
	lv, li, err := scalarOperand("range", limit)
	if err != nil {
		return nil, err
	}
	dv, di, err := scalarOperand("range", delta)
	if err != nil {
		return nil, err
	}
	if dv == 0 {
		return nil, fmt.Errorf("range: delta must be nonzero")
	}
	count := int(math.Ceil((lv - sv) / dv))
	if count < 0 {
		count = 0
	}
	if count == 0 {
		return nil, fmt.Errorf("range: empty interval [%v, %v) with delta %v", sv, lv, dv)
	}
	if si && li && di {
		out, err := tensor.NewDense(tensor.Shape{count}, tensor.Int64)
		if err != nil {
			return nil, opErr("range", err)
		}
		dst := out.AsInt64()
		v := int64(sv)
		step := int64(dv)
		for i := range dst {
			dst[i] = v
			v += step
		}
		return out, nil
	}
	out, err := tensor.NewDense(tensor.Shape{count}, tensor.Float64)
	if err != nil {
		return nil, opErr("range", err)
	}
	dst := out.AsFloat64()
	for i := range dst {
		dst[i] = sv + float64(i)*dv
	}
	return out, nil
}

// RandomUniform returns samples from [0, 1) in the given shape.
func (n *Backend) RandomUniform(shape []int) (any, error) {
	out, err := tensor.NewDense(tensor.Shape(shape), tensor.Float64)
	if err != nil {
		return nil, opErr("random_uniform", err)
	}
	dst := out.AsFloat64()
	for i := range dst {
		dst[i] = rand.Float64() //nolint:gosec // G404: statistical use, not security
	}
	return out, nil
}

// denseOperands coerces a value sequence and determines the promoted dtype.
func denseOperands(op string, values []any) ([]*tensor.Dense, tensor.DataType, error) {
	if len(values) == 0 {
		return nil, 0, fmt.Errorf("%s: no values", op)
	}
	ds := make([]*tensor.Dense, len(values))
	var dt tensor.DataType
	for i, v := range values {
		d, err := toDense(v)
		if err != nil {
			return nil, 0, opErr(op, err)
		}
		ds[i] = d
		if i == 0 {
			dt = d.DType()
		} else {
			dt = tensor.Promote(dt, d.DType())
		}
	}
	return ds, dt, nil
}

// scalarOperand extracts a single numeric value, reporting whether it was
// integral.
func scalarOperand(op string, x any) (float64, bool, error) {
	d, err := toDense(x)
	if err != nil {
		return 0, false, opErr(op, err)
	}
	if d.NumElements() != 1 {
		return 0, false, fmt.Errorf("%s: expected a scalar, got shape %v", op, d.Shape())
	}
	integral := d.DType() == tensor.Int64 || d.DType() == tensor.Bool
	return d.Float64At(0), integral, nil
}

// copyElement writes src[si] into dst[di]; both must share a dtype.
func copyElement(dst *tensor.Dense, di int, src *tensor.Dense, si int) {
	switch dst.DType() {
	case tensor.Float64:
		dst.AsFloat64()[di] = src.AsFloat64()[si]
	case tensor.Int64:
		dst.AsInt64()[di] = src.AsInt64()[si]
	case tensor.Bool:
		dst.AsBool()[di] = src.AsBool()[si]
	case tensor.Complex128:
		dst.AsComplex128()[di] = src.AsComplex128()[si]
	}
}
