package native

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/eddy-sim/eddy/internal/tensor"
)

// reducePlan maps input elements onto the cells of a reduced output.
type reducePlan struct {
	in       *tensor.Dense
	outShape tensor.Shape
	reduced  []bool
	keepDims bool
	full     bool
	count    int // input elements folded into each output cell
}

func newReducePlan(d *tensor.Dense, axes []int, keepDims bool) (*reducePlan, error) {
	rank := len(d.Shape())
	if axes == nil {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = i
		}
	}
	reduced := make([]bool, rank)
	for _, a := range axes {
		if a < 0 {
			a += rank
		}
		if a < 0 || a >= rank {
			return nil, fmt.Errorf("axis %d out of range for shape %v", a, d.Shape())
		}
		if reduced[a] {
			return nil, fmt.Errorf("duplicate reduction axis %d", a)
		}
		reduced[a] = true
	}
	p := &reducePlan{in: d, reduced: reduced, keepDims: keepDims, count: 1}
	nReduced := 0
	for a, r := range reduced {
		if r {
			p.count *= d.Shape()[a]
			nReduced++
			if keepDims {
				p.outShape = append(p.outShape, 1)
			}
		} else {
			p.outShape = append(p.outShape, d.Shape()[a])
		}
	}
	p.full = nReduced == rank
	return p, nil
}

// outIndex maps an input flat index to its output cell's flat index.
func (p *reducePlan) outIndex(flat int) int {
	if p.full && !p.keepDims {
		return 0
	}
	coords := p.in.Shape().Unravel(flat)
	out := make([]int, 0, len(p.outShape))
	for a, c := range coords {
		if p.reduced[a] {
			if p.keepDims {
				out = append(out, 0)
			}
		} else {
			out = append(out, c)
		}
	}
	return p.outShape.Index(out)
}

// Sum reduces by addition over the given axes; nil axes reduce everything.
// Bool input counts true elements.
func (n *Backend) Sum(value any, axes []int, keepDims bool) (any, error) {
	d, err := reduceOperand(value, "sum")
	if err != nil {
		return nil, err
	}
	p, err := newReducePlan(d, axes, keepDims)
	if err != nil {
		return nil, opErr("sum", err)
	}
	out, err := tensor.NewDense(p.outShape, d.DType())
	if err != nil {
		return nil, opErr("sum", err)
	}
	if p.full && d.DType() == tensor.Float64 {
		out.AsFloat64()[0] = floats.Sum(d.AsFloat64())
		return out, nil
	}
	for i := 0; i < d.NumElements(); i++ {
		oi := p.outIndex(i)
		switch d.DType() {
		case tensor.Float64:
			out.AsFloat64()[oi] += d.AsFloat64()[i]
		case tensor.Int64:
			out.AsInt64()[oi] += d.AsInt64()[i]
		case tensor.Complex128:
			out.AsComplex128()[oi] += d.AsComplex128()[i]
		}
	}
	return out, nil
}

// Prod reduces by multiplication over the given axes.
func (n *Backend) Prod(value any, axes []int) (any, error) {
	d, err := reduceOperand(value, "prod")
	if err != nil {
		return nil, err
	}
	p, err := newReducePlan(d, axes, false)
	if err != nil {
		return nil, opErr("prod", err)
	}
	out, err := tensor.NewDense(p.outShape, d.DType())
	if err != nil {
		return nil, opErr("prod", err)
	}
	switch d.DType() {
	case tensor.Float64:
		dst := out.AsFloat64()
		for i := range dst {
			dst[i] = 1
		}
	case tensor.Int64:
		dst := out.AsInt64()
		for i := range dst {
			dst[i] = 1
		}
	case tensor.Complex128:
		dst := out.AsComplex128()
		for i := range dst {
			dst[i] = 1
		}
	}
	for i := 0; i < d.NumElements(); i++ {
		oi := p.outIndex(i)
		switch d.DType() {
		case tensor.Float64:
			out.AsFloat64()[oi] *= d.AsFloat64()[i]
		case tensor.Int64:
			out.AsInt64()[oi] *= d.AsInt64()[i]
		case tensor.Complex128:
			out.AsComplex128()[oi] *= d.AsComplex128()[i]
		}
	}
	return out, nil
}

// Mean averages over the given axes. Integer and bool input averages as
// float64.
func (n *Backend) Mean(value any, axes []int, keepDims bool) (any, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr("mean", err)
	}
	dt := tensor.Float64
	if d.DType() == tensor.Complex128 {
		dt = tensor.Complex128
	}
	p, err := newReducePlan(d, axes, keepDims)
	if err != nil {
		return nil, opErr("mean", err)
	}
	out, err := tensor.NewDense(p.outShape, dt)
	if err != nil {
		return nil, opErr("mean", err)
	}
	if p.full && d.DType() == tensor.Float64 {
		out.AsFloat64()[0] = stat.Mean(d.AsFloat64(), nil)
		return out, nil
	}
	for i := 0; i < d.NumElements(); i++ {
		oi := p.outIndex(i)
		if dt == tensor.Complex128 {
			out.AsComplex128()[oi] += d.Complex128At(i)
		} else {
			out.AsFloat64()[oi] += d.Float64At(i)
		}
	}
	cnt := float64(p.count)
	if dt == tensor.Complex128 {
		dst := out.AsComplex128()
		for i := range dst {
			dst[i] /= complex(cnt, 0)
		}
	} else {
		dst := out.AsFloat64()
		for i := range dst {
			dst[i] /= cnt
		}
	}
	return out, nil
}

// Std computes the population standard deviation over the given axes.
func (n *Backend) Std(x any, axes []int) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr("std", err)
	}
	if d.DType() == tensor.Complex128 {
		return nil, fmt.Errorf("std: complex operands are not supported")
	}
	p, err := newReducePlan(d, axes, false)
	if err != nil {
		return nil, opErr("std", err)
	}
	out, err := tensor.NewDense(p.outShape, tensor.Float64)
	if err != nil {
		return nil, opErr("std", err)
	}
	if p.full && d.DType() == tensor.Float64 {
		xs := d.AsFloat64()
		mean := stat.Mean(xs, nil)
		var ss float64
		for _, v := range xs {
			dev := v - mean
			ss += dev * dev
		}
		out.AsFloat64()[0] = math.Sqrt(ss / float64(len(xs)))
		return out, nil
	}
	sums := make([]float64, out.NumElements())
	for i := 0; i < d.NumElements(); i++ {
		sums[p.outIndex(i)] += d.Float64At(i)
	}
	cnt := float64(p.count)
	for i := range sums {
		sums[i] /= cnt
	}
	dst := out.AsFloat64()
	for i := 0; i < d.NumElements(); i++ {
		oi := p.outIndex(i)
		dev := d.Float64At(i) - sums[oi]
		dst[oi] += dev * dev
	}
	for i := range dst {
		dst[i] = math.Sqrt(dst[i] / cnt)
	}
	return out, nil
}

// Max reduces to the largest element over the given axes.
func (n *Backend) Max(x any, axes []int) (any, error) {
	return n.extremum("max", x, axes, true)
}

// Min reduces to the smallest element over the given axes.
func (n *Backend) Min(x any, axes []int) (any, error) {
	return n.extremum("min", x, axes, false)
}

func (n *Backend) extremum(op string, x any, axes []int, wantMax bool) (any, error) {
	d, err := reduceOperand(x, op)
	if err != nil {
		return nil, err
	}
	if d.DType() == tensor.Complex128 {
		return nil, fmt.Errorf("%s: complex operands are not supported", op)
	}
	p, err := newReducePlan(d, axes, false)
	if err != nil {
		return nil, opErr(op, err)
	}
	out, err := tensor.NewDense(p.outShape, d.DType())
	if err != nil {
		return nil, opErr(op, err)
	}
	if p.full && d.DType() == tensor.Float64 {
		if wantMax {
			out.AsFloat64()[0] = floats.Max(d.AsFloat64())
		} else {
			out.AsFloat64()[0] = floats.Min(d.AsFloat64())
		}
		return out, nil
	}
	seen := make([]bool, out.NumElements())
	for i := 0; i < d.NumElements(); i++ {
		oi := p.outIndex(i)
		switch d.DType() {
		case tensor.Float64:
			v := d.AsFloat64()[i]
			if !seen[oi] || (wantMax && v > out.AsFloat64()[oi]) || (!wantMax && v < out.AsFloat64()[oi]) {
				out.AsFloat64()[oi] = v
			}
		case tensor.Int64:
			v := d.AsInt64()[i]
			if !seen[oi] || (wantMax && v > out.AsInt64()[oi]) || (!wantMax && v < out.AsInt64()[oi]) {
				out.AsInt64()[oi] = v
			}
		}
		seen[oi] = true
	}
	return out, nil
}

// Any reduces by logical OR over the given axes; nonzero elements count as
// true.
func (n *Backend) Any(booleanTensor any, axes []int, keepDims bool) (any, error) {
	return n.boolReduce("any", booleanTensor, axes, keepDims, false)
}

// All reduces by logical AND over the given axes.
func (n *Backend) All(booleanTensor any, axes []int, keepDims bool) (any, error) {
	return n.boolReduce("all", booleanTensor, axes, keepDims, true)
}

func (n *Backend) boolReduce(op string, x any, axes []int, keepDims, conj bool) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr(op, err)
	}
	p, err := newReducePlan(d, axes, keepDims)
	if err != nil {
		return nil, opErr(op, err)
	}
	out, err := tensor.NewDense(p.outShape, tensor.Bool)
	if err != nil {
		return nil, opErr(op, err)
	}
	dst := out.AsBool()
	if conj {
		for i := range dst {
			dst[i] = true
		}
	}
	for i := 0; i < d.NumElements(); i++ {
		v := d.Complex128At(i) != 0
		oi := p.outIndex(i)
		if conj {
			dst[oi] = dst[oi] && v
		} else {
			dst[oi] = dst[oi] || v
		}
	}
	return out, nil
}

// reduceOperand coerces a reduction input, widening bool to int so counts
// come out numeric.
func reduceOperand(value any, op string) (*tensor.Dense, error) {
	d, err := toDense(value)
	if err != nil {
		return nil, opErr(op, err)
	}
	if d.DType() == tensor.Bool {
		return castDense(d, tensor.Int64)
	}
	return d, nil
}

// normalizeAxis wraps a possibly negative axis into [0, rank).
func normalizeAxis(axis, rank int) (int, error) {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return 0, fmt.Errorf("axis %d out of range for rank %d", axis, rank)
	}
	return axis, nil
}
