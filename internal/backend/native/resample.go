package native

import (
	"fmt"
	"math"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/parallel"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// Resample reads values at fractional index-space coordinates with N-linear
// interpolation. Values are laid out [batch, *spatial, components] and
// sampleCoords [batch, *outSpatial, spatialRank], where coordinate 0 is the
// first cell and size-1 the last. Either batch dim may be 1 and broadcasts
// against the other. The boundary mode decides what lies outside the grid:
// zeros, the clamped edge, or the wrapped-around values.
func (n *Backend) Resample(values, sampleCoords any, interpolation backend.Interpolation, boundary backend.Boundary) (any, error) {
	if interpolation != backend.InterpolationLinear {
		return nil, fmt.Errorf("resample: unknown interpolation %q", interpolation)
	}
	switch boundary {
	case backend.BoundaryConstant, backend.BoundaryReplicate, backend.BoundaryCircular:
	default:
		return nil, fmt.Errorf("resample: unknown boundary %q", boundary)
	}
	dv, err := toDense(values)
	if err != nil {
		return nil, opErr("resample", err)
	}
	if dv, err = castDense(dv, tensor.Float64); err != nil {
		return nil, err
	}
	dc, err := toDense(sampleCoords)
	if err != nil {
		return nil, opErr("resample", err)
	}
	if dc, err = castDense(dc, tensor.Float64); err != nil {
		return nil, err
	}
	rank := len(dv.Shape()) - 2
	if rank < 1 {
		return nil, fmt.Errorf("resample: values must have batch, spatial and component axes, got shape %v", dv.Shape())
	}
	if len(dc.Shape()) < 2 || dc.Shape()[len(dc.Shape())-1] != rank {
		return nil, fmt.Errorf("resample: coords shape %v does not address %d spatial axes", dc.Shape(), rank)
	}
	batchV := dv.Shape()[0]
	batchC := dc.Shape()[0]
	if batchV != batchC && batchV != 1 && batchC != 1 {
		return nil, fmt.Errorf("resample: batch dims %d and %d do not broadcast", batchV, batchC)
	}
	batch := max(batchV, batchC)
	comps := dv.Shape()[len(dv.Shape())-1]
	inSpatial := tensor.Shape(dv.Shape()[1 : rank+1])
	outSpatial := tensor.Shape(dc.Shape()[1 : len(dc.Shape())-1])
	nIn := inSpatial.NumElements()
	nOut := outSpatial.NumElements()

	outShape := make(tensor.Shape, 0, len(outSpatial)+2)
	outShape = append(outShape, batch)
	outShape = append(outShape, outSpatial...)
	outShape = append(outShape, comps)
	out, err := tensor.NewDense(outShape, tensor.Float64)
	if err != nil {
		return nil, opErr("resample", err)
	}

	src := dv.AsFloat64()
	coords := dc.AsFloat64()
	dst := out.AsFloat64()
	parallel.For(batch*nOut, n.par, func(start, end int) {
		pos := make([]float64, rank)
		corner := make([]int, rank)
		for idx := start; idx < end; idx++ {
			b := idx / nOut
			p := idx % nOut
			bv := b
			if batchV == 1 {
				bv = 0
			}
			bc := b
			if batchC == 1 {
				bc = 0
			}
			for a := 0; a < rank; a++ {
				pos[a] = coords[(bc*nOut+p)*rank+a]
			}
			for c := 0; c < comps; c++ {
				dst[(b*nOut+p)*comps+c] = 0
			}
			for mask := 0; mask < 1<<rank; mask++ {
				w := 1.0
				inside := true
				for a := 0; a < rank; a++ {
					lo := math.Floor(pos[a])
					frac := pos[a] - lo
					ci := int(lo) + (mask>>a)&1
					if (mask>>a)&1 == 1 {
						w *= frac
					} else {
						w *= 1 - frac
					}
					size := inSpatial[a]
					if ci < 0 || ci >= size {
						switch boundary {
						case backend.BoundaryConstant:
							inside = false
						case backend.BoundaryReplicate:
							ci = min(max(ci, 0), size-1)
						case backend.BoundaryCircular:
							ci = ((ci % size) + size) % size
						}
					}
					if !inside {
						break
					}
					corner[a] = ci
				}
				if !inside || w == 0 {
					continue
				}
				si := inSpatial.Index(corner)
				for c := 0; c < comps; c++ {
					dst[(b*nOut+p)*comps+c] += w * src[(bv*nIn+si)*comps+c]
				}
			}
		}
	})
	return out, nil
}
