package field

import (
	"fmt"

	"github.com/eddy-sim/eddy/internal/backend"
)

// At resamples f onto the sample points of target, returning a field
// compatible with target. The path branches on the target's point layout
// alone: shared-point targets take a direct resample, per-component targets
// the broadcast path. A target without points cannot receive a resample.
// Values of f outside its bounds are undefined.
func At(f, target Field) (Field, error) {
	pts, err := target.Points()
	if err != nil {
		return nil, err
	}
	switch pts.Layout {
	case PointsPerComponent:
		return BroadcastAt(f, target)
	case PointsNone:
		return nil, &IncompatibleFieldsError{
			A: f.Name(), B: target.Name(),
			Reason: "target has no sample points",
		}
	}
	data, err := f.SampleAt(pts.Shared.Data())
	if err != nil {
		return nil, err
	}
	return target.WithValues(data, PropagateResample(f, target.Flags(), target.Rank()))
}

// BroadcastAt resamples f onto a target whose components are sampled at
// per-component locations, producing one resampled component per target
// component. A single-component f pairs against every target component;
// otherwise the component counts must match.
func BroadcastAt(f, target Field) (Field, error) {
	if f.ComponentCount() != target.ComponentCount() && f.ComponentCount() != 1 {
		return nil, &IncompatibleFieldsError{
			A: f.Name(), B: target.Name(),
			Reason: fmt.Sprintf("cannot broadcast %d components onto %d per-component targets",
				f.ComponentCount(), target.ComponentCount()),
		}
	}
	targets, err := target.Unstack()
	if err != nil {
		return nil, err
	}
	children := make([]Field, len(targets))
	if f.ComponentCount() == 1 {
		for i, tc := range targets {
			if children[i], err = At(f, tc); err != nil {
				return nil, err
			}
		}
	} else {
		sources, err := f.Unstack()
		if err != nil {
			return nil, err
		}
		for i, tc := range targets {
			if children[i], err = At(sources[i], tc); err != nil {
				return nil, err
			}
		}
	}
	return target.WithValues(children, PropagateResample(f, target.Flags(), target.Rank()))
}

// binOp is one element-wise combination: the backend op plus whether its
// scalar form is linear.
type binOp struct {
	name           string
	linearIfScalar bool
	apply          func(be backend.Backend, a, b any) (any, error)
}

var (
	opAdd     = binOp{"add", false, func(be backend.Backend, a, b any) (any, error) { return be.Add(a, b) }}
	opSub     = binOp{"sub", false, func(be backend.Backend, a, b any) (any, error) { return be.Sub(a, b) }}
	opSubFrom = binOp{"sub", false, func(be backend.Backend, a, b any) (any, error) { return be.Sub(b, a) }}
	opMul     = binOp{"mul", true, func(be backend.Backend, a, b any) (any, error) { return be.Mul(a, b) }}
)

// Add returns f + other. Other is either a field sampled at the same points
// or a raw value combined element-wise with the data.
func Add(f Field, other any) (Field, error) { return dataOp(f, other, opAdd) }

// Sub returns f - other.
func Sub(f Field, other any) (Field, error) { return dataOp(f, other, opSub) }

// SubFrom returns other - f.
func SubFrom(f Field, other any) (Field, error) { return dataOp(f, other, opSubFrom) }

// Mul returns f * other. Scaling by a raw value is linear, so flags
// restricted to linear operations survive it.
func Mul(f Field, other any) (Field, error) { return dataOp(f, other, opMul) }

// dataOp combines a field with a second field or a raw value, deriving the
// result's flags from the operation kind.
func dataOp(f Field, other any, op binOp) (Field, error) {
	if of, ok := other.(Field); ok {
		return fieldOp(f, of, op)
	}
	flags := PropagateOperation(f.Flags(), op.linearIfScalar, f.Rank(), f.ComponentCount())
	if children, ok := f.Data().([]Field); ok {
		out := make([]Field, len(children))
		for i, ch := range children {
			r, err := dataOp(ch, other, op)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return f.WithValues(out, flags)
	}
	data, err := op.apply(f.Backend(), f.Data(), other)
	if err != nil {
		return nil, fmt.Errorf("%s of %q: %w", op.name, f.Name(), err)
	}
	return f.WithValues(data, flags)
}

// fieldOp combines two fields element-wise. Each side's data is used directly
// when that side carries sample points and is resampled onto the other side
// otherwise. Field-field combination is never linear.
func fieldOp(f, other Field, op binOp) (Field, error) {
	if !f.Compatible(other) {
		return nil, &IncompatibleFieldsError{
			A: f.Name(), B: other.Name(),
			Reason: "sample points differ",
		}
	}
	flags := PropagateOperation(append(f.Flags(), other.Flags()...), false, f.Rank(), f.ComponentCount())
	fRes, oRes := f, other
	var err error
	if !f.HasPoints() {
		if fRes, err = At(f, other); err != nil {
			return nil, err
		}
	}
	if !other.HasPoints() {
		if oRes, err = At(other, f); err != nil {
			return nil, err
		}
	}
	fChildren, fPer := fRes.Data().([]Field)
	oChildren, oPer := oRes.Data().([]Field)
	switch {
	case fPer && oPer:
		if len(fChildren) != len(oChildren) {
			return nil, &IncompatibleFieldsError{
				A: f.Name(), B: other.Name(),
				Reason: "component counts differ",
			}
		}
		out := make([]Field, len(fChildren))
		for i := range fChildren {
			if out[i], err = fieldOp(fChildren[i], oChildren[i], op); err != nil {
				return nil, err
			}
		}
		return f.WithValues(out, flags)
	case fPer || oPer:
		return nil, &IncompatibleFieldsError{
			A: f.Name(), B: other.Name(),
			Reason: "mixed point layouts",
		}
	}
	data, err := op.apply(f.Backend(), fRes.Data(), oRes.Data())
	if err != nil {
		return nil, fmt.Errorf("%s of %q and %q: %w", op.name, f.Name(), other.Name(), err)
	}
	return f.WithValues(data, flags)
}
