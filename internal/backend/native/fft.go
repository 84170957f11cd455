package native

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/eddy-sim/eddy/internal/tensor"
)

// FFT computes the discrete Fourier transform over every spatial axis of a
// [batch, *spatial, components] tensor. The result is complex128 with the
// input's shape.
func (n *Backend) FFT(x any) (any, error) {
	return spectral("fft", x, false)
}

// IFFT inverts FFT, scaling by 1/n per transformed axis so that
// IFFT(FFT(x)) == x.
func (n *Backend) IFFT(k any) (any, error) {
	return spectral("ifft", k, true)
}

func spectral(op string, x any, inverse bool) (any, error) {
	d, err := toDense(x)
	if err != nil {
		return nil, opErr(op, err)
	}
	rank := len(d.Shape()) - 2
	if rank < 1 {
		return nil, fmt.Errorf("%s: values must have batch, spatial and component axes, got shape %v", op, d.Shape())
	}
	cd, err := castDense(d, tensor.Complex128)
	if err != nil {
		return nil, err
	}
	// Transform per axis in place on a private copy.
	work := cd.Clone()
	buf := work.AsComplex128()
	strides := work.Shape().Strides()
	for a := 1; a <= rank; a++ {
		size := work.Shape()[a]
		stride := strides[a]
		plan := fourier.NewCmplxFFT(size)
		line := make([]complex128, size)
		for base := 0; base < work.NumElements(); base++ {
			if (base/stride)%size != 0 {
				continue
			}
			for k := 0; k < size; k++ {
				line[k] = buf[base+k*stride]
			}
			var res []complex128
			if inverse {
				res = plan.Sequence(nil, line)
			} else {
				res = plan.Coefficients(nil, line)
			}
			scale := complex(1, 0)
			if inverse {
				// gonum's transform pair is unnormalized.
				scale = complex(1/float64(size), 0)
			}
			for k := 0; k < size; k++ {
				buf[base+k*stride] = res[k] * scale
			}
		}
	}
	return work, nil
}
