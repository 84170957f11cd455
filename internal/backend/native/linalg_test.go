package native

import (
	"testing"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// Linear Algebra Tests

func TestDotMatrixVector(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{
		1, 2,
		3, 4,
	}, tensor.Shape{2, 2})
	v, _ := tensor.FromFloat64s([]float64{5, 6}, tensor.Shape{2})

	got, err := n.Dot(a, v, []int{1}, []int{0})
	if err != nil {
		t.Fatalf("Dot failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{17, 39})
}

func TestDotMatrixMatrix(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{
		1, 2,
		3, 4,
	}, tensor.Shape{2, 2})
	b, _ := tensor.FromFloat64s([]float64{
		5, 6,
		7, 8,
	}, tensor.Shape{2, 2})

	got, err := n.Dot(a, b, []int{1}, []int{0})
	if err != nil {
		t.Fatalf("Dot failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{19, 22, 43, 50})
}

func TestDotFullContraction(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})
	b, _ := tensor.FromFloat64s([]float64{4, 5, 6}, tensor.Shape{3})

	got, err := n.Dot(a, b, []int{0}, []int{0})
	if err != nil {
		t.Fatalf("Dot failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{}, []float64{32})
}

func TestDotDimMismatch(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})
	b, _ := tensor.FromFloat64s([]float64{4, 5}, tensor.Shape{2})

	if _, err := n.Dot(a, b, []int{0}, []int{0}); err == nil {
		t.Error("Dot with mismatched contracted dims should fail")
	}
}

func TestMatMulDense(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{
		1, 2,
		3, 4,
	}, tensor.Shape{2, 2})
	v, _ := tensor.FromFloat64s([]float64{1, 1}, tensor.Shape{2})

	got, err := n.MatMul(a, v)
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{3, 7})
}

func TestMatMulSparse(t *testing.T) {
	n := New()
	// 3x3 tridiagonal-ish matrix with entries (0,0)=2, (1,1)=2, (2,1)=1.
	idx, _ := tensor.FromInt64s([]int64{
		0, 0,
		1, 1,
		2, 1,
	}, tensor.Shape{3, 2})
	vals, _ := tensor.FromFloat64s([]float64{2, 2, 1}, tensor.Shape{3})
	s, err := tensor.NewSparse(idx, vals, tensor.Shape{3, 3})
	if err != nil {
		t.Fatalf("NewSparse failed: %v", err)
	}
	v, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})

	got, err := n.MatMul(s, v)
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{3}, []float64{2, 4, 2})
}

func TestMatMulSparseMatrixRight(t *testing.T) {
	n := New()
	idx, _ := tensor.FromInt64s([]int64{0, 1}, tensor.Shape{1, 2})
	vals, _ := tensor.FromFloat64s([]float64{3}, tensor.Shape{1})
	s, _ := tensor.NewSparse(idx, vals, tensor.Shape{2, 2})
	b, _ := tensor.FromFloat64s([]float64{
		1, 2,
		3, 4,
	}, tensor.Shape{2, 2})

	got, err := n.MatMul(s, b)
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{9, 12, 0, 0})
}

func TestConvSame1D(t *testing.T) {
	n := New()
	// One batch, 4 spatial cells, one channel.
	v, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{1, 4, 1})
	// 3-tap averaging kernel, one in and one out channel.
	k, _ := tensor.FromFloat64s([]float64{1, 1, 1}, tensor.Shape{3, 1, 1})

	got, err := n.Conv(v, k, backend.ConvSame)
	if err != nil {
		t.Fatalf("Conv failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{1, 4, 1}, []float64{3, 6, 9, 7})
}

func TestConvValid1D(t *testing.T) {
	n := New()
	v, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{1, 4, 1})
	k, _ := tensor.FromFloat64s([]float64{1, 1, 1}, tensor.Shape{3, 1, 1})

	got, err := n.Conv(v, k, backend.ConvValid)
	if err != nil {
		t.Fatalf("Conv failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{1, 2, 1}, []float64{6, 9})
}

func TestConvChannels(t *testing.T) {
	n := New()
	// Two input channels summed into one output channel.
	v, _ := tensor.FromFloat64s([]float64{
		1, 10,
		2, 20,
	}, tensor.Shape{1, 2, 2})
	k, _ := tensor.FromFloat64s([]float64{1, 1}, tensor.Shape{1, 2, 1})

	got, err := n.Conv(v, k, backend.ConvSame)
	if err != nil {
		t.Fatalf("Conv failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{1, 2, 1}, []float64{11, 22})
}

func TestConvKernelTooLarge(t *testing.T) {
	n := New()
	v, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{1, 2, 1})
	k, _ := tensor.FromFloat64s([]float64{1, 1, 1}, tensor.Shape{3, 1, 1})

	if _, err := n.Conv(v, k, backend.ConvValid); err == nil {
		t.Error("Conv VALID with kernel larger than input should fail")
	}
}
