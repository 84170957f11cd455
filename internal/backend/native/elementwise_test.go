package native

import (
	"math"
	"testing"

	"github.com/eddy-sim/eddy/internal/tensor"
)

// Shared test helpers

func mustDense(t *testing.T, v any) *tensor.Dense {
	t.Helper()
	d, ok := v.(*tensor.Dense)
	if !ok {
		t.Fatalf("expected *tensor.Dense, got %T", v)
	}
	return d
}

func wantFloats(t *testing.T, got any, shape tensor.Shape, want []float64) {
	t.Helper()
	d := mustDense(t, got)
	if !d.Shape().Equal(shape) {
		t.Fatalf("shape = %v, want %v", d.Shape(), shape)
	}
	if d.DType() != tensor.Float64 {
		t.Fatalf("dtype = %v, want float64", d.DType())
	}
	for i, w := range want {
		if g := d.AsFloat64()[i]; math.Abs(g-w) > 1e-9 {
			t.Errorf("element %d = %v, want %v", i, g, w)
		}
	}
}

func wantInts(t *testing.T, got any, shape tensor.Shape, want []int64) {
	t.Helper()
	d := mustDense(t, got)
	if !d.Shape().Equal(shape) {
		t.Fatalf("shape = %v, want %v", d.Shape(), shape)
	}
	if d.DType() != tensor.Int64 {
		t.Fatalf("dtype = %v, want int64", d.DType())
	}
	for i, w := range want {
		if g := d.AsInt64()[i]; g != w {
			t.Errorf("element %d = %d, want %d", i, g, w)
		}
	}
}

func wantBools(t *testing.T, got any, want []bool) {
	t.Helper()
	d := mustDense(t, got)
	if d.DType() != tensor.Bool {
		t.Fatalf("dtype = %v, want bool", d.DType())
	}
	for i, w := range want {
		if g := d.AsBool()[i]; g != w {
			t.Errorf("element %d = %t, want %t", i, g, w)
		}
	}
}

// Element-wise Tests

func TestAddBroadcast(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b, _ := tensor.FromFloat64s([]float64{10, 20, 30}, tensor.Shape{3})

	got, err := n.Add(a, b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 3}, []float64{11, 22, 33, 14, 25, 36})
}

func TestAddScalar(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})

	got, err := n.Add(a, 0.5)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{1.5, 2.5})
}

func TestAddPromotesIntToFloat(t *testing.T) {
	n := New()
	a, _ := tensor.FromInt64s([]int64{1, 2}, tensor.Shape{2})

	got, err := n.Add(a, 1.5)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{2.5, 3.5})
}

func TestAddKeepsInts(t *testing.T) {
	n := New()
	a, _ := tensor.FromInt64s([]int64{1, 2}, tensor.Shape{2})

	got, err := n.Add(a, 3)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	wantInts(t, got, tensor.Shape{2}, []int64{4, 5})
}

func TestAddComplex(t *testing.T) {
	n := New()
	a, _ := tensor.FromComplex128s([]complex128{1 + 2i}, tensor.Shape{1})

	got, err := n.Add(a, complex(1, -1))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	d := mustDense(t, got)
	if d.AsComplex128()[0] != 2+1i {
		t.Errorf("got %v, want (2+1i)", d.AsComplex128()[0])
	}
}

func TestSubReverseOrder(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{5, 7}, tensor.Shape{2})

	got, err := n.Sub(10.0, a)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{5, 3})
}

func TestMul(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})

	got, err := n.Mul(a, 2.0)
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{3}, []float64{2, 4, 6})
}

func TestDivProducesFloatFromInts(t *testing.T) {
	n := New()
	a, _ := tensor.FromInt64s([]int64{7, 8}, tensor.Shape{2})

	got, err := n.Div(a, 2)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{3.5, 4})
}

func TestDivideNoNan(t *testing.T) {
	n := New()
	x, _ := tensor.FromFloat64s([]float64{6, 5, 0}, tensor.Shape{3})
	y, _ := tensor.FromFloat64s([]float64{2, 0, 0}, tensor.Shape{3})

	got, err := n.DivideNoNan(x, y)
	if err != nil {
		t.Fatalf("DivideNoNan failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{3}, []float64{3, 0, 0})
}

func TestPow(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{2, 3}, tensor.Shape{2})

	got, err := n.Pow(a, 2.0)
	if err != nil {
		t.Fatalf("Pow failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{4, 9})
}

func TestMaximumMinimum(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 5}, tensor.Shape{2})
	b, _ := tensor.FromFloat64s([]float64{3, 2}, tensor.Shape{2})

	got, err := n.Maximum(a, b)
	if err != nil {
		t.Fatalf("Maximum failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{3, 5})

	got, err = n.Minimum(a, b)
	if err != nil {
		t.Fatalf("Minimum failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{1, 2})
}

func TestMaximumRejectsComplex(t *testing.T) {
	n := New()
	a, _ := tensor.FromComplex128s([]complex128{1i}, tensor.Shape{1})
	if _, err := n.Maximum(a, a); err == nil {
		t.Error("Maximum on complex should fail")
	}
}

func TestEqual(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})
	b, _ := tensor.FromFloat64s([]float64{1, 0, 3}, tensor.Shape{3})

	got, err := n.Equal(a, b)
	if err != nil {
		t.Fatalf("Equal failed: %v", err)
	}
	wantBools(t, got, []bool{true, false, true})
}

func TestEqualMixedDTypes(t *testing.T) {
	n := New()
	a, _ := tensor.FromInt64s([]int64{1, 2}, tensor.Shape{2})

	got, err := n.Equal(a, 2.0)
	if err != nil {
		t.Fatalf("Equal failed: %v", err)
	}
	wantBools(t, got, []bool{false, true})
}

func TestBinaryShapeMismatch(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})
	b, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})

	if _, err := n.Add(a, b); err == nil {
		t.Error("Add with incompatible shapes should fail")
	}
}

func TestBinaryOnSliceOperands(t *testing.T) {
	n := New()
	got, err := n.Add([]float64{1, 2}, []float64{10, 20})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2}, []float64{11, 22})
}
