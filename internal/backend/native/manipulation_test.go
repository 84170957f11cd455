package native

import (
	"testing"

	"github.com/eddy-sim/eddy/internal/backend"
	"github.com/eddy-sim/eddy/internal/tensor"
)

// Manipulation Tests

func TestStack(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})
	b, _ := tensor.FromFloat64s([]float64{3, 4}, tensor.Shape{2})

	got, err := n.Stack([]any{a, b}, 0)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})

	got, err = n.Stack([]any{a, b}, 1)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{1, 3, 2, 4})
}

func TestStackLastAxis(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})
	b, _ := tensor.FromFloat64s([]float64{3, 4}, tensor.Shape{2})

	got, err := n.Stack([]any{a, b}, -1)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{1, 3, 2, 4})
}

func TestStackShapeMismatch(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})
	b, _ := tensor.FromFloat64s([]float64{3, 4, 5}, tensor.Shape{3})

	if _, err := n.Stack([]any{a, b}, 0); err == nil {
		t.Error("Stack with mismatched shapes should fail")
	}
}

func TestConcat(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b, _ := tensor.FromFloat64s([]float64{5, 6}, tensor.Shape{1, 2})

	got, err := n.Concat([]any{a, b}, 0)
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{3, 2}, []float64{1, 2, 3, 4, 5, 6})
}

func TestConcatLastAxis(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2, 1})
	b, _ := tensor.FromFloat64s([]float64{3, 4}, tensor.Shape{2, 1})

	got, err := n.Concat([]any{a, b}, -1)
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{1, 3, 2, 4})
}

func TestUnstack(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})

	parts, err := n.Unstack(a, 0)
	if err != nil {
		t.Fatalf("Unstack failed: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("Unstack returned %d parts, want 3", len(parts))
	}
	wantFloats(t, parts[0], tensor.Shape{2}, []float64{1, 2})
	wantFloats(t, parts[2], tensor.Shape{2}, []float64{5, 6})

	parts, err = n.Unstack(a, -1)
	if err != nil {
		t.Fatalf("Unstack failed: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("Unstack returned %d parts, want 2", len(parts))
	}
	wantFloats(t, parts[0], tensor.Shape{3}, []float64{1, 3, 5})
}

func TestStackUnstackRoundTrip(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})

	parts, err := n.Unstack(a, 1)
	if err != nil {
		t.Fatalf("Unstack failed: %v", err)
	}
	back, err := n.Stack(parts, 1)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	wantFloats(t, back, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
}

func TestTile(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})

	got, err := n.Tile(a, []int{3})
	if err != nil {
		t.Fatalf("Tile failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{6}, []float64{1, 2, 1, 2, 1, 2})
}

func TestTileAddsLeadingAxes(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})

	got, err := n.Tile(a, []int{2, 1})
	if err != nil {
		t.Fatalf("Tile failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{1, 2, 1, 2})
}

func TestPadConstant(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})

	got, err := n.Pad(a, [][2]int{{1, 2}}, backend.PadConstant, 9.0)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{5}, []float64{9, 1, 2, 9, 9})
}

func TestPadConstantDefaultsToZero(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1}, tensor.Shape{1})

	got, err := n.Pad(a, [][2]int{{1, 1}}, backend.PadConstant, nil)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{3}, []float64{0, 1, 0})
}

func TestPadReplicate(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})

	got, err := n.Pad(a, [][2]int{{2, 1}}, backend.PadReplicate, nil)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{6}, []float64{1, 1, 1, 2, 3, 3})
}

func TestPadCircular(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})

	got, err := n.Pad(a, [][2]int{{1, 1}}, backend.PadCircular, nil)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{5}, []float64{3, 1, 2, 3, 1})
}

func TestPadSymmetric(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})

	got, err := n.Pad(a, [][2]int{{2, 2}}, backend.PadSymmetric, nil)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{7}, []float64{2, 1, 1, 2, 3, 3, 2})
}

func TestPadTwoAxes(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})

	got, err := n.Pad(a, [][2]int{{0, 0}, {1, 0}}, backend.PadConstant, 0.0)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 3}, []float64{0, 1, 2, 0, 3, 4})
}

func TestReshapeInferredDim(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{6})

	got, err := n.Reshape(a, []int{2, -1})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	if _, err := n.Reshape(a, []int{-1, -1}); err == nil {
		t.Error("Reshape with two inferred dims should fail")
	}
	if _, err := n.Reshape(a, []int{4, -1}); err == nil {
		t.Error("Reshape with non-dividing inferred dim should fail")
	}
}

func TestExpandDims(t *testing.T) {
	n := New()
	a, _ := tensor.FromFloat64s([]float64{1, 2, 3}, tensor.Shape{3})

	got, err := n.ExpandDims(a, 0, 1)
	if err != nil {
		t.Fatalf("ExpandDims failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{1, 3}, []float64{1, 2, 3})

	got, err = n.ExpandDims(a, -1, 2)
	if err != nil {
		t.Fatalf("ExpandDims failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{3, 1, 1}, []float64{1, 2, 3})
}

func TestRangeInts(t *testing.T) {
	n := New()

	got, err := n.Range(2, 8, 2)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	wantInts(t, got, tensor.Shape{3}, []int64{2, 4, 6})
}

func TestRangeNilLimit(t *testing.T) {
	n := New()

	got, err := n.Range(4, nil, 1)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	wantInts(t, got, tensor.Shape{4}, []int64{0, 1, 2, 3})
}

func TestRangeFloats(t *testing.T) {
	n := New()

	got, err := n.Range(0.0, 1.0, 0.25)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{4}, []float64{0, 0.25, 0.5, 0.75})
}

func TestRangeBackwards(t *testing.T) {
	n := New()

	got, err := n.Range(3, 0, -1)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	wantInts(t, got, tensor.Shape{3}, []int64{3, 2, 1})
}

func TestRandomUniform(t *testing.T) {
	n := New()

	got, err := n.RandomUniform([]int{4, 4})
	if err != nil {
		t.Fatalf("RandomUniform failed: %v", err)
	}
	d := mustDense(t, got)
	if !d.Shape().Equal(tensor.Shape{4, 4}) {
		t.Fatalf("shape = %v, want {4, 4}", d.Shape())
	}
	for i, v := range d.AsFloat64() {
		if v < 0 || v >= 1 {
			t.Errorf("element %d = %v outside [0, 1)", i, v)
		}
	}
}
