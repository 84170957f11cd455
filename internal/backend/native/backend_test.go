package native

import (
	"errors"
	"testing"

	"github.com/eddy-sim/eddy/internal/tensor"
)

// Engine Surface Tests

func TestName(t *testing.T) {
	if got := New().Name(); got != "native" {
		t.Errorf("Name is %q, want %q", got, "native")
	}
}

func TestIsApplicable(t *testing.T) {
	n := New()
	d, _ := tensor.FromFloat64s([]float64{1}, tensor.Shape{1})

	cases := []struct {
		name   string
		values []any
		want   bool
	}{
		{"numbers", []any{1.5, 3, int64(7), true, 2 + 0i}, true},
		{"nil operand", []any{nil}, true},
		{"dense tensor", []any{d}, true},
		{"flat slice", []any{[]float64{1, 2}}, true},
		{"nested slice", []any{[][]int{{1}, {2}}}, true},
		{"mixed any slice", []any{[]any{1.0, []int{2}}}, true},
		{"string", []any{"hello"}, false},
		{"slice with string", []any{[]any{1.0, "x"}}, false},
		{"struct", []any{struct{}{}}, false},
	}
	for _, tc := range cases {
		if got := n.IsApplicable(tc.values); got != tc.want {
			t.Errorf("IsApplicable(%s) is %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsTensor(t *testing.T) {
	n := New()
	d, _ := tensor.FromFloat64s([]float64{1}, tensor.Shape{1})

	if !n.IsTensor(d) {
		t.Error("dense value should be a tensor")
	}
	if n.IsTensor(1.5) {
		t.Error("a plain number is not a tensor")
	}
	if n.IsTensor([]float64{1}) {
		t.Error("a plain slice is not a tensor")
	}
}

func TestAsTensor(t *testing.T) {
	n := New()
	d, _ := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2})

	got, err := n.AsTensor(d)
	if err != nil {
		t.Fatalf("AsTensor failed: %v", err)
	}
	if got != d {
		t.Error("AsTensor should pass a dense tensor through unchanged")
	}

	got, err = n.AsTensor([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("AsTensor failed: %v", err)
	}
	wantFloats(t, got, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
}

func TestAsTensorKeepsSparse(t *testing.T) {
	n := New()
	idx, _ := tensor.FromInt64s([]int64{0, 0}, tensor.Shape{1, 2})
	vals, _ := tensor.FromFloat64s([]float64{1}, tensor.Shape{1})
	s, _ := tensor.NewSparse(idx, vals, tensor.Shape{2, 2})

	got, err := n.AsTensor(s)
	if err != nil {
		t.Fatalf("AsTensor failed: %v", err)
	}
	if got != s {
		t.Error("AsTensor should pass a sparse tensor through unchanged")
	}
}

func TestDType(t *testing.T) {
	n := New()

	dt, err := n.DType([]float64{1})
	if err != nil {
		t.Fatalf("DType failed: %v", err)
	}
	if dt != tensor.Float64 {
		t.Errorf("dtype is %s, want float64", dt)
	}

	dt, err = n.DType(3)
	if err != nil {
		t.Fatalf("DType failed: %v", err)
	}
	if dt != tensor.Int64 {
		t.Errorf("dtype is %s, want int64", dt)
	}

	dt, err = n.DType(true)
	if err != nil {
		t.Fatalf("DType failed: %v", err)
	}
	if dt != tensor.Bool {
		t.Errorf("dtype is %s, want bool", dt)
	}
}

func TestShape(t *testing.T) {
	n := New()
	got, err := n.Shape([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("Shape failed: %v", err)
	}
	wantInts(t, got, tensor.Shape{2}, []int64{2, 3})
}

func TestStaticShape(t *testing.T) {
	n := New()

	dims, err := n.StaticShape([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("StaticShape failed: %v", err)
	}
	if len(dims) != 2 || dims[0] != 2 || dims[1] != 3 {
		t.Errorf("dims are %v, want [2 3]", dims)
	}

	dims, err = n.StaticShape(1.5)
	if err != nil {
		t.Fatalf("StaticShape failed: %v", err)
	}
	if len(dims) != 0 {
		t.Errorf("scalar dims are %v, want []", dims)
	}
}

func TestWhileLoop(t *testing.T) {
	n := New()
	got, err := n.WhileLoop(
		func(vars []any) (bool, error) { return vars[0].(int) < 5, nil },
		func(vars []any) ([]any, error) { return []any{vars[0].(int) + 1}, nil },
		[]any{0},
		0,
	)
	if err != nil {
		t.Fatalf("WhileLoop failed: %v", err)
	}
	if got[0].(int) != 5 {
		t.Errorf("loop variable is %v, want 5", got[0])
	}
}

func TestWhileLoopMaximumIterations(t *testing.T) {
	n := New()
	got, err := n.WhileLoop(
		func(vars []any) (bool, error) { return true, nil },
		func(vars []any) ([]any, error) { return []any{vars[0].(int) + 1}, nil },
		[]any{0},
		3,
	)
	if err != nil {
		t.Fatalf("WhileLoop failed: %v", err)
	}
	if got[0].(int) != 3 {
		t.Errorf("loop variable is %v, want 3", got[0])
	}
}

func TestWhileLoopDoesNotMutateInput(t *testing.T) {
	n := New()
	loopVars := []any{0}
	_, err := n.WhileLoop(
		func(vars []any) (bool, error) { return vars[0].(int) < 2, nil },
		func(vars []any) ([]any, error) { return []any{vars[0].(int) + 1}, nil },
		loopVars,
		0,
	)
	if err != nil {
		t.Fatalf("WhileLoop failed: %v", err)
	}
	if loopVars[0].(int) != 0 {
		t.Errorf("caller's loop variables changed to %v", loopVars[0])
	}
}

func TestWhileLoopPropagatesErrors(t *testing.T) {
	n := New()
	boom := errors.New("boom")
	_, err := n.WhileLoop(
		func(vars []any) (bool, error) { return false, boom },
		func(vars []any) ([]any, error) { return vars, nil },
		[]any{0},
		0,
	)
	if !errors.Is(err, boom) {
		t.Errorf("error is %v, want wrapped boom", err)
	}
}

func TestWithCustomGradient(t *testing.T) {
	n := New()
	got, err := n.WithCustomGradient(
		func(inputs []any) (any, error) { return inputs[0].(float64) * 2, nil },
		[]any{21.0},
		nil, 0, 0, "double",
	)
	if err != nil {
		t.Fatalf("WithCustomGradient failed: %v", err)
	}
	if got.(float64) != 42 {
		t.Errorf("result is %v, want 42", got)
	}
}

func TestWithCustomGradientPropagatesErrors(t *testing.T) {
	n := New()
	boom := errors.New("boom")
	_, err := n.WithCustomGradient(
		func(inputs []any) (any, error) { return nil, boom },
		nil, nil, 0, 0, "fail",
	)
	if !errors.Is(err, boom) {
		t.Errorf("error is %v, want wrapped boom", err)
	}
}
