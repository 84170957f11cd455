// Copyright 2026 Eddy Simulation Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/eddy-sim/eddy/tensor"
)

// TestCreationFunctions verifies the re-exported constructors build usable
// tensors.
func TestCreationFunctions(t *testing.T) {
	tests := []struct {
		name  string
		fn    func() (*tensor.Dense, error)
		dtype tensor.DataType
	}{
		{
			name: "NewDense",
			fn: func() (*tensor.Dense, error) {
				return tensor.NewDense(tensor.Shape{2, 3}, tensor.Float64)
			},
			dtype: tensor.Float64,
		},
		{
			name: "FromFloat64s",
			fn: func() (*tensor.Dense, error) {
				return tensor.FromFloat64s([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
			},
			dtype: tensor.Float64,
		},
		{
			name: "FromInt64s",
			fn: func() (*tensor.Dense, error) {
				return tensor.FromInt64s([]int64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
			},
			dtype: tensor.Int64,
		},
		{
			name: "FromBools",
			fn: func() (*tensor.Dense, error) {
				return tensor.FromBools(make([]bool, 6), tensor.Shape{2, 3})
			},
			dtype: tensor.Bool,
		},
		{
			name: "FromComplex128s",
			fn: func() (*tensor.Dense, error) {
				return tensor.FromComplex128s(make([]complex128, 6), tensor.Shape{2, 3})
			},
			dtype: tensor.Complex128,
		},
		{
			name: "FromAny",
			fn: func() (*tensor.Dense, error) {
				return tensor.FromAny([][]float64{{1, 2, 3}, {4, 5, 6}})
			},
			dtype: tensor.Float64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.fn()
			if err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}
			if !d.Shape().Equal(tensor.Shape{2, 3}) {
				t.Errorf("Shape() = %v, want [2 3]", d.Shape())
			}
			if d.DType() != tt.dtype {
				t.Errorf("DType() = %v, want %v", d.DType(), tt.dtype)
			}
		})
	}
}

// TestDataTypeConstants verifies all data type constants are accessible.
func TestDataTypeConstants(t *testing.T) {
	dtypes := []struct {
		name  string
		dtype tensor.DataType
	}{
		{"Float64", tensor.Float64},
		{"Int64", tensor.Int64},
		{"Bool", tensor.Bool},
		{"Complex128", tensor.Complex128},
	}

	for _, dt := range dtypes {
		t.Run(dt.name, func(t *testing.T) {
			if str := dt.dtype.String(); str == "" || str == "unknown" {
				t.Errorf("DataType.String() = %q, want a known type name", str)
			}
			if size := dt.dtype.Size(); size <= 0 {
				t.Errorf("DataType.Size() = %d, want > 0", size)
			}
		})
	}
}

// TestShapeAPI verifies the Shape alias exposes the expected API.
func TestShapeAPI(t *testing.T) {
	shape := tensor.Shape{2, 3, 4}

	if n := shape.NumElements(); n != 24 {
		t.Errorf("NumElements() = %d, want 24", n)
	}
	if !shape.Equal(tensor.Shape{2, 3, 4}) {
		t.Error("Equal() = false, want true for identical shapes")
	}

	clone := shape.Clone()
	clone[0] = 999
	if shape[0] == 999 {
		t.Error("Clone() didn't create an independent copy")
	}
}

// TestBroadcastShapes verifies the re-exported broadcasting rules.
func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    tensor.Shape
		want    tensor.Shape
		wantErr bool
	}{
		{name: "same shape", a: tensor.Shape{2, 3}, b: tensor.Shape{2, 3}, want: tensor.Shape{2, 3}},
		{name: "scalar against matrix", a: tensor.Shape{2, 3}, b: tensor.Shape{}, want: tensor.Shape{2, 3}},
		{name: "expand singleton", a: tensor.Shape{3, 1}, b: tensor.Shape{3, 4}, want: tensor.Shape{3, 4}},
		{name: "incompatible", a: tensor.Shape{2}, b: tensor.Shape{3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tensor.BroadcastShapes(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BroadcastShapes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("BroadcastShapes() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSparseRoundTrip verifies the sparse re-exports.
func TestSparseRoundTrip(t *testing.T) {
	indices, err := tensor.FromInt64s([]int64{0, 0, 1, 1}, tensor.Shape{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	values, err := tensor.FromFloat64s([]float64{2, 3}, tensor.Shape{2})
	if err != nil {
		t.Fatal(err)
	}

	s, err := tensor.NewSparse(indices, values, tensor.Shape{2, 2})
	if err != nil {
		t.Fatalf("NewSparse failed: %v", err)
	}
	if s.NNZ() != 2 {
		t.Errorf("NNZ() = %d, want 2", s.NNZ())
	}

	d, err := s.Dense()
	if err != nil {
		t.Fatalf("Dense failed: %v", err)
	}
	want := []float64{2, 0, 0, 3}
	for i, v := range d.AsFloat64() {
		if v != want[i] {
			t.Errorf("dense[%d] = %v, want %v", i, v, want[i])
		}
	}
}
