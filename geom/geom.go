// Copyright 2026 Eddy Simulation Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package geom provides the spatial regions fields carry as bounds.
package geom

import (
	"github.com/eddy-sim/eddy/internal/geom"
)

// Geometry is an opaque spatial region. A nil Geometry on a field is the
// legal unbounded state.
type Geometry = geom.Geometry

// Box is an axis-aligned region spanning [Lower[i], Upper[i]] along each
// axis.
type Box = geom.Box

// NewBox returns the box spanning lower to upper. The corners must have the
// same rank and upper may not fall below lower on any axis.
//
// Example:
//
//	domain, err := geom.NewBox([]float64{0, 0}, []float64{100, 50})
func NewBox(lower, upper []float64) (*Box, error) {
	return geom.NewBox(lower, upper)
}

// UnitBox returns the box spanning 0 to 1 along every axis.
func UnitBox(rank int) *Box {
	return geom.UnitBox(rank)
}
