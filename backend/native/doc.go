// Copyright 2026 Eddy Simulation Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package native provides the pure Go reference engine.
//
// # Overview
//
// The native engine implements the full backend capability surface over the
// tensor package's dense and sparse values:
//   - Pure Go implementation (no CGO)
//   - Float64, int64, bool and complex128 element types
//   - NumPy-compatible broadcasting
//   - FFT, linear resampling, convolution and scatter/gather
//
// # Basic Usage
//
// Importing the package registers the engine with the process-wide
// dispatcher, so a blank import is enough:
//
//	import (
//	    "github.com/eddy-sim/eddy/backend"
//	    _ "github.com/eddy-sim/eddy/backend/native"
//	)
//
//	func main() {
//	    sum, err := backend.Default.Add([]float64{1, 2}, []float64{3, 4})
//	    ...
//	}
//
// Construct the engine directly with New to compute without dispatch or to
// register it into a private Dispatcher.
//
// # Thread Safety
//
// The engine is stateless and safe for concurrent use.
package native
