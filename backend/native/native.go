// Copyright 2026 Eddy Simulation Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package native

import (
	"github.com/eddy-sim/eddy/backend"
	internalnative "github.com/eddy-sim/eddy/internal/backend/native"
)

// Backend is the pure Go reference engine.
type Backend = internalnative.Backend

// Compile-time check that Backend implements backend.Backend.
var _ backend.Backend = (*Backend)(nil)

func init() {
	// Self-register with the process-wide dispatcher. A duplicate name means
	// the engine is already active, which is fine.
	_ = backend.Default.Register(New())
}

// New creates a new native engine.
//
// Example:
//
//	import (
//	    "github.com/eddy-sim/eddy/backend"
//	    "github.com/eddy-sim/eddy/backend/native"
//	)
//
//	func main() {
//	    d := backend.NewDispatcher()
//	    _ = d.Register(native.New())
//	}
func New() *Backend {
	return internalnative.New()
}
