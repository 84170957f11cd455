package backend

// Default is the process-wide dispatcher. Engine packages register into it
// from their init, so a blank import is enough to make an engine available:
//
//	import _ "github.com/eddy-sim/eddy/backend/native"
var Default = NewDispatcher()
