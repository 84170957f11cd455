package native

import (
	"fmt"

	"github.com/eddy-sim/eddy/internal/backend"
)

// WhileLoop repeatedly applies body while cond holds, returning the final
// loop variables. A positive maximumIterations bounds the loop; zero or
// negative leaves it unbounded.
func (n *Backend) WhileLoop(cond backend.Predicate, body backend.Transform, loopVars []any, maximumIterations int) ([]any, error) {
	vars := append([]any(nil), loopVars...)
	for i := 0; maximumIterations <= 0 || i < maximumIterations; i++ {
		ok, err := cond(vars)
		if err != nil {
			return nil, opErr("while_loop", err)
		}
		if !ok {
			return vars, nil
		}
		if vars, err = body(vars); err != nil {
			return nil, opErr("while_loop", err)
		}
		if vars == nil {
			return nil, fmt.Errorf("while_loop: body returned no loop variables")
		}
	}
	return vars, nil
}

// WithCustomGradient evaluates the wrapped function directly. This engine
// does not differentiate, so the gradient and index arguments only matter to
// engines that do.
func (n *Backend) WithCustomGradient(function backend.Function, inputs []any, gradient backend.Gradient, inputIndex, outputIndex int, nameBase string) (any, error) {
	out, err := function(inputs)
	if err != nil {
		return nil, opErr("with_custom_gradient", err)
	}
	return out, nil
}
