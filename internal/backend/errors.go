package backend

import "fmt"

// NoBackendFoundError reports that no registered engine accepted a dispatch's
// operands. It carries the operand values and the registry's names so the
// message pinpoints both sides of the mismatch.
type NoBackendFoundError struct {
	Values   []any
	Backends []string
}

func (e *NoBackendFoundError) Error() string {
	return fmt.Sprintf("no backend found for values %v; registered backends are %v", e.Values, e.Backends)
}

// DuplicateBackendError reports a Register call whose backend name collides
// with an existing entry. The registry is left unchanged.
type DuplicateBackendError struct {
	Name string
}

func (e *DuplicateBackendError) Error() string {
	return fmt.Sprintf("backend %q is already registered", e.Name)
}
