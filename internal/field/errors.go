package field

import "fmt"

// IncompatibleFieldsError reports two fields whose sample structures cannot
// be combined or resampled onto one another.
type IncompatibleFieldsError struct {
	A, B   string
	Reason string
}

func (e *IncompatibleFieldsError) Error() string {
	return fmt.Sprintf("fields %q and %q are incompatible: %s", e.A, e.B, e.Reason)
}

// InapplicableFlagError reports a flag that does not apply to a field's
// shape. Construction fails rather than dropping the flag.
type InapplicableFlagError struct {
	Flag       string
	Field      string
	Rank       int
	Components int
}

func (e *InapplicableFlagError) Error() string {
	return fmt.Sprintf("flag %q is not applicable to field %q (rank %d, %d components)",
		e.Flag, e.Field, e.Rank, e.Components)
}
