package field

// Propagator names a context in which flag survival is evaluated. Membership
// is literal: a flag surviving arbitrary element-wise operations must list
// LinearOperations as well.
type Propagator uint8

const (
	// Resample propagates through interpolation onto new sample points.
	Resample Propagator = 1 << iota
	// Children propagates onto per-component sub-fields.
	Children
	// LinearOperations propagates through scaling and other linear maps.
	LinearOperations
	// AllOperations propagates through any element-wise combination.
	AllOperations
)

// Flag is an immutable descriptor of a property a field is known to have,
// such as divergence-freeness. Data-bound flags describe the values and
// follow them through resampling; structure-bound flags describe the sample
// layout and stay with it. A flag bound to neither survives no resample.
type Flag struct {
	Name           string
	DataBound      bool
	StructureBound bool
	Propagators    Propagator

	// Applicable restricts the flag to certain field shapes. Nil admits every
	// shape.
	Applicable func(rank, componentCount int) bool
}

// Propagates reports whether the flag survives the given context.
func (f Flag) Propagates(p Propagator) bool {
	return f.Propagators&p != 0
}

// IsApplicable reports whether the flag may be attached to a field of the
// given spatial rank and component count.
func (f Flag) IsApplicable(rank, componentCount int) bool {
	if f.Applicable == nil {
		return true
	}
	return f.Applicable(rank, componentCount)
}

func (f Flag) String() string {
	return f.Name
}

// vectorShaped admits vector fields only: one component per spatial
// dimension.
func vectorShaped(rank, componentCount int) bool {
	return componentCount == rank
}

// DivergenceFree marks a vector field whose divergence vanishes everywhere.
// The property belongs to the data: it survives resampling and linear
// operations, but not arbitrary combination.
var DivergenceFree = Flag{
	Name:        "divergence-free",
	DataBound:   true,
	Propagators: Resample | LinearOperations,
	Applicable:  vectorShaped,
}

// SamplePointsFlag marks a field whose values are its own sample locations.
// The property belongs to the layout, so under resampling it stays with the
// target rather than following the data.
var SamplePointsFlag = Flag{
	Name:           "sample-points",
	StructureBound: true,
	Propagators:    Resample,
	Applicable:     vectorShaped,
}

// dedupFlags drops duplicate names. The first occurrence wins.
func dedupFlags(flags []Flag) []Flag {
	if len(flags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(flags))
	out := make([]Flag, 0, len(flags))
	for _, f := range flags {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		out = append(out, f)
	}
	return out
}

// normalizeFlags is the one-time flag normalization at field construction:
// dedup, then fail on any flag inapplicable to the field shape.
func normalizeFlags(fieldName string, flags []Flag, rank, componentCount int) ([]Flag, error) {
	out := dedupFlags(flags)
	for _, f := range out {
		if !f.IsApplicable(rank, componentCount) {
			return nil, &InapplicableFlagError{
				Flag:       f.Name,
				Field:      fieldName,
				Rank:       rank,
				Components: componentCount,
			}
		}
	}
	return out, nil
}
