package field

// PropagateResample computes the flags surviving a resample of source onto a
// new layout. Data-bound source flags follow the data; structure-bound flags
// of the target stay with its layout; the result is their union. Both halves
// are checked for applicability at the resulting rank with the source's
// component count.
func PropagateResample(source Field, structureFlags []Flag, resultingRank int) []Flag {
	var out []Flag
	for _, f := range source.Flags() {
		if f.DataBound && f.Propagates(Resample) && f.IsApplicable(resultingRank, source.ComponentCount()) {
			out = append(out, f)
		}
	}
	for _, f := range structureFlags {
		if f.StructureBound && f.Propagates(Resample) && f.IsApplicable(resultingRank, source.ComponentCount()) {
			out = append(out, f)
		}
	}
	return out
}

// PropagateChildren computes the flags a per-component child field inherits
// when a field is split by components.
func PropagateChildren(flags []Flag, childRank, childComponentCount int) []Flag {
	var out []Flag
	for _, f := range flags {
		if f.Propagates(Children) && f.IsApplicable(childRank, childComponentCount) {
			out = append(out, f)
		}
	}
	return out
}

// PropagateOperation computes the data-bound flags surviving an element-wise
// combination. A linear operation keeps flags restricted to LinearOperations;
// anything else requires AllOperations.
func PropagateOperation(flags []Flag, linear bool, resultRank, resultComponentCount int) []Flag {
	p := AllOperations
	if linear {
		p = LinearOperations
	}
	var out []Flag
	for _, f := range flags {
		if f.DataBound && f.Propagates(p) && f.IsApplicable(resultRank, resultComponentCount) {
			out = append(out, f)
		}
	}
	return out
}
