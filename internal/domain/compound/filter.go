package compound

// Range is an inclusive numeric interval.  A missing value is never inside
// any range, including ranges with NaN bounds.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether v lies in [Low, High].  NaN values (and NaN
// bounds) always fail the containment check.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Constraints is the full set of user-chosen filter constraints.  The zero
// value allows every row: an empty target list means all targets, a nil
// range leaves that property unconstrained.
type Constraints struct {
	// Targets is an allow-list matched by exact string equality.
	Targets []string `json:"targets,omitempty"`

	// DrugLikeOnly retains only rows with is_drug_like == true.
	DrugLikeOnly bool `json:"drug_like_only,omitempty"`

	// Inclusive per-property ranges.
	MW    *Range `json:"mw,omitempty"`
	LogP  *Range `json:"logp,omitempty"`
	PIC50 *Range `json:"pic50,omitempty"`
}

// ApplyFilters returns the subset of t satisfying every active constraint
// (logical AND).  The input table is not modified, so the unfiltered table
// stays available for deriving default range bounds.  Applying the same
// constraints twice yields the same table; widening any constraint never
// shrinks the result.
//
// Target and drug-like membership are checked before the numeric ranges
// since they reduce row count cheaply; the AND of independent predicates is
// order-insensitive.
func ApplyFilters(t Table, c Constraints) Table {
	var allowed map[string]struct{}
	if len(c.Targets) > 0 {
		allowed = make(map[string]struct{}, len(c.Targets))
		for _, target := range c.Targets {
			allowed[target] = struct{}{}
		}
	}

	out := Table{
		Compounds:   make([]Compound, 0, len(t.Compounds)),
		HasLipinski: t.HasLipinski,
		HasPIC50:    t.HasPIC50,
	}
	for _, row := range t.Compounds {
		if allowed != nil {
			if _, ok := allowed[row.Target]; !ok {
				continue
			}
		}
		if c.DrugLikeOnly && !row.IsDrugLike {
			continue
		}
		if c.MW != nil && !c.MW.Contains(row.MW) {
			continue
		}
		if c.LogP != nil && !c.LogP.Contains(row.LogP) {
			continue
		}
		if c.PIC50 != nil && !c.PIC50.Contains(row.PIC50) {
			continue
		}
		out.Compounds = append(out.Compounds, row)
	}
	return out
}
