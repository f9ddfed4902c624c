package compound

// Lipinski Rule of Five thresholds.  A compound violates a rule when it
// exceeds the threshold; psa and ic50 play no role in drug-likeness.
const (
	LipinskiMaxMW   = 500.0
	LipinskiMaxLogP = 5.0
	LipinskiMaxHBD  = 5.0
	LipinskiMaxHBA  = 10.0
)

// ComputeLipinski returns a new table with the lipinski_violations and
// is_drug_like columns populated.  Rows missing any of mw, logp, hbd or hba
// are dropped, not imputed.  The input table is not modified.
//
// The transform is idempotent: on a table that already passed through it, no
// further rows are dropped and the derived columns recompute to the same
// values.
func ComputeLipinski(t Table) Table {
	out := Table{
		Compounds:   make([]Compound, 0, len(t.Compounds)),
		HasLipinski: true,
		HasPIC50:    t.HasPIC50,
	}
	for _, c := range t.Compounds {
		if IsMissing(c.MW) || IsMissing(c.LogP) || IsMissing(c.HBD) || IsMissing(c.HBA) {
			continue
		}
		violations := 0
		if c.MW > LipinskiMaxMW {
			violations++
		}
		if c.LogP > LipinskiMaxLogP {
			violations++
		}
		if c.HBD > LipinskiMaxHBD {
			violations++
		}
		if c.HBA > LipinskiMaxHBA {
			violations++
		}
		c.LipinskiViolations = violations
		c.IsDrugLike = violations == 0
		out.Compounds = append(out.Compounds, c)
	}
	return out
}
