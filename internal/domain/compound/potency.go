package compound

import "math"

// nanomolarToMolar converts IC50 input units (nM) to molar before the log
// transform.
const nanomolarToMolar = 1e-9

// ComputePIC50 returns a new table with the pIC50 column populated as
// -log10(ic50 · 1e-9).  Any row whose converted IC50 is missing or
// non-positive gets a missing pIC50 rather than an error; the ic50 column
// itself is left untouched.  The input table is not modified.
//
// The transform is idempotent: rerunning it recomputes identical values from
// the unchanged ic50 column.
func ComputePIC50(t Table) Table {
	out := t.Clone()
	out.HasPIC50 = true
	for i := range out.Compounds {
		c := &out.Compounds[i]
		molar := c.IC50 * nanomolarToMolar
		if IsMissing(c.IC50) || molar <= 0 {
			c.PIC50 = Missing()
			continue
		}
		c.PIC50 = -math.Log10(molar)
	}
	return out
}
