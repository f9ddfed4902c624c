// Package compound provides the core domain model for compound tables in
// ChemLens-Insight: the typed row record, the immutable table value, the
// derived-property transforms (Lipinski violations, pIC50), the constraint
// filter engine, and dataset-level aggregation.
//
// Missing numeric values are represented as NaN throughout this package.
// Transforms and aggregates never raise on a missing value; they either drop
// the row (Lipinski inputs) or carry the value as missing (pIC50).
package compound

import "math"

// Compound is one row of a compound table.  Numeric fields use NaN for
// missing values; Name may be empty.  The derived fields are meaningful only
// when the owning Table's HasLipinski / HasPIC50 flags are set.
type Compound struct {
	ChemblID string
	Name     string
	Target   string

	// Measured / input properties.
	IC50 float64 // nanomolar
	MW   float64 // daltons
	LogP float64
	HBD  float64
	HBA  float64
	PSA  float64 // Å²

	// Derived by ComputeLipinski.
	LipinskiViolations int
	IsDrugLike         bool

	// Derived by ComputePIC50; NaN when IC50 is missing or non-positive.
	PIC50 float64
}

// RequiredColumns is the exact header set a raw input table must provide,
// in canonical order.
var RequiredColumns = []string{
	"chembl_id", "name", "target", "ic50", "mw", "logp", "hbd", "hba", "psa",
}

// Missing is the canonical missing-value marker.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Table is an immutable-by-convention compound table.  Every transform and
// filter returns a new Table value and leaves its input untouched; the
// Compounds slice of a Table must not be mutated after construction.
type Table struct {
	Compounds []Compound

	// HasLipinski records that ComputeLipinski has run, i.e. rows with
	// missing Lipinski inputs are gone and the derived columns are populated.
	HasLipinski bool

	// HasPIC50 records that ComputePIC50 has run.
	HasPIC50 bool
}

// NewTable wraps rows in a Table with no derived columns computed.
func NewTable(rows []Compound) Table {
	return Table{Compounds: rows}
}

// Len returns the row count.
func (t Table) Len() int { return len(t.Compounds) }

// Clone returns a deep copy of the table.  Derived-column flags are carried
// over unchanged.
func (t Table) Clone() Table {
	rows := make([]Compound, len(t.Compounds))
	copy(rows, t.Compounds)
	return Table{Compounds: rows, HasLipinski: t.HasLipinski, HasPIC50: t.HasPIC50}
}

// Targets returns the distinct target labels in first-appearance order.
func (t Table) Targets() []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, c := range t.Compounds {
		if _, ok := seen[c.Target]; ok {
			continue
		}
		seen[c.Target] = struct{}{}
		out = append(out, c.Target)
	}
	return out
}
