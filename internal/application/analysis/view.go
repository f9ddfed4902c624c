package analysis

import (
	"math"
	"time"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
)

// JSON views of the domain types.  The domain layer uses NaN for missing
// values, which encoding/json cannot represent; views use nil pointers
// instead, so missing cells serialise as null.

func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// CompoundView is one table row as served to the frontend.
type CompoundView struct {
	ChemblID string `json:"chembl_id"`
	Name     string `json:"name"`
	Target   string `json:"target"`

	IC50 *float64 `json:"ic50"`
	MW   *float64 `json:"mw"`
	LogP *float64 `json:"logp"`
	HBD  *float64 `json:"hbd"`
	HBA  *float64 `json:"hba"`
	PSA  *float64 `json:"psa"`

	LipinskiViolations *int     `json:"lipinski_violations,omitempty"`
	IsDrugLike         *bool    `json:"is_drug_like,omitempty"`
	PIC50              *float64 `json:"pic50,omitempty"`
}

// NewCompoundViews converts every row of t.  Derived columns are emitted
// only when the corresponding transform has run on the table.
func NewCompoundViews(t compound.Table) []CompoundView {
	out := make([]CompoundView, 0, t.Len())
	for _, c := range t.Compounds {
		v := CompoundView{
			ChemblID: c.ChemblID,
			Name:     c.Name,
			Target:   c.Target,
			IC50:     fptr(c.IC50),
			MW:       fptr(c.MW),
			LogP:     fptr(c.LogP),
			HBD:      fptr(c.HBD),
			HBA:      fptr(c.HBA),
			PSA:      fptr(c.PSA),
		}
		if t.HasLipinski {
			violations := c.LipinskiViolations
			drugLike := c.IsDrugLike
			v.LipinskiViolations = &violations
			v.IsDrugLike = &drugLike
		}
		if t.HasPIC50 {
			v.PIC50 = fptr(c.PIC50)
		}
		out = append(out, v)
	}
	return out
}

// SummaryView is the dashboard header block.
type SummaryView struct {
	Total           int      `json:"total"`
	DrugLikeCount   int      `json:"drug_like_count"`
	DrugLikePercent float64  `json:"drug_like_percent"`
	UniqueTargets   int      `json:"unique_targets"`
	MeanPIC50       *float64 `json:"mean_pic50"`
}

// NewSummaryView converts a domain summary.
func NewSummaryView(s compound.Summary) SummaryView {
	return SummaryView{
		Total:           s.Total,
		DrugLikeCount:   s.DrugLikeCount,
		DrugLikePercent: s.DrugLikePercent,
		UniqueTargets:   s.UniqueTargets,
		MeanPIC50:       fptr(s.MeanPIC50),
	}
}

// RangeView is an inclusive numeric interval with both ends defined.
type RangeView struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// BoundsView carries the default slider ranges.  A nil range means the
// property has no defined values and its filter cannot be offered.
type BoundsView struct {
	MW    *RangeView `json:"mw"`
	LogP  *RangeView `json:"logp"`
	PIC50 *RangeView `json:"pic50"`
}

func boundsView(t compound.Table, p compound.Property) *RangeView {
	r, ok := compound.Bounds(t, p)
	if !ok {
		return nil
	}
	return &RangeView{Low: r.Low, High: r.High}
}

// NewBoundsView derives slider bounds from the unfiltered transformed table.
func NewBoundsView(t compound.Table) BoundsView {
	return BoundsView{
		MW:    boundsView(t, compound.PropMW),
		LogP:  boundsView(t, compound.PropLogP),
		PIC50: boundsView(t, compound.PropPIC50),
	}
}

// DatasetView describes one dataset session.
type DatasetView struct {
	ID        string      `json:"id"`
	Source    string      `json:"source"`
	CreatedAt time.Time   `json:"created_at"`
	RowCount  int         `json:"row_count"`
	Targets   []string    `json:"targets"`
	Summary   SummaryView `json:"summary"`
	Bounds    BoundsView  `json:"bounds"`
}

// NewDatasetView builds the session description served by the dataset
// detail endpoint.
func NewDatasetView(s *Session) *DatasetView {
	return &DatasetView{
		ID:        s.ID,
		Source:    s.Source,
		CreatedAt: s.CreatedAt,
		RowCount:  s.Table.Len(),
		Targets:   s.Table.Targets(),
		Summary:   NewSummaryView(compound.Summarize(s.Table)),
		Bounds:    NewBoundsView(s.Table),
	}
}

// QueryResult is the filtered table plus its own summary.
type QueryResult struct {
	Matched int            `json:"matched"`
	Rows    []CompoundView `json:"rows"`
	Summary SummaryView    `json:"summary"`
}
