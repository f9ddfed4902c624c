package compound

// Summary holds the dataset-level scalars shown in the dashboard header.
type Summary struct {
	Total           int
	DrugLikeCount   int
	DrugLikePercent float64
	UniqueTargets   int

	// MeanPIC50 ignores missing values and is itself missing (NaN) when no
	// row has a defined pIC50.
	MeanPIC50 float64
}

// Summarize computes the dataset-level scalars over t, which may already be
// filtered.  An empty table yields zero counts, a 0% drug-like share and a
// missing mean; it never divides by zero.
func Summarize(t Table) Summary {
	s := Summary{
		Total:     t.Len(),
		MeanPIC50: Missing(),
	}

	var pic50Sum float64
	var pic50N int
	for _, c := range t.Compounds {
		if c.IsDrugLike {
			s.DrugLikeCount++
		}
		if !IsMissing(c.PIC50) {
			pic50Sum += c.PIC50
			pic50N++
		}
	}

	if s.Total > 0 {
		s.DrugLikePercent = float64(s.DrugLikeCount) / float64(s.Total) * 100
	}
	if pic50N > 0 {
		s.MeanPIC50 = pic50Sum / float64(pic50N)
	}
	s.UniqueTargets = len(t.Targets())
	return s
}
