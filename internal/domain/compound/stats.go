package compound

import (
	"math"
	"sort"

	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// Property names a numeric column of the compound table, using the input
// schema spelling plus the derived "pIC50".
type Property string

const (
	PropIC50  Property = "ic50"
	PropMW    Property = "mw"
	PropLogP  Property = "logp"
	PropHBD   Property = "hbd"
	PropHBA   Property = "hba"
	PropPSA   Property = "psa"
	PropPIC50 Property = "pIC50"
)

// CorrelationProperties is the canonical column order for the correlation
// matrix and the property charts: the five measured descriptors plus pIC50.
var CorrelationProperties = []Property{PropMW, PropLogP, PropHBD, PropHBA, PropPSA, PropPIC50}

// Valid reports whether p names a known numeric property.
func (p Property) Valid() bool {
	switch p {
	case PropIC50, PropMW, PropLogP, PropHBD, PropHBA, PropPSA, PropPIC50:
		return true
	}
	return false
}

// ParseProperty parses a property name, accepting the lowercase alias
// "pic50" for the derived column.
func ParseProperty(s string) (Property, error) {
	if s == "pic50" {
		return PropPIC50, nil
	}
	p := Property(s)
	if !p.Valid() {
		return "", errors.Validation("unknown property").WithDetail("property=" + s)
	}
	return p, nil
}

// Value extracts the property value from a compound row.
func (p Property) Value(c Compound) float64 {
	switch p {
	case PropIC50:
		return c.IC50
	case PropMW:
		return c.MW
	case PropLogP:
		return c.LogP
	case PropHBD:
		return c.HBD
	case PropHBA:
		return c.HBA
	case PropPSA:
		return c.PSA
	case PropPIC50:
		return c.PIC50
	}
	return Missing()
}

// Values returns the defined (non-missing) values of p across t, in row order.
func Values(t Table, p Property) []float64 {
	out := make([]float64, 0, t.Len())
	for _, c := range t.Compounds {
		if v := p.Value(c); !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// DropMissing returns the rows of t where p is defined.  Derived-column
// flags carry over.
func DropMissing(t Table, p Property) Table {
	out := Table{
		Compounds:   make([]Compound, 0, t.Len()),
		HasLipinski: t.HasLipinski,
		HasPIC50:    t.HasPIC50,
	}
	for _, c := range t.Compounds {
		if IsMissing(p.Value(c)) {
			continue
		}
		out.Compounds = append(out.Compounds, c)
	}
	return out
}

// Bounds returns the inclusive [min, max] of the defined values of p.
// ok is false when every value is missing, in which case no range filter for
// p can be offered.  Bounds must always be computed on the unfiltered
// (but transformed) table so that narrowing one filter never silently
// shrinks the legal range of another.
func Bounds(t Table, p Property) (r Range, ok bool) {
	vals := Values(t, p)
	if len(vals) == 0 {
		return Range{Low: Missing(), High: Missing()}, false
	}
	r = Range{Low: vals[0], High: vals[0]}
	for _, v := range vals[1:] {
		if v < r.Low {
			r.Low = v
		}
		if v > r.High {
			r.High = v
		}
	}
	return r, true
}

// Stats is a per-property descriptive summary in the shape of a pandas
// describe() row.
type Stats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes descriptive statistics for p over t, ignoring missing
// values.  With no defined values all statistics are missing and Count is 0.
func Describe(t Table, p Property) Stats {
	vals := Values(t, p)
	s := Stats{
		Count: len(vals),
		Mean:  Missing(), Std: Missing(),
		Min: Missing(), Q1: Missing(), Median: Missing(), Q3: Missing(), Max: Missing(),
	}
	if len(vals) == 0 {
		return s
	}

	var sum float64
	for _, v := range vals {
		sum += v
	}
	s.Mean = sum / float64(len(vals))

	if len(vals) > 1 {
		var ss float64
		for _, v := range vals {
			d := v - s.Mean
			ss += d * d
		}
		// Sample standard deviation (n-1), matching pandas describe().
		s.Std = math.Sqrt(ss / float64(len(vals)-1))
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

// quantile computes the q-th quantile of sorted values with linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return Missing()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// CorrelationMatrix is a square symmetric Pearson correlation matrix with
// diagonal 1.0.  Cells with fewer than two complete observation pairs, or a
// zero-variance column, are missing.
type CorrelationMatrix struct {
	Properties []Property
	Values     [][]float64
}

// Correlations computes the pairwise-complete Pearson correlation matrix of
// props over t.  Rows where either property of a pair is missing are
// excluded from that pair only, matching DataFrame.corr semantics.
func Correlations(t Table, props []Property) CorrelationMatrix {
	m := CorrelationMatrix{
		Properties: append([]Property(nil), props...),
		Values:     make([][]float64, len(props)),
	}
	for i := range props {
		m.Values[i] = make([]float64, len(props))
		for j := range props {
			switch {
			case i == j:
				if len(Values(t, props[i])) > 0 {
					m.Values[i][j] = 1.0
				} else {
					m.Values[i][j] = Missing()
				}
			case j < i:
				m.Values[i][j] = m.Values[j][i]
			default:
				m.Values[i][j] = pearson(t, props[i], props[j])
			}
		}
	}
	return m
}

// pearson computes the Pearson correlation of two properties over the rows
// where both are defined.
func pearson(t Table, a, b Property) float64 {
	var xs, ys []float64
	for _, c := range t.Compounds {
		x, y := a.Value(c), b.Value(c)
		if IsMissing(x) || IsMissing(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	n := len(xs)
	if n < 2 {
		return Missing()
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return Missing()
	}
	return cov / math.Sqrt(varX*varY)
}
