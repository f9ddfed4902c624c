package analysis

import (
	"math"
	"sort"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
)

// Chart payload builders.  The server ships data, not pictures: each payload
// is the minimal numeric structure a plotting frontend needs to render one
// chart.  All payloads are computed on the filtered table and contain no
// NaN values, so they serialise cleanly as JSON.

const (
	histogramBins = 30
	densityBins   = 20
	kdeGridSize   = 64
)

// boxProperties are the columns compared between drug-like groups.
var boxProperties = []compound.Property{
	compound.PropMW, compound.PropLogP, compound.PropPIC50,
}

// violinProperties are the columns shown per target, in display order.
var violinProperties = []compound.Property{
	compound.PropMW, compound.PropLogP, compound.PropPIC50,
	compound.PropHBD, compound.PropHBA, compound.PropPSA,
}

// ScatterPoint is one marker of the LogP/MW scatter.  PIC50 drives the
// colour scale and may be null.
type ScatterPoint struct {
	LogP     float64  `json:"logp"`
	MW       float64  `json:"mw"`
	PIC50    *float64 `json:"pic50"`
	ChemblID string   `json:"chembl_id"`
	Name     string   `json:"name"`
	Target   string   `json:"target"`
}

// ScatterPayload backs the LogP-vs-MW chart.
type ScatterPayload struct {
	Points []ScatterPoint `json:"points"`
}

// BuildScatter emits one point per row with both axes defined.
func BuildScatter(t compound.Table) ScatterPayload {
	points := make([]ScatterPoint, 0, t.Len())
	for _, c := range t.Compounds {
		if compound.IsMissing(c.LogP) || compound.IsMissing(c.MW) {
			continue
		}
		points = append(points, ScatterPoint{
			LogP:     c.LogP,
			MW:       c.MW,
			PIC50:    fptr(c.PIC50),
			ChemblID: c.ChemblID,
			Name:     c.Name,
			Target:   c.Target,
		})
	}
	return ScatterPayload{Points: points}
}

// HistogramPayload is an equal-width histogram of one property.  Edges has
// one more element than Counts; the last bin is closed on both ends.
type HistogramPayload struct {
	Property string    `json:"property"`
	Edges    []float64 `json:"edges"`
	Counts   []int     `json:"counts"`
}

// BuildHistogram bins the defined values of p into the given number of
// equal-width bins.  With no defined values the payload is empty; with a
// degenerate range everything lands in one bin.
func BuildHistogram(t compound.Table, p compound.Property, bins int) HistogramPayload {
	payload := HistogramPayload{Property: string(p)}
	values := compound.Values(t, p)
	if len(values) == 0 {
		return payload
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		payload.Edges = []float64{lo, hi}
		payload.Counts = []int{len(values)}
		return payload
	}

	width := (hi - lo) / float64(bins)
	payload.Edges = make([]float64, bins+1)
	for i := 0; i <= bins; i++ {
		payload.Edges[i] = lo + float64(i)*width
	}
	payload.Counts = make([]int, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		payload.Counts[idx]++
	}
	return payload
}

// CorrelationPayload is the full symmetric correlation matrix; cells without
// enough complete pairs are null.  The frontend masks the upper triangle.
type CorrelationPayload struct {
	Properties []string     `json:"properties"`
	Matrix     [][]*float64 `json:"matrix"`
}

// BuildCorrelation computes the pairwise-complete Pearson matrix over the
// canonical property set.
func BuildCorrelation(t compound.Table) CorrelationPayload {
	m := compound.Correlations(t, compound.CorrelationProperties)
	payload := CorrelationPayload{
		Properties: make([]string, len(m.Properties)),
		Matrix:     make([][]*float64, len(m.Properties)),
	}
	for i, p := range m.Properties {
		payload.Properties[i] = string(p)
		payload.Matrix[i] = make([]*float64, len(m.Properties))
		for j, v := range m.Values[i] {
			payload.Matrix[i][j] = fptr(v)
		}
	}
	return payload
}

// BoxGroup is the five-number summary plus Tukey whiskers for one group.
type BoxGroup struct {
	Group       string    `json:"group"`
	Count       int       `json:"count"`
	Min         float64   `json:"min"`
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	Max         float64   `json:"max"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers"`
}

// BoxPayload compares a property across the drug-like / non-drug-like split.
type BoxPayload struct {
	Property string     `json:"property"`
	Groups   []BoxGroup `json:"groups"`
}

// BuildDrugLikenessBoxes emits one payload per compared property, with up to
// two groups ("false" first).  Groups with no defined values are omitted.
func BuildDrugLikenessBoxes(t compound.Table) []BoxPayload {
	var nonDrugLike, drugLike []compound.Compound
	for _, c := range t.Compounds {
		if c.IsDrugLike {
			drugLike = append(drugLike, c)
		} else {
			nonDrugLike = append(nonDrugLike, c)
		}
	}
	groups := []struct {
		label string
		table compound.Table
	}{
		{"false", compound.NewTable(nonDrugLike)},
		{"true", compound.NewTable(drugLike)},
	}

	payloads := make([]BoxPayload, 0, len(boxProperties))
	for _, p := range boxProperties {
		payload := BoxPayload{Property: string(p)}
		for _, g := range groups {
			if box, ok := buildBoxGroup(g.table, p, g.label); ok {
				payload.Groups = append(payload.Groups, box)
			}
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

// buildBoxGroup computes box statistics with 1.5·IQR fences.
func buildBoxGroup(t compound.Table, p compound.Property, label string) (BoxGroup, bool) {
	values := compound.Values(t, p)
	if len(values) == 0 {
		return BoxGroup{}, false
	}
	sort.Float64s(values)

	stats := compound.Describe(t, p)
	iqr := stats.Q3 - stats.Q1
	loFence := stats.Q1 - 1.5*iqr
	hiFence := stats.Q3 + 1.5*iqr

	box := BoxGroup{
		Group:       label,
		Count:       stats.Count,
		Min:         stats.Min,
		Q1:          stats.Q1,
		Median:      stats.Median,
		Q3:          stats.Q3,
		Max:         stats.Max,
		WhiskerLow:  stats.Max,
		WhiskerHigh: stats.Min,
	}
	for _, v := range values {
		if v < loFence || v > hiFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.WhiskerLow = math.Min(box.WhiskerLow, v)
		box.WhiskerHigh = math.Max(box.WhiskerHigh, v)
	}
	return box, true
}

// ViolinSeries is the per-target distribution of one property: the sorted
// raw values for the inner box, plus a Gaussian KDE sampled on Grid.
type ViolinSeries struct {
	Target  string    `json:"target"`
	Count   int       `json:"count"`
	Values  []float64 `json:"values"`
	Q1      float64   `json:"q1"`
	Median  float64   `json:"median"`
	Q3      float64   `json:"q3"`
	Grid    []float64 `json:"grid"`
	Density []float64 `json:"density"`
}

// ViolinPayload groups a property's distributions by target.
type ViolinPayload struct {
	Property string         `json:"property"`
	Series   []ViolinSeries `json:"series"`
}

// BuildTargetViolins emits one payload per property with a series per target
// in first-appearance order.  Targets with no defined values are omitted.
func BuildTargetViolins(t compound.Table) []ViolinPayload {
	byTarget := make(map[string][]compound.Compound)
	targets := t.Targets()
	for _, c := range t.Compounds {
		byTarget[c.Target] = append(byTarget[c.Target], c)
	}

	payloads := make([]ViolinPayload, 0, len(violinProperties))
	for _, p := range violinProperties {
		payload := ViolinPayload{Property: string(p)}
		for _, target := range targets {
			sub := compound.NewTable(byTarget[target])
			values := compound.Values(sub, p)
			if len(values) == 0 {
				continue
			}
			sort.Float64s(values)
			stats := compound.Describe(sub, p)
			grid, density := gaussianKDE(values, kdeGridSize)
			payload.Series = append(payload.Series, ViolinSeries{
				Target:  target,
				Count:   len(values),
				Values:  values,
				Q1:      stats.Q1,
				Median:  stats.Median,
				Q3:      stats.Q3,
				Grid:    grid,
				Density: density,
			})
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

// DensityPayload is a 2D histogram of the LogP×MW plane.  Counts is indexed
// [y][x] to match heatmap row order.
type DensityPayload struct {
	XEdges []float64 `json:"x_edges"`
	YEdges []float64 `json:"y_edges"`
	Counts [][]int   `json:"counts"`
}

// BuildDensity bins rows with both LogP and MW defined into an equal-width
// 2D grid.
func BuildDensity(t compound.Table, bins int) DensityPayload {
	type point struct{ x, y float64 }
	var points []point
	for _, c := range t.Compounds {
		if compound.IsMissing(c.LogP) || compound.IsMissing(c.MW) {
			continue
		}
		points = append(points, point{c.LogP, c.MW})
	}
	if len(points) == 0 {
		return DensityPayload{}
	}

	xLo, xHi := points[0].x, points[0].x
	yLo, yHi := points[0].y, points[0].y
	for _, pt := range points[1:] {
		xLo, xHi = math.Min(xLo, pt.x), math.Max(xHi, pt.x)
		yLo, yHi = math.Min(yLo, pt.y), math.Max(yHi, pt.y)
	}
	// Degenerate axes get a unit-width band so every point still bins.
	if xLo == xHi {
		xHi = xLo + 1
	}
	if yLo == yHi {
		yHi = yLo + 1
	}

	payload := DensityPayload{
		XEdges: make([]float64, bins+1),
		YEdges: make([]float64, bins+1),
		Counts: make([][]int, bins),
	}
	xWidth := (xHi - xLo) / float64(bins)
	yWidth := (yHi - yLo) / float64(bins)
	for i := 0; i <= bins; i++ {
		payload.XEdges[i] = xLo + float64(i)*xWidth
		payload.YEdges[i] = yLo + float64(i)*yWidth
	}
	for i := range payload.Counts {
		payload.Counts[i] = make([]int, bins)
	}
	for _, pt := range points {
		xi := int((pt.x - xLo) / xWidth)
		yi := int((pt.y - yLo) / yWidth)
		if xi >= bins {
			xi = bins - 1
		}
		if yi >= bins {
			yi = bins - 1
		}
		payload.Counts[yi][xi]++
	}
	return payload
}

// ChartBundle is every dashboard chart for one filtered view.
type ChartBundle struct {
	Scatter      ScatterPayload     `json:"scatter"`
	Histograms   []HistogramPayload `json:"histograms"`
	Correlation  CorrelationPayload `json:"correlation"`
	DrugLikeness []BoxPayload       `json:"drug_likeness"`
	ByTarget     []ViolinPayload    `json:"by_target"`
	Density      DensityPayload     `json:"density"`
}

// BuildCharts assembles the full bundle.
func BuildCharts(t compound.Table) ChartBundle {
	histograms := make([]HistogramPayload, 0, len(compound.CorrelationProperties))
	for _, p := range compound.CorrelationProperties {
		histograms = append(histograms, BuildHistogram(t, p, histogramBins))
	}
	return ChartBundle{
		Scatter:      BuildScatter(t),
		Histograms:   histograms,
		Correlation:  BuildCorrelation(t),
		DrugLikeness: BuildDrugLikenessBoxes(t),
		ByTarget:     BuildTargetViolins(t),
		Density:      BuildDensity(t, densityBins),
	}
}

// gaussianKDE evaluates a Gaussian kernel density estimate of values on an
// evenly spaced grid spanning the data range padded by three bandwidths.
// Bandwidth follows Silverman's rule with an IQR guard against heavy tails.
func gaussianKDE(values []float64, gridSize int) (grid, density []float64) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(n))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	iqr := percentileSorted(sorted, 0.75) - percentileSorted(sorted, 0.25)

	spread := std
	if iqr > 0 && iqr/1.34 < spread {
		spread = iqr / 1.34
	}
	bandwidth := 0.9 * spread * math.Pow(float64(n), -0.2)
	if bandwidth <= 0 {
		// All values identical: a token bandwidth yields a spike at the value.
		bandwidth = math.Max(math.Abs(mean)*1e-3, 1e-3)
	}

	lo := sorted[0] - 3*bandwidth
	hi := sorted[n-1] + 3*bandwidth
	step := (hi - lo) / float64(gridSize-1)

	grid = make([]float64, gridSize)
	density = make([]float64, gridSize)
	norm := 1 / (float64(n) * bandwidth * math.Sqrt(2*math.Pi))
	for i := 0; i < gridSize; i++ {
		x := lo + float64(i)*step
		grid[i] = x
		var d float64
		for _, v := range values {
			z := (x - v) / bandwidth
			d += math.Exp(-0.5 * z * z)
		}
		density[i] = d * norm
	}
	return grid, density
}

// percentileSorted computes a linearly interpolated percentile of sorted
// values.
func percentileSorted(sorted []float64, q float64) float64 {
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
