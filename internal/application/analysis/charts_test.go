package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
)

func TestBuildScatter_SkipsMissingAxes(t *testing.T) {
	table := compound.NewTable([]compound.Compound{
		{ChemblID: "A", LogP: 1.0, MW: 200, PIC50: 6.5},
		{ChemblID: "B", LogP: compound.Missing(), MW: 300, PIC50: 7.0},
		{ChemblID: "C", LogP: 2.0, MW: 400, PIC50: compound.Missing()},
	})

	payload := BuildScatter(table)
	require.Len(t, payload.Points, 2)
	assert.Equal(t, "A", payload.Points[0].ChemblID)
	require.NotNil(t, payload.Points[0].PIC50)
	assert.InDelta(t, 6.5, *payload.Points[0].PIC50, 1e-9)
	// Defined axes with missing colour still plot, colour is null.
	assert.Equal(t, "C", payload.Points[1].ChemblID)
	assert.Nil(t, payload.Points[1].PIC50)
}

func TestBuildHistogram_EqualWidthBins(t *testing.T) {
	table := compound.NewTable([]compound.Compound{
		{MW: 1}, {MW: 2}, {MW: 3}, {MW: 4},
	})

	payload := BuildHistogram(table, compound.PropMW, 3)
	require.Len(t, payload.Edges, 4)
	require.Len(t, payload.Counts, 3)
	assert.InDelta(t, 1, payload.Edges[0], 1e-9)
	assert.InDelta(t, 4, payload.Edges[3], 1e-9)
	// The maximum closes into the last bin.
	assert.Equal(t, []int{1, 1, 2}, payload.Counts)
}

func TestBuildHistogram_Degenerate(t *testing.T) {
	table := compound.NewTable([]compound.Compound{{MW: 5}, {MW: 5}})
	payload := BuildHistogram(table, compound.PropMW, 30)
	assert.Equal(t, []float64{5, 5}, payload.Edges)
	assert.Equal(t, []int{2}, payload.Counts)

	empty := BuildHistogram(compound.NewTable(nil), compound.PropMW, 30)
	assert.Empty(t, empty.Edges)
	assert.Empty(t, empty.Counts)
}

func TestBuildCorrelation_JSONSafe(t *testing.T) {
	payload := BuildCorrelation(transformedTable())
	require.Len(t, payload.Properties, 6)
	require.Len(t, payload.Matrix, 6)

	// Diagonal is exactly 1 wherever the column has data.
	for i := range payload.Matrix {
		require.NotNil(t, payload.Matrix[i][i])
		assert.InDelta(t, 1.0, *payload.Matrix[i][i], 1e-9)
	}

	// NaN never leaks into the payload: it must marshal.
	_, err := json.Marshal(payload)
	assert.NoError(t, err)
}

func TestBuildDrugLikenessBoxes(t *testing.T) {
	payloads := BuildDrugLikenessBoxes(transformedTable())
	require.Len(t, payloads, 3)
	assert.Equal(t, "mw", payloads[0].Property)

	// One non-drug-like compound (Erlotinib) and three drug-like.
	mw := payloads[0]
	require.Len(t, mw.Groups, 2)
	assert.Equal(t, "false", mw.Groups[0].Group)
	assert.Equal(t, 1, mw.Groups[0].Count)
	assert.InDelta(t, 523.4, mw.Groups[0].Median, 1e-9)
	assert.Equal(t, "true", mw.Groups[1].Group)
	assert.Equal(t, 3, mw.Groups[1].Count)
	assert.InDelta(t, 206.28, mw.Groups[1].Median, 1e-9)
}

func TestBuildBoxGroup_Outliers(t *testing.T) {
	rows := []compound.Compound{
		{MW: 10}, {MW: 11}, {MW: 12}, {MW: 13}, {MW: 14}, {MW: 500},
	}
	box, ok := buildBoxGroup(compound.NewTable(rows), compound.PropMW, "all")
	require.True(t, ok)
	require.Len(t, box.Outliers, 1)
	assert.InDelta(t, 500, box.Outliers[0], 1e-9)
	assert.InDelta(t, 14, box.WhiskerHigh, 1e-9)
	assert.InDelta(t, 10, box.WhiskerLow, 1e-9)
}

func TestBuildTargetViolins(t *testing.T) {
	payloads := BuildTargetViolins(transformedTable())
	require.Len(t, payloads, 6)
	assert.Equal(t, "mw", payloads[0].Property)

	mw := payloads[0]
	require.Len(t, mw.Series, 2)
	assert.Equal(t, "COX1", mw.Series[0].Target)
	assert.Equal(t, "EGFR", mw.Series[1].Target)
	assert.Equal(t, 2, mw.Series[0].Count)
	assert.Len(t, mw.Series[0].Grid, kdeGridSize)
	assert.Len(t, mw.Series[0].Density, kdeGridSize)
}

func TestGaussianKDE_IntegratesToOne(t *testing.T) {
	values := []float64{1, 2, 2.5, 3, 4, 4.2, 5}
	grid, density := gaussianKDE(values, 256)
	require.Len(t, grid, 256)

	// Trapezoidal integral over the padded grid should be close to 1.
	var integral float64
	for i := 1; i < len(grid); i++ {
		integral += (density[i] + density[i-1]) / 2 * (grid[i] - grid[i-1])
	}
	assert.InDelta(t, 1.0, integral, 0.05)

	for _, d := range density {
		assert.GreaterOrEqual(t, d, 0.0)
	}
}

func TestGaussianKDE_Degenerate(t *testing.T) {
	grid, density := gaussianKDE(nil, 64)
	assert.Nil(t, grid)
	assert.Nil(t, density)

	grid, density = gaussianKDE([]float64{7, 7, 7}, 64)
	require.Len(t, grid, 64)
	require.Len(t, density, 64)
}

func TestBuildDensity_CountsEveryPoint(t *testing.T) {
	payload := BuildDensity(transformedTable(), 4)
	require.Len(t, payload.XEdges, 5)
	require.Len(t, payload.YEdges, 5)
	require.Len(t, payload.Counts, 4)

	total := 0
	for _, row := range payload.Counts {
		require.Len(t, row, 4)
		for _, n := range row {
			total += n
		}
	}
	assert.Equal(t, 4, total)
}

func TestBuildDensity_Empty(t *testing.T) {
	payload := BuildDensity(compound.NewTable(nil), 4)
	assert.Empty(t, payload.Counts)
}

func TestBuildCharts_Bundle(t *testing.T) {
	bundle := BuildCharts(transformedTable())
	assert.Len(t, bundle.Scatter.Points, 4)
	assert.Len(t, bundle.Histograms, 6)
	assert.Len(t, bundle.DrugLikeness, 3)
	assert.Len(t, bundle.ByTarget, 6)

	// The whole bundle must be JSON-serialisable (no NaN anywhere).
	_, err := json.Marshal(bundle)
	assert.NoError(t, err)
}
