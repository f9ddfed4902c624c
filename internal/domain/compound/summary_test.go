package compound

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize(transformed())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.DrugLikeCount)
	assert.InDelta(t, 25.0, s.DrugLikePercent, testEpsilon)
	assert.Equal(t, 2, s.UniqueTargets)

	// Mean of the four defined pIC50 values.
	want := (7.978810700930062 + 6.698970004336019 + 6.221848749616356 + 6.823908740944319) / 4
	assert.InDelta(t, want, s.MeanPIC50, 1e-6)
}

func TestSummarize_EmptyTable(t *testing.T) {
	s := Summarize(NewTable(nil))
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.DrugLikeCount)
	assert.Equal(t, 0.0, s.DrugLikePercent)
	assert.Equal(t, 0, s.UniqueTargets)
	assert.True(t, IsMissing(s.MeanPIC50))
}

func TestSummarize_ExcludesMissingPIC50FromMean(t *testing.T) {
	tbl := ComputePIC50(NewTable([]Compound{
		{ChemblID: "A", Target: "COX1", IC50: 1000}, // pIC50 = 6
		{ChemblID: "B", Target: "COX1", IC50: 0},    // missing
		{ChemblID: "C", Target: "COX1", IC50: -3},   // missing
	}))
	s := Summarize(tbl)
	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 6.0, s.MeanPIC50, testEpsilon)
}

func TestSummarize_AllPIC50Missing(t *testing.T) {
	tbl := ComputePIC50(NewTable([]Compound{
		{ChemblID: "A", Target: "COX1", IC50: 0},
	}))
	s := Summarize(tbl)
	assert.True(t, IsMissing(s.MeanPIC50))
}
