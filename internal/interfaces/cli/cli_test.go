package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemLens-Insight/internal/application/analysis"
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
)

const inputCSV = `chembl_id,name,target,ic50,mw,logp,hbd,hba,psa
CHEMBL1,Aspirin,COX1,10.5,180.16,1.2,1,4,63.6
CHEMBL2,Ibuprofen,COX1,200,206.28,3.5,1,2,37.3
CHEMBL3,Gefitinib,EGFR,600,446.9,4.1,1,7,68.7
CHEMBL4,Erlotinib,EGFR,150,523.4,5.6,2,6,74.7
`

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(inputCSV), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestAnalyzeCommand_WritesArtifacts(t *testing.T) {
	input := writeInput(t)
	outdir := t.TempDir()

	require.NoError(t, runCommand(t, "analyze", input, outdir))

	for _, name := range []string{
		"summary.txt",
		"correlation_matrix.csv",
		"scatter_logp_vs_mw.json",
		"histograms.json",
		"correlation_heatmap.json",
		"boxplots_drug_likeness.json",
		"violins_by_target.json",
		"density_mw_logp.json",
	} {
		_, err := os.Stat(filepath.Join(outdir, name))
		assert.NoError(t, err, name)
	}

	summary, err := os.ReadFile(filepath.Join(outdir, "summary.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Total compounds:    4")
	assert.Contains(t, string(summary), "Unique targets:     2")

	raw, err := os.ReadFile(filepath.Join(outdir, "scatter_logp_vs_mw.json"))
	require.NoError(t, err)
	var scatter analysis.ScatterPayload
	require.NoError(t, json.Unmarshal(raw, &scatter))
	assert.Len(t, scatter.Points, 4)
}

func TestPropertiesCommand_WritesArtifacts(t *testing.T) {
	input := writeInput(t)
	outdir := t.TempDir()

	require.NoError(t, runCommand(t, "properties", input, outdir))

	stats, err := os.ReadFile(filepath.Join(outdir, "summary_statistics.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(stats)), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, ",mw,logp,hbd,hba,psa", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "count,4,4,4,4,4"))

	for _, p := range []string{"mw", "logp", "hbd", "hba", "psa"} {
		_, err := os.Stat(filepath.Join(outdir, p+"_distribution.json"))
		assert.NoError(t, err, p)
	}
}

func TestActivityCommand_WritesArtifacts(t *testing.T) {
	input := writeInput(t)
	outdir := t.TempDir()

	require.NoError(t, runCommand(t, "activity", input, outdir))

	raw, err := os.ReadFile(filepath.Join(outdir, "mw_vs_pIC50.json"))
	require.NoError(t, err)
	var scatter propertyScatter
	require.NoError(t, json.Unmarshal(raw, &scatter))
	require.Len(t, scatter.X, 4)
	assert.InDelta(t, 7.9788, scatter.Y[0], 1e-3)

	_, err = os.Stat(filepath.Join(outdir, "correlation_matrix.csv"))
	assert.NoError(t, err)
}

func TestAnalyzeCommand_MissingInput(t *testing.T) {
	err := runCommand(t, "analyze", filepath.Join(t.TempDir(), "absent.csv"), t.TempDir())
	assert.Error(t, err)
}

func TestCorrelationCSV_Layout(t *testing.T) {
	table := compound.ComputePIC50(compound.NewTable([]compound.Compound{
		{IC50: 100, MW: 100, LogP: 1, HBD: 1, HBA: 2, PSA: 40},
		{IC50: 200, MW: 200, LogP: 2, HBD: 2, HBA: 4, PSA: 80},
		{IC50: 300, MW: 300, LogP: 3, HBD: 3, HBA: 6, PSA: 120},
	}))

	raw, err := correlationCSV(compound.Correlations(table, compound.CorrelationProperties))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, ",mw,logp,hbd,hba,psa,pIC50", lines[0])
	// Perfectly linear columns correlate at exactly 1; pIC50 is log-scaled
	// and lands strictly between -1 and 0 against the rising properties.
	assert.True(t, strings.HasPrefix(lines[1], "mw,1,1,1,1,1,-0."), lines[1])
}

func TestBuildPropertyScatter_SkipsIncompletePairs(t *testing.T) {
	table := compound.NewTable([]compound.Compound{
		{ChemblID: "A", MW: 100, PIC50: 6},
		{ChemblID: "B", MW: compound.Missing(), PIC50: 7},
		{ChemblID: "C", MW: 300, PIC50: compound.Missing()},
	})
	table.HasPIC50 = true

	payload := buildPropertyScatter(table, compound.PropMW)
	assert.Equal(t, []float64{100}, payload.X)
	assert.Equal(t, []float64{6}, payload.Y)
	assert.Equal(t, []string{"A"}, payload.ChemblIDs)
}
