package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/ChemLens-Insight/internal/application/analysis"
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <input.csv> <output-dir>",
		Short: "Run the full analysis pipeline and save every chart payload",
		Long: "Loads a compound CSV, derives Lipinski drug-likeness and pIC50, drops rows\n" +
			"without a defined pIC50, and saves the summary, correlation matrix and all\n" +
			"chart payloads to the output directory.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args[0], args[1])
		},
	}
}

func (a *app) runAnalyze(cmd *cobra.Command, input, outdir string) error {
	ctx := cmd.Context()

	table, err := dataset.LoadFile(input)
	if err != nil {
		return err
	}
	transformed := analysis.Transform(table)
	plotTable := compound.DropMissing(transformed, compound.PropPIC50)
	a.logger.Info("analysis input ready",
		logging.Int("rows", table.Len()),
		logging.Int("plotted", plotTable.Len()))

	store, err := a.storeFor(ctx, outdir)
	if err != nil {
		return err
	}

	if _, err := store.Save(ctx, "summary.txt",
		summaryText(compound.Summarize(transformed)), "text/plain"); err != nil {
		return err
	}

	corrCSV, err := correlationCSV(compound.Correlations(plotTable, compound.CorrelationProperties))
	if err != nil {
		return err
	}
	if _, err := store.Save(ctx, "correlation_matrix.csv", corrCSV, "text/csv"); err != nil {
		return err
	}

	bundle := analysis.BuildCharts(plotTable)
	payloads := map[string]any{
		"scatter_logp_vs_mw.json":     bundle.Scatter,
		"histograms.json":             bundle.Histograms,
		"correlation_heatmap.json":    bundle.Correlation,
		"boxplots_drug_likeness.json": bundle.DrugLikeness,
		"violins_by_target.json":      bundle.ByTarget,
		"density_mw_logp.json":        bundle.Density,
	}
	for name, payload := range payloads {
		if err := saveJSON(ctx, store, name, payload); err != nil {
			return err
		}
	}

	a.logger.Info("analysis complete", logging.String("outdir", outdir))
	return nil
}
