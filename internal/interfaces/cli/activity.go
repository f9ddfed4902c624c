package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

func newActivityCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activity <input.csv> <output-dir>",
		Short: "Analyse property/potency relationships",
		Long: "Derives pIC50 from IC50 and saves one property-vs-pIC50 scatter payload per\n" +
			"molecular property plus the correlation matrix.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runActivity(cmd, args[0], args[1])
		},
	}
}

func (a *app) runActivity(cmd *cobra.Command, input, outdir string) error {
	ctx := cmd.Context()

	table, err := dataset.LoadFile(input)
	if err != nil {
		return err
	}
	withPotency := compound.ComputePIC50(table)
	a.logger.Info("activity analysis input ready", logging.Int("rows", withPotency.Len()))

	store, err := a.storeFor(ctx, outdir)
	if err != nil {
		return err
	}

	for _, p := range measuredProperties {
		payload := buildPropertyScatter(withPotency, p)
		name := fmt.Sprintf("%s_vs_pIC50.json", p)
		if err := saveJSON(ctx, store, name, payload); err != nil {
			return err
		}
	}

	corrCSV, err := correlationCSV(compound.Correlations(withPotency, compound.CorrelationProperties))
	if err != nil {
		return err
	}
	if _, err := store.Save(ctx, "correlation_matrix.csv", corrCSV, "text/csv"); err != nil {
		return err
	}

	a.logger.Info("activity analysis complete", logging.String("outdir", outdir))
	return nil
}
