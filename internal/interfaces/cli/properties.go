package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemLens-Insight/internal/application/analysis"
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

// measuredProperties are the five input descriptors, without derived columns.
var measuredProperties = []compound.Property{
	compound.PropMW, compound.PropLogP, compound.PropHBD,
	compound.PropHBA, compound.PropPSA,
}

func newPropertiesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "properties <input.csv> <output-dir>",
		Short: "Summarise molecular property distributions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProperties(cmd, args[0], args[1])
		},
	}
}

func (a *app) runProperties(cmd *cobra.Command, input, outdir string) error {
	ctx := cmd.Context()

	table, err := dataset.LoadFile(input)
	if err != nil {
		return err
	}
	a.logger.Info("property analysis input ready", logging.Int("rows", table.Len()))

	store, err := a.storeFor(ctx, outdir)
	if err != nil {
		return err
	}

	statsCSV, err := describeCSV(table, measuredProperties)
	if err != nil {
		return err
	}
	if _, err := store.Save(ctx, "summary_statistics.csv", statsCSV, "text/csv"); err != nil {
		return err
	}

	for _, p := range measuredProperties {
		payload := analysis.BuildHistogram(table, p, 30)
		name := fmt.Sprintf("%s_distribution.json", p)
		if err := saveJSON(ctx, store, name, payload); err != nil {
			return err
		}
	}

	a.logger.Info("property analysis complete", logging.String("outdir", outdir))
	return nil
}
