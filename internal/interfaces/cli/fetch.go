package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/cache"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/chembl"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

func newFetchCommand(a *app) *cobra.Command {
	var targets []string
	var output string

	cmd := &cobra.Command{
		Use:   "fetch --targets EGFR,SRC --output out.csv",
		Short: "Fetch compound data for one or more targets from ChEMBL",
		Long: "Resolves each target name, downloads its IC50 activities and molecule\n" +
			"properties, and writes one combined CSV in the nine-column input schema.\n" +
			"Targets that cannot be resolved are skipped; the fetch fails only when no\n" +
			"target yields data.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFetch(cmd, targets, output)
		},
	}

	cmd.Flags().StringSliceVar(&targets, "targets", nil,
		"target protein names to search for")
	cmd.Flags().StringVar(&output, "output", "",
		"path of the combined output CSV")
	_ = cmd.MarkFlagRequired("targets")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) runFetch(cmd *cobra.Command, targets []string, output string) error {
	ctx := cmd.Context()

	var redisCache *cache.Cache
	if a.cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.New(ctx, a.cfg.Redis, a.logger)
		if err != nil {
			// The cache is an accelerator only; fetch proceeds without it.
			a.logger.Warn("redis unavailable, fetching uncached", logging.Err(err))
		} else {
			defer redisCache.Close()
		}
	}

	client := chembl.NewClient(a.cfg.ChEMBL, redisCache, a.logger)
	table, err := client.FetchTargets(ctx, targets)
	if err != nil {
		return err
	}

	if err := dataset.SaveCSV(output, table); err != nil {
		return err
	}
	a.logger.Info("fetch complete",
		logging.Int("compounds", table.Len()),
		logging.String("output", output))
	return nil
}
