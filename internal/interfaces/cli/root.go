// Package cli implements the chemlens batch commands: offline analysis
// pipelines over compound CSVs and the remote ChEMBL fetch.
package cli

import (
	"context"
	"path"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/artifacts"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

// app carries the initialised configuration and logger shared by all
// subcommands.
type app struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger logging.Logger
}

// NewRootCommand builds the chemlens command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "chemlens",
		Short:         "Batch analysis and data retrieval for compound datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"path to config file (default: environment only)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"override log level (debug|info|warn|error)")

	root.AddCommand(
		newAnalyzeCommand(a),
		newPropertiesCommand(a),
		newActivityCommand(a),
		newFetchCommand(a),
	)
	return root
}

// init loads configuration and builds the logger, honouring flag overrides.
func (a *app) init(_ *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}

	a.logger, err = logging.NewLogger(logging.Config{
		Level:       a.cfg.Log.Level,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
	return err
}

// storeFor builds the artifact store for one command run.  The local backend
// writes directly into the command's output directory; the minio backend
// keeps its configured bucket and prefixes object names with outdir instead.
func (a *app) storeFor(ctx context.Context, outdir string) (artifacts.Store, error) {
	cfg := *a.cfg
	if cfg.Artifacts.Backend == "local" {
		cfg.Artifacts.Dir = outdir
		return artifacts.NewStore(ctx, &cfg, a.logger)
	}
	inner, err := artifacts.NewStore(ctx, &cfg, a.logger)
	if err != nil {
		return nil, err
	}
	return prefixedStore{inner: inner, prefix: outdir}, nil
}

// prefixedStore namespaces artifact names under a fixed prefix.
type prefixedStore struct {
	inner  artifacts.Store
	prefix string
}

func (p prefixedStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	return p.inner.Save(ctx, path.Join(p.prefix, name), data, contentType)
}
