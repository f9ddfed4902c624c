// The apiserver binary serves the compound dashboard API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/ChemLens-Insight/internal/application/analysis"
	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/cache"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/chembl"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/metrics"
	apihttp "github.com/turtacn/ChemLens-Insight/internal/interfaces/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (default: environment only)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisCache *cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err = cache.New(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, running uncached", logging.Err(err))
		} else {
			defer redisCache.Close()
		}
	}

	m := metrics.New()
	loads := dataset.NewCache(logger)
	chemblClient := chembl.NewClient(cfg.ChEMBL, redisCache, logger)
	svc := analysis.NewService(cfg, loads, chemblClient, m, logger)

	if cfg.Data.WatchSample {
		watcher, err := dataset.NewWatcher(svc.SamplePath(), svc.InvalidateSample, logger)
		if err != nil {
			logger.Warn("sample watch disabled", logging.Err(err))
		} else {
			defer watcher.Close()
		}
	}

	router := apihttp.NewRouter(cfg, svc, m, logger)
	server := apihttp.NewServer(cfg.Server, router, logger)
	return server.Run(ctx)
}
