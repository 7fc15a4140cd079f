package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kerebel/colony/app"
	"github.com/kerebel/colony/config"
	"github.com/kerebel/colony/core/model"
	"github.com/kerebel/colony/infra/logger"
)

var (
	queryK      int
	queryShards int
	querySeed   int64
	queryDryRun bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Route a single random query vector and print the top results",
	RunE:  routeQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryK, "k", 10, "number of results to return")
	queryCmd.Flags().IntVar(&queryShards, "shards", 0, "override the configured partition count")
	queryCmd.Flags().Int64Var(&querySeed, "seed", 0, "override the configured RNG seed")
	queryCmd.Flags().BoolVar(&queryDryRun, "dry-run", false, "use in-memory store and synthetic shards regardless of config")
	rootCmd.AddCommand(queryCmd)
}

func routeQuery(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if queryShards > 0 {
		cfg.Partitions.Count = queryShards
	}
	if querySeed != 0 {
		cfg.Routing.Seed = querySeed
		cfg.Index.Seed = querySeed
	}
	if queryDryRun {
		cfg.Store.Backend = "memory"
		cfg.Index.Backend = "synthetic"
		cfg.Metrics.PrometheusEnabled = false
		cfg.Metrics.InfluxEnabled = false
	}

	logg := logger.New("query-command")
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	rng := rand.New(rand.NewSource(cfg.Routing.Seed))
	vec := make(model.Vector, cfg.Index.Dimension)
	for i := range vec {
		vec[i] = rng.Float32()
	}

	results := svc.Router.HandleQuery(ctx, vec, queryK)
	logg.Infof("query returned %d results", len(results))
	for i, r := range results {
		fmt.Printf("%2d. id=%d shard=%d distance=%.4f\n", i+1, r.ID, r.Shard, r.Distance)
	}
	return nil
}
