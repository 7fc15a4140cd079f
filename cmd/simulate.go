package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kerebel/colony/config"
	"github.com/kerebel/colony/core/colony"
	"github.com/kerebel/colony/core/model"
	"github.com/kerebel/colony/infra/logger"
)

var (
	simSteps  int
	simShards int
	simSeed   int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay routing decisions offline and report the allocation split",
	RunE:  runSimulation,
}

func init() {
	simulateCmd.Flags().IntVar(&simSteps, "steps", 10000, "number of logical routing steps")
	simulateCmd.Flags().IntVar(&simShards, "shards", 0, "override the configured partition count")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "decision RNG seed")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if simShards > 0 {
		cfg.Partitions.Count = simShards
	}
	policy, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("allocation policy: %w", err)
	}

	harness, err := colony.NewSimulationHarness(policy, logger.New("simulate-command"), simSeed)
	if err != nil {
		return err
	}
	res := harness.Simulate(simSteps)

	mean, stddev := res.HitStats()
	fmt.Printf("steps:            %d\n", res.Steps)
	fmt.Printf("star_ring:        %d (%.4f, target %.4f)\n", res.StarRingSteps, res.StarRingFraction(), policy.StarRingFraction)
	fmt.Printf("explorer:         %d (%.4f, target %.4f)\n", res.ExplorerSteps, res.ExplorerFraction(), policy.MeshExplorerFraction())
	fmt.Printf("shard hits:       mean=%.1f stddev=%.1f\n", mean, stddev)

	shards := make([]int, 0, len(res.ShardHits))
	for s := range res.ShardHits {
		shards = append(shards, int(s))
	}
	sort.Ints(shards)
	for _, s := range shards {
		fmt.Printf("  shard %3d: %d\n", s, res.ShardHits[model.ShardID(s)])
	}
	return nil
}
