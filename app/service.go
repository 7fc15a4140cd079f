package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kerebel/colony/config"
	"github.com/kerebel/colony/core/colony"
	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/infra/index"
	"github.com/kerebel/colony/infra/logger"
	"github.com/kerebel/colony/infra/metrics"
	"github.com/kerebel/colony/infra/store"
	"github.com/kerebel/colony/internal/eventbus"
)

// Service owns the colony router and the adapters it routes through.
type Service struct {
	Router      *colony.ColonyRouter
	bus         eventbus.EventBus
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration. Backend construction is
// fail-open: an unreachable pheromone database degrades to an in-memory
// store and a missing vector index degrades to the synthetic executor, each
// with a warning, so the router always comes up.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	policy, err := cfg.Policy()
	if err != nil {
		return nil, fmt.Errorf("allocation policy: %w", err)
	}

	var pheromones colony.PheromoneStore
	if cfg.Store.Backend == "sqlite" {
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logg.Warnf("sqlite store unavailable, using in-memory store: %v", err)
			pheromones = colony.NewMemoryStore()
		} else {
			pheromones = s
		}
	} else {
		pheromones = colony.NewMemoryStore()
	}

	var exec colony.ShardQueryExecutor
	if cfg.Index.Backend == "sqlite-vec" {
		v, err := index.NewVecExecutor(cfg.Index.Path, cfg.Index.Dimension)
		if err != nil {
			logg.Warnf("vector index unavailable, using synthetic executor: %v", err)
			exec = colony.NewSyntheticExecutor(cfg.Index.Seed)
		} else {
			exec = v
		}
	} else {
		exec = colony.NewSyntheticExecutor(cfg.Index.Seed)
	}

	var sinks []coremetrics.RoutingSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.RoutingSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	novelty := colony.NoveltyRange{Min: cfg.Routing.NoveltyMin, Max: cfg.Routing.NoveltyMax}
	timeout := time.Duration(cfg.Routing.ShardTimeoutSeconds) * time.Second
	router, err := colony.NewColonyRouter(policy, pheromones, exec, sink, bus, logg, timeout, novelty, cfg.Routing.Seed)
	if err != nil {
		return nil, fmt.Errorf("colony router: %w", err)
	}

	return &Service{
		Router:      router,
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run starts the metrics endpoint and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error { return s.Router.Close() }
