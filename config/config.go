package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kerebel/colony/core/metrics"
)

type Config struct {
	Routing    RoutingConfig    `json:"routing"`
	Partitions PartitionsConfig `json:"partitions"`
	Store      StoreConfig      `json:"store"`
	Index      IndexConfig      `json:"index"`
	Metrics    metrics.Config   `json:"metrics"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("COLONY_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "colony_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Routing.SetDefaults()
	cfg.Partitions.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Index.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Routing.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Partitions.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Index.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
