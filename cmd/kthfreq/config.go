package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-sif/kthfreq/cluster"
	"github.com/go-sif/kthfreq/rank"
	"gopkg.in/yaml.v3"
)

// Config is the file form of a Coordinator's configuration, plus CLI concerns
type Config struct {
	Partitions      int           `yaml:"partitions"`       // number of partitions, defaults to 3
	MemoryThreshold int64         `yaml:"memory_threshold"` // per-partition memory hint in bytes, defaults to 1MiB
	MaxConcurrency  int           `yaml:"max_concurrency"`  // maximum partitions counted at once
	Timeout         time.Duration `yaml:"timeout"`          // deadline for a computation, e.g. "30s"
	Selection       string        `yaml:"selection"`        // "sort" or "heap"
	Compression     string        `yaml:"compression"`      // snapshot compression: "none", "lz4" or "zstd"
	LogLevel        string        `yaml:"log_level"`        // TRACE, DEBUG, INFO, WARN, ERROR or FATAL
	NoColor         bool          `yaml:"no_color"`         // disable colored log output
}

func defaultConfig() *Config {
	return &Config{
		Partitions:      cluster.DefaultNumPartitions,
		MemoryThreshold: cluster.DefaultMemoryThresholdPerPartition,
		Selection:       string(rank.SortStrategy),
		Compression:     "lz4",
		LogLevel:        "INFO",
	}
}

// loadConfig reads a YAML configuration file over the defaults
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if len(path) == 0 {
		return conf, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.Unmarshal(buf, conf); err != nil {
		return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return conf, nil
}

// options converts this Config into Coordinator Options
func (c *Config) options() (*cluster.Options, error) {
	selection, err := rank.ParseStrategy(c.Selection)
	if err != nil {
		return nil, err
	}
	return &cluster.Options{
		NumPartitions:               c.Partitions,
		MemoryThresholdPerPartition: c.MemoryThreshold,
		MaxConcurrency:              c.MaxConcurrency,
		Timeout:                     c.Timeout,
		Selection:                   selection,
	}, nil
}
