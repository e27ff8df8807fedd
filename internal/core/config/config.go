package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

type Config struct {
	Root                   string   `toml:"root"`
	OutDir                 string   `toml:"outdir"`
	Entrypoints            []string `toml:"entrypoints"`
	Clean                  bool     `toml:"clean"`
	Verbose                bool     `toml:"verbose"`
	KeepComments           bool     `toml:"keep_comments"`
	PreferredImportSources []string `toml:"preferred_import_sources"`
	Workers                int      `toml:"workers"`

	Exclude   Exclude   `toml:"exclude"`
	Watch     Watch     `toml:"watch"`
	Cache     Cache     `toml:"cache"`
	Telemetry Telemetry `toml:"telemetry"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Enabled          bool          `toml:"enabled"`
	Debounce         time.Duration `toml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Telemetry struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "./dist"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond <= 0 {
		cfg.Watch.MaxRunsPerSecond = 10
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "dist"}
	}
	if cfg.Cache.Enabled && cfg.Cache.Path == "" {
		cfg.Cache.Path = ".dtsgen/cache.db"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Root) == "" {
		return fmt.Errorf("root must not be empty")
	}
	if strings.TrimSpace(cfg.OutDir) == "" {
		return fmt.Errorf("outdir must not be empty")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	for _, e := range cfg.Entrypoints {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("entrypoints must not contain empty patterns")
		}
	}
	return nil
}
