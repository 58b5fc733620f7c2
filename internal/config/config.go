// Package config loads runtime configuration from ALGOQUEST_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/algoquest/internal/llm"
	"github.com/abhisek/algoquest/internal/logging"
	"github.com/abhisek/algoquest/internal/steps"
)

// Prefix is prepended to every variable name.
const Prefix = "ALGOQUEST_"

// Config is the full runtime configuration. Command-line flags override
// individual fields after Load.
type Config struct {
	DBPath   string `env:"DB"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Zero keeps each algorithm's own default delay.
	SearchDelay time.Duration `env:"SEARCH_DELAY"`
	SortDelay   time.Duration `env:"SORT_DELAY"`

	HTTPAddr   string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	SSHAddr    string `env:"SSH_ADDR" envDefault:"127.0.0.1:2222"`
	SSHHostKey string `env:"SSH_HOST_KEY"`

	// RedisURL selects the shared history cache; empty uses memory.
	RedisURL  string        `env:"REDIS_URL"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	CacheSize int           `env:"CACHE_SIZE" envDefault:"256"`

	// OTLPEndpoint enables tracing when set.
	OTLPEndpoint string `env:"OTEL_ENDPOINT"`

	LLM llm.Config `envPrefix:"LLM_"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	if cfg.CacheSize < 1 {
		return cfg, fmt.Errorf("%sCACHE_SIZE must be positive, got %d", Prefix, cfg.CacheSize)
	}
	return cfg, nil
}

// Level returns the parsed log level.
func (c Config) Level() slog.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}

// DelayFor returns the playback delay for alg, honoring the per-kind
// overrides.
func (c Config) DelayFor(alg steps.Algorithm) time.Duration {
	switch {
	case alg.Kind == steps.KindSearch && c.SearchDelay > 0:
		return c.SearchDelay
	case alg.Kind == steps.KindSort && c.SortDelay > 0:
		return c.SortDelay
	}
	return alg.Delay
}
