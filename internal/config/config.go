package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ballotworks/syncrun/internal/debate"
	"github.com/ballotworks/syncrun/internal/engine"
	"github.com/ballotworks/syncrun/internal/montecarlo"
	"github.com/ballotworks/syncrun/internal/political"
	"github.com/ballotworks/syncrun/internal/precedent"
	"github.com/ballotworks/syncrun/internal/rank"
	"github.com/ballotworks/syncrun/internal/timeline"
)

// Config is the full application configuration. Everything has a working
// default; a config file only overrides.
type Config struct {
	Server     ServerConfig          `yaml:"server"`
	Cache      CacheConfig           `yaml:"cache"`
	Database   DatabaseConfig        `yaml:"database"`
	Engine     EngineConfig          `yaml:"engine"`
	Enrichment EnrichmentConfig      `yaml:"enrichment"`
	Debate     debate.Config         `yaml:"debate"`
	Precedent  precedent.Config      `yaml:"precedent"`
	MonteCarlo montecarlo.Config     `yaml:"monte_carlo"`
	Political  political.Config      `yaml:"political"`
	Coalition  political.Composition `yaml:"coalition"`
	Timeline   timeline.Config       `yaml:"timeline"`
	Rank       rank.Config           `yaml:"rank"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `yaml:"idle_timeout_seconds"`
}

// CacheConfig holds result-cache settings. Redis is selected by address;
// empty means in-process memory.
type CacheConfig struct {
	RedisAddr  string `yaml:"redis_addr"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// DatabaseConfig holds the optional Postgres DSN for toggle states and the
// coalition event log.
type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// EngineConfig holds aggregation engine settings in yaml-friendly units.
type EngineConfig struct {
	CacheTTLSeconds int  `yaml:"cache_ttl_seconds"`
	Strict          bool `yaml:"strict"`
}

// EnrichmentConfig guards the generative-text backend.
type EnrichmentConfig struct {
	TimeoutSeconds    int `yaml:"timeout_seconds"`
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Default returns the complete working configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8080,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
			IdleTimeoutSeconds:  60,
		},
		Cache:      CacheConfig{TTLSeconds: 300},
		Database:   DatabaseConfig{TimeoutSeconds: 5},
		Engine:     EngineConfig{CacheTTLSeconds: 300},
		Enrichment: EnrichmentConfig{TimeoutSeconds: 5, RequestsPerMinute: 30},
		Debate:     debate.DefaultConfig(),
		Precedent:  precedent.DefaultConfig(),
		MonteCarlo: montecarlo.DefaultConfig(),
		Political:  political.DefaultConfig(),
		Coalition:  political.DefaultComposition(),
		Timeline:   timeline.DefaultConfig(),
		Rank:       rank.DefaultConfig(),
	}
}

// Load reads a yaml file over the defaults. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings a typo is most likely to break.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.MonteCarlo.Trials < 0 {
		return fmt.Errorf("monte_carlo trials must be non-negative")
	}
	for _, p := range c.Coalition.Coalition {
		if p.Seats < 0 {
			return fmt.Errorf("coalition party %q has negative seats", p.Name)
		}
	}
	for _, p := range c.Coalition.Opposition {
		if p.Seats < 0 {
			return fmt.Errorf("opposition party %q has negative seats", p.Name)
		}
	}
	return nil
}

// EngineSettings converts to the engine's native config.
func (c Config) EngineSettings() engine.Config {
	return engine.Config{
		CacheTTL: time.Duration(c.Engine.CacheTTLSeconds) * time.Second,
		Strict:   c.Engine.Strict,
	}
}

// EnrichmentSettings converts to the debate client's native config.
func (c Config) EnrichmentSettings() debate.ClientConfig {
	return debate.ClientConfig{
		Timeout:           time.Duration(c.Enrichment.TimeoutSeconds) * time.Second,
		RequestsPerMinute: c.Enrichment.RequestsPerMinute,
	}
}
