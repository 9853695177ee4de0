// Package config loads service configuration: struct defaults, then an
// optional config.yaml, then LINKEDINGEST_* environment overrides, in that
// order. Upstream credentials come only from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Pacing   PacingConfig   `yaml:"anti_rate_limiting"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"-"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLMinutes int  `yaml:"ttl_minutes"`
}

// PacingConfig carries the anti-detection knobs: randomized delays and
// decoy-call probability.
type PacingConfig struct {
	Delay            bool    `yaml:"delay"`
	MinDelaySeconds  int     `yaml:"min_delay"`
	MaxDelaySeconds  int     `yaml:"max_delay"`
	Noise            bool    `yaml:"noise"`
	NoiseProbability float64 `yaml:"noise_probability"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// UpstreamConfig holds the session credentials; never read from yaml so they
// cannot end up in a checked-in file.
type UpstreamConfig struct {
	Username string
	Password string
	BaseURL  string
}

func (p PacingConfig) MinDelay() time.Duration {
	return time.Duration(p.MinDelaySeconds) * time.Second
}

func (p PacingConfig) MaxDelay() time.Duration {
	return time.Duration(p.MaxDelaySeconds) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLMinutes: 60,
		},
		Pacing: PacingConfig{
			Delay:            true,
			MinDelaySeconds:  5,
			MaxDelaySeconds:  15,
			Noise:            true,
			NoiseProbability: 0.3,
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path (missing file falls back to defaults),
// applies environment overrides, and pulls credentials from the environment.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall back to defaults, same as no file at all.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	cfg.Upstream.Username = os.Getenv("LINKEDIN_AGENT_USERNAME")
	cfg.Upstream.Password = os.Getenv("LINKEDIN_AGENT_PASSWORD")
	cfg.Upstream.BaseURL = os.Getenv("LINKEDINGEST_UPSTREAM_URL")

	if cfg.Pacing.MaxDelaySeconds < cfg.Pacing.MinDelaySeconds {
		return Config{}, fmt.Errorf("max_delay (%d) must be >= min_delay (%d)",
			cfg.Pacing.MaxDelaySeconds, cfg.Pacing.MinDelaySeconds)
	}
	if cfg.Pacing.NoiseProbability < 0 || cfg.Pacing.NoiseProbability > 1 {
		return Config{}, fmt.Errorf("noise_probability (%v) must be within [0, 1]", cfg.Pacing.NoiseProbability)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LINKEDINGEST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LINKEDINGEST_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("LINKEDINGEST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LINKEDINGEST_CACHE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = enabled
		}
	}
	if v := os.Getenv("LINKEDINGEST_CACHE_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLMinutes = ttl
		}
	}
}
