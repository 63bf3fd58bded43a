// Viametrica - Tourism Impact Analytics Engine
// Copyright 2026 Viametrica contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/viametrica/core

// Package config loads and validates the application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults (structs provider)
//  2. YAML config file (CONFIG_PATH or the default search paths)
//  3. Environment variables (VIAMETRICA_ prefix, "__" as section delimiter,
//     e.g. VIAMETRICA_SERVER__PORT=9090 sets server.port)
//
// The merged configuration is validated with go-playground/validator before
// it is handed to the rest of the application.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/viametrica/core/internal/sem"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/viametrica/config.yaml",
	"/etc/viametrica/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces all configuration environment variables.
const envPrefix = "VIAMETRICA_"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Database DatabaseConfig `koanf:"database"`
	Model    ModelConfig    `koanf:"model"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"min=1s"`
	RateLimitReqs   int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"min=1s"`
}

// LoggingConfig holds the zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds the DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file; empty means in-memory (tests only).
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory" validate:"required"`
	// Threads caps DuckDB's worker threads; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// ModelConfig is the PLS-SEM engine configuration surface.
type ModelConfig struct {
	MinSampleSize        int     `koanf:"min_sample_size" validate:"min=10"`
	MinCoverage          float64 `koanf:"min_coverage" validate:"gt=0,lte=1"`
	ConvergenceTolerance float64 `koanf:"convergence_tolerance" validate:"gt=0"`
	MaxIterations        int     `koanf:"max_iterations" validate:"min=1"`

	BootstrapSamples       int     `koanf:"bootstrap_samples" validate:"min=1"`
	ConfidenceLevel        float64 `koanf:"confidence_level" validate:"gt=0,lt=1"`
	SignificanceLevel      float64 `koanf:"significance_level" validate:"gt=0,lt=1"`
	MaxExcludedFraction    float64 `koanf:"max_excluded_fraction" validate:"gt=0,lte=1"`
	ReplicateMaxIterations int     `koanf:"replicate_max_iterations" validate:"min=1"`
	BootstrapWorkers       int     `koanf:"bootstrap_workers" validate:"min=1"`
	BootstrapBatchSize     int     `koanf:"bootstrap_batch_size" validate:"min=1"`
}

// defaultConfig returns the built-in defaults, applied before file and env
// overrides.
func defaultConfig() *Config {
	engine := sem.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8612,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Path:      "/data/viametrica.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Model: ModelConfig{
			MinSampleSize:          engine.MinSampleSize,
			MinCoverage:            engine.MinCoverage,
			ConvergenceTolerance:   engine.ConvergenceTolerance,
			MaxIterations:          engine.MaxIterations,
			BootstrapSamples:       engine.Bootstrap.Samples,
			ConfidenceLevel:        engine.Bootstrap.ConfidenceLevel,
			SignificanceLevel:      engine.Bootstrap.SignificanceLevel,
			MaxExcludedFraction:    engine.Bootstrap.MaxExcludedFraction,
			ReplicateMaxIterations: engine.Bootstrap.ReplicateMaxIterations,
			BootstrapWorkers:       engine.Bootstrap.Workers,
			BootstrapBatchSize:     engine.Bootstrap.BatchSize,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// envTransform maps VIAMETRICA_SERVER__PORT to server.port. A double
// underscore separates sections so snake_case keys survive intact.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// findConfigFile returns the config file path from CONFIG_PATH or the first
// default path that exists, or "" when none is present.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// EngineConfig converts the model section into the engine's configuration.
func (m ModelConfig) EngineConfig() sem.Config {
	return sem.Config{
		MinSampleSize:        m.MinSampleSize,
		MinCoverage:          m.MinCoverage,
		ConvergenceTolerance: m.ConvergenceTolerance,
		MaxIterations:        m.MaxIterations,
		Bootstrap: sem.BootstrapConfig{
			Samples:                m.BootstrapSamples,
			ConfidenceLevel:        m.ConfidenceLevel,
			SignificanceLevel:      m.SignificanceLevel,
			MaxExcludedFraction:    m.MaxExcludedFraction,
			ReplicateMaxIterations: m.ReplicateMaxIterations,
			Workers:                m.BootstrapWorkers,
			BatchSize:              m.BootstrapBatchSize,
		},
	}
}
