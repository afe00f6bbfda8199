// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/teastore-recommender/config.yaml",
	"/etc/teastore-recommender/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			Timeout:      30 * time.Second,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 10 * time.Minute, // /train holds the connection for a whole round
			IdleTimeout:  60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Persistence: PersistenceConfig{
			URL:                "http://persistence:8080/tools.descartes.teastore.persistence/rest",
			Timeout:            30 * time.Second,
			RequestsPerSecond:  20,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Peers: PeersConfig{
			URLs:    []string{},
			Timeout: 5 * time.Second,
		},
		Recommend: RecommendConfig{
			Algorithm:          "slopeone",
			FallbackAlgorithm:  "popularity",
			MaxRecommendations: 10,
			CutoffPinMS:        0,
			TrainOnStartup:     true,
			RetrainInterval:    0,
			RoundTimeout:       0,
			WaitSchedule:       append([]time.Duration(nil), DefaultWaitSchedule...),
		},
		History: HistoryConfig{
			Enabled:   true,
			Path:      "/data/history",
			InMemory:  false,
			MaxRounds: 100,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			EmbeddedPort:   4222,
			RetrainSubject: "recommender.retrain",
			TrainedSubject: "recommender.trained",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// PERSISTENCE_URL -> persistence.url
	// RECOMMENDER_RETRAIN_INTERVAL -> recommend.retrain_interval
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"peers.urls",
	"recommend.wait_schedule",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_timeout":       "server.timeout",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"http_idle_timeout":  "server.idle_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Persistence service
	"persistence_url":                  "persistence.url",
	"persistence_timeout":              "persistence.timeout",
	"persistence_rps":                  "persistence.requests_per_second",
	"persistence_breaker_max_failures": "persistence.breaker_max_failures",
	"persistence_breaker_timeout":      "persistence.breaker_timeout",

	// Peer replicas
	"peer_urls":    "peers.urls",
	"peer_timeout": "peers.timeout",

	// Training and serving
	"recommender_algorithm":           "recommend.algorithm",
	"recommender_fallback_algorithm":  "recommend.fallback_algorithm",
	"recommender_max_recommendations": "recommend.max_recommendations",
	"recommender_cutoff_pin_ms":       "recommend.cutoff_pin_ms",
	"recommender_train_on_startup":    "recommend.train_on_startup",
	"recommender_retrain_interval":    "recommend.retrain_interval",
	"recommender_round_timeout":       "recommend.round_timeout",
	"recommender_wait_schedule":       "recommend.wait_schedule",

	// Round history
	"history_enabled":    "history.enabled",
	"history_path":       "history.path",
	"history_in_memory":  "history.in_memory",
	"history_max_rounds": "history.max_rounds",

	// NATS
	"nats_enabled":         "nats.enabled",
	"nats_url":             "nats.url",
	"nats_embedded":        "nats.embedded",
	"nats_embedded_port":   "nats.embedded_port",
	"nats_retrain_subject": "nats.retrain_subject",
	"nats_trained_subject": "nats.trained_subject",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - PERSISTENCE_URL -> persistence.url
//   - PEER_URLS -> peers.urls
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables do not pollute config
	return ""
}
