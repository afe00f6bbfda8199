// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Persistence PersistenceConfig `koanf:"persistence"`
	Peers       PeersConfig       `koanf:"peers"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	History     HistoryConfig     `koanf:"history"`
	NATS        NATSConfig        `koanf:"nats"`
	Security    SecurityConfig    `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Host         string        `koanf:"host"`
	Timeout      time.Duration `koanf:"timeout"` // Per request handler timeout
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// PersistenceConfig holds the upstream persistence service connection settings
type PersistenceConfig struct {
	URL                string        `koanf:"url"`
	Timeout            time.Duration `koanf:"timeout"`
	RequestsPerSecond  float64       `koanf:"requests_per_second"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"` // Consecutive failures before the breaker opens
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`      // Open state duration before probing again
}

// PeersConfig lists the other recommender replicas taking part in cutoff consensus
type PeersConfig struct {
	URLs    []string      `koanf:"urls"`
	Timeout time.Duration `koanf:"timeout"`
}

// RecommendConfig holds training and serving settings
type RecommendConfig struct {
	Algorithm          string          `koanf:"algorithm"`
	FallbackAlgorithm  string          `koanf:"fallback_algorithm"` // Empty disables the fallback
	MaxRecommendations int             `koanf:"max_recommendations"`
	CutoffPinMS        int64           `koanf:"cutoff_pin_ms"` // 0 lets every round negotiate its own cutoff
	TrainOnStartup     bool            `koanf:"train_on_startup"`
	RetrainInterval    time.Duration   `koanf:"retrain_interval"` // 0 disables periodic retraining
	RoundTimeout       time.Duration   `koanf:"round_timeout"`    // 0 lets a round wait for the source indefinitely
	WaitSchedule       []time.Duration `koanf:"wait_schedule"`    // Last entry repeats until the source is ready
}

// HistoryConfig holds training round history settings
type HistoryConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	InMemory  bool   `koanf:"in_memory"`
	MaxRounds int    `koanf:"max_rounds"`
}

// NATSConfig holds event bus settings
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded"`
	EmbeddedPort   int    `koanf:"embedded_port"`
	RetrainSubject string `koanf:"retrain_subject"`
	TrainedSubject string `koanf:"trained_subject"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DefaultWaitSchedule is the delay sequence used while the persistence
// service is still generating its database.
var DefaultWaitSchedule = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
	60 * time.Second,
	120 * time.Second,
}

// Load reads configuration with the following precedence (highest to lowest):
//  1. Environment variables
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Built-in defaults
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
