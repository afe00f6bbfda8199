// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package config

import (
	"fmt"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validAlgorithms = map[string]bool{
	"slopeone":   true,
	"popularity": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validatePersistence(); err != nil {
		return err
	}

	if err := c.validatePeers(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateHistory(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validatePersistence() error {
	if c.Persistence.URL == "" {
		return fmt.Errorf("PERSISTENCE_URL is required")
	}
	if err := validateServiceURL(c.Persistence.URL, "PERSISTENCE_URL"); err != nil {
		return err
	}
	if c.Persistence.Timeout <= 0 {
		return fmt.Errorf("PERSISTENCE_TIMEOUT must be positive, got %v", c.Persistence.Timeout)
	}
	if c.Persistence.RequestsPerSecond < 0 {
		return fmt.Errorf("PERSISTENCE_RPS must not be negative, got %v", c.Persistence.RequestsPerSecond)
	}
	if c.Persistence.BreakerMaxFailures == 0 {
		return fmt.Errorf("PERSISTENCE_BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validatePeers() error {
	for _, peer := range c.Peers.URLs {
		if err := validateServiceURL(peer, "PEER_URLS"); err != nil {
			return err
		}
	}
	if len(c.Peers.URLs) > 0 && c.Peers.Timeout <= 0 {
		return fmt.Errorf("PEER_TIMEOUT must be positive when PEER_URLS is set, got %v", c.Peers.Timeout)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if !validAlgorithms[r.Algorithm] {
		return fmt.Errorf("RECOMMENDER_ALGORITHM must be one of: slopeone, popularity, got %q", r.Algorithm)
	}
	if r.FallbackAlgorithm != "" {
		if !validAlgorithms[r.FallbackAlgorithm] {
			return fmt.Errorf("RECOMMENDER_FALLBACK_ALGORITHM must be one of: slopeone, popularity, got %q", r.FallbackAlgorithm)
		}
		if r.FallbackAlgorithm == r.Algorithm {
			return fmt.Errorf("RECOMMENDER_FALLBACK_ALGORITHM must differ from RECOMMENDER_ALGORITHM")
		}
	}
	if r.MaxRecommendations < 1 {
		return fmt.Errorf("RECOMMENDER_MAX_RECOMMENDATIONS must be at least 1, got %d", r.MaxRecommendations)
	}
	if r.CutoffPinMS < 0 {
		return fmt.Errorf("RECOMMENDER_CUTOFF_PIN_MS must not be negative, got %d", r.CutoffPinMS)
	}
	if r.RetrainInterval < 0 {
		return fmt.Errorf("RECOMMENDER_RETRAIN_INTERVAL must not be negative, got %v", r.RetrainInterval)
	}
	if r.RoundTimeout < 0 {
		return fmt.Errorf("RECOMMENDER_ROUND_TIMEOUT must not be negative, got %v", r.RoundTimeout)
	}
	if len(r.WaitSchedule) == 0 {
		return fmt.Errorf("RECOMMENDER_WAIT_SCHEDULE must contain at least one delay")
	}
	for _, d := range r.WaitSchedule {
		if d <= 0 {
			return fmt.Errorf("RECOMMENDER_WAIT_SCHEDULE delays must be positive, got %v", d)
		}
	}
	return nil
}

func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}
	if !c.History.InMemory && c.History.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required when HISTORY_ENABLED=true")
	}
	if c.History.MaxRounds < 1 {
		return fmt.Errorf("HISTORY_MAX_ROUNDS must be at least 1, got %d", c.History.MaxRounds)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.EmbeddedServer && (c.NATS.EmbeddedPort < 1 || c.NATS.EmbeddedPort > 65535) {
		return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535, got %d", c.NATS.EmbeddedPort)
	}
	if c.NATS.RetrainSubject == "" || c.NATS.TrainedSubject == "" {
		return fmt.Errorf("NATS_RETRAIN_SUBJECT and NATS_TRAINED_SUBJECT are required when NATS_ENABLED=true")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
