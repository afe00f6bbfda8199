// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/config"
)

// Config holds the event bus settings.
type Config struct {
	URL            string
	RetrainSubject string
	TrainedSubject string

	// Instance identifies this replica in published events.
	Instance string

	MaxReconnects int
	ReconnectWait time.Duration
	CloseTimeout  time.Duration
}

// DefaultConfig returns the defaults used when fields are left empty.
func DefaultConfig() Config {
	return Config{
		URL:            "nats://127.0.0.1:4222",
		RetrainSubject: "recommender.retrain",
		TrainedSubject: "recommender.trained",
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
		CloseTimeout:   10 * time.Second,
	}
}

// ConfigFromNATS builds the event bus config from the application config.
func ConfigFromNATS(cfg *config.NATSConfig, instance string) Config {
	c := DefaultConfig()
	if cfg.URL != "" {
		c.URL = cfg.URL
	}
	if cfg.RetrainSubject != "" {
		c.RetrainSubject = cfg.RetrainSubject
	}
	if cfg.TrainedSubject != "" {
		c.TrainedSubject = cfg.TrainedSubject
	}
	c.Instance = instance
	return c
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}
	if c.RetrainSubject == "" || c.TrainedSubject == "" {
		return fmt.Errorf("%w: retrain and trained subjects are required", ErrInvalidConfig)
	}
	if c.RetrainSubject == c.TrainedSubject {
		return fmt.Errorf("%w: retrain and trained subjects must differ", ErrInvalidConfig)
	}
	return nil
}

// ServerConfig configures the embedded NATS server.
type ServerConfig struct {
	Host string
	// Port is the client port; -1 picks a random free port.
	Port int
}
