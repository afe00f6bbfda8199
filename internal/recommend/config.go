// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package recommend

import (
	"fmt"
)

// Algorithm identifiers accepted in configuration.
const (
	AlgorithmSlopeOne   = "slopeone"
	AlgorithmPopularity = "popularity"
)

// Config contains the serving configuration of the recommender.
type Config struct {
	// Algorithm is the primary algorithm.
	Algorithm string `json:"algorithm"`

	// FallbackAlgorithm answers when the primary algorithm cannot score a
	// user. Empty disables the fallback.
	FallbackAlgorithm string `json:"fallback_algorithm"`

	// MaxRecommendations bounds every recommendation list.
	MaxRecommendations int `json:"max_recommendations"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Algorithm:          AlgorithmSlopeOne,
		FallbackAlgorithm:  AlgorithmPopularity,
		MaxRecommendations: DefaultMaxRecommendations,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !knownAlgorithm(c.Algorithm) {
		return fmt.Errorf("algorithm must be one of %q or %q, got %q", AlgorithmSlopeOne, AlgorithmPopularity, c.Algorithm)
	}
	if c.FallbackAlgorithm != "" && !knownAlgorithm(c.FallbackAlgorithm) {
		return fmt.Errorf("fallback_algorithm must be empty, %q or %q, got %q", AlgorithmSlopeOne, AlgorithmPopularity, c.FallbackAlgorithm)
	}
	if c.FallbackAlgorithm == c.Algorithm {
		return fmt.Errorf("fallback_algorithm must differ from algorithm %q", c.Algorithm)
	}
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("max_recommendations must be positive, got %d", c.MaxRecommendations)
	}
	return nil
}

func knownAlgorithm(name string) bool {
	return name == AlgorithmSlopeOne || name == AlgorithmPopularity
}
