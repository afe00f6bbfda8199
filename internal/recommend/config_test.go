// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package recommend

import "testing"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"popularity primary without fallback", func(c *Config) {
			c.Algorithm = AlgorithmPopularity
			c.FallbackAlgorithm = ""
		}, false},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "als" }, true},
		{"unknown fallback", func(c *Config) { c.FallbackAlgorithm = "random" }, true},
		{"fallback equals primary", func(c *Config) { c.FallbackAlgorithm = AlgorithmSlopeOne }, true},
		{"zero limit", func(c *Config) { c.MaxRecommendations = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
