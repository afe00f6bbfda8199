// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package config provides centralized configuration management for the recommender.

# Configuration Sources

Configuration is loaded in layers with Koanf v2, later layers overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - Optional YAML file (CONFIG_PATH or config.yaml in the working directory)
  - Environment variables

# Configuration Structure

  - ServerConfig: HTTP listener and timeouts
  - LoggingConfig: zerolog level, format and caller info
  - PersistenceConfig: upstream persistence service, pacing and circuit breaker
  - PeersConfig: sibling recommender replicas used for cutoff consensus
  - RecommendConfig: algorithm choice, retrain schedule and source wait schedule
  - HistoryConfig: BadgerDB training round history
  - NATSConfig: retrain trigger subscription and training event publication
  - SecurityConfig: CORS and API rate limiting

# Environment Variables

Persistence and peers:
  - PERSISTENCE_URL: Base URL of the persistence service (required)
  - PERSISTENCE_TIMEOUT: Per request timeout (default: 30s)
  - PERSISTENCE_RPS: Request pacing toward persistence (default: 20)
  - PEER_URLS: Comma-separated base URLs of the other recommender replicas
  - PEER_TIMEOUT: Timeout of one timestamp exchange (default: 5s)

Training:
  - RECOMMENDER_ALGORITHM: slopeone or popularity (default: slopeone)
  - RECOMMENDER_FALLBACK_ALGORITHM: popularity, or empty to disable fallback
  - RECOMMENDER_CUTOFF_PIN_MS: Fixed training cutoff in epoch milliseconds
  - RECOMMENDER_TRAIN_ON_STARTUP: Run one round when the service starts (default: true)
  - RECOMMENDER_RETRAIN_INTERVAL: Periodic retrain interval, 0 disables (default: 0)
  - RECOMMENDER_ROUND_TIMEOUT: Upper bound for startup and scheduled rounds, 0 waits for the persistence service indefinitely (default: 0)
  - RECOMMENDER_WAIT_SCHEDULE: Comma-separated source wait delays

Example:

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
