// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package metrics provides Prometheus instrumentation for the recommender.

Metrics are registered on the default registry through promauto and exposed at
/metrics:

	curl http://localhost:8080/metrics

# Training

  - recommender_training_rounds_total{result}: rounds by outcome (success, fetch_failed, train_failed, canceled)
  - recommender_training_duration_seconds: end-to-end round duration
  - recommender_training_elements: order items plus orders used by the last round
  - recommender_ready / recommender_last_training_succeeded: readiness and operator signal
  - recommender_cutoff_timestamp_ms: adopted training cutoff
  - recommender_source_wait_attempts_total{result}: generation-finished polls
  - recommender_peer_replies_total{outcome}: cutoff replies from peer replicas
  - recommender_orphan_itemsets_total: item groups whose order was never found

# Serving

  - recommender_recommendations_total{algorithm,result}
  - recommender_fallback_total
  - api_requests_total / api_request_duration_seconds

# Upstream

  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_consecutive_failures, circuit_breaker_state_transitions_total
  - persistence_request_duration_seconds{endpoint}
*/
package metrics
