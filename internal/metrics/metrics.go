// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Training Metrics
	TrainingRounds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_training_rounds_total",
			Help: "Total number of training rounds by result",
		},
		[]string{"result"}, // "success", "fetch_failed", "train_failed", "canceled"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_training_duration_seconds",
			Help:    "Duration of training rounds in seconds, including the source wait",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	TrainingElements = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_training_elements",
			Help: "Order items plus orders used by the last training round (-1 on failure)",
		},
	)

	Ready = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_ready",
			Help: "Readiness flag (1 = accepting recommend requests)",
		},
	)

	LastTrainingSucceeded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_last_training_succeeded",
			Help: "Whether the most recent training round trained on fresh data",
		},
	)

	CutoffTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_cutoff_timestamp_ms",
			Help: "Adopted training cutoff in epoch milliseconds",
		},
	)

	SourceWaitAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_source_wait_attempts_total",
			Help: "Polls of the persistence generation-finished signal",
		},
		[]string{"result"}, // "finished", "pending", "unavailable"
	)

	PeerReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_peer_replies_total",
			Help: "Cutoff replies received from peer recommenders",
		},
		[]string{"outcome"}, // "ok", "null", "non_success", "invalid"
	)

	OrphanItemSets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_orphan_itemsets_total",
			Help: "Order item groups dropped because their order was not found",
		},
	)

	// Serving Metrics
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_recommendations_total",
			Help: "Recommend calls by algorithm and result",
		},
		[]string{"algorithm", "result"},
	)

	Fallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_fallback_total",
			Help: "Recommend calls answered by the fallback algorithm",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Upstream Metrics
	PersistenceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persistence_request_duration_seconds",
			Help:    "Duration of persistence service requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_events_published_total",
			Help: "Training events published to NATS",
		},
		[]string{"subject", "result"},
	)

	RetrainTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_retrain_triggers_total",
			Help: "Retrain requests by source",
		},
		[]string{"source"}, // "api", "schedule", "startup", "event"
	)
)

// RecordTrainingRound records the outcome of a training round.
func RecordTrainingRound(result string, duration time.Duration, elements int64) {
	TrainingRounds.WithLabelValues(result).Inc()
	TrainingDuration.Observe(duration.Seconds())
	TrainingElements.Set(float64(elements))
}

// SetReady updates the readiness gauge.
func SetReady(ready bool) {
	Ready.Set(boolToFloat(ready))
}

// SetLastTrainingSucceeded updates the operator signal gauge.
func SetLastTrainingSucceeded(ok bool) {
	LastTrainingSucceeded.Set(boolToFloat(ok))
}

// SetCutoff records the adopted cutoff.
func SetCutoff(cutoffMillis int64) {
	CutoffTimestamp.Set(float64(cutoffMillis))
}

// RecordSourceWait records one generation-finished poll.
func RecordSourceWait(result string) {
	SourceWaitAttempts.WithLabelValues(result).Inc()
}

// RecordPeerReply records one peer cutoff reply.
func RecordPeerReply(outcome string) {
	PeerReplies.WithLabelValues(outcome).Inc()
}

// RecordOrphanItemSet counts one dropped order item group.
func RecordOrphanItemSet() {
	OrphanItemSets.Inc()
}

// RecordRecommendation records a recommend call.
func RecordRecommendation(algorithm, result string) {
	Recommendations.WithLabelValues(algorithm, result).Inc()
}

// RecordFallback counts a recommend call served by the fallback algorithm.
func RecordFallback() {
	Fallbacks.Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordPersistenceRequest records the latency of a persistence service call.
func RecordPersistenceRequest(endpoint string, duration time.Duration) {
	PersistenceRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordEventPublished records a NATS publish attempt.
func RecordEventPublished(subject string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(subject, result).Inc()
}

// RecordRetrainTrigger counts a retrain request by source.
func RecordRetrainTrigger(source string) {
	RetrainTriggers.WithLabelValues(source).Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
