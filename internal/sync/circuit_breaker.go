// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/teastore-recommender/internal/config"
	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/metrics"
	"github.com/tomtom215/teastore-recommender/internal/models"
)

// persistenceBreakerName labels the persistence breaker in logs and metrics.
const persistenceBreakerName = "persistence-api"

// CircuitBreakerClient wraps a PersistenceSource with the circuit breaker pattern.
// While the persistence service is down, calls fail fast with
// gobreaker.ErrOpenState instead of waiting for the HTTP timeout.
//
// The breaker uses real time for its interval and timeout; tests should use
// short timeouts rather than mock the breaker.
type CircuitBreakerClient struct {
	client PersistenceSource
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a persistence client with circuit breaker.
// Circuit breaker configuration:
//   - Max 1 probe request in half-open state
//   - Opens after cfg.BreakerMaxFailures consecutive failures
//   - Waits cfg.BreakerTimeout before attempting recovery
func NewCircuitBreakerClient(cfg *config.PersistenceConfig) *CircuitBreakerClient {
	return NewCircuitBreakerClientWithSource(NewPersistenceClient(cfg), cfg.BreakerMaxFailures, cfg.BreakerTimeout)
}

// NewCircuitBreakerClientWithSource wraps an arbitrary source.
func NewCircuitBreakerClientWithSource(source PersistenceSource, maxFailures uint32, timeout time.Duration) *CircuitBreakerClient {
	cbName := persistenceBreakerName

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute, // Reset counts after 1 minute in closed state
		Timeout:     timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= maxFailures
			if shouldTrip {
				logging.Warn().
					Str("breaker", cbName).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: source,
		cb:     cb,
		name:   cbName,
	}
}

// GeneratorFinished implements PersistenceSource.
func (cbc *CircuitBreakerClient) GeneratorFinished(ctx context.Context) (bool, error) {
	finished, err := castResult[bool](cbc.execute(func() (interface{}, error) {
		ok, err := cbc.client.GeneratorFinished(ctx)
		if err != nil {
			return nil, err
		}
		return &ok, nil
	}))
	if err != nil {
		return false, err
	}
	return *finished, nil
}

// FetchOrderItems implements PersistenceSource.
func (cbc *CircuitBreakerClient) FetchOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	items, err := castResult[[]models.OrderItem](cbc.execute(func() (interface{}, error) {
		items, err := cbc.client.FetchOrderItems(ctx)
		if err != nil {
			return nil, err
		}
		return &items, nil
	}))
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// FetchOrders implements PersistenceSource.
func (cbc *CircuitBreakerClient) FetchOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := castResult[[]models.Order](cbc.execute(func() (interface{}, error) {
		orders, err := cbc.client.FetchOrders(ctx)
		if err != nil {
			return nil, err
		}
		return &orders, nil
	}))
	if err != nil {
		return nil, err
	}
	return *orders, nil
}

// State returns the current breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

// execute wraps a persistence call with circuit breaker protection
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Debug().Err(err).Str("breaker", cbc.name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
