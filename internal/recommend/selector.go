// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/teastore-recommender/internal/metrics"
	"github.com/tomtom215/teastore-recommender/internal/models"
)

// Selector trains the configured algorithms and serves recommendations,
// switching to the fallback algorithm when the primary cannot score a user.
type Selector struct {
	primary  Algorithm
	fallback Algorithm
	limit    int
	logger   zerolog.Logger
}

// NewSelector creates a selector. fallback may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSelector(primary, fallback Algorithm, cfg Config, logger zerolog.Logger) *Selector {
	limit := cfg.MaxRecommendations
	if limit <= 0 {
		limit = DefaultMaxRecommendations
	}
	return &Selector{
		primary:  primary,
		fallback: fallback,
		limit:    limit,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Primary returns the primary algorithm.
func (s *Selector) Primary() Algorithm {
	return s.primary
}

// IsTrained reports whether the primary algorithm has a published model.
func (s *Selector) IsTrained() bool {
	return s.primary.IsTrained()
}

// Train builds the rating matrix from the filtered records and trains the
// primary and fallback algorithms on it. Neither model is published unless
// both fit, so a failed round leaves the previous pair serving.
func (s *Selector) Train(ctx context.Context, items []models.OrderItem, orders []models.Order) (*TrainingSet, error) {
	start := time.Now()

	ts := BuildRatingMatrix(items, orders, s.logger)

	publishPrimary, err := s.primary.Fit(ctx, ts)
	if err != nil {
		return ts, fmt.Errorf("train %s: %w", s.primary.Name(), err)
	}
	publishFallback := func() {}
	if s.fallback != nil {
		publishFallback, err = s.fallback.Fit(ctx, ts)
		if err != nil {
			return ts, fmt.Errorf("train fallback %s: %w", s.fallback.Name(), err)
		}
	}
	publishFallback()
	publishPrimary()

	s.logger.Info().
		Int("users", len(ts.Ratings)).
		Int("products", len(ts.Products)).
		Int("dropped_item_sets", ts.DroppedItemSets).
		Dur("duration", time.Since(start)).
		Msg("Training recommender finished")

	return ts, nil
}

// Recommend returns product recommendations for the user and cart.
// userID may be nil for anonymous visitors.
func (s *Selector) Recommend(ctx context.Context, userID *int64, cart []int64) (*Result, error) {
	if !s.primary.IsTrained() {
		metrics.RecordRecommendation(s.primary.Name(), "not_trained")
		return nil, ErrNotTrained
	}
	if len(cart) == 0 {
		metrics.RecordRecommendation(s.primary.Name(), "empty_cart")
		return &Result{Products: []int64{}, Algorithm: s.primary.Name()}, nil
	}

	algo := s.primary
	scores, err := algo.Predict(ctx, userID, cart)
	fallback := false
	if errors.Is(err, ErrUseFallbackStrategy) && s.fallback != nil && s.fallback.IsTrained() {
		s.logger.Debug().Err(err).Str("fallback", s.fallback.Name()).Msg("Switching to fallback algorithm")
		metrics.RecordFallback()
		algo = s.fallback
		fallback = true
		scores, err = algo.Predict(ctx, userID, cart)
	}
	if err != nil {
		metrics.RecordRecommendation(algo.Name(), "error")
		return nil, err
	}

	metrics.RecordRecommendation(algo.Name(), "success")
	return &Result{
		Products:  Rank(scores, cart, s.limit),
		Algorithm: algo.Name(),
		Fallback:  fallback,
	}, nil
}
