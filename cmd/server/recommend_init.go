// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package main

import (
	"fmt"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/config"
	"github.com/tomtom215/teastore-recommender/internal/history"
	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/recommend"
	"github.com/tomtom215/teastore-recommender/internal/recommend/algorithms"
	"github.com/tomtom215/teastore-recommender/internal/sync"
)

// recommender bundles the serving and training components.
type recommender struct {
	selector     *recommend.Selector
	synchronizer *sync.Synchronizer
}

// initRecommender builds the algorithms, the selector and the synchronizer
// that feeds it.
func initRecommender(cfg *config.Config) (*recommender, error) {
	recCfg := recommend.Config{
		Algorithm:          cfg.Recommend.Algorithm,
		FallbackAlgorithm:  cfg.Recommend.FallbackAlgorithm,
		MaxRecommendations: cfg.Recommend.MaxRecommendations,
	}
	if err := recCfg.Validate(); err != nil {
		return nil, err
	}

	primary, err := algorithms.New(recCfg.Algorithm)
	if err != nil {
		return nil, err
	}
	var fallback recommend.Algorithm
	if recCfg.FallbackAlgorithm != "" {
		if fallback, err = algorithms.New(recCfg.FallbackAlgorithm); err != nil {
			return nil, err
		}
	}
	selector := recommend.NewSelector(primary, fallback, recCfg, logging.WithComponent("recommend"))

	synchronizer := sync.NewSynchronizer(
		sync.NewCircuitBreakerClient(&cfg.Persistence),
		sync.NewPeerClient(cfg.Peers.Timeout),
		selector,
		sync.Options{
			PeerURLs:     cfg.Peers.URLs,
			WaitSchedule: cfg.Recommend.WaitSchedule,
			CutoffPin:    cfg.Recommend.CutoffPinMS,
			Location:     time.Local,
		},
		logging.WithComponent("sync"),
	)

	logging.Info().
		Str("algorithm", primary.Name()).
		Bool("fallback", fallback != nil).
		Int64("cutoff_pin_ms", cfg.Recommend.CutoffPinMS).
		Strs("peers", cfg.Peers.URLs).
		Msg("Recommender initialized")

	return &recommender{selector: selector, synchronizer: synchronizer}, nil
}

// initHistory opens the round history store and attaches it to the
// synchronizer. Returns nil when history is disabled.
func initHistory(cfg *config.Config, synchronizer *sync.Synchronizer) (*history.Store, error) {
	if !cfg.History.Enabled {
		logging.Info().Msg("Training history disabled")
		return nil, nil
	}

	store, err := history.Open(&cfg.History)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	synchronizer.SetHistory(store)

	logging.Info().
		Str("path", cfg.History.Path).
		Bool("in_memory", cfg.History.InMemory).
		Int("max_rounds", cfg.History.MaxRounds).
		Msg("Training history enabled")
	return store, nil
}
