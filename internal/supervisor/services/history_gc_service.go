// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector reclaims storage space. Satisfied by *history.Store.
type GarbageCollector interface {
	RunGC() error
}

// HistoryGCService runs garbage collection on the round history store.
type HistoryGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewHistoryGCService creates a GC service. Interval defaults to 10m.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewHistoryGCService(store GarbageCollector, interval time.Duration, logger zerolog.Logger) *HistoryGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &HistoryGCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "history-gc").Logger(),
		name:     "history-gc",
	}
}

// Serve implements suture.Service. GC errors are logged, not returned.
func (s *HistoryGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("history value log GC failed")
			}
		}
	}
}

// String returns the service name for logging.
func (s *HistoryGCService) String() string {
	return s.name
}
