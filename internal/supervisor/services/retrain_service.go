// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/teastore-recommender/internal/models"
	syncpkg "github.com/tomtom215/teastore-recommender/internal/sync"
)

// Retrainer runs a training round. Satisfied by *sync.Synchronizer.
type Retrainer interface {
	Retrain(ctx context.Context, trigger string) (int64, error)
}

// RetrainServiceConfig holds configuration for the retrain service.
type RetrainServiceConfig struct {
	// TrainOnStartup runs a round as soon as the service starts.
	TrainOnStartup bool

	// Interval between scheduled rounds. Zero disables scheduling.
	Interval time.Duration

	// RoundTimeout bounds a single round, including the wait for the
	// persistence service. Zero leaves the round unbounded so the wait
	// lasts until the generator finishes or the service stops.
	RoundTimeout time.Duration
}

// RetrainService triggers training rounds on startup and on a schedule.
type RetrainService struct {
	retrainer Retrainer
	config    RetrainServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewRetrainService creates a new retrain service.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewRetrainService(retrainer Retrainer, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.RoundTimeout < 0 {
		cfg.RoundTimeout = 0
	}
	return &RetrainService{
		retrainer: retrainer,
		config:    cfg,
		logger:    logger.With().Str("service", "retrain").Logger(),
		name:      "retrain-service",
	}
}

// Serve implements suture.Service. Failed rounds are logged and do not stop
// the service; the next scheduled round retries.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("interval", s.config.Interval).
		Dur("round_timeout", s.config.RoundTimeout).
		Msg("retrain service starting")

	if s.config.TrainOnStartup {
		s.retrain(ctx, models.TriggerStartup)
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.retrain(ctx, models.TriggerSchedule)
		}
	}
}

func (s *RetrainService) retrain(ctx context.Context, trigger string) {
	roundCtx := ctx
	if s.config.RoundTimeout > 0 {
		var cancel context.CancelFunc
		roundCtx, cancel = context.WithTimeout(ctx, s.config.RoundTimeout)
		defer cancel()
	}

	start := time.Now()
	elements, err := s.retrainer.Retrain(roundCtx, trigger)
	switch {
	case errors.Is(err, syncpkg.ErrTrainingInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("round skipped, training already in progress")
	case ctx.Err() != nil:
		// Shutdown.
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("training round failed")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int64("elements", elements).
			Dur("duration", time.Since(start)).
			Msg("training round complete")
	}
}

// String returns the service name for logging.
func (s *RetrainService) String() string {
	return s.name
}
