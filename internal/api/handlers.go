// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package api

import (
	"context"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/models"
	"github.com/tomtom215/teastore-recommender/internal/recommend"
)

// TrainingController is the synchronizer surface used by the /train routes.
// Implemented by *sync.Synchronizer.
type TrainingController interface {
	RetrieveDataAndRetrain(ctx context.Context) (int64, error)
	Cutoff() (int64, bool)
	IsReady() bool
	Status(ctx context.Context) models.TrainingStatus
}

// Recommender serves recommendations. Implemented by *recommend.Selector.
type Recommender interface {
	Recommend(ctx context.Context, userID *int64, cart []int64) (*recommend.Result, error)
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_train.go: /train, /train/timestamp, /train/isready, /train/status
//   - handlers_recommend.go: /recommend, /recommendsingle
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	training    TrainingController
	recommender Recommender
	startTime   time.Time

	// recommendTimeout bounds a single recommend call.
	recommendTimeout time.Duration
}

// NewHandler creates a new API handler.
func NewHandler(training TrainingController, recommender Recommender) *Handler {
	return &Handler{
		training:         training,
		recommender:      recommender,
		startTime:        time.Now(),
		recommendTimeout: 10 * time.Second,
	}
}
