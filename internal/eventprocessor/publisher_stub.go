// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/tomtom215/teastore-recommender/internal/models"
)

// Publisher is a stub when NATS dependencies are not available.
type Publisher struct{}

// NewPublisher returns ErrNATSNotEnabled.
func NewPublisher(cfg Config) (*Publisher, error) {
	return nil, ErrNATSNotEnabled
}

// PublishTrained returns ErrNATSNotEnabled.
func (p *Publisher) PublishTrained(ctx context.Context, round *models.TrainingRound) error {
	return ErrNATSNotEnabled
}

// RequestRetrain returns ErrNATSNotEnabled.
func (p *Publisher) RequestRetrain(ctx context.Context, req *RetrainRequest) error {
	return ErrNATSNotEnabled
}

// Close is a no-op stub.
func (p *Publisher) Close() error {
	return nil
}
