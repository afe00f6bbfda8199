// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

//go:build !nats

package eventprocessor

import "context"

// Retrainer runs a training round. Implemented by *sync.Synchronizer.
type Retrainer interface {
	Retrain(ctx context.Context, trigger string) (int64, error)
}

// RetrainSubscriber is a stub when NATS dependencies are not available.
type RetrainSubscriber struct{}

// NewRetrainSubscriber returns ErrNATSNotEnabled.
func NewRetrainSubscriber(cfg Config, retrainer Retrainer) (*RetrainSubscriber, error) {
	return nil, ErrNATSNotEnabled
}

// Run returns ErrNATSNotEnabled.
func (s *RetrainSubscriber) Run(ctx context.Context) error {
	return ErrNATSNotEnabled
}

// Close is a no-op stub.
func (s *RetrainSubscriber) Close() error {
	return nil
}
