// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package services

import (
	"context"
	"errors"
)

// ErrSubscriptionClosed is returned when the event stream ends while the
// service is still supposed to run. The supervisor restarts the service.
var ErrSubscriptionClosed = errors.New("event subscription closed")

// EventRunner consumes events until ctx ends.
// Satisfied by *eventprocessor.RetrainSubscriber.
type EventRunner interface {
	Run(ctx context.Context) error
}

// EventSubscriberService wraps an event subscriber as a supervised service.
type EventSubscriberService struct {
	runner EventRunner
	name   string
}

// NewEventSubscriberService creates a new subscriber service.
func NewEventSubscriberService(runner EventRunner) *EventSubscriberService {
	return &EventSubscriberService{
		runner: runner,
		name:   "event-subscriber",
	}
}

// Serve implements suture.Service.
func (s *EventSubscriberService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		return ErrSubscriptionClosed
	}
	return err
}

// String returns the service name for logging.
func (s *EventSubscriberService) String() string {
	return s.name
}
