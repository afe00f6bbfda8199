// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

//go:build nats

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/models"
	syncpkg "github.com/tomtom215/teastore-recommender/internal/sync"
)

// Retrainer runs a training round. Implemented by *sync.Synchronizer.
type Retrainer interface {
	Retrain(ctx context.Context, trigger string) (int64, error)
}

// RetrainSubscriber runs a training round for every retrain request.
type RetrainSubscriber struct {
	subscriber message.Subscriber
	retrainer  Retrainer
	config     Config
	logger     watermill.LoggerAdapter
}

// NewRetrainSubscriber connects a Watermill NATS subscriber. No queue group
// is used, so every replica receives every request.
func NewRetrainSubscriber(cfg Config, retrainer Retrainer) (*RetrainSubscriber, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := newLogger("nats-subscriber")

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOptions(&cfg, "recommender-subscriber", logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &RetrainSubscriber{
		subscriber: sub,
		retrainer:  retrainer,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Run consumes retrain requests until ctx ends. Requests are handled one at
// a time, so a request published while an earlier request trains is
// delivered once that round finishes and runs a round of its own. A request
// is only dropped when a round started over HTTP or by the schedule holds
// the training lock.
func (s *RetrainSubscriber) Run(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.config.RetrainSubject)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.config.RetrainSubject, err)
	}

	logging.Info().Str("subject", s.config.RetrainSubject).Msg("Listening for retrain requests")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (s *RetrainSubscriber) handle(ctx context.Context, msg *message.Message) {
	req, err := UnmarshalRetrainRequest(msg.Payload, msg.UUID)
	if err != nil {
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Ignoring malformed retrain request")
		return
	}

	ctx = logging.ContextWithCorrelationID(ctx, req.EventID)
	log := logging.Ctx(ctx)
	log.Info().
		Str("requested_by", req.RequestedBy).
		Str("reason", req.Reason).
		Msg("Retrain requested over NATS")

	elements, err := s.retrainer.Retrain(ctx, models.TriggerEvent)
	switch {
	case errors.Is(err, syncpkg.ErrTrainingInProgress):
		log.Info().Msg("Training already in progress, request dropped")
	case errors.Is(err, context.Canceled):
		log.Debug().Msg("Retrain canceled by shutdown")
	case err != nil:
		log.Warn().Err(err).Msg("Event-triggered retrain failed")
	default:
		log.Info().Int64("elements", elements).Msg("Event-triggered retrain finished")
	}
}

// Close closes the subscriber.
func (s *RetrainSubscriber) Close() error {
	return s.subscriber.Close()
}
