// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/teastore-recommender/internal/metrics"
	"github.com/tomtom215/teastore-recommender/internal/models"
)

// Publisher publishes recommender events over core NATS.
type Publisher struct {
	publisher message.Publisher
	config    Config
	logger    watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewPublisher connects a Watermill NATS publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := newLogger("nats-publisher")

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions(&cfg, "recommender-publisher", logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &Publisher{
		publisher: pub,
		config:    cfg,
		logger:    logger,
	}, nil
}

// Publish sends a message to topic.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg.SetContext(ctx)
	err := p.publisher.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	return err
}

// PublishTrained announces a finished round on the trained subject.
func (p *Publisher) PublishTrained(ctx context.Context, round *models.TrainingRound) error {
	event := NewTrainedEvent(round, p.config.Instance)
	data, err := Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("round_id", event.RoundID)
	msg.Metadata.Set("result", event.Result)
	msg.Metadata.Set("instance", event.Instance)

	if err := p.Publish(ctx, p.config.TrainedSubject, msg); err != nil {
		return fmt.Errorf("publish trained event: %w", err)
	}
	return nil
}

// RequestRetrain publishes a retrain request to every replica.
func (p *Publisher) RequestRetrain(ctx context.Context, req *RetrainRequest) error {
	data, err := Marshal(req)
	if err != nil {
		return err
	}
	msg := message.NewMessage(req.EventID, data)
	if err := p.Publish(ctx, p.config.RetrainSubject, msg); err != nil {
		return fmt.Errorf("publish retrain request: %w", err)
	}
	return nil
}

// Close closes the publisher. It is safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
