// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

//go:build nats

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tomtom215/teastore-recommender/internal/config"
	"github.com/tomtom215/teastore-recommender/internal/eventprocessor"
	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/supervisor"
	"github.com/tomtom215/teastore-recommender/internal/supervisor/services"
	"github.com/tomtom215/teastore-recommender/internal/sync"
)

// NATSComponents holds the event bus components.
type NATSComponents struct {
	server     *eventprocessor.EmbeddedServer
	publisher  *eventprocessor.Publisher
	subscriber *eventprocessor.RetrainSubscriber
}

// InitNATS starts the embedded server if configured, wires the round
// publisher into the synchronizer and creates the retrain subscriber.
// Returns nil when NATS is disabled.
func InitNATS(cfg *config.Config, synchronizer *sync.Synchronizer) (*NATSComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS event bus disabled")
		return nil, nil
	}

	c := &NATSComponents{}
	natsCfg := cfg.NATS

	if natsCfg.EmbeddedServer {
		srv, err := eventprocessor.NewEmbeddedServer(&eventprocessor.ServerConfig{
			Host: "127.0.0.1",
			Port: natsCfg.EmbeddedPort,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		c.server = srv
		natsCfg.URL = srv.ClientURL()
		logging.Info().Str("url", natsCfg.URL).Msg("Embedded NATS server started")
	}

	instance, err := os.Hostname()
	if err != nil {
		instance = "recommender"
	}
	epCfg := eventprocessor.ConfigFromNATS(&natsCfg, instance)

	publisher, err := eventprocessor.NewPublisher(epCfg)
	if err != nil {
		c.Shutdown(context.Background())
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	c.publisher = publisher
	synchronizer.SetEventPublisher(publisher)

	subscriber, err := eventprocessor.NewRetrainSubscriber(epCfg, synchronizer)
	if err != nil {
		c.Shutdown(context.Background())
		return nil, fmt.Errorf("create retrain subscriber: %w", err)
	}
	c.subscriber = subscriber

	logging.Info().
		Str("url", epCfg.URL).
		Str("retrain_subject", epCfg.RetrainSubject).
		Str("trained_subject", epCfg.TrainedSubject).
		Str("instance", instance).
		Msg("NATS event bus initialized")
	return c, nil
}

// Shutdown closes the subscriber, the publisher and the embedded server.
// Safe on nil.
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}
	if c.subscriber != nil {
		if err := c.subscriber.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing retrain subscriber")
		}
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event publisher")
		}
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error shutting down embedded NATS server")
		}
	}
}

// AddNATSToSupervisor runs the retrain subscriber in the messaging layer.
// No-op when NATS is disabled.
func AddNATSToSupervisor(tree *supervisor.SupervisorTree, c *NATSComponents) {
	if c == nil || c.subscriber == nil {
		return
	}
	tree.AddMessagingService(services.NewEventSubscriberService(c.subscriber))
	logging.Info().Msg("Retrain subscriber added to supervisor tree (messaging layer)")
}
