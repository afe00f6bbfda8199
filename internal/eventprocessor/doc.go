// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

// Package eventprocessor connects the recommender to a NATS event bus using
// Watermill.
//
// Two flows are supported:
//
//   - Retrain requests: a RetrainSubscriber listens on the retrain subject
//     (default "recommender.retrain") and runs a training round for every
//     message. There is no queue group, so every replica retrains, which is
//     what keeps replicas on a shared cutoff.
//   - Training notifications: a Publisher implements sync.EventPublisher and
//     announces each finished round on the trained subject (default
//     "recommender.trained").
//
// Core NATS is used rather than JetStream. A missed retrain request is
// harmless because the next request or scheduled round retrains from scratch.
//
// An EmbeddedServer runs nats-server in-process for single-node deployments
// and tests.
//
// The Watermill and NATS code is behind the "nats" build tag. Without it the
// constructors return ErrNATSNotEnabled and the service runs without an event
// bus.
package eventprocessor
