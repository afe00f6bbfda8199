// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

// Package main is the entry point for the recommender server.
//
// The server trains a Slope-One model on the order history of the TeaStore
// persistence service and serves product recommendations over HTTP.
// Replicas agree on a shared training cutoff through /train/timestamp so
// that all of them train on the same data.
//
// # Startup
//
//  1. Configuration: Koanf v2 (defaults, config.yaml, environment)
//  2. Recommender: primary and fallback algorithms behind a Selector
//  3. Synchronizer: persistence client with circuit breaker and peer client
//  4. History (optional): BadgerDB store of finished training rounds
//  5. NATS (optional, build tag: nats): retrain requests and round events
//  6. Supervisor tree: HTTP server, retrain scheduler, subscriber, history GC
//
// # Build Tags
//
//	go build ./cmd/server               # HTTP only
//	go build -tags nats ./cmd/server    # with the NATS event bus
//
// # Example Usage
//
//	export PERSISTENCE_URL=http://persistence:8080/tools.descartes.teastore.persistence/rest
//	export PEER_URLS=http://recommender-2:8080/rest,http://recommender-3:8080/rest
//	export RECOMMENDER_TRAIN_ON_STARTUP=true
//	./recommender
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
// to 10s, a running round is aborted and restores the previous cutoff, and
// the history store and NATS connections are closed.
package main
