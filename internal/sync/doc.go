// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package sync coordinates training rounds between the persistence service, the
other recommender replicas and the local recommendation algorithms.

# Training Round

A round (Synchronizer.RetrieveDataAndRetrain) walks through these states:

	idle -> waiting_for_source -> fetching -> consensus -> filtering -> training -> ready

  - waiting_for_source: polls /generatedb/finished until the persistence
    service has generated its database, backing off 1s, 2s, 5s, 10s, 30s,
    60s and then every 120s
  - fetching: loads every order item and order in one request each
  - consensus: asks every peer replica for its cutoff (/train/timestamp) and
    adopts the minimum, so all replicas train on the same order window
  - filtering: drops orders placed after the cutoff and items of dropped orders
  - training: builds the rating matrix and trains the algorithms

Readiness is false while a round runs. A fetch failure aborts the round with
-1 and sets readiness back to true so the previous model keeps serving; the
failure is visible through LastTrainingSucceeded.

# Upstream Clients

  - PersistenceClient: HTTP client paced by a token bucket limiter
  - CircuitBreakerClient: wraps PersistenceClient with sony/gobreaker
  - PeerClient: fetches a replica's cutoff

# Thread Safety

Rounds are serialized. A second trigger while a round runs fails immediately
with ErrTrainingInProgress. Readiness, cutoff and status reads are lock free or
guarded by an RWMutex and safe from any goroutine.
*/
package sync
