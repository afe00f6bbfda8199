// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

// Package testinfra provides test infrastructure for the recommender.
//
// # Persistence Stub
//
// MockPersistenceServer serves the three persistence endpoints the
// synchronizer reads (generatedb/finished, orderitems, orders) from fixtures.
// It can report "still generating" for a number of polls and counts every
// request, so wait-loop and consensus tests run without the real service:
//
//	ps := testinfra.NewMockPersistenceServer(t, items, orders)
//	ps.SetPendingPolls(2)
//	client := sync.NewPersistenceClient(&config.PersistenceConfig{URL: ps.URL()})
//
// # NATS Container
//
// With the "integration" build tag, NewNATSContainer starts a real NATS
// server with testcontainers-go. Tests skip when Docker is unavailable:
//
//	testinfra.SkipIfNoDocker(t)
//	nc, err := testinfra.NewNATSContainer(ctx)
//	defer testinfra.CleanupContainer(t, ctx, nc.Container)
package testinfra
