// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

//go:build !nats

package main

import (
	"context"

	"github.com/tomtom215/teastore-recommender/internal/config"
	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/supervisor"
	"github.com/tomtom215/teastore-recommender/internal/sync"
)

// NATSComponents is a stub for non-NATS builds.
type NATSComponents struct{}

// InitNATS is a no-op for non-NATS builds.
func InitNATS(cfg *config.Config, _ *sync.Synchronizer) (*NATSComponents, error) {
	if cfg.NATS.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}

// Shutdown is a no-op for non-NATS builds.
func (c *NATSComponents) Shutdown(_ context.Context) {}

// AddNATSToSupervisor is a no-op for non-NATS builds.
func AddNATSToSupervisor(_ *supervisor.SupervisorTree, _ *NATSComponents) {}
