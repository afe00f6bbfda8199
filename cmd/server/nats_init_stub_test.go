// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

//go:build !nats

package main

import (
	"context"
	"testing"
)

func TestInitNATS_Stub(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.NATS.Enabled = true

	c, err := InitNATS(cfg, nil)
	if err != nil || c != nil {
		t.Errorf("InitNATS() = (%v, %v), want (nil, nil)", c, err)
	}
	c.Shutdown(context.Background())
	AddNATSToSupervisor(nil, c)
}
