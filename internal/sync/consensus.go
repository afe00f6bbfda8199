// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package sync

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/teastore-recommender/internal/metrics"
	"github.com/tomtom215/teastore-recommender/internal/models"
)

// CutoffUnset is the cutoff sentinel meaning no cutoff has been adopted.
const CutoffUnset int64 = math.MinInt64

// queryPeers asks every peer for its cutoff concurrently. Each peer has its
// own timeout inside the querier and a failing peer does not cancel the others.
func (s *Synchronizer) queryPeers(ctx context.Context) []PeerReply {
	replies := make([]PeerReply, len(s.peerURLs))
	if len(s.peerURLs) == 0 {
		return replies
	}

	var g errgroup.Group
	for i, peer := range s.peerURLs {
		g.Go(func() error {
			replies[i] = s.peers.FetchCutoff(ctx, peer)
			return nil
		})
	}
	_ = g.Wait() // Workers never return errors

	log := s.ctxLogger(ctx)
	for i := range replies {
		r := &replies[i]
		metrics.RecordPeerReply(r.Outcome)
		switch r.Outcome {
		case PeerOutcomeOK:
			log.Debug().Str("peer", r.Peer).Int64("cutoff", r.Cutoff).Msg("Peer reported cutoff")
		case PeerOutcomeNull:
			log.Warn().Err(r.Err).Str("peer", r.Peer).Msg("Peer response was empty and is not available for the time check")
		default:
			log.Warn().Err(r.Err).Str("peer", r.Peer).Str("outcome", r.Outcome).Msg("Peer was not available for the time check")
		}
	}
	return replies
}

// adoptCutoff returns the minimum of current (when set) and every peer value.
// A peer reporting the unset sentinel counts as having no value.
// The second result is false when there is no value at all.
func adoptCutoff(current int64, replies []PeerReply, logger *zerolog.Logger) (int64, bool) {
	cutoff := current
	set := current != CutoffUnset

	for i := range replies {
		r := &replies[i]
		if !r.HasValue || r.Cutoff == CutoffUnset {
			continue
		}
		if !set {
			cutoff = r.Cutoff
			set = true
			continue
		}
		if r.Cutoff != cutoff {
			logger.Warn().
				Int64("local", cutoff).
				Int64("peer", r.Cutoff).
				Str("peer_url", r.Peer).
				Msg("Replicas disagree about the cutoff, using the minimum")
		}
		cutoff = min(cutoff, r.Cutoff)
	}
	return cutoff, set
}

// newestOrderTime returns the latest parseable order time.
func newestOrderTime(orders []models.Order, loc *time.Location) (int64, bool) {
	newest := CutoffUnset
	found := false
	for i := range orders {
		ms, err := orders[i].TimeMillis(loc)
		if err != nil {
			continue
		}
		if !found || ms > newest {
			newest = ms
			found = true
		}
	}
	return newest, found
}

// filterByCutoff keeps orders placed at or before cutoff and the items that
// belong to a kept order. Orders with an unparseable time are dropped.
func filterByCutoff(items []models.OrderItem, orders []models.Order, cutoff int64, loc *time.Location, logger *zerolog.Logger) ([]models.OrderItem, []models.Order) {
	keptOrders := make([]models.Order, 0, len(orders))
	kept := make(map[int64]struct{}, len(orders))
	unparseable := 0

	for i := range orders {
		ms, err := orders[i].TimeMillis(loc)
		if err != nil {
			unparseable++
			logger.Debug().Err(err).Int64("order_id", orders[i].ID).Msg("Dropping order with unparseable time")
			continue
		}
		if ms > cutoff {
			continue
		}
		keptOrders = append(keptOrders, orders[i])
		kept[orders[i].ID] = struct{}{}
	}

	keptItems := make([]models.OrderItem, 0, len(items))
	for i := range items {
		if _, ok := kept[items[i].OrderID]; ok {
			keptItems = append(keptItems, items[i])
		}
	}

	if unparseable > 0 {
		logger.Warn().Int("orders", unparseable).Msg("Dropped orders with unparseable time")
	}
	logger.Debug().
		Int64("cutoff", cutoff).
		Int("orders_kept", len(keptOrders)).
		Int("orders_dropped", len(orders)-len(keptOrders)).
		Int("items_kept", len(keptItems)).
		Int("items_dropped", len(items)-len(keptItems)).
		Msg("Filtered training window")

	return keptItems, keptOrders
}
