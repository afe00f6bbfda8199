// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package sync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/teastore-recommender/internal/models"
	"github.com/tomtom215/teastore-recommender/internal/recommend"
	"github.com/tomtom215/teastore-recommender/internal/recommend/algorithms"
)

// fakeSource is an in-memory PersistenceSource.
type fakeSource struct {
	pendingPolls int32 // polls answering "false" before "true"
	pollErr      error
	polls        atomic.Int32

	items     []models.OrderItem
	orders    []models.Order
	itemsErr  error
	ordersErr error

	// block, when set, is waited on inside FetchOrderItems
	block chan struct{}
}

func (f *fakeSource) GeneratorFinished(ctx context.Context) (bool, error) {
	n := f.polls.Add(1)
	if f.pollErr != nil {
		return false, f.pollErr
	}
	return n > f.pendingPolls, nil
}

func (f *fakeSource) FetchOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return append([]models.OrderItem(nil), f.items...), nil
}

func (f *fakeSource) FetchOrders(ctx context.Context) ([]models.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return append([]models.Order(nil), f.orders...), nil
}

// fakePeers answers FetchCutoff from a fixed table.
type fakePeers struct {
	mu      sync.Mutex
	replies map[string]PeerReply
	calls   []string
}

func (f *fakePeers) FetchCutoff(_ context.Context, peer string) PeerReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, peer)
	if r, ok := f.replies[peer]; ok {
		r.Peer = peer
		return r
	}
	return PeerReply{Peer: peer, Outcome: PeerOutcomeNull, Err: errors.New("unknown peer")}
}

func valueReply(cutoff int64) PeerReply {
	return PeerReply{Cutoff: cutoff, HasValue: true, Outcome: PeerOutcomeOK}
}

// fakeHistory records rounds in memory.
type fakeHistory struct {
	mu     sync.Mutex
	rounds []*models.TrainingRound
}

func (f *fakeHistory) Record(_ context.Context, round *models.TrainingRound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := *round
	f.rounds = append(f.rounds, &r)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]*models.TrainingRound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.TrainingRound, 0, limit)
	for i := len(f.rounds) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.rounds[i])
	}
	return out, nil
}

// fakePublisher records published rounds.
type fakePublisher struct {
	mu     sync.Mutex
	rounds []*models.TrainingRound
}

func (f *fakePublisher) PublishTrained(_ context.Context, round *models.TrainingRound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rounds = append(f.rounds, round)
	return nil
}

// failingTrainer wraps a real selector but fails Train.
type failingTrainer struct {
	*recommend.Selector
	err error
}

func (f *failingTrainer) Train(context.Context, []models.OrderItem, []models.Order) (*recommend.TrainingSet, error) {
	return nil, f.err
}

func newTestSelector() *recommend.Selector {
	return recommend.NewSelector(algorithms.NewSlopeOne(), algorithms.NewPopularity(), recommend.DefaultConfig(), zerolog.Nop())
}

func newTestSynchronizer(t *testing.T, source PersistenceSource, peers PeerQuerier, peerURLs []string, opts Options) (*Synchronizer, *recommend.Selector) {
	t.Helper()
	sel := newTestSelector()
	opts.PeerURLs = peerURLs
	if opts.WaitSchedule == nil {
		opts.WaitSchedule = []time.Duration{time.Millisecond}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return NewSynchronizer(source, peers, sel, opts, zerolog.Nop()), sel
}

// orderAt builds an order placed at the given UTC time.
func orderAt(id, userID int64, ts string) models.Order {
	return models.Order{ID: id, UserID: userID, Time: ts}
}

func item(id, orderID, productID, quantity int64) models.OrderItem {
	return models.OrderItem{ID: id, OrderID: orderID, ProductID: productID, Quantity: quantity}
}

func mustMillis(t *testing.T, ts string) int64 {
	t.Helper()
	ms, err := models.ParseOrderTime(ts, time.UTC)
	if err != nil {
		t.Fatalf("ParseOrderTime(%q): %v", ts, err)
	}
	return ms
}

// threeOrders is a small window: two users, three orders on consecutive days.
func threeOrders() ([]models.OrderItem, []models.Order) {
	orders := []models.Order{
		orderAt(1, 10, "2026-01-01T10:00:00"),
		orderAt(2, 20, "2026-01-02T10:00:00"),
		orderAt(3, 10, "2026-01-03T10:00:00"),
	}
	items := []models.OrderItem{
		item(1, 1, 100, 2),
		item(2, 1, 200, 1),
		item(3, 2, 100, 1),
		item(4, 2, 300, 4),
		item(5, 3, 300, 1),
	}
	return items, orders
}
