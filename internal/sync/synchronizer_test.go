// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/teastore-recommender/internal/models"
)

func TestNewSynchronizer_InitialState(t *testing.T) {
	s, _ := newTestSynchronizer(t, &fakeSource{}, &fakePeers{}, nil, Options{})

	if s.IsReady() {
		t.Error("new synchronizer should not be ready")
	}
	if s.LastTrainingSucceeded() {
		t.Error("new synchronizer should not report a successful training")
	}
	if c, ok := s.Cutoff(); ok || c != CutoffUnset {
		t.Errorf("Cutoff() = (%d, %v), want unset", c, ok)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %q, want %q", s.State(), StateIdle)
	}
}

func TestRetrieveDataAndRetrain_Success(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	s, sel := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{})

	n, err := s.RetrieveDataAndRetrain(context.Background())
	if err != nil {
		t.Fatalf("RetrieveDataAndRetrain() error = %v", err)
	}
	if n != int64(len(items)+len(orders)) {
		t.Errorf("elements = %d, want %d", n, len(items)+len(orders))
	}
	if !s.IsReady() || !s.LastTrainingSucceeded() {
		t.Errorf("ready=%v lastSucceeded=%v, want both true", s.IsReady(), s.LastTrainingSucceeded())
	}
	if !sel.IsTrained() {
		t.Error("selector should be trained")
	}
	if s.State() != StateReady {
		t.Errorf("State() = %q, want %q", s.State(), StateReady)
	}

	// Without peers the cutoff is the newest order time
	want := mustMillis(t, "2026-01-03T10:00:00")
	if c, ok := s.Cutoff(); !ok || c != want {
		t.Errorf("Cutoff() = (%d, %v), want (%d, true)", c, ok, want)
	}

	last := s.LastRound()
	if last == nil {
		t.Fatal("LastRound() = nil")
	}
	if last.Result != models.RoundResultSuccess || last.Trigger != models.TriggerAPI {
		t.Errorf("last round = %+v", last)
	}
	if last.Elements != n || !last.CutoffSet {
		t.Errorf("last round elements=%d cutoffSet=%v", last.Elements, last.CutoffSet)
	}
}

func TestRetrain_PeerConsensusFiltersWindow(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}

	day2 := mustMillis(t, "2026-01-02T10:00:00")
	peers := &fakePeers{replies: map[string]PeerReply{
		"http://peer-a": valueReply(day2 + 1000),
		"http://peer-b": valueReply(day2),
		"http://peer-c": {Outcome: PeerOutcomeNonSuccess, Err: errors.New("412")},
	}}
	urls := []string{"http://peer-a", "http://peer-b", "http://peer-c", "http://peer-d"}
	s, _ := newTestSynchronizer(t, src, peers, urls, Options{})

	n, err := s.Retrain(context.Background(), models.TriggerSchedule)
	if err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}

	// Order 3 (day 3) and its single item fall outside the window
	if n != 4+2 {
		t.Errorf("elements = %d, want 6", n)
	}
	if c, _ := s.Cutoff(); c != day2 {
		t.Errorf("Cutoff() = %d, want %d", c, day2)
	}
	if len(peers.calls) != len(urls) {
		t.Errorf("peers queried %d times, want %d", len(peers.calls), len(urls))
	}
	if last := s.LastRound(); last.PeerValues != 2 {
		t.Errorf("PeerValues = %d, want 2", last.PeerValues)
	}
}

func TestAdoptCutoff(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		current int64
		replies []PeerReply
		want    int64
		wantSet bool
	}{
		{
			name:    "unset local with mixed replies",
			current: CutoffUnset,
			replies: []PeerReply{
				valueReply(100),
				valueReply(50),
				{Outcome: PeerOutcomeNull},
				{Outcome: PeerOutcomeNull, Err: errors.New("connection refused")},
			},
			want:    50,
			wantSet: true,
		},
		{
			name:    "local value lower than peers",
			current: 30,
			replies: []PeerReply{valueReply(100), valueReply(50)},
			want:    30,
			wantSet: true,
		},
		{
			name:    "local value only",
			current: 70,
			want:    70,
			wantSet: true,
		},
		{
			name:    "nothing",
			current: CutoffUnset,
			replies: []PeerReply{{Outcome: PeerOutcomeInvalid}},
			want:    CutoffUnset,
			wantSet: false,
		},
		{
			name:    "peer reports the unset sentinel",
			current: CutoffUnset,
			replies: []PeerReply{valueReply(CutoffUnset)},
			want:    CutoffUnset,
			wantSet: false,
		},
		{
			name:    "sentinel does not lower a real value",
			current: CutoffUnset,
			replies: []PeerReply{valueReply(CutoffUnset), valueReply(80), valueReply(CutoffUnset)},
			want:    80,
			wantSet: true,
		},
		{
			name:    "sentinel ignored next to local value",
			current: 40,
			replies: []PeerReply{valueReply(CutoffUnset)},
			want:    40,
			wantSet: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, set := adoptCutoff(tt.current, tt.replies, &logger)
			if got != tt.want || set != tt.wantSet {
				t.Errorf("adoptCutoff() = (%d, %v), want (%d, %v)", got, set, tt.want, tt.wantSet)
			}
		})
	}
}

func TestRetrain_FetchFailure(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"order items", &fakeSource{itemsErr: errors.New("connection refused")}},
		{"orders", &fakeSource{ordersErr: errors.New("HTTP 500")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sel := newTestSynchronizer(t, tt.src, &fakePeers{}, nil, Options{})

			n, err := s.RetrieveDataAndRetrain(context.Background())
			if n != -1 {
				t.Errorf("elements = %d, want -1", n)
			}
			if !errors.Is(err, ErrFetchFailed) {
				t.Errorf("error = %v, want ErrFetchFailed", err)
			}
			if !s.IsReady() {
				t.Error("readiness should be restored after a fetch failure")
			}
			if s.LastTrainingSucceeded() {
				t.Error("LastTrainingSucceeded should be false after a fetch failure")
			}
			if sel.IsTrained() {
				t.Error("selector should not be trained")
			}
			if last := s.LastRound(); last.Result != models.RoundResultFetchFailed {
				t.Errorf("round result = %q, want %q", last.Result, models.RoundResultFetchFailed)
			}
		})
	}
}

func TestRetrain_FetchFailureKeepsPreviousModelAndCutoff(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	s, sel := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{})

	if _, err := s.RetrieveDataAndRetrain(context.Background()); err != nil {
		t.Fatalf("first round: %v", err)
	}
	version := sel.Primary().Version()
	cutoff, _ := s.Cutoff()

	src.itemsErr = errors.New("persistence down")
	if _, err := s.RetrieveDataAndRetrain(context.Background()); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("second round error = %v, want ErrFetchFailed", err)
	}

	if sel.Primary().Version() != version {
		t.Error("failed round must not replace the model")
	}
	if c, ok := s.Cutoff(); !ok || c != cutoff {
		t.Errorf("Cutoff() = (%d, %v), want previous %d", c, ok, cutoff)
	}
	if s.State() != StateReady {
		t.Errorf("State() = %q, want %q", s.State(), StateReady)
	}
}

func TestRetrain_TrainFailure(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	trainer := &failingTrainer{Selector: newTestSelector(), err: errors.New("boom")}
	s := NewSynchronizer(src, &fakePeers{}, trainer, Options{WaitSchedule: []time.Duration{time.Millisecond}, Location: time.UTC}, zerolog.Nop())

	n, err := s.RetrieveDataAndRetrain(context.Background())
	if n != -1 || err == nil {
		t.Fatalf("RetrieveDataAndRetrain() = (%d, %v), want (-1, error)", n, err)
	}
	if !s.IsReady() || s.LastTrainingSucceeded() {
		t.Errorf("ready=%v lastSucceeded=%v, want true/false", s.IsReady(), s.LastTrainingSucceeded())
	}
	if last := s.LastRound(); last.Result != models.RoundResultTrainFailed {
		t.Errorf("round result = %q, want %q", last.Result, models.RoundResultTrainFailed)
	}
}

func TestRetrain_WaitsForSource(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{pendingPolls: 3, items: items, orders: orders}
	s, _ := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{})

	if _, err := s.RetrieveDataAndRetrain(context.Background()); err != nil {
		t.Fatalf("RetrieveDataAndRetrain() error = %v", err)
	}
	if got := src.polls.Load(); got != 4 {
		t.Errorf("polls = %d, want 4", got)
	}
}

func TestRetrain_CanceledWhileWaiting(t *testing.T) {
	src := &fakeSource{pollErr: errors.New("connection refused")}
	s, _ := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	n, err := s.RetrieveDataAndRetrain(ctx)
	if n != -1 {
		t.Errorf("elements = %d, want -1", n)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if s.IsReady() {
		t.Error("readiness should be restored to its previous value (false)")
	}
	if src.polls.Load() < 2 {
		t.Errorf("polls = %d, want the loop to retry", src.polls.Load())
	}
	if last := s.LastRound(); last.Result != models.RoundResultCanceled {
		t.Errorf("round result = %q, want %q", last.Result, models.RoundResultCanceled)
	}
}

func TestRetrain_RejectsConcurrentRound(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders, block: make(chan struct{})}
	s, _ := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{})

	done := make(chan error, 1)
	go func() {
		_, err := s.RetrieveDataAndRetrain(context.Background())
		done <- err
	}()

	// Wait until the first round is inside the fetch
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != StateFetching {
		if time.Now().After(deadline) {
			t.Fatal("first round never reached the fetch state")
		}
		time.Sleep(time.Millisecond)
	}
	if s.IsReady() {
		t.Error("readiness should be false while a round runs")
	}

	if _, err := s.RetrieveDataAndRetrain(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("second round error = %v, want ErrTrainingInProgress", err)
	}

	close(src.block)
	if err := <-done; err != nil {
		t.Fatalf("first round error = %v", err)
	}
}

func TestRetrain_PinnedCutoff(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	day1 := mustMillis(t, "2026-01-01T10:00:00")

	s, _ := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{CutoffPin: day1})
	if c, ok := s.Cutoff(); !ok || c != day1 {
		t.Fatalf("Cutoff() before training = (%d, %v), want pinned %d", c, ok, day1)
	}

	n, err := s.RetrieveDataAndRetrain(context.Background())
	if err != nil {
		t.Fatalf("RetrieveDataAndRetrain() error = %v", err)
	}
	// Only order 1 with two items
	if n != 3 {
		t.Errorf("elements = %d, want 3", n)
	}
}

func TestRetrain_CutoffRecomputedEachRound(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	day1 := mustMillis(t, "2026-01-01T10:00:00")

	peers := &fakePeers{replies: map[string]PeerReply{"http://peer": valueReply(day1)}}
	s, _ := newTestSynchronizer(t, src, peers, []string{"http://peer"}, Options{})

	if _, err := s.RetrieveDataAndRetrain(context.Background()); err != nil {
		t.Fatalf("first round: %v", err)
	}
	if c, _ := s.Cutoff(); c != day1 {
		t.Fatalf("first cutoff = %d, want %d", c, day1)
	}

	// The peer goes away; the next round derives the cutoff from the orders
	peers.mu.Lock()
	peers.replies = nil
	peers.mu.Unlock()

	if _, err := s.RetrieveDataAndRetrain(context.Background()); err != nil {
		t.Fatalf("second round: %v", err)
	}
	if c, _ := s.Cutoff(); c != mustMillis(t, "2026-01-03T10:00:00") {
		t.Errorf("second cutoff = %d, want newest order time", c)
	}
}

func TestRetrain_CutoffServedWhileNextRoundWaits(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	s, _ := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{})

	if _, err := s.RetrieveDataAndRetrain(context.Background()); err != nil {
		t.Fatalf("first round: %v", err)
	}
	want, ok := s.Cutoff()
	if !ok {
		t.Fatal("first round should set the cutoff")
	}

	// The generator never finishes again, so the next round stays in the wait
	src.pendingPolls = 1 << 30

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.RetrieveDataAndRetrain(ctx)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for src.polls.Load() < 3 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("second round never started polling")
		}
		time.Sleep(time.Millisecond)
	}
	if s.State() != StateWaitingForSource {
		t.Errorf("State() = %q, want %q", s.State(), StateWaitingForSource)
	}
	if c, ok := s.Cutoff(); !ok || c != want {
		t.Errorf("Cutoff() during the wait = (%d, %v), want (%d, true)", c, ok, want)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("second round error = %v, want context.Canceled", err)
	}
	if c, ok := s.Cutoff(); !ok || c != want {
		t.Errorf("Cutoff() after cancel = (%d, %v), want (%d, true)", c, ok, want)
	}
}

func TestRetrain_IgnoresPeerReportingUnsetCutoff(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	peers := &fakePeers{replies: map[string]PeerReply{"http://peer": valueReply(CutoffUnset)}}
	s, _ := newTestSynchronizer(t, src, peers, []string{"http://peer"}, Options{})

	n, err := s.RetrieveDataAndRetrain(context.Background())
	if err != nil {
		t.Fatalf("RetrieveDataAndRetrain() error = %v", err)
	}
	if n != int64(len(items)+len(orders)) {
		t.Errorf("elements = %d, want the full data set %d", n, len(items)+len(orders))
	}
	if c, ok := s.Cutoff(); !ok || c != mustMillis(t, "2026-01-03T10:00:00") {
		t.Errorf("Cutoff() = (%d, %v), want newest order time", c, ok)
	}
}

func TestRetrain_NoOrdersLeavesCutoffUnset(t *testing.T) {
	s, _ := newTestSynchronizer(t, &fakeSource{}, &fakePeers{}, nil, Options{})

	n, err := s.RetrieveDataAndRetrain(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("RetrieveDataAndRetrain() = (%d, %v), want (0, nil)", n, err)
	}
	if _, ok := s.Cutoff(); ok {
		t.Error("cutoff should stay unset without orders")
	}
	if !s.IsReady() {
		t.Error("an empty window still completes the round")
	}
}

func TestRetrain_NotifiesHistoryAndPublisher(t *testing.T) {
	items, orders := threeOrders()
	src := &fakeSource{items: items, orders: orders}
	s, _ := newTestSynchronizer(t, src, &fakePeers{}, nil, Options{})

	hist := &fakeHistory{}
	pub := &fakePublisher{}
	s.SetHistory(hist)
	s.SetEventPublisher(pub)

	if _, err := s.Retrain(context.Background(), models.TriggerEvent); err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}
	src.ordersErr = errors.New("down")
	_, _ = s.Retrain(context.Background(), models.TriggerSchedule)

	if len(hist.rounds) != 2 || len(pub.rounds) != 2 {
		t.Fatalf("history=%d published=%d, want 2 each", len(hist.rounds), len(pub.rounds))
	}
	if hist.rounds[0].Trigger != models.TriggerEvent || !hist.rounds[0].Succeeded() {
		t.Errorf("first round = %+v", hist.rounds[0])
	}
	if hist.rounds[1].Succeeded() || hist.rounds[1].Error == "" {
		t.Errorf("second round should record the failure, got %+v", hist.rounds[1])
	}

	status := s.Status(context.Background())
	if len(status.History) != 2 || status.History[0].Trigger != models.TriggerSchedule {
		t.Errorf("status history = %+v", status.History)
	}
	if !status.Ready || status.LastTrainingSucceeded {
		t.Errorf("status ready=%v lastSucceeded=%v, want true/false", status.Ready, status.LastTrainingSucceeded)
	}
	if status.Algorithm != "slopeone" || status.LastTrainedAt == nil {
		t.Errorf("status algorithm=%q lastTrainedAt=%v", status.Algorithm, status.LastTrainedAt)
	}
}

func TestStatus_WithoutHistory(t *testing.T) {
	s, _ := newTestSynchronizer(t, &fakeSource{}, &fakePeers{}, nil, Options{})

	status := s.Status(context.Background())
	if status.State != string(StateIdle) || status.CutoffSet || status.Cutoff != 0 {
		t.Errorf("status = %+v", status)
	}
	if status.History != nil {
		t.Errorf("History = %v, want nil before any round", status.History)
	}
}
