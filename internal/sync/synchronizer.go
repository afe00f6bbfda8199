// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/metrics"
	"github.com/tomtom215/teastore-recommender/internal/models"
	"github.com/tomtom215/teastore-recommender/internal/recommend"
)

var (
	// ErrFetchFailed is returned when order items or orders cannot be loaded.
	// The previous model keeps serving.
	ErrFetchFailed = errors.New("fetching training data failed")

	// ErrTrainingInProgress is returned when a round is triggered while another runs.
	ErrTrainingInProgress = errors.New("training round already in progress")
)

// State is the phase of the current training round.
type State string

// Round states.
const (
	StateIdle             State = "idle"
	StateWaitingForSource State = "waiting_for_source"
	StateFetching         State = "fetching"
	StateConsensus        State = "consensus"
	StateFiltering        State = "filtering"
	StateTraining         State = "training"
	StateReady            State = "ready"
)

// defaultStatusHistory is the number of past rounds included in Status.
const defaultStatusHistory = 10

// Trainer trains the recommendation algorithms on a filtered window.
// Implemented by recommend.Selector.
type Trainer interface {
	Train(ctx context.Context, items []models.OrderItem, orders []models.Order) (*recommend.TrainingSet, error)
	Primary() recommend.Algorithm
}

// RoundHistory persists finished rounds. Implemented by history.Store.
type RoundHistory interface {
	Record(ctx context.Context, round *models.TrainingRound) error
	Recent(ctx context.Context, limit int) ([]*models.TrainingRound, error)
}

// EventPublisher announces finished rounds on the event bus.
// This abstraction allows optional NATS integration without requiring
// the nats build tag for the sync package.
type EventPublisher interface {
	PublishTrained(ctx context.Context, round *models.TrainingRound) error
}

// Options configures a Synchronizer.
type Options struct {
	// PeerURLs are the base URLs of the other replicas.
	PeerURLs []string

	// WaitSchedule is the delay sequence while the persistence service is not ready.
	WaitSchedule []time.Duration

	// CutoffPin, when non-zero, is the starting cutoff of every round.
	CutoffPin int64

	// Location interprets order times. Nil means time.Local.
	Location *time.Location
}

// Synchronizer runs training rounds and owns the readiness flag and the
// training cutoff of this replica. Construct one per process and share it.
type Synchronizer struct {
	source   PersistenceSource
	peers    PeerQuerier
	peerURLs []string
	trainer  Trainer
	schedule WaitSchedule
	pin      int64
	loc      *time.Location
	logger   zerolog.Logger

	roundMu sync.Mutex // Held for the whole round

	ready         atomic.Bool
	lastSucceeded atomic.Bool
	cutoff        atomic.Int64

	mu        sync.RWMutex // Protects state, current, last, history, publisher
	state     State
	current   *models.TrainingRound
	last      *models.TrainingRound
	history   RoundHistory
	publisher EventPublisher
}

// NewSynchronizer creates a synchronizer. Readiness starts false and the
// cutoff starts unset (or pinned).
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSynchronizer(source PersistenceSource, peers PeerQuerier, trainer Trainer, opts Options, logger zerolog.Logger) *Synchronizer {
	schedule := WaitSchedule(opts.WaitSchedule)
	if len(schedule) == 0 {
		schedule = WaitSchedule{time.Second}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	s := &Synchronizer{
		source:   source,
		peers:    peers,
		peerURLs: append([]string(nil), opts.PeerURLs...),
		trainer:  trainer,
		schedule: schedule,
		pin:      opts.CutoffPin,
		loc:      loc,
		logger:   logger.With().Str("component", "synchronizer").Logger(),
		state:    StateIdle,
	}
	s.cutoff.Store(s.initialCutoff())

	metrics.SetReady(false)
	metrics.SetLastTrainingSucceeded(false)

	return s
}

// SetHistory attaches a round history store.
func (s *Synchronizer) SetHistory(h RoundHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = h
}

// SetEventPublisher attaches an event publisher for finished rounds.
func (s *Synchronizer) SetEventPublisher(p EventPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

// IsReady reports whether the replica should serve recommendations.
func (s *Synchronizer) IsReady() bool {
	return s.ready.Load()
}

// LastTrainingSucceeded reports whether the most recent round trained a model.
// Readiness alone cannot tell, because a failed fetch also restores readiness.
func (s *Synchronizer) LastTrainingSucceeded() bool {
	return s.lastSucceeded.Load()
}

// Cutoff returns the adopted cutoff in epoch milliseconds.
func (s *Synchronizer) Cutoff() (int64, bool) {
	c := s.cutoff.Load()
	return c, c != CutoffUnset
}

// State returns the phase of the current round.
func (s *Synchronizer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastRound returns a copy of the most recently finished round, or nil.
func (s *Synchronizer) LastRound() *models.TrainingRound {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	r := *s.last
	return &r
}

// RetrieveDataAndRetrain runs one round triggered through the API.
// See Retrain.
func (s *Synchronizer) RetrieveDataAndRetrain(ctx context.Context) (int64, error) {
	return s.Retrain(ctx, models.TriggerAPI)
}

// Retrain runs one training round and returns the number of order items plus
// orders it trained on.
//
// The call blocks until the persistence service has generated its database.
// It returns:
//   - ErrTrainingInProgress immediately if another round runs
//   - ctx.Err() if ctx ends while waiting; readiness is restored
//
// The published cutoff only changes once the round has adopted a new value
// and is restored if training then fails.
//   - -1 and an error wrapping ErrFetchFailed if the data cannot be loaded;
//     readiness is set to true so the previous model keeps serving
func (s *Synchronizer) Retrain(ctx context.Context, trigger string) (int64, error) {
	metrics.RecordRetrainTrigger(trigger)

	if !s.roundMu.TryLock() {
		return -1, ErrTrainingInProgress
	}
	defer s.roundMu.Unlock()

	round := &models.TrainingRound{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		StartedAt: time.Now(),
		Elements:  -1,
		Result:    models.RoundResultInProgress,
	}
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	ctx = logging.ContextWithRoundID(ctx, round.ID)
	log := s.ctxLogger(ctx)

	prevReady := s.ready.Load()
	prevCutoff := s.cutoff.Load()

	s.setReady(false)

	log.Info().Str("trigger", trigger).Msg("Training round started")

	s.setState(StateWaitingForSource, round)
	if err := s.waitForSource(ctx); err != nil {
		s.setReady(prevReady)
		s.finishRound(ctx, round, models.RoundResultCanceled, err)
		return -1, err
	}

	s.setState(StateFetching, round)
	items, err := s.source.FetchOrderItems(ctx)
	if err != nil {
		return s.fetchFailed(ctx, round, fmt.Errorf("%w: order items: %w", ErrFetchFailed, err))
	}
	log.Debug().Int("order_items", len(items)).Msg("Retrieved order items")

	orders, err := s.source.FetchOrders(ctx)
	if err != nil {
		return s.fetchFailed(ctx, round, fmt.Errorf("%w: orders: %w", ErrFetchFailed, err))
	}
	log.Debug().Int("orders", len(orders)).Msg("Retrieved orders")

	s.setState(StateConsensus, round)
	replies := s.queryPeers(ctx)
	for i := range replies {
		if replies[i].HasValue {
			round.PeerValues++
		}
	}
	// The published cutoff keeps answering peers until this round adopts
	// its own value.
	cutoff, ok := adoptCutoff(s.initialCutoff(), replies, log)
	if !ok {
		cutoff, ok = newestOrderTime(orders, s.loc)
	}

	s.setState(StateFiltering, round)
	if ok {
		s.cutoff.Store(cutoff)
		metrics.SetCutoff(cutoff)
		round.Cutoff = cutoff
		round.CutoffSet = true
		items, orders = filterByCutoff(items, orders, cutoff, s.loc, log)
	} else {
		s.cutoff.Store(CutoffUnset)
	}
	round.OrderItems = len(items)
	round.Orders = len(orders)

	s.setState(StateTraining, round)
	ts, err := s.trainer.Train(ctx, items, orders)
	if ts != nil {
		round.DroppedItemSets = ts.DroppedItemSets
	}
	if err != nil {
		result := models.RoundResultTrainFailed
		if ctx.Err() != nil {
			result = models.RoundResultCanceled
		}
		s.setReady(true)
		s.lastSucceeded.Store(false)
		s.cutoff.Store(prevCutoff)
		if prevCutoff != CutoffUnset {
			metrics.SetCutoff(prevCutoff)
		}
		s.finishRound(ctx, round, result, err)
		log.Error().Err(err).Msg("Training failed, keeping the previous model")
		return -1, fmt.Errorf("train: %w", err)
	}

	elements := int64(len(items) + len(orders))
	round.Elements = elements

	s.setReady(true)
	s.lastSucceeded.Store(true)
	s.finishRound(ctx, round, models.RoundResultSuccess, nil)

	log.Info().
		Int64("elements", elements).
		Int64("cutoff", round.Cutoff).
		Int("peer_values", round.PeerValues).
		Msg("Finished training, ready for recommendation")

	return elements, nil
}

// fetchFailed ends a round whose data could not be loaded.
func (s *Synchronizer) fetchFailed(ctx context.Context, round *models.TrainingRound, err error) (int64, error) {
	result := models.RoundResultFetchFailed
	if ctx.Err() != nil {
		result = models.RoundResultCanceled
	}

	s.setReady(true)
	s.lastSucceeded.Store(false)
	s.finishRound(ctx, round, result, err)

	s.ctxLogger(ctx).Error().Err(err).Msg("Database retrieval failed")
	return -1, err
}

// Status returns a snapshot for /train/status.
func (s *Synchronizer) Status(ctx context.Context) models.TrainingStatus {
	cutoff, set := s.Cutoff()
	primary := s.trainer.Primary()

	status := models.TrainingStatus{
		Ready:                 s.IsReady(),
		LastTrainingSucceeded: s.LastTrainingSucceeded(),
		Cutoff:                cutoff,
		CutoffSet:             set,
		Algorithm:             primary.Name(),
		ModelVersion:          primary.Version(),
	}
	if !set {
		status.Cutoff = 0
	}
	if t := primary.LastTrainedAt(); !t.IsZero() {
		status.LastTrainedAt = &t
	}

	s.mu.RLock()
	status.State = string(s.state)
	if s.current != nil {
		r := *s.current
		status.CurrentRound = &r
	}
	h := s.history
	last := s.last
	s.mu.RUnlock()

	if h != nil {
		rounds, err := h.Recent(ctx, defaultStatusHistory)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to read training round history")
		} else {
			status.History = rounds
		}
	}
	if status.History == nil && last != nil {
		r := *last
		status.History = []*models.TrainingRound{&r}
	}

	return status
}

func (s *Synchronizer) initialCutoff() int64 {
	if s.pin != 0 {
		return s.pin
	}
	return CutoffUnset
}

func (s *Synchronizer) setReady(ready bool) {
	s.ready.Store(ready)
	metrics.SetReady(ready)
}

// setState publishes the phase and a copy of the in-progress round.
func (s *Synchronizer) setState(state State, round *models.TrainingRound) {
	snapshot := *round

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.current = &snapshot
}

// finishRound records metrics, stores the round and notifies listeners.
func (s *Synchronizer) finishRound(ctx context.Context, round *models.TrainingRound, result string, err error) {
	round.FinishedAt = time.Now()
	round.DurationMS = round.FinishedAt.Sub(round.StartedAt).Milliseconds()
	round.Result = result
	if err != nil {
		round.Error = err.Error()
	}

	metrics.RecordTrainingRound(result, round.FinishedAt.Sub(round.StartedAt), round.Elements)
	metrics.SetLastTrainingSucceeded(s.lastSucceeded.Load())

	snapshot := *round

	s.mu.Lock()
	s.current = nil
	s.last = &snapshot
	if s.trainer.Primary().IsTrained() {
		s.state = StateReady
	} else {
		s.state = StateIdle
	}
	h := s.history
	p := s.publisher
	s.mu.Unlock()

	// Listeners still run when the round was canceled
	notifyCtx := context.WithoutCancel(ctx)
	log := s.ctxLogger(ctx)

	if h != nil {
		if err := h.Record(notifyCtx, &snapshot); err != nil {
			log.Warn().Err(err).Msg("Failed to record training round")
		}
	}
	if p != nil {
		if err := p.PublishTrained(notifyCtx, &snapshot); err != nil {
			log.Warn().Err(err).Msg("Failed to publish training round event")
		}
	}
}

// ctxLogger returns the component logger enriched with the IDs carried by ctx.
func (s *Synchronizer) ctxLogger(ctx context.Context) *zerolog.Logger {
	logCtx := s.logger.With()
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	if id := logging.RoundIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("round_id", id)
	}
	l := logCtx.Logger()
	return &l
}
