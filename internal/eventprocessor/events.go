// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/teastore-recommender/internal/models"
)

// TrainedEvent announces a finished training round.
type TrainedEvent struct {
	EventID    string    `json:"event_id"`
	Instance   string    `json:"instance"`
	RoundID    string    `json:"round_id"`
	Trigger    string    `json:"trigger"`
	Result     string    `json:"result"`
	Elements   int64     `json:"elements"`
	Cutoff     int64     `json:"cutoff"`
	CutoffSet  bool      `json:"cutoff_set"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// NewTrainedEvent builds the event for round as seen by instance.
func NewTrainedEvent(round *models.TrainingRound, instance string) *TrainedEvent {
	return &TrainedEvent{
		EventID:    uuid.New().String(),
		Instance:   instance,
		RoundID:    round.ID,
		Trigger:    round.Trigger,
		Result:     round.Result,
		Elements:   round.Elements,
		Cutoff:     round.Cutoff,
		CutoffSet:  round.CutoffSet,
		StartedAt:  round.StartedAt,
		FinishedAt: round.FinishedAt,
		DurationMS: round.DurationMS,
		Error:      round.Error,
	}
}

// Validate checks the fields consumers rely on.
func (e *TrainedEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if e.RoundID == "" {
		return fmt.Errorf("%w: round_id is required", ErrInvalidEvent)
	}
	if e.Result == "" {
		return fmt.Errorf("%w: result is required", ErrInvalidEvent)
	}
	return nil
}

// Succeeded reports whether the round trained a model.
func (e *TrainedEvent) Succeeded() bool {
	return e.Result == models.RoundResultSuccess
}

// RetrainRequest asks every replica to run a training round. An empty
// message body is also accepted as a request.
type RetrainRequest struct {
	EventID     string    `json:"event_id"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
	Reason      string    `json:"reason,omitempty"`
}

// NewRetrainRequest creates a request stamped with a fresh id and the
// current time.
func NewRetrainRequest(requestedBy, reason string) *RetrainRequest {
	return &RetrainRequest{
		EventID:     uuid.New().String(),
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC(),
		Reason:      reason,
	}
}

// Validate checks the request.
func (r *RetrainRequest) Validate() error {
	if r.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	return nil
}
