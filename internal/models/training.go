// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package models

import (
	"time"
)

// Training round results.
const (
	RoundResultSuccess     = "success"
	RoundResultFetchFailed = "fetch_failed"
	RoundResultTrainFailed = "train_failed"
	RoundResultCanceled    = "canceled"
	RoundResultInProgress  = "in_progress"
)

// Retrain trigger sources.
const (
	TriggerAPI      = "api"
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerEvent    = "event"
)

// TrainingRound describes one retrieve-and-retrain round.
type TrainingRound struct {
	ID              string    `json:"id"`
	Trigger         string    `json:"trigger"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	DurationMS      int64     `json:"duration_ms"`
	Cutoff          int64     `json:"cutoff"`
	CutoffSet       bool      `json:"cutoff_set"`
	PeerValues      int       `json:"peer_values"` // Peers that replied with a usable timestamp
	OrderItems      int       `json:"order_items"`
	Orders          int       `json:"orders"`
	Elements        int64     `json:"elements"` // -1 on failure
	DroppedItemSets int       `json:"dropped_item_sets"`
	Result          string    `json:"result"`
	Error           string    `json:"error,omitempty"`
}

// Succeeded reports whether the round trained a model.
func (r *TrainingRound) Succeeded() bool {
	return r.Result == RoundResultSuccess
}

// TrainingStatus is served by /train/status.
type TrainingStatus struct {
	State                 string           `json:"state"`
	Ready                 bool             `json:"ready"`
	LastTrainingSucceeded bool             `json:"last_training_succeeded"`
	Cutoff                int64            `json:"cutoff"`
	CutoffSet             bool             `json:"cutoff_set"`
	Algorithm             string           `json:"algorithm"`
	ModelVersion          int              `json:"model_version"`
	LastTrainedAt         *time.Time       `json:"last_trained_at,omitempty"`
	CurrentRound          *TrainingRound   `json:"current_round,omitempty"`
	History               []*TrainingRound `json:"history,omitempty"`
}
