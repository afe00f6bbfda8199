// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/models"
)

// HealthLive handles the liveness probe. It always succeeds while the
// process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles the readiness probe. It returns 503 while a training
// round runs or before the first round finished.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.training.Status(r.Context())
	data := map[string]interface{}{
		"ready":                   status.Ready,
		"state":                   status.State,
		"last_training_succeeded": status.LastTrainingSucceeded,
	}

	if !status.Ready {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "error",
			Data:   data,
			Metadata: models.Metadata{
				Timestamp: time.Now(),
			},
			Error: &models.APIError{
				Code:    "NOT_READY",
				Message: "Service is not ready",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
