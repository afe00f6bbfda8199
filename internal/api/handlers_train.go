// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/models"
	syncpkg "github.com/tomtom215/teastore-recommender/internal/sync"
)

// Plain-text bodies of the /train family.
const (
	trainFailedMessage      = "The (re)trainprocess failed."
	trainInProgressMessage  = "A (re)train is already in progress."
	cutoffUnsetMessage      = "The collection of the current maxTime was not possible."
	trainSucceededMsgFormat = "The (re)train was successfully done. It took %dms and %d of Orderitems and Orders were used."
)

// Train handles GET /train. It blocks until the round finishes, which
// includes waiting for the persistence service to finish generating data.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logging.Ctx(r.Context())

	elements, err := h.training.RetrieveDataAndRetrain(r.Context())
	elapsed := time.Since(start).Milliseconds()

	switch {
	case errors.Is(err, syncpkg.ErrTrainingInProgress):
		respondText(w, http.StatusConflict, trainInProgressMessage)
		return
	case err != nil || elements == -1:
		log.Error().Err(err).Int64("took_ms", elapsed).Msg("The (re)trainprocess failed")
		respondText(w, http.StatusInternalServerError, trainFailedMessage)
		return
	}

	respondText(w, http.StatusOK, fmt.Sprintf(trainSucceededMsgFormat, elapsed, elements))
}

// TrainTimestamp handles GET /train/timestamp. Peers call it during
// consensus, so the body is the bare cutoff.
func (h *Handler) TrainTimestamp(w http.ResponseWriter, r *http.Request) {
	cutoff, ok := h.training.Cutoff()
	if !ok {
		respondText(w, http.StatusPreconditionFailed, cutoffUnsetMessage)
		return
	}
	respondText(w, http.StatusOK, strconv.FormatInt(cutoff, 10))
}

// TrainIsReady handles GET /train/isready.
func (h *Handler) TrainIsReady(w http.ResponseWriter, r *http.Request) {
	if h.training.IsReady() {
		respondText(w, http.StatusOK, "true")
		return
	}
	respondText(w, http.StatusInternalServerError, "false")
}

// TrainStatus handles GET /train/status.
func (h *Handler) TrainStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.training.Status(r.Context())

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Algorithm:   status.Algorithm,
		},
	})
}
