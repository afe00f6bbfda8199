// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/models"
	"github.com/tomtom215/teastore-recommender/internal/recommend"
	"github.com/tomtom215/teastore-recommender/internal/validation"
)

// Recommend handles POST /recommend?uid=<id>. The body is the cart as a JSON
// array of order items; the response is a JSON array of product ids.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var cart []models.OrderItem
	if err := decodeJSONBody(w, r, &cart); err != nil {
		respondError(w, http.StatusBadRequest, validation.ErrorCode, "Request body must be a JSON array of order items", nil)
		return
	}
	h.recommend(w, r, cart)
}

// RecommendSingle handles POST /recommendsingle?uid=<id>. The body is a
// single order item.
func (h *Handler) RecommendSingle(w http.ResponseWriter, r *http.Request) {
	var item models.OrderItem
	if err := decodeJSONBody(w, r, &item); err != nil {
		respondError(w, http.StatusBadRequest, validation.ErrorCode, "Request body must be a JSON order item", nil)
		return
	}
	h.recommend(w, r, []models.OrderItem{item})
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, cart []models.OrderItem) {
	req, verr := validation.NewRecommendRequest(r.URL.Query().Get("uid"), cart)
	if verr != nil {
		respondValidationError(w, verr)
		return
	}

	if !h.training.IsReady() {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "The recommender is training, retry later", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.recommendTimeout)
	defer cancel()

	result, err := h.recommender.Recommend(ctx, req.UserID, req.ProductIDs())
	switch {
	case errors.Is(err, recommend.ErrNotTrained):
		respondError(w, http.StatusInternalServerError, "NOT_TRAINED", "The recommender has not been trained yet", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate recommendations", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("algorithm", result.Algorithm).
		Bool("fallback", result.Fallback).
		Int("cart", len(cart)).
		Int("recommended", len(result.Products)).
		Msg("Served recommendations")

	products := result.Products
	if products == nil {
		products = []int64{}
	}
	writeJSON(w, http.StatusOK, products)
}
