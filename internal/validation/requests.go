// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package validation

import (
	"strconv"
	"strings"

	"github.com/tomtom215/teastore-recommender/internal/models"
)

// MaxCartItems bounds the cart accepted by the recommend endpoints.
const MaxCartItems = 1000

// RecommendRequest is a validated recommend call. A nil UserID asks for
// anonymous recommendations.
type RecommendRequest struct {
	UserID *int64             `json:"uid" validate:"omitempty,gte=0"`
	Cart   []models.OrderItem `json:"cart" validate:"max=1000,dive"`
}

// NewRecommendRequest parses the uid query value and validates the cart.
// An empty uid is anonymous.
func NewRecommendRequest(rawUID string, cart []models.OrderItem) (*RecommendRequest, *RequestValidationError) {
	uid, verr := ParseUserID(rawUID)
	if verr != nil {
		return nil, verr
	}

	req := &RecommendRequest{UserID: uid, Cart: cart}
	if verr := ValidateStruct(req); verr != nil {
		return nil, verr
	}
	return req, nil
}

// ParseUserID parses an optional user id query value.
func ParseUserID(raw string) (*int64, *RequestValidationError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, newFieldError("uid", "numeric", raw, "uid must be numeric")
	}
	return &id, nil
}

// ProductIDs returns the product id of every cart line, in cart order.
func (r *RecommendRequest) ProductIDs() []int64 {
	ids := make([]int64, 0, len(r.Cart))
	for _, item := range r.Cart {
		ids = append(ids, item.ProductID)
	}
	return ids
}
