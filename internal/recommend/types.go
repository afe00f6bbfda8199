// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package recommend

import (
	"context"
	"errors"
	"slices"
	"time"
)

var (
	// ErrUseFallbackStrategy is returned by an algorithm that cannot score the
	// given user, either because no user was supplied or because the user has
	// no purchase history in the training window. Callers are expected to ask
	// a different algorithm.
	ErrUseFallbackStrategy = errors.New("algorithm cannot score this user, use a fallback strategy")

	// ErrNotTrained is returned when no training round has completed successfully.
	ErrNotTrained = errors.New("recommender is not trained")
)

// OrderItemSet is the content of one order: product ID -> units purchased.
// UserID is zero until the set is matched to its order.
type OrderItemSet struct {
	OrderID int64
	UserID  int64
	Items   map[int64]int64
}

// RatingMatrix maps user ID -> product ID -> aggregate units bought.
// A user's row exists only if they placed at least one qualifying order.
type RatingMatrix map[int64]map[int64]float64

// Users returns the user IDs in ascending order.
func (m RatingMatrix) Users() []int64 {
	return SortedKeys(m)
}

// Row returns the user's ratings and whether the user has a row.
func (m RatingMatrix) Row(userID int64) (map[int64]float64, bool) {
	row, ok := m[userID]
	return row, ok
}

// RowSum returns the total units bought by the user.
func (m RatingMatrix) RowSum(userID int64) float64 {
	var sum float64
	for _, p := range SortedKeys(m[userID]) {
		sum += m[userID][p]
	}
	return sum
}

// ProductSet is the set of products observed in a training window.
type ProductSet map[int64]struct{}

// Add inserts a product ID.
func (s ProductSet) Add(id int64) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s ProductSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the product IDs in ascending order.
func (s ProductSet) Sorted() []int64 {
	return SortedKeys(s)
}

// TrainingSet is the input every algorithm trains on.
type TrainingSet struct {
	// Ratings is the user rating matrix.
	Ratings RatingMatrix

	// Products is the product universe of the window.
	Products ProductSet

	// UserItemSets groups the resolved order item-sets per user.
	UserItemSets map[int64][]*OrderItemSet

	// OrderItems and Orders are the record counts the set was built from.
	OrderItems int
	Orders     int

	// DroppedItemSets counts item-sets whose order could not be resolved.
	DroppedItemSets int
}

// Algorithm is the contract shared by every recommendation algorithm.
type Algorithm interface {
	// Name returns the algorithm identifier used in configuration and metrics.
	Name() string

	// Train builds a new model from the training set and publishes it
	// only if training completes.
	Train(ctx context.Context, ts *TrainingSet) error

	// Fit builds a new model from the training set without publishing it.
	// The previous model keeps serving until publish is called.
	Fit(ctx context.Context, ts *TrainingSet) (publish func(), err error)

	// Predict scores every product of the trained universe for the user.
	// The cart is advisory; ranking removes cart items afterwards.
	// Returns ErrUseFallbackStrategy when the user cannot be scored.
	Predict(ctx context.Context, userID *int64, cart []int64) (map[int64]float64, error)

	// IsTrained reports whether at least one Train call has succeeded.
	IsTrained() bool

	// Version is incremented on every successful Train.
	Version() int

	// LastTrainedAt returns when the current model was published.
	LastTrainedAt() time.Time
}

// Result is the outcome of a recommend call.
type Result struct {
	// Products are the recommended product IDs, best first.
	Products []int64

	// Algorithm names the algorithm that produced the scores.
	Algorithm string

	// Fallback is true when the primary algorithm could not score the user.
	Fallback bool
}

// SortedKeys returns the keys of a product- or user-keyed map in ascending
// order. Training iterates maps through it so that floating point sums are
// accumulated in the same order on every run.
func SortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
