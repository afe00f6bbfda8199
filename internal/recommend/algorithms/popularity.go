// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package algorithms

import (
	"context"
	"sync/atomic"

	"github.com/tomtom215/teastore-recommender/internal/recommend"
)

// Popularity ranks products by the total number of units sold in the
// training window. It ignores the user, which makes it the fallback for
// anonymous visitors and users without purchase history.
//
//	score(p) = sum over users of r(u, p)
type Popularity struct {
	BaseAlgorithm

	scores atomic.Pointer[map[int64]float64]
}

// NewPopularity creates an untrained popularity algorithm.
func NewPopularity() *Popularity {
	return &Popularity{
		BaseAlgorithm: NewBaseAlgorithm(recommend.AlgorithmPopularity),
	}
}

// Train sums the units sold per product and publishes the totals.
func (p *Popularity) Train(ctx context.Context, ts *recommend.TrainingSet) error {
	publish, err := p.Fit(ctx, ts)
	if err != nil {
		return err
	}
	publish()
	return nil
}

// Fit sums the units sold per product without publishing the totals.
func (p *Popularity) Fit(ctx context.Context, ts *recommend.TrainingSet) (func(), error) {
	scores := make(map[int64]float64, len(ts.Products))
	for _, userID := range ts.Ratings.Users() {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		row := ts.Ratings[userID]
		for _, productID := range recommend.SortedKeys(row) {
			scores[productID] += row[productID]
		}
	}

	return p.publisher(func() { p.scores.Store(&scores) }), nil
}

// Predict returns the popularity of every product. The user ID is ignored.
// The returned map is a copy and may be modified by the caller.
func (p *Popularity) Predict(_ context.Context, _ *int64, _ []int64) (map[int64]float64, error) {
	published := p.scores.Load()
	if published == nil {
		return nil, recommend.ErrNotTrained
	}

	out := make(map[int64]float64, len(*published))
	for id, score := range *published {
		out[id] = score
	}
	return out, nil
}

// TopK returns the k best selling product IDs.
func (p *Popularity) TopK(k int) []int64 {
	published := p.scores.Load()
	if published == nil || k <= 0 {
		return nil
	}
	return recommend.Rank(*published, nil, k)
}
