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

// NoDataScore is assigned to a product when some product the user bought was
// never co-purchased with it. It sorts below every real prediction.
const NoDataScore = -1.0

// SlopeOne implements weighted Slope-One collaborative filtering on the
// purchase quantity matrix: the more units a user bought, the higher the
// rating.
//
// Training records, for every ordered product pair (i, j) bought by the same
// user (including i == j):
//
//	freq[i][j] += 1
//	diff[i][j] += r(i) - r(j)
//
// and finally divides every diff entry by its frequency. Prediction of an
// unbought product p for a user who bought products q:
//
//	score(p) = sum((r(q) + diff[q][p]) * freq[q][p]) / sum(freq[q][p])
//
// A product the user already bought scores the user's own rating.
type SlopeOne struct {
	BaseAlgorithm

	model atomic.Pointer[slopeOneModel]
}

// slopeOneModel is immutable once published.
type slopeOneModel struct {
	ratings  recommend.RatingMatrix
	products []int64
	diff     map[int64]map[int64]float64
	freq     map[int64]map[int64]int
}

// NewSlopeOne creates an untrained Slope-One algorithm.
func NewSlopeOne() *SlopeOne {
	return &SlopeOne{
		BaseAlgorithm: NewBaseAlgorithm(recommend.AlgorithmSlopeOne),
	}
}

// Train builds the difference and frequency matrices and publishes them.
func (s *SlopeOne) Train(ctx context.Context, ts *recommend.TrainingSet) error {
	publish, err := s.Fit(ctx, ts)
	if err != nil {
		return err
	}
	publish()
	return nil
}

// Fit builds the difference and frequency matrices. The model is only
// served once the returned function is called.
func (s *SlopeOne) Fit(ctx context.Context, ts *recommend.TrainingSet) (func(), error) {
	m := &slopeOneModel{
		ratings:  ts.Ratings,
		products: ts.Products.Sorted(),
		diff:     make(map[int64]map[int64]float64),
		freq:     make(map[int64]map[int64]int),
	}

	for _, userID := range ts.Ratings.Users() {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		row := ts.Ratings[userID]
		bought := recommend.SortedKeys(row)
		for _, i := range bought {
			if _, ok := m.freq[i]; !ok {
				m.freq[i] = make(map[int64]int)
				m.diff[i] = make(map[int64]float64)
			}
			for _, j := range bought {
				m.freq[i][j]++
				m.diff[i][j] += row[i] - row[j]
			}
		}
	}

	for i, row := range m.diff {
		for j := range row {
			row[j] /= float64(m.freq[i][j])
		}
	}

	return s.publisher(func() { s.model.Store(m) }), nil
}

// Predict scores every product in the trained universe for the user.
func (s *SlopeOne) Predict(ctx context.Context, userID *int64, _ []int64) (map[int64]float64, error) {
	m := s.model.Load()
	if m == nil {
		return nil, recommend.ErrNotTrained
	}
	if userID == nil {
		return nil, recommend.ErrUseFallbackStrategy
	}
	row, ok := m.ratings.Row(*userID)
	if !ok {
		return nil, recommend.ErrUseFallbackStrategy
	}

	bought := recommend.SortedKeys(row)
	scores := make(map[int64]float64, len(m.products))
	for _, p := range m.products {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if score, ok := m.predict(row, bought, p); ok {
			scores[p] = score
		} else {
			scores[p] = NoDataScore
		}
	}
	return scores, nil
}

// predict returns false when some bought product has no pair statistics with p.
func (m *slopeOneModel) predict(row map[int64]float64, bought []int64, p int64) (float64, bool) {
	if rating, ok := row[p]; ok {
		return rating, true
	}

	var score, weight float64
	for _, q := range bought {
		diff, freq, ok := m.pairStats(q, p)
		if !ok {
			return 0, false
		}
		score += (row[q] + diff) * float64(freq)
		weight += float64(freq)
	}
	if weight == 0 {
		return 0, false
	}
	return score / weight, true
}

// pairStats returns diff[q][p] and freq[q][p] if the pair was ever observed.
func (m *slopeOneModel) pairStats(q, p int64) (float64, int, bool) {
	freqRow, ok := m.freq[q]
	if !ok {
		return 0, 0, false
	}
	freq, ok := freqRow[p]
	if !ok {
		return 0, 0, false
	}
	return m.diff[q][p], freq, true
}

// Differences returns a copy of the published difference matrix.
func (s *SlopeOne) Differences() map[int64]map[int64]float64 {
	m := s.model.Load()
	if m == nil {
		return nil
	}
	return copyMatrix(m.diff)
}

// Frequencies returns a copy of the published frequency matrix.
func (s *SlopeOne) Frequencies() map[int64]map[int64]int {
	m := s.model.Load()
	if m == nil {
		return nil
	}
	return copyMatrix(m.freq)
}

func copyMatrix[V any](src map[int64]map[int64]V) map[int64]map[int64]V {
	out := make(map[int64]map[int64]V, len(src))
	for i, row := range src {
		r := make(map[int64]V, len(row))
		for j, v := range row {
			r[j] = v
		}
		out[i] = r
	}
	return out
}
