// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package algorithms

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/tomtom215/teastore-recommender/internal/recommend"
)

// trainingSet builds a TrainingSet directly from a rating matrix.
func trainingSet(ratings recommend.RatingMatrix, extraProducts ...int64) *recommend.TrainingSet {
	products := make(recommend.ProductSet)
	for _, row := range ratings {
		for p := range row {
			products.Add(p)
		}
	}
	for _, p := range extraProducts {
		products.Add(p)
	}
	return &recommend.TrainingSet{Ratings: ratings, Products: products}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestSlopeOne_Train(t *testing.T) {
	ratings := recommend.RatingMatrix{
		1: {10: 2, 20: 4},
		2: {10: 3},
		3: {10: 1, 20: 1, 30: 5},
	}

	s := NewSlopeOne()
	if s.IsTrained() {
		t.Fatal("expected untrained algorithm")
	}
	if err := s.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if !s.IsTrained() || s.Version() != 1 {
		t.Fatalf("expected trained version 1, got trained=%v version=%d", s.IsTrained(), s.Version())
	}

	diff := s.Differences()
	freq := s.Frequencies()

	tests := []struct {
		name     string
		i, j     int64
		wantDiff float64
		wantFreq int
	}{
		{"self pair bought by all", 10, 10, 0, 3},
		{"10 vs 20", 10, 20, -1, 2}, // ((2-4) + (1-1)) / 2
		{"20 vs 10", 20, 10, 1, 2},  // ((4-2) + (1-1)) / 2
		{"30 vs 10", 30, 10, 4, 1},  // 5-1
		{"10 vs 30", 10, 30, -4, 1}, // 1-5
		{"self pair single user", 30, 30, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diff[tt.i][tt.j]; got != tt.wantDiff {
				t.Errorf("diff[%d][%d] = %v, want %v", tt.i, tt.j, got, tt.wantDiff)
			}
			if got := freq[tt.i][tt.j]; got != tt.wantFreq {
				t.Errorf("freq[%d][%d] = %v, want %v", tt.i, tt.j, got, tt.wantFreq)
			}
		})
	}
}

func TestSlopeOne_MatricesAreCoIndexed(t *testing.T) {
	ratings := recommend.RatingMatrix{
		1: {1: 1, 2: 7, 3: 2},
		2: {2: 3, 4: 1},
		3: {5: 9},
		4: {1: 4, 5: 2},
	}

	s := NewSlopeOne()
	if err := s.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatal(err)
	}

	diff, freq := s.Differences(), s.Frequencies()
	if len(diff) != len(freq) {
		t.Fatalf("row count differs: diff=%d freq=%d", len(diff), len(freq))
	}
	for i, row := range diff {
		freqRow, ok := freq[i]
		if !ok {
			t.Fatalf("freq has no row %d", i)
		}
		if len(row) != len(freqRow) {
			t.Errorf("row %d: diff has %d keys, freq has %d", i, len(row), len(freqRow))
		}
		for j := range row {
			if _, ok := freqRow[j]; !ok {
				t.Errorf("freq[%d] is missing key %d", i, j)
			}
		}
		if f := freqRow[i]; f < 1 {
			t.Errorf("self pair freq[%d][%d] = %d, want >= 1", i, i, f)
		}
		if d := row[i]; d != 0 {
			t.Errorf("self pair diff[%d][%d] = %v, want 0", i, i, d)
		}
	}
}

func TestSlopeOne_TrainIsIdempotent(t *testing.T) {
	ratings := recommend.RatingMatrix{
		1: {1: 1.5, 2: 7, 3: 2.25},
		2: {2: 3, 3: 0.1, 4: 1},
		3: {1: 0.3, 3: 0.7, 4: 11},
	}

	first := NewSlopeOne()
	second := NewSlopeOne()
	if err := first.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatal(err)
	}
	if err := second.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first.Differences(), second.Differences()) {
		t.Error("difference matrices differ between identical trainings")
	}
	if !reflect.DeepEqual(first.Frequencies(), second.Frequencies()) {
		t.Error("frequency matrices differ between identical trainings")
	}

	// Retraining the same instance replaces rather than accumulates.
	before := first.Frequencies()
	if err := first.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, first.Frequencies()) {
		t.Error("retraining on identical data changed the frequency matrix")
	}
	if first.Version() != 2 {
		t.Errorf("expected version 2 after retrain, got %d", first.Version())
	}
}

func TestSlopeOne_Predict(t *testing.T) {
	ratings := recommend.RatingMatrix{
		1: {10: 2, 20: 4},
		2: {10: 3},
		3: {30: 1},
	}
	s := NewSlopeOne()
	if err := s.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatal(err)
	}

	scores, err := s.Predict(context.Background(), int64Ptr(2), []int64{10})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// Own purchase returns the user's rating.
	if got := scores[10]; got != 3 {
		t.Errorf("score[10] = %v, want 3 (own rating)", got)
	}
	// (r(10) + diff[10][20]) * freq[10][20] / freq[10][20] = (3 + -2) * 1 / 1
	if got := scores[20]; got != 1 {
		t.Errorf("score[20] = %v, want 1", got)
	}
	// Product 30 was never bought together with product 10.
	if got := scores[30]; got != NoDataScore {
		t.Errorf("score[30] = %v, want %v", got, NoDataScore)
	}
	if len(scores) != 3 {
		t.Errorf("expected a score for every product, got %v", scores)
	}
}

func TestSlopeOne_PredictNeverCoPurchased(t *testing.T) {
	ratings := recommend.RatingMatrix{
		100: {1: 3},
		200: {2: 1},
	}
	s := NewSlopeOne()
	if err := s.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatal(err)
	}

	scores, err := s.Predict(context.Background(), int64Ptr(100), []int64{1})
	if err != nil {
		t.Fatal(err)
	}
	if scores[2] != -1.0 {
		t.Errorf("score for never co-purchased product = %v, want exactly -1.0", scores[2])
	}
	if scores[1] != 3 {
		t.Errorf("score for own product = %v, want 3", scores[1])
	}
}

func TestSlopeOne_PredictFallbackAndNotTrained(t *testing.T) {
	s := NewSlopeOne()

	if _, err := s.Predict(context.Background(), int64Ptr(1), []int64{1}); !errors.Is(err, recommend.ErrNotTrained) {
		t.Errorf("untrained Predict() error = %v, want ErrNotTrained", err)
	}

	if err := s.Train(context.Background(), trainingSet(recommend.RatingMatrix{1: {1: 1}})); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		userID *int64
	}{
		{"nil user", nil},
		{"user without history", int64Ptr(99)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := s.Predict(context.Background(), tt.userID, []int64{1})
			if !errors.Is(err, recommend.ErrUseFallbackStrategy) {
				t.Errorf("Predict() error = %v, want ErrUseFallbackStrategy", err)
			}
			if scores != nil {
				t.Errorf("expected no scores, got %v", scores)
			}
		})
	}
}

func TestSlopeOne_TrainCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSlopeOne()
	err := s.Train(ctx, trainingSet(recommend.RatingMatrix{1: {1: 1}}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Train() error = %v, want context.Canceled", err)
	}
	if s.IsTrained() {
		t.Error("canceled training must not publish a model")
	}
}

func TestSlopeOne_ConcurrentPredictDuringTrain(t *testing.T) {
	small := recommend.RatingMatrix{1: {1: 1, 2: 2}}
	large := recommend.RatingMatrix{1: {1: 1, 2: 2}, 2: {1: 4, 2: 1, 3: 3}}

	s := NewSlopeOne()
	if err := s.Train(context.Background(), trainingSet(small)); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				scores, err := s.Predict(context.Background(), int64Ptr(1), []int64{1})
				if err != nil {
					t.Errorf("Predict() error = %v", err)
					return
				}
				// Either the small (2 products) or the large (3 products) model, never a mix.
				if len(scores) != 2 && len(scores) != 3 {
					t.Errorf("unexpected score count %d", len(scores))
					return
				}
			}
		}()
	}
	for n := 0; n < 20; n++ {
		ts := trainingSet(small)
		if n%2 == 0 {
			ts = trainingSet(large)
		}
		if err := s.Train(context.Background(), ts); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()
}

func TestSlopeOne_FitDefersPublication(t *testing.T) {
	s := NewSlopeOne()
	if err := s.Train(context.Background(), trainingSet(recommend.RatingMatrix{1: {1: 1, 2: 2}})); err != nil {
		t.Fatal(err)
	}

	publish, err := s.Fit(context.Background(), trainingSet(recommend.RatingMatrix{2: {1: 5, 3: 4}}))
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if s.Version() != 1 {
		t.Errorf("Fit() must not bump the version, got %d", s.Version())
	}
	if _, err := s.Predict(context.Background(), int64Ptr(2), []int64{1}); !errors.Is(err, recommend.ErrUseFallbackStrategy) {
		t.Errorf("unpublished user 2 should not be scored, err = %v", err)
	}

	publish()
	if s.Version() != 2 {
		t.Errorf("Version() after publish = %d, want 2", s.Version())
	}
	if _, err := s.Predict(context.Background(), int64Ptr(2), []int64{1}); err != nil {
		t.Errorf("Predict() after publish error = %v", err)
	}
}
