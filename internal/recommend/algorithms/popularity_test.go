// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package algorithms

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/teastore-recommender/internal/recommend"
)

func TestPopularity_Train(t *testing.T) {
	ratings := recommend.RatingMatrix{
		1: {10: 2, 20: 1},
		2: {10: 3, 30: 4},
		3: {20: 1},
	}

	p := NewPopularity()
	if err := p.Train(context.Background(), trainingSet(ratings)); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	scores, err := p.Predict(context.Background(), nil, []int64{99})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	want := map[int64]float64{10: 5, 20: 2, 30: 4}
	if !reflect.DeepEqual(scores, want) {
		t.Errorf("Predict() = %v, want %v", scores, want)
	}

	if got := p.TopK(2); !reflect.DeepEqual(got, []int64{10, 30}) {
		t.Errorf("TopK(2) = %v, want [10 30]", got)
	}
}

func TestPopularity_PredictReturnsCopy(t *testing.T) {
	p := NewPopularity()
	if err := p.Train(context.Background(), trainingSet(recommend.RatingMatrix{1: {1: 1}})); err != nil {
		t.Fatal(err)
	}

	scores, _ := p.Predict(context.Background(), nil, nil)
	scores[1] = 1000

	again, _ := p.Predict(context.Background(), nil, nil)
	if again[1] != 1 {
		t.Errorf("published scores were mutated: %v", again)
	}
}

func TestPopularity_NotTrained(t *testing.T) {
	p := NewPopularity()
	if _, err := p.Predict(context.Background(), nil, nil); !errors.Is(err, recommend.ErrNotTrained) {
		t.Errorf("Predict() error = %v, want ErrNotTrained", err)
	}
	if got := p.TopK(3); got != nil {
		t.Errorf("TopK() = %v, want nil", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{recommend.AlgorithmSlopeOne, false},
		{recommend.AlgorithmPopularity, false},
		{"als", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			algo, err := New(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && algo.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", algo.Name(), tt.name)
			}
		})
	}
}
