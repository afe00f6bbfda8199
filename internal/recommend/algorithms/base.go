// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package algorithms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/recommend"
)

// BaseAlgorithm provides the training lock and model bookkeeping shared by
// all algorithms.
type BaseAlgorithm struct {
	name string

	// trainMu serializes model publication.
	trainMu sync.Mutex

	mu            sync.RWMutex
	trained       bool
	version       int
	lastTrainedAt time.Time
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained returns whether a model has been published.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the model version.
func (b *BaseAlgorithm) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the current model was published.
func (b *BaseAlgorithm) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained records a successful publication.
// Must be called while holding the training lock.
func (b *BaseAlgorithm) markTrained() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

func (b *BaseAlgorithm) acquireTrainLock() {
	b.trainMu.Lock()
}

func (b *BaseAlgorithm) releaseTrainLock() {
	b.trainMu.Unlock()
}

// publisher wraps store so that the model swap and the version bump happen
// together under the training lock.
func (b *BaseAlgorithm) publisher(store func()) func() {
	return func() {
		b.acquireTrainLock()
		defer b.releaseTrainLock()
		store()
		b.markTrained()
	}
}

// ContextCancelled reports whether ctx is done without blocking.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// New creates an algorithm by its configuration name.
func New(name string) (recommend.Algorithm, error) {
	switch name {
	case recommend.AlgorithmSlopeOne:
		return NewSlopeOne(), nil
	case recommend.AlgorithmPopularity:
		return NewPopularity(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}
