// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package recommend

import (
	"math"
	"sort"
)

// DefaultMaxRecommendations bounds a recommendation list when no limit is configured.
const DefaultMaxRecommendations = 10

type scoredProduct struct {
	id    int64
	score float64
}

// Rank orders scored products for presentation.
//
// Products are sorted by score descending. Products with an identical score
// are ordered by ascending ID. Products in the cart are skipped and the list
// stops at limit entries (DefaultMaxRecommendations if limit <= 0). NaN scores
// rank below every real score.
func Rank(scores map[int64]float64, cart []int64, limit int) []int64 {
	if limit <= 0 {
		limit = DefaultMaxRecommendations
	}

	inCart := make(map[int64]struct{}, len(cart))
	for _, id := range cart {
		inCart[id] = struct{}{}
	}

	ranked := make([]scoredProduct, 0, len(scores))
	for id, score := range scores {
		if _, ok := inCart[id]; ok {
			continue
		}
		if math.IsNaN(score) {
			score = math.Inf(-1)
		}
		ranked = append(ranked, scoredProduct{id: id, score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]int64, len(ranked))
	for i, p := range ranked {
		out[i] = p.id
	}
	return out
}
