// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

// Package recommend turns store purchase history into product recommendations.
//
// # Training
//
// A training round starts from the bulk order and order-item records that the
// synchronizer fetched and filtered. BuildRatingMatrix groups the items per
// order, resolves each order's user and sums the purchased units per product,
// producing:
//
//   - RatingMatrix: user ID -> product ID -> total units bought in-window
//   - ProductSet: every product observed in-window
//
// The resulting TrainingSet is handed to every registered Algorithm. Each
// algorithm builds its own model off to the side and publishes it atomically,
// so concurrent recommend calls never observe a half-built model.
//
// # Serving
//
// Selector owns a primary algorithm and an optional fallback:
//
//	sel := recommend.NewSelector(slopeOne, popularity, cfg, logger)
//	if _, err := sel.Train(ctx, items, orders); err != nil { ... }
//	res, err := sel.Recommend(ctx, &userID, cart)
//
// An empty cart returns no recommendations without running any prediction.
// When the primary algorithm cannot score a user (ErrUseFallbackStrategy) the
// fallback is asked instead. Scores are ranked by Rank: highest score first,
// ties by ascending product ID, cart items excluded, bounded by
// Config.MaxRecommendations.
//
// # Thread Safety
//
// Selector and the algorithms are safe for concurrent use. Training is
// serialized per algorithm; prediction is lock-free against the published
// model.
package recommend
