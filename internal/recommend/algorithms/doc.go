// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

// Package algorithms implements the recommendation algorithms behind the
// recommend.Algorithm contract.
//
//   - SlopeOne: item-based collaborative filtering on purchase quantities
//   - Popularity: total units sold per product, used for anonymous and new users
//
// # Thread Safety
//
// Train calls are serialized by an exclusive training lock. The trained model
// is built off to the side and published through an atomic pointer, so
// Predict never takes a lock and never observes a partially built model.
package algorithms
