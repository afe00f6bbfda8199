// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package history persists finished training rounds in BadgerDB.

Each round is stored as a JSON document under a key ordered by start time,
so the newest rounds can be read with a reverse prefix scan. The store keeps
at most MaxRounds entries; older rounds are pruned after every write.

The store backs the history block of /train/status and survives restarts
when a data directory is configured. Tests and ephemeral deployments use
the in-memory mode.
*/
package history
