// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package services provides suture.Service wrappers for recommender components.

Each wrapper translates a component's lifecycle (ListenAndServe, Run, a
periodic task) into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Available services:

  - HTTPServerService: wraps *http.Server with graceful shutdown.
  - RetrainService: trains once on startup and then on a fixed interval.
  - EventSubscriberService: runs the NATS retrain subscriber.
  - HistoryGCService: runs value log GC on the on-disk round history.

Returning an error from Serve makes the supervisor restart the service with
backoff. Returning ctx.Err() after cancellation is a clean stop.
*/
package services
