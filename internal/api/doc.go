// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package api provides the HTTP surface of the recommender using the Chi router.

Routes:

	GET  /train                 run a retrieve-and-retrain round (plain text)
	GET  /train/timestamp       adopted training cutoff in epoch millis (plain text, 412 if unset)
	GET  /train/isready         readiness flag (200 true, 500 false)
	GET  /train/status          training state and round history (JSON)
	POST /recommend?uid=        recommendations for a cart (JSON array of product ids)
	POST /recommendsingle?uid=  recommendations for a single order item
	GET  /health/live           liveness probe
	GET  /health/ready          readiness probe
	GET  /metrics               Prometheus metrics

The /train family keeps the plain-text contract peer recommenders and the
storefront rely on. Operational routes answer with the models.APIResponse
envelope. The recommend routes answer with bare JSON arrays.

GET /train blocks until the round finishes, which includes waiting for the
persistence service to generate its database. The server's write timeout
(HTTP_WRITE_TIMEOUT, default 10m) bounds the response, not the round. A
round that outlasts it keeps training for as long as the caller stays
connected and still publishes its model, but the caller never receives the
status line and body. Deployments that trigger
rounds against a slow generator set HTTP_WRITE_TIMEOUT=0 or poll
/train/isready after the call.

Middleware stack (outermost first): request id with logging context, real IP,
panic recovery, CORS, Prometheus instrumentation. Rate limiting is applied
per route group, with a stricter limit on /train since each call reloads the
whole order history.
*/
package api
