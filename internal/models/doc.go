// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

/*
Package models defines the records exchanged with the persistence service and
the response envelope used by the JSON API.

Store Records:

  - Order: one placed order, owned by a user, with an ISO local date-time stamp
  - OrderItem: one line of an order (product, quantity, unit price)

The JSON field names match the persistence service wire format (camelCase),
so the same structs decode bulk reads and recommend request bodies.

API Models:

  - APIResponse: standard response wrapper
  - APIError: error details
  - Metadata: response metadata
*/
package models
