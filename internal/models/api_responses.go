// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package models

import (
	"time"
)

// APIResponse is the wrapper used by the JSON endpoints.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"alive": true},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Algorithm   string    `json:"algorithm,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
//
// Codes used by the recommender:
//   - VALIDATION_ERROR: malformed query parameters or body
//   - NOT_READY: a training round is in progress
//   - NOT_TRAINED: no training round has ever succeeded
//   - TRAINING_IN_PROGRESS: a retrain was requested while one is running
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
