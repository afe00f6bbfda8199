// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Peer reply outcomes, also used as metric labels.
const (
	PeerOutcomeOK         = "ok"          // 2xx with an integer body
	PeerOutcomeNull       = "null"        // transport failure or empty body
	PeerOutcomeNonSuccess = "non_success" // non-2xx status, e.g. 412 while the peer has no cutoff
	PeerOutcomeInvalid    = "invalid"     // 2xx with a body that is not an integer
)

// maxTimestampBodySize bounds a /train/timestamp body; an int64 needs 20 bytes.
const maxTimestampBodySize = 64

// PeerReply is the answer of one replica to a cutoff request.
type PeerReply struct {
	Peer     string
	Cutoff   int64
	HasValue bool
	Outcome  string
	Err      error
}

// PeerQuerier asks a replica for its training cutoff.
type PeerQuerier interface {
	FetchCutoff(ctx context.Context, peerURL string) PeerReply
}

// PeerClient fetches cutoffs from other recommender replicas.
type PeerClient struct {
	client  *http.Client
	timeout time.Duration
}

// NewPeerClient creates a peer client. Every request is bounded by timeout.
func NewPeerClient(timeout time.Duration) *PeerClient {
	return &PeerClient{
		client:  &http.Client{},
		timeout: timeout,
	}
}

// FetchCutoff calls GET {peerURL}/train/timestamp. Failures never surface as
// errors to the caller's control flow: they are reported in the reply so one
// broken replica cannot fail a round.
func (c *PeerClient) FetchCutoff(ctx context.Context, peerURL string) PeerReply {
	reply := PeerReply{Peer: peerURL}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := strings.TrimRight(peerURL, "/") + "/train/timestamp"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		reply.Outcome = PeerOutcomeNull
		reply.Err = fmt.Errorf("failed to create request: %w", err)
		return reply
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		reply.Outcome = PeerOutcomeNull
		reply.Err = fmt.Errorf("HTTP request failed: %w", err)
		return reply
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		body := readBodyForError(resp.Body)
		reply.Outcome = PeerOutcomeNonSuccess
		reply.Err = fmt.Errorf("peer answered with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return reply
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimestampBodySize))
	if err != nil {
		reply.Outcome = PeerOutcomeNull
		reply.Err = fmt.Errorf("failed to read peer response: %w", err)
		return reply
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		reply.Outcome = PeerOutcomeNull
		return reply
	}

	cutoff, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		reply.Outcome = PeerOutcomeInvalid
		reply.Err = fmt.Errorf("peer cutoff is not an integer: %w", err)
		return reply
	}

	reply.Cutoff = cutoff
	reply.HasValue = true
	reply.Outcome = PeerOutcomeOK
	return reply
}
