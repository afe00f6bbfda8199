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
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/teastore-recommender/internal/config"
	"github.com/tomtom215/teastore-recommender/internal/metrics"
	"github.com/tomtom215/teastore-recommender/internal/models"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB)
// Returns the body content or a placeholder message if reading fails
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// PersistenceSource is the read side of the persistence service used by a
// training round. Implemented by PersistenceClient and CircuitBreakerClient.
type PersistenceSource interface {
	// GeneratorFinished reports whether the persistence service has finished
	// generating its database.
	GeneratorFinished(ctx context.Context) (bool, error)

	// FetchOrderItems returns every order item.
	FetchOrderItems(ctx context.Context) ([]models.OrderItem, error)

	// FetchOrders returns every order.
	FetchOrders(ctx context.Context) ([]models.Order, error)
}

// PersistenceClient talks to the TeaStore persistence REST service.
type PersistenceClient struct {
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewPersistenceClient creates a persistence client.
//
// Requests are paced by a token bucket of cfg.RequestsPerSecond (unlimited if
// zero). HTTP 429 responses are retried up to 5 times with exponential backoff
// starting at 1 second.
func NewPersistenceClient(cfg *config.PersistenceConfig) *PersistenceClient {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &PersistenceClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// GeneratorFinished calls GET /generatedb/finished. The service answers with
// a plain text boolean; anything other than "true" counts as not finished.
func (c *PersistenceClient) GeneratorFinished(ctx context.Context) (bool, error) {
	resp, err := c.get(ctx, "generatedb/finished", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return false, fmt.Errorf("generatedb/finished request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return false, fmt.Errorf("failed to read generatedb/finished response: %w", err)
	}
	finished, err := strconv.ParseBool(strings.TrimSpace(string(body)))
	if err != nil {
		return false, nil
	}
	return finished, nil
}

// FetchOrderItems calls GET /orderitems?start=-1&max=-1.
func (c *PersistenceClient) FetchOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := c.fetchAll(ctx, "orderitems", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchOrders calls GET /orders?start=-1&max=-1.
func (c *PersistenceClient) FetchOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.fetchAll(ctx, "orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// fetchAll loads the complete entity collection; start=-1 and max=-1 disable paging.
func (c *PersistenceClient) fetchAll(ctx context.Context, entity string, result interface{}) error {
	params := url.Values{}
	params.Set("start", "-1")
	params.Set("max", "-1")

	resp, err := c.get(ctx, entity, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", entity, resp.StatusCode, string(body))
	}

	if err := decodeJSONResponse(resp, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", entity, err)
	}
	return nil
}

// get issues a paced GET request against endpoint and records its latency.
func (c *PersistenceClient) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	metrics.RecordPersistenceRequest(endpoint, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to make %s request: %w", endpoint, err)
	}
	return resp, nil
}

// doRequestWithRateLimit performs an HTTP request with automatic rate limit handling.
// Waits for the local limiter before every attempt and backs off exponentially
// on HTTP 429 (1s, 2s, 4s, 8s, 16s). The context cancels both waits.
func (c *PersistenceClient) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close() // Will retry anyway

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// decodeJSONResponse decodes HTTP response body into the provided result
func decodeJSONResponse(resp *http.Response, result interface{}) error {
	return json.NewDecoder(resp.Body).Decode(result)
}
