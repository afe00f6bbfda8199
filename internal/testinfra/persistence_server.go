// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/teastore-recommender/internal/models"
)

// MockPersistenceServer fakes the TeaStore persistence service.
type MockPersistenceServer struct {
	Server *httptest.Server

	mu           sync.Mutex
	items        []models.OrderItem
	orders       []models.Order
	pendingPolls int
	failStatus   int
	requests     map[string]int
}

// NewMockPersistenceServer starts a server serving the given fixtures. The
// server is closed when the test ends.
func NewMockPersistenceServer(t *testing.T, items []models.OrderItem, orders []models.Order) *MockPersistenceServer {
	t.Helper()

	m := &MockPersistenceServer{
		items:    items,
		orders:   orders,
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/generatedb/finished", m.handleFinished)
	mux.HandleFunc("/orderitems", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.serveJSON(w, r, m.items)
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.serveJSON(w, r, m.orders)
	})

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the base URL to configure as the persistence URL.
func (m *MockPersistenceServer) URL() string {
	return m.Server.URL
}

// SetPendingPolls makes the next n generation polls report false.
func (m *MockPersistenceServer) SetPendingPolls(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingPolls = n
}

// SetFailure makes the data endpoints answer with status. Zero restores
// normal responses.
func (m *MockPersistenceServer) SetFailure(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStatus = status
}

// SetData replaces the fixtures.
func (m *MockPersistenceServer) SetData(items []models.OrderItem, orders []models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.orders = orders
}

// Requests returns how often path was requested.
func (m *MockPersistenceServer) Requests(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[path]
}

func (m *MockPersistenceServer) handleFinished(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.URL.Path]++

	if m.pendingPolls > 0 {
		m.pendingPolls--
		w.Write([]byte("false")) //nolint:errcheck
		return
	}
	w.Write([]byte("true")) //nolint:errcheck
}

// serveJSON must be called with m.mu held.
func (m *MockPersistenceServer) serveJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	m.requests[r.URL.Path]++

	if m.failStatus != 0 {
		http.Error(w, "fixture failure", m.failStatus)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck
}
