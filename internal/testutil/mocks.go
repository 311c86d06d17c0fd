package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockCryptoCompareAPI is a mock HTTP server that simulates the
// CryptoCompare min-api. Bodies are keyed by request path.
type MockCryptoCompareAPI struct {
	*httptest.Server

	mu       sync.RWMutex
	bodies   map[string]string
	statuses map[string]int
	hits     map[string]int
	queries  map[string][]string
}

// NewMockCryptoCompareAPI creates a new mock API server. Unknown paths
// return 404.
func NewMockCryptoCompareAPI() *MockCryptoCompareAPI {
	mock := &MockCryptoCompareAPI{
		bodies:   make(map[string]string),
		statuses: make(map[string]int),
		hits:     make(map[string]int),
		queries:  make(map[string][]string),
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.hits[r.URL.Path]++
		mock.queries[r.URL.Path] = append(mock.queries[r.URL.Path], r.URL.RawQuery)
		body, ok := mock.bodies[r.URL.Path]
		status := mock.statuses[r.URL.Path]
		mock.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		if status == 0 {
			status = http.StatusOK
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	return mock
}

// Respond sets the body returned for path with HTTP 200.
func (m *MockCryptoCompareAPI) Respond(path, body string) {
	m.RespondStatus(path, http.StatusOK, body)
}

// RespondStatus sets the status and body returned for path.
func (m *MockCryptoCompareAPI) RespondStatus(path string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[path] = body
	m.statuses[path] = status
}

// Hits returns how many requests were made to path.
func (m *MockCryptoCompareAPI) Hits(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits[path]
}

// Queries returns the raw query strings sent to path, in order.
func (m *MockCryptoCompareAPI) Queries(path string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.queries[path]))
	copy(out, m.queries[path])
	return out
}
