// Package testutil provides an in-process compliance API for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/cespare/xxhash/v2"
)

// MockResponse defines a canned response for a path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI serves /proc/* and /me from an in-memory data set. Responses
// carry ETag and Cache-Control like the real service and answer
// If-None-Match with 304.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	clusters []model.DocumentCluster
	users    map[string]model.User

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
	pathCounts        map[string]int
	lastQuery         map[string]string
}

// NewMockAPI starts a mock API. Add data with AddCluster and tokens
// with AddUser.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers:   make(map[string]http.HandlerFunc),
		users:      make(map[string]model.User),
		pathCounts: make(map[string]int),
		lastQuery:  make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/proc/count", mock.handleCount)
	mux.HandleFunc("/proc/list", mock.handleList)
	mux.HandleFunc("/proc/matrix", mock.handleMatrix)
	mux.HandleFunc("/proc/standards", mock.handleStandards)
	mux.HandleFunc("/proc/categories", mock.handleCategories)
	mux.HandleFunc("/me", mock.handleMe)

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.pathCounts[r.URL.Path]++
		mock.lastQuery[r.URL.Path] = r.URL.RawQuery
		mock.LastRequestHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" {
			mock.ConditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		if r.URL.Path != "/me" && !mock.authorized(r) {
			writeJSONStatus(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		mux.ServeHTTP(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.pathCounts = make(map[string]int)
	m.lastQuery = make(map[string]string)
}

// AddUser accepts token as a bearer credential for user.
func (m *MockAPI) AddUser(token string, user model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[token] = user
}

// AddCluster appends clusters to the data set.
func (m *MockAPI) AddCluster(clusters ...model.DocumentCluster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clusters = append(m.clusters, clusters...)
}

// SetHandler overrides the handler for a path. Overrides skip the
// authentication check.
func (m *MockAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// ClearHandler removes an override set with SetHandler or SetResponse.
func (m *MockAPI) ClearHandler(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, path)
}

// SetResponse configures a canned response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// PathCount returns the number of requests made to path.
func (m *MockAPI) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// LastQuery returns the raw query of the most recent request to path.
func (m *MockAPI) LastQuery(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery[path]
}

func (m *MockAPI) authorized(r *http.Request) bool {
	_, ok := m.userFor(r)
	return ok
}

func (m *MockAPI) userFor(r *http.Request) (model.User, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return model.User{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[token]
	return user, ok
}

func (m *MockAPI) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := m.userFor(r)
	if !ok || user.Disabled {
		writeJSONStatus(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return
	}
	writeJSON(w, r, user)
}

func (m *MockAPI) handleCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, len(m.matching(filterFrom(r))))
}

func (m *MockAPI) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil {
		limit = 50
	}

	clusters := m.matching(filterFrom(r))
	if skip > len(clusters) {
		skip = len(clusters)
	}
	end := min(skip+limit, len(clusters))
	writeJSON(w, r, clusters[skip:end])
}

func (m *MockAPI) handleMatrix(w http.ResponseWriter, r *http.Request) {
	f := filterFrom(r)
	f.Phase, f.Role = "", ""

	matrix := model.Matrix{}
	for _, phase := range model.Phases {
		matrix[phase] = map[string]int{}
		for _, role := range model.Roles {
			matrix[phase][role] = 0
		}
	}
	for _, c := range m.matching(f) {
		seen := map[[2]string]bool{}
		for _, d := range c.Documents {
			cell := [2]string{d.Phase, d.Role}
			if seen[cell] || matrix[d.Phase] == nil {
				continue
			}
			seen[cell] = true
			matrix[d.Phase][d.Role]++
		}
	}
	writeJSON(w, r, matrix)
}

func (m *MockAPI) handleStandards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, m.distinct(func(d model.Document) string { return d.Standard }))
}

func (m *MockAPI) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, m.distinct(func(d model.Document) string { return d.Category }))
}

// matching returns clusters with at least one document matching f.
func (m *MockAPI) matching(f model.FilterCriteria) []model.DocumentCluster {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.DocumentCluster{}
	for _, c := range m.clusters {
		for _, d := range c.Documents {
			if docMatches(d, f) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (m *MockAPI) distinct(field func(model.Document) string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := map[string]bool{}
	for _, c := range m.clusters {
		for _, d := range c.Documents {
			if v := field(d); v != "" {
				set[v] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func filterFrom(r *http.Request) model.FilterCriteria {
	q := r.URL.Query()
	return model.FilterCriteria{
		Phase:    q.Get("phase"),
		Role:     q.Get("role"),
		Subject:  q.Get("subject"),
		Category: q.Get("category"),
		Standard: q.Get("standard"),
		Priority: q.Get("priority"),
	}
}

func docMatches(d model.Document, f model.FilterCriteria) bool {
	eq := func(want, got string) bool { return want == "" || want == got }
	return eq(f.Phase, d.Phase) && eq(f.Role, d.Role) && eq(f.Subject, d.Subject) &&
		eq(f.Category, d.Category) && eq(f.Standard, d.Standard) && eq(f.Priority, d.Priority)
}

// writeJSON writes v with ETag and Cache-Control, answering a matching
// If-None-Match with 304.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	etag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "max-age=60")
	w.Header().Set("X-RateLimit-Remaining", "100")
	w.Header().Set("X-RateLimit-Reset", "60")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"detail": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse(retryAfter int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"detail": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Retry-After":  strconv.Itoa(retryAfter),
			"Content-Type": "application/json",
		},
	}
}
