package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockUpstreamServer imitates the ExchangeRate-API v6 endpoints and records calls
type MockUpstreamServer struct {
	server *httptest.Server

	mu         sync.Mutex
	statusCode int
	calls      []string
}

// NewMockUpstreamServer creates a mock upstream answering 200 by default
func NewMockUpstreamServer() *MockUpstreamServer {
	mock := &MockUpstreamServer{statusCode: http.StatusOK}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

// URL returns the base URL of the mock server
func (m *MockUpstreamServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockUpstreamServer) Close() {
	m.server.Close()
}

// SetStatusCode makes every following reply use the given status
func (m *MockUpstreamServer) SetStatusCode(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCode = statusCode
}

// CallCount returns how many requests reached the server
func (m *MockUpstreamServer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the request paths seen so far
func (m *MockUpstreamServer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// LatestPayload is the body served for GET /{key}/latest/{currency}
func LatestPayload(currency string) string {
	return fmt.Sprintf(`{"result":"success","base_code":%q,"conversion_rates":{"EUR":0.92,"GBP":0.79,"JPY":149.5}}`, currency)
}

// PairPayload is the body served for GET /{key}/pair/{base}/{target}/{amount}
func PairPayload(base, target, amount string) string {
	return fmt.Sprintf(`{"result":"success","base_code":%q,"target_code":%q,"conversion_rate":0.92,"amount":%q}`, base, target, amount)
}

func (m *MockUpstreamServer) handler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.calls = append(m.calls, r.URL.Path)
	statusCode := m.statusCode
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
		fmt.Fprint(w, `{"result":"error","error-type":"upstream-failure"}`)
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != TestAPIKey {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"result":"error","error-type":"invalid-key"}`)
		return
	}

	switch {
	case segments[1] == "latest" && len(segments) == 3:
		fmt.Fprint(w, LatestPayload(segments[2]))
	case segments[1] == "pair" && len(segments) == 5:
		fmt.Fprint(w, PairPayload(segments[2], segments[3], segments[4]))
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"result":"error","error-type":"unsupported-code"}`)
	}
}
