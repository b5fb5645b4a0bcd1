package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logpkg "github.com/rzbill/snowflake/pkg/log"
	"github.com/rzbill/snowflake/pkg/snowflake"
)

func newTestServer(t *testing.T, node uint16) *Server {
	t.Helper()
	gen, err := snowflake.New(node)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text"})
	return New(gen, logger)
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestNextHandler(t *testing.T) {
	s := newTestServer(t, 42)
	req := httptest.NewRequest(http.MethodGet, "/v1/ids/next", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
	var resp idResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Node != 42 {
		t.Fatalf("node: %d, want 42", resp.Node)
	}
	if _, err := snowflake.ParseString(resp.ID); err != nil {
		t.Fatalf("id not decimal: %q", resp.ID)
	}
}

func TestNextHandlerRejectsPost(t *testing.T) {
	s := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/ids/next", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestBatchHandler(t *testing.T) {
	s := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/ids", strings.NewReader(`{"count":10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
	var resp struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.IDs) != 10 {
		t.Fatalf("ids: %d, want 10", len(resp.IDs))
	}
	seen := map[string]struct{}{}
	for _, id := range resp.IDs {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id in batch: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestBatchHandlerValidatesCount(t *testing.T) {
	s := newTestServer(t, 1)
	for _, body := range []string{`{"count":0}`, `{"count":4097}`, `{`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/ids", strings.NewReader(body))
		w := httptest.NewRecorder()
		s.srv.Handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q status: %d", body, w.Code)
		}
	}
}

func TestParseHandlerRoundTrip(t *testing.T) {
	s := newTestServer(t, 7)

	// mint over the API, then parse over the API
	req := httptest.NewRequest(http.MethodGet, "/v1/ids/next", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	var minted idResponse
	if err := json.NewDecoder(w.Body).Decode(&minted); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/ids/parse?id="+minted.ID, nil)
	w = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("status: %d", w.Code)
	}
	var parsed idResponse
	if err := json.NewDecoder(w.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parsed != minted {
		t.Fatalf("parse mismatch: %+v != %+v", parsed, minted)
	}
}

func TestParseHandlerRejectsBadInput(t *testing.T) {
	s := newTestServer(t, 1)
	for _, q := range []string{"", "?id=abc", "?id=-1"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/ids/parse"+q, nil)
		w := httptest.NewRecorder()
		s.srv.Handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("query %q status: %d", q, w.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("request id not propagated: %q", got)
	}
}
