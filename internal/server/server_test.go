package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/career-assistant/internal/advisor"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/logger"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/server/ratelimit"
)

// scriptedClient answers interview prompts by tier: questions are lite,
// evaluations standard and summaries advanced.
func scriptedClient() llm.Client {
	return llm.ClientFunc(func(_ context.Context, _, _ string, tier llm.ModelTier) (string, error) {
		switch tier {
		case llm.TierLite:
			return `"Describe a production incident you handled."`, nil
		case llm.TierStandard:
			return "Clear and structured.\nScore: 8/10", nil
		default:
			return "Strong candidate overall.", nil
		}
	})
}

func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()
	return newTestServerWithLimits(t, client, &ratelimit.Config{Enabled: false})
}

func newTestServerWithLimits(t *testing.T, client llm.Client, limits *ratelimit.Config) *Server {
	t.Helper()
	log := logger.Discard()
	store, err := profile.NewFileStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if client == nil {
		client = scriptedClient()
	}
	s, err := New(Config{Port: 0, RateLimit: limits}, Deps{
		Store:      store,
		Interviews: interview.NewManager(interview.NewLLMEvaluator(client), log),
		Advisor:    advisor.New(client, log),
		Log:        log,
	})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	return s
}

// do sends a request through the full middleware chain.
func do(s *Server, method, target string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return v
}

// TestHealthEndpoint tests the /health endpoint
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	resp := decode[map[string]any](t, w)
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%v'", resp["status"])
	}
	if _, ok := resp["database"]; ok {
		t.Error("expected no database field without a database")
	}
}

func TestNew_RequiresStoreAndManager(t *testing.T) {
	if _, err := New(Config{}, Deps{}); err == nil {
		t.Error("expected error without a profile store")
	}
	store, _ := profile.NewFileStore(t.TempDir(), logger.Discard())
	if _, err := New(Config{}, Deps{Store: store}); err == nil {
		t.Error("expected error without an interview manager")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, http.MethodOptions, "/profiles", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
		t.Errorf("expected DELETE in allowed methods, got %q", got)
	}
}

func TestRateLimit_Headers(t *testing.T) {
	s := newTestServerWithLimits(t, nil, ratelimit.DefaultConfig(100))

	w := do(s, http.MethodGet, "/roles", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") != "100" {
		t.Errorf("expected limit header 100, got %q", w.Header().Get("X-RateLimit-Limit"))
	}
	if w.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("expected remaining header")
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	cfg := &ratelimit.Config{
		Enabled: true,
		Default: ratelimit.Rule{Limit: 1000, Window: time.Minute},
		Rules:   []ratelimit.Rule{{Method: http.MethodPost, Path: "/advisor/", Limit: 2, Window: time.Hour}},
	}
	s := newTestServerWithLimits(t, llm.ClientFunc(func(context.Context, string, string, llm.ModelTier) (string, error) {
		return "Keep going.", nil
	}), cfg)

	body := map[string]any{"domain": "Data Science", "messages": []map[string]string{{"role": "user", "content": "hi"}}}
	for i := 0; i < 2; i++ {
		if w := do(s, http.MethodPost, "/advisor/chat", body); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d: %s", i, w.Code, w.Body.String())
		}
	}

	// roadmap shares the advisor bucket with chat
	w := do(s, http.MethodPost, "/advisor/roadmap", map[string]any{})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	resp := decode[map[string]any](t, w)
	if resp["error"] != "rate_limit_exceeded" {
		t.Errorf("expected rate_limit_exceeded, got %v", resp["error"])
	}
	if resp["limit"] != float64(2) {
		t.Errorf("expected limit 2, got %v", resp["limit"])
	}

	// other endpoints are unaffected
	if w := do(s, http.MethodGet, "/roles", nil); w.Code != http.StatusOK {
		t.Errorf("expected status 200 for /roles, got %d", w.Code)
	}
}

func TestExtractClientID(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if got := s.extractClientID(req); got != "10.1.2.3" {
		t.Errorf("expected 10.1.2.3, got %q", got)
	}

	req.RemoteAddr = "not-an-address"
	if got := s.extractClientID(req); got != "not-an-address" {
		t.Errorf("expected raw RemoteAddr, got %q", got)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(s, http.MethodPost, "/gaps", "{invalid json}")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	resp := decode[map[string]string](t, w)
	if resp["error"] != "invalid_request" {
		t.Errorf("expected invalid_request, got %q", resp["error"])
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	if w := do(s, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
