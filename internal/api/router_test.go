package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
)

// routerAccounts accepts the single token "good" for user alice.
type routerAccounts struct {
	ports.AccountService
}

func (routerAccounts) Authenticate(_ context.Context, token string) (string, error) {
	if token == "good" {
		return "alice", nil
	}
	return "", domain.ErrUnauthenticated
}

func (routerAccounts) Logout(context.Context, string) error {
	return nil
}

func (routerAccounts) GetAnimals(context.Context, string) (domain.Animals, error) {
	return domain.Animals{"cow": 1}, nil
}

type routerAnalysis struct{}

func (routerAnalysis) Analyze(_ context.Context, text string) (*ports.Analysis, error) {
	return &ports.Analysis{Result: impact.Analyze(text), Source: "heuristic"}, nil
}

type routerCommunity struct {
	ports.CommunityService
}

func (routerCommunity) ListRecipes(context.Context) ([]*domain.SharedRecipe, error) {
	return []*domain.SharedRecipe{}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(Services{
		Accounts:  routerAccounts{},
		Community: routerCommunity{},
		Analysis:  routerAnalysis{},
	}, Options{
		Log:           zerolog.Nop(),
		SessionHeader: "X-Session-Id",
		Registerer:    reg,
		Gatherer:      reg,
	})
}

func serve(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("X-Session-Id", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SessionGate(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"unknown token", "bad", http.StatusUnauthorized},
		{"valid token", "good", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, "/api/animals", tc.token, "")
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_LogoutIsIdempotent(t *testing.T) {
	h := newTestRouter(t)

	for i, token := range []string{"good", "good", "bad", ""} {
		rec := serve(h, http.MethodPost, "/api/logout", token, "")
		if rec.Code != http.StatusOK || rec.Body.String() != "{\"success\":true}\n" {
			t.Fatalf("logout %d with token %q: got %d %q", i, token, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	h := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/api/community/recipes", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"recipes\":[]}\n" {
		t.Fatalf("unexpected recipes response %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(h, http.MethodPost, "/api/analyze", "", `{"recipeText":"lentil soup"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"source":"heuristic"`) {
		t.Fatalf("unexpected analyze response %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
}

func TestRouter_AnalyzeSaveWithoutSession(t *testing.T) {
	h := newTestRouter(t)

	rec := serve(h, http.MethodPost, "/api/analyze", "", `{"recipeText":"tofu wings","save":true}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_NotFoundUsesErrorEnvelope(t *testing.T) {
	h := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/api/nope", "", "")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestRouter(t)

	serve(h, http.MethodGet, "/api/community/recipes", "", "")
	rec := serve(h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "savefarm_requests_total") {
		t.Fatalf("expected request metrics, got %d", rec.Code)
	}
}

func TestRouter_CORSAllowsSessionHeader(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/animals", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "X-Session-Id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-Session-Id") {
		t.Fatalf("session header not allowed: %q", rec.Header().Get("Access-Control-Allow-Headers"))
	}
}
