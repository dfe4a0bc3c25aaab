package gotrue

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/platform/resilience"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

func TestClientVerifyToken_SendsHeadersAndParsesRole(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Errorf("unexpected authorization: %s", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("unexpected apikey: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"id":            "user-123",
			"email":         "Coach@Agency.COM",
			"app_metadata":  map[string]any{"role": "agency", "provider": "email"},
			"user_metadata": map[string]any{"full_name": "Pat Coach"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{
		BaseURL:  srv.URL,
		UserPath: "/auth/v1/user",
		APIKey:   "anon-key",
	}, logging.NewNop())

	for range 2 {
		got, err := client.VerifyToken(context.Background(), "token-abc")
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		want := user.Principal{UserID: "user-123", Email: "coach@agency.com", FullName: "Pat Coach", Role: user.RoleAgency}
		if got != want {
			t.Fatalf("unexpected principal: %+v", got)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected principal to be cached, got %d calls", calls.Load())
	}
}

func TestClientVerifyToken_DefaultsRoleToAthlete(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"user-9","email":"kid@school.edu","app_metadata":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{BaseURL: srv.URL, UserPath: "auth/v1/user"}, logging.NewNop())
	got, err := client.VerifyToken(context.Background(), "token")
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if got.Role != user.RoleAthlete {
		t.Fatalf("expected athlete role, got %s", got.Role)
	}
}

func TestClientVerifyToken_RejectedTokenIsUnauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{BaseURL: srv.URL, UserPath: "/auth/v1/user"}, logging.NewNop())
	if _, err := client.VerifyToken(context.Background(), "expired"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := client.VerifyToken(context.Background(), "  "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for blank token, got %v", err)
	}
}

func TestClientVerifyToken_UnknownRoleIsForbidden(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"user-1","app_metadata":{"role":"superuser"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{BaseURL: srv.URL}, logging.NewNop())
	if _, err := client.VerifyToken(context.Background(), "token"); !errors.Is(err, usecase.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestClientVerifyToken_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{
		BaseURL: srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	for i := range 3 {
		_, err := client.VerifyToken(context.Background(), "token-"+string(rune('a'+i)))
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("call %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected breaker to short-circuit third call, got %d upstream calls", calls.Load())
	}
}

func TestClientVerifyToken_RejectionsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), Config{
		BaseURL:        srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1},
	}, logging.NewNop())

	for i := range 3 {
		if _, err := client.VerifyToken(context.Background(), "bad-"+string(rune('a'+i))); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	}
	if calls.Load() != 3 {
		t.Fatalf("expected every call to reach upstream, got %d", calls.Load())
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://auth.example.com/", "/auth/v1/user", "https://auth.example.com/auth/v1/user"},
		{"https://auth.example.com", "auth/v1/user", "https://auth.example.com/auth/v1/user"},
		{"https://auth.example.com", "", "https://auth.example.com"},
		{"https://ignored", "https://other.example.com/user", "https://other.example.com/user"},
	}
	for _, tc := range tests {
		if got := buildURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("buildURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}
