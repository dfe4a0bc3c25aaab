package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
)

type authenticatorFunc func(ctx context.Context, token string) (user.Principal, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (user.Principal, error) {
	return f(ctx, token)
}

func TestRequireAuth(t *testing.T) {
	auth := authenticatorFunc(func(_ context.Context, token string) (user.Principal, error) {
		if token != "good" {
			return user.Principal{}, usecase.ErrUnauthorized
		}
		return user.Principal{UserID: "u-1", Role: user.RoleAgency}, nil
	})

	var seen user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", want: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", want: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", want: http.StatusUnauthorized},
		{name: "valid token", header: "bearer good", want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = user.Principal{}
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			RequireAuth(auth, next).ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
			if tc.want == http.StatusOK && seen.UserID != "u-1" {
				t.Fatalf("expected principal in context, got %+v", seen)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole([]user.Role{user.RoleComplianceOfficer, user.RoleAdmin}, next)

	tests := []struct {
		name      string
		principal *user.Principal
		want      int
	}{
		{name: "no principal", want: http.StatusUnauthorized},
		{name: "athlete denied", principal: &user.Principal{UserID: "a", Role: user.RoleAthlete}, want: http.StatusForbidden},
		{name: "compliance allowed", principal: &user.Principal{UserID: "c", Role: user.RoleComplianceOfficer}, want: http.StatusNoContent},
		{name: "admin allowed", principal: &user.Principal{UserID: "x", Role: user.RoleAdmin}, want: http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/compliance/action-items", nil)
			if tc.principal != nil {
				req = req.WithContext(withPrincipal(req.Context(), *tc.principal))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
