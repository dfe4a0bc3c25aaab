package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/config"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:               config.EnvDev,
		HTTPAddr:             ":0",
		PublicURL:            "http://localhost:3000",
		ReadTimeout:          time.Second,
		WriteTimeout:         time.Second,
		StorageDriver:        config.StorageMemory,
		CacheEnabled:         true,
		CacheTTL:             time.Minute,
		CORSAllowedOrigins:   []string{"*"},
		AuthBaseURL:          "http://127.0.0.1:1",
		AuthUserPath:         "/auth/v1/user",
		AuthTimeout:          time.Second,
		GenAITimeout:         time.Second,
		MatchNotifyThreshold: 70,
		MatchWorkers:         2,
		InviteTTL:            time.Hour,
		SSEPollInterval:      time.Second,
	}
}

func TestNew_MemoryStorageServesHealthz(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer, got %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNew_RejectsUnreadableWeightsFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.MatchWeightsFile = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for missing weights file")
	}
}

func TestNew_LoadsWeightsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	raw := []byte("weights:\n  sport: 40\n  geography: 20\n  budget: 10\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write weights: %v", err)
	}
	cfg := memoryConfig()
	cfg.MatchWeightsFile = path

	if _, err := New(context.Background(), cfg, logging.NewNop()); err != nil {
		t.Fatalf("new app with weights: %v", err)
	}
}
