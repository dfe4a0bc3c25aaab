package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.MatchNotifyThreshold != 70 {
		t.Fatalf("unexpected notify threshold: %d", cfg.MatchNotifyThreshold)
	}
	if cfg.InviteTTL != 7*24*time.Hour {
		t.Fatalf("unexpected invite ttl: %s", cfg.InviteTTL)
	}
	if cfg.SSEPollInterval != 3*time.Second {
		t.Fatalf("unexpected sse interval: %s", cfg.SSEPollInterval)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled outside prod")
	}
	if !cfg.AuthCircuit.Enabled || cfg.AuthCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected auth circuit defaults: %+v", cfg.AuthCircuit)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProdDisablesSwaggerByDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled in prod")
	}
}

func TestLoad_RequiredWhenEnabled(t *testing.T) {
	cases := map[string]map[string]string{
		"uptrace":  {"UPTRACE_ENABLED": "true", "UPTRACE_DSN": ""},
		"genai":    {"GENAI_ENABLED": "true", "GENAI_API_KEY": ""},
		"mailer":   {"MAILER_ENABLED": "true", "MAILER_API_KEY": ""},
		"qstash":   {"QSTASH_ENABLED": "true", "QSTASH_TOKEN": "tok", "QSTASH_TARGET_BASE_URL": ""},
		"storage":  {"STORAGE_DRIVER": "sqlite"},
		"workers":  {"MATCH_WORKERS": "0"},
		"breaker":  {"MAILER_CIRCUIT_FAILURE_COUNT": "0"},
		"bad bool": {"CACHE_ENABLED": "maybe"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("INVITE_TTL", "48h")
	t.Setenv("MATCH_NOTIFY_THRESHOLD", "85")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("APP_PUBLIC_URL", "https://app.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
	if cfg.InviteTTL != 48*time.Hour || cfg.MatchNotifyThreshold != 85 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.PublicURL != "https://app.example.com" {
		t.Fatalf("unexpected public url: %q", cfg.PublicURL)
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)
	if got != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", got)
	}
}
