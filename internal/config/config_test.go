package config

import (
	"reflect"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("API_BASE_PATH", "api/") // no leading slash + trailing slash -> "/api"

	// Operating mode
	t.Setenv("MOCK_MODE", "1")
	t.Setenv("MOCK_AI_DELAY", "250ms")

	// Tokens and messages
	t.Setenv("JWT_SECRET_KEY", "unit-test-secret")
	t.Setenv("TOKEN_LIFETIME", "30m")
	t.Setenv("MAX_MESSAGE_LENGTH", "500")
	t.Setenv("PROMPTS_PATH", "custom-prompts.json")

	// Persistence
	t.Setenv("STORE_BACKEND", "LIST") // normalized to lowercase
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.APIBasePath != "/api" {
		t.Fatalf("logging fields unexpected: %+v", cfg)
	}

	// Operating mode
	if !cfg.MockMode || cfg.MockAIDelay != 250*time.Millisecond {
		t.Fatalf("mode fields unexpected: %+v", cfg)
	}

	// Tokens and messages
	if cfg.JWTSecret != "unit-test-secret" || cfg.TokenLifetime != 30*time.Minute {
		t.Fatalf("token fields unexpected: %+v", cfg)
	}
	if cfg.MaxMessageRunes != 500 || cfg.PromptsPath != "custom-prompts.json" {
		t.Fatalf("message fields unexpected: %+v", cfg)
	}

	// Persistence
	if cfg.StoreBackend != StoreList || cfg.DBPath != "db.sqlite" {
		t.Fatalf("store fields unexpected: %+v", cfg)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 3 {
		t.Fatalf("redis fields unexpected: %+v", cfg.Redis)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security fields unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure ||
		cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel fields unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_LiveModeRequiresOpenAISettings(t *testing.T) {
	t.Setenv("MOCK_MODE", "false")
	t.Setenv("OPENAI_ENDPOINT", "")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("live mode without credentials should fail validation")
	}

	t.Setenv("OPENAI_ENDPOINT", "https://acct.openai.azure.com")
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("OPENAI_DEPLOYMENT", "gpt-4")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("live mode with credentials: %v", err)
	}
	if cfg.MockMode {
		t.Fatalf("MOCK_MODE=false not honored")
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"bad store backend", "STORE_BACKEND", "mongodb"},
		{"empty jwt secret", "JWT_SECRET_KEY", " "},
		{"zero token lifetime", "TOKEN_LIFETIME", "0s"},
		{"zero message cap", "MAX_MESSAGE_LENGTH", "0"},
		{"negative rate", "RATE_RPS", "-1"},
		{"zero burst", "RATE_BURST", "0"},
		{"bad sampler", "OTEL_TRACES_SAMPLER_ARG", "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", tc.key, tc.val)
			}
		})
	}
}

func Test_normalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"api/":    "/api",
		"/api/v1": "/api/v1",
		"/api/":   "/api",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}
