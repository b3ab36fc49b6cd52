// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the operating mode (mock vs. live), the
// hosted generation backend, token signing, and persistence backend selection.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backend identifiers accepted by STORE_BACKEND.
const (
	StoreDocument = "document" // GORM/SQLite record store
	StoreList     = "list"     // Redis list store
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "advising-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OpenAIConfig holds the Azure OpenAI connection settings used in live mode.
type OpenAIConfig struct {
	Endpoint       string        // OPENAI_ENDPOINT (e.g. "https://acct.openai.azure.com")
	APIKey         string        // OPENAI_API_KEY
	Deployment     string        // OPENAI_DEPLOYMENT (e.g. "gpt-4")
	APIVersion     string        // OPENAI_API_VERSION
	RequestTimeout time.Duration // OPENAI_REQUEST_TIMEOUT
}

// RedisConfig holds connection settings for the list-store backend.
type RedisConfig struct {
	Addr     string // REDIS_ADDR (host:port)
	Password string // REDIS_PASSWORD
	DB       int    // REDIS_DB
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes

	// Operating mode
	MockMode    bool          // replace AI backend, store, and directory with local stand-ins
	MockAIDelay time.Duration // simulated generation latency in mock mode

	// Generation backend (live mode only)
	OpenAI OpenAIConfig

	// Tokens
	JWTSecret     string        // HS256 signing secret
	TokenLifetime time.Duration // session token validity window

	// Messages
	MaxMessageRunes int    // maximum user message length in code points
	PromptsPath     string // competency catalog / prompt JSON file

	// Persistence
	StoreBackend string // document|list
	DBPath       string // SQLite path (document backend)
	Redis        RedisConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Operating mode: mock is the default and the only mode that works
		// without external credentials.
		MockMode:    getbool("MOCK_MODE", true),
		MockAIDelay: getdur("MOCK_AI_DELAY", 1500*time.Millisecond),

		// Generation backend
		OpenAI: OpenAIConfig{
			Endpoint:       getenv("OPENAI_ENDPOINT", ""),
			APIKey:         getenv("OPENAI_API_KEY", ""),
			Deployment:     getenv("OPENAI_DEPLOYMENT", "gpt-4"),
			APIVersion:     getenv("OPENAI_API_VERSION", "2024-02-01"),
			RequestTimeout: getdur("OPENAI_REQUEST_TIMEOUT", 30*time.Second),
		},

		// Tokens
		JWTSecret:     getenv("JWT_SECRET_KEY", "dev-secret-key-change-in-production"),
		TokenLifetime: getdur("TOKEN_LIFETIME", 8*time.Hour),

		// Messages
		MaxMessageRunes: getint("MAX_MESSAGE_LENGTH", 16000),
		PromptsPath:     getenv("PROMPTS_PATH", "prompts.json"),

		// Persistence
		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", StoreDocument)),
		DBPath:       getenv("DB_PATH", "advising.db"),
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "advising-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MockAIDelay < 0 {
		return cfg, errors.New("MOCK_AI_DELAY must be >= 0")
	}
	if !cfg.MockMode {
		if cfg.OpenAI.Endpoint == "" || cfg.OpenAI.APIKey == "" || cfg.OpenAI.Deployment == "" {
			return cfg, errors.New("live mode requires OPENAI_ENDPOINT, OPENAI_API_KEY, and OPENAI_DEPLOYMENT")
		}
	}
	if cfg.OpenAI.RequestTimeout <= 0 {
		return cfg, errors.New("OPENAI_REQUEST_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return cfg, errors.New("JWT_SECRET_KEY must not be empty")
	}
	if cfg.TokenLifetime <= 0 {
		return cfg, errors.New("TOKEN_LIFETIME must be > 0")
	}
	if cfg.MaxMessageRunes <= 0 {
		return cfg, errors.New("MAX_MESSAGE_LENGTH must be > 0")
	}
	switch cfg.StoreBackend {
	case StoreDocument, StoreList:
	default:
		return cfg, errors.New("STORE_BACKEND must be one of: document, list")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
