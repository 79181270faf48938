// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage paths, rate limiting, generation API settings and
// observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dossbaby/dream-storybook-sub001/internal/sysutil"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "dream-storybook")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// APIConfig is the connection info for one external model API. An empty
// APIKey is allowed at startup and reported per request instead.
type APIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GenerationConfig tunes the reading pipeline.
type GenerationConfig struct {
	Text  APIConfig // TEXT_*
	Image APIConfig // IMAGE_*

	ImageInterval    time.Duration // pause between image calls, [0, 5s]
	ImageConcurrency int           // process-wide in-flight image calls (>= 1)
	AnimationStep    time.Duration // cadence of flavor messages
	RevealDelay      time.Duration // tarot card reveal pause
	MaxInputChars    int           // free-text limit in runes

	AutoSave      bool          // save authenticated results in the background
	AutoSaveDelay time.Duration // pause before the background save starts
	SaveTimeout   time.Duration // upper bound for one save
	MediaTTL      time.Duration // lifetime of ephemeral image handles
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // generation streams can take minutes
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // request body cap
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DBPath      string // SQLite path
	BlobDir     string // filesystem root for uploaded images
	BlobBaseURL string // public prefix blob URLs are built from

	// Search
	SearchWindow    int     // recent public readings indexed per kind
	SearchThreshold float64 // minimum Jaccard score in [0,1]

	// Rate limiting
	RateRPS       float64 // tokens per second (>= 0)
	RateBurst     int     // bucket size (>= 1)
	GenerateRPS   float64 // stricter bucket for generation
	GenerateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Generation pipeline
	Generation GenerationConfig

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
		WriteTimeout:      getdur("WRITE_TIMEOUT", 5*time.Minute),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 16<<20)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Storage
		DBPath:      getenv("DB_PATH", "app.db"),
		BlobDir:     getenv("BLOB_DIR", "data/blobs"),
		BlobBaseURL: strings.TrimRight(getenv("BLOB_BASE_URL", "/blobs"), "/"),

		// Search
		SearchWindow:    getint("SEARCH_WINDOW", 500),
		SearchThreshold: getfloat("SEARCH_THRESHOLD", 0.1),

		// Rate limiting
		RateRPS:       getfloat("RATE_RPS", 5.0),
		RateBurst:     getint("RATE_BURST", 10),
		GenerateRPS:   getfloat("GENERATE_RPS", 0.2),
		GenerateBurst: getint("GENERATE_BURST", 3),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Generation
		Generation: GenerationConfig{
			Text: APIConfig{
				APIKey:  strings.TrimSpace(getenv("TEXT_API_KEY", "")),
				BaseURL: getenv("TEXT_API_BASE_URL", "https://api.anthropic.com"),
				Model:   getenv("TEXT_MODEL", "claude-sonnet-4-5"),
				Timeout: getdur("TEXT_TIMEOUT", 90*time.Second),
			},
			Image: APIConfig{
				APIKey:  strings.TrimSpace(getenv("IMAGE_API_KEY", "")),
				BaseURL: getenv("IMAGE_API_BASE_URL", "https://generativelanguage.googleapis.com"),
				Model:   getenv("IMAGE_MODEL", "gemini-2.5-flash-image"),
				Timeout: getdur("IMAGE_TIMEOUT", 60*time.Second),
			},
			ImageInterval:    getdur("IMAGE_INTERVAL", 450*time.Millisecond),
			ImageConcurrency: getint("IMAGE_CONCURRENCY", 2),
			AnimationStep:    getdur("ANIMATION_STEP", 2*time.Second),
			RevealDelay:      getdur("REVEAL_DELAY", 1500*time.Millisecond),
			MaxInputChars:    getint("MAX_INPUT_CHARS", 4000),
			AutoSave:         getbool("AUTOSAVE", true),
			AutoSaveDelay:    getdur("AUTOSAVE_DELAY", 500*time.Millisecond),
			SaveTimeout:      getdur("SAVE_TIMEOUT", 60*time.Second),
			MediaTTL:         getdur("MEDIA_TTL", 30*time.Minute),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "dream-storybook"),
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
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.BlobDir) == "" {
		return cfg, errors.New("BLOB_DIR must not be empty")
	}
	if cfg.SearchWindow < 1 {
		return cfg, errors.New("SEARCH_WINDOW must be >= 1")
	}
	if cfg.SearchThreshold < 0 || cfg.SearchThreshold > 1 {
		return cfg, errors.New("SEARCH_THRESHOLD must be between 0 and 1")
	}
	if cfg.RateRPS < 0 || cfg.GenerateRPS < 0 {
		return cfg, errors.New("RATE_RPS and GENERATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 || cfg.GenerateBurst < 1 {
		return cfg, errors.New("RATE_BURST and GENERATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if err := cfg.Generation.validate(); err != nil {
		return cfg, err
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

func (g GenerationConfig) validate() error {
	if g.Text.Timeout <= 0 || g.Image.Timeout <= 0 {
		return errors.New("TEXT_TIMEOUT and IMAGE_TIMEOUT must be > 0")
	}
	if g.ImageInterval < 0 || g.ImageInterval > 5*time.Second {
		return errors.New("IMAGE_INTERVAL must be within [0, 5s]")
	}
	if g.ImageConcurrency < 1 {
		return errors.New("IMAGE_CONCURRENCY must be >= 1")
	}
	if g.AnimationStep < 0 || g.RevealDelay < 0 || g.AutoSaveDelay < 0 {
		return errors.New("ANIMATION_STEP, REVEAL_DELAY and AUTOSAVE_DELAY must be >= 0")
	}
	if g.MaxInputChars < 1 {
		return errors.New("MAX_INPUT_CHARS must be >= 1")
	}
	if g.SaveTimeout <= 0 || g.MediaTTL <= 0 {
		return errors.New("SAVE_TIMEOUT and MEDIA_TTL must be > 0")
	}
	return nil
}

// ---- helpers ----

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
		switch {
		case sysutil.IsTruthy(v):
			return true
		case sysutil.IsFalsy(v):
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
