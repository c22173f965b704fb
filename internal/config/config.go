// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the record store path, WebSocket tuning,
// the quiz answer key, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-duet-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// WSConfig tunes the WebSocket transport.
type WSConfig struct {
	SendBuffer      int           // WS_SEND_BUFFER: per-client outbound frame buffer
	MaxMessageBytes int64         // WS_MAX_MESSAGE_BYTES: cap on one inbound frame
	PingInterval    time.Duration // WS_PING_INTERVAL
	PongTimeout     time.Duration // WS_PONG_TIMEOUT (must exceed PingInterval)
	WriteTimeout    time.Duration // WS_WRITE_TIMEOUT
}

// QuizConfig is the injected quiz answer policy: which answer unlocks each
// question, and the phrase sent on an unlock.
type QuizConfig struct {
	AnswerKey     map[string]string // QUIZ_ANSWER_KEY, "q1:b[,qN:x]"
	UnlockMessage string            // QUIZ_UNLOCK_MESSAGE
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
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Record store
	DBPath string // SQLite path

	// Relay behavior
	CallTeardownOnDisconnect bool // broadcast call:ended when a participant drops

	// Quiz policy
	Quiz QuizConfig

	// Transport
	WS WSConfig

	// Rate limiting (HTTP edge, incl. the upgrade endpoint)
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
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// Record store
		DBPath: getenv("DB_PATH", "duet.db"),

		// Relay behavior
		CallTeardownOnDisconnect: getbool("CALL_TEARDOWN_ON_DISCONNECT", true),

		// Quiz policy
		Quiz: QuizConfig{
			AnswerKey:     parseAnswerKey(getenv("QUIZ_ANSWER_KEY", "q1:b")),
			UnlockMessage: getenv("QUIZ_UNLOCK_MESSAGE", "you unlocked a surprise"),
		},

		// Transport
		WS: WSConfig{
			SendBuffer:      getint("WS_SEND_BUFFER", 64),
			MaxMessageBytes: int64(getint("WS_MAX_MESSAGE_BYTES", 64<<10)),
			PingInterval:    getdur("WS_PING_INTERVAL", 30*time.Second),
			PongTimeout:     getdur("WS_PONG_TIMEOUT", 75*time.Second),
			WriteTimeout:    getdur("WS_WRITE_TIMEOUT", 10*time.Second),
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
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-duet-backend"),
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
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if len(cfg.Quiz.AnswerKey) == 0 {
		return cfg, errors.New("QUIZ_ANSWER_KEY must contain at least one question:answer pair")
	}
	if cfg.WS.SendBuffer < 1 {
		return cfg, errors.New("WS_SEND_BUFFER must be >= 1")
	}
	if cfg.WS.MaxMessageBytes < 1 {
		return cfg, errors.New("WS_MAX_MESSAGE_BYTES must be >= 1")
	}
	if cfg.WS.PingInterval <= 0 || cfg.WS.PongTimeout <= 0 || cfg.WS.WriteTimeout <= 0 {
		return cfg, errors.New("WebSocket intervals must be positive durations")
	}
	if cfg.WS.PingInterval >= cfg.WS.PongTimeout {
		return cfg, errors.New("WS_PING_INTERVAL must be shorter than WS_PONG_TIMEOUT")
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

// parseAnswerKey parses "q1:b,q2:c" into a question → answer map. Malformed
// pairs are skipped rather than rejected so one typo does not take the key
// out entirely; validation only requires the map to be non-empty.
func parseAnswerKey(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		q, a, ok := strings.Cut(strings.TrimSpace(pair), ":")
		q, a = strings.TrimSpace(q), strings.TrimSpace(a)
		if ok && q != "" && a != "" {
			out[q] = a
		}
	}
	return out
}
