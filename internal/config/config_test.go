package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with empty env: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
	if cfg.DBPath != "duet.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if !cfg.CallTeardownOnDisconnect {
		t.Error("CallTeardownOnDisconnect should default to true")
	}
	if got, want := cfg.Quiz.AnswerKey, map[string]string{"q1": "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("AnswerKey = %v, want %v", got, want)
	}
	if cfg.WS.PingInterval >= cfg.WS.PongTimeout {
		t.Errorf("default ping %v must be shorter than pong timeout %v",
			cfg.WS.PingInterval, cfg.WS.PongTimeout)
	}
	if cfg.OTEL.Enabled {
		t.Error("tracing should be off by default")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "weird")
	t.Setenv("QUIZ_ANSWER_KEY", "q1:b, q2:d, broken, :x")
	t.Setenv("WS_PING_INTERVAL", "5s")
	t.Setenv("WS_PONG_TIMEOUT", "12s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CALL_TEARDOWN_ON_DISCONNECT", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn (normalized)", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, unknown modes normalize to release", cfg.GinMode)
	}
	if got, want := cfg.Quiz.AnswerKey, map[string]string{"q1": "b", "q2": "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("AnswerKey = %v, want %v (malformed pairs skipped)", got, want)
	}
	if cfg.WS.PingInterval != 5*time.Second || cfg.WS.PongTimeout != 12*time.Second {
		t.Errorf("WS intervals = %v/%v", cfg.WS.PingInterval, cfg.WS.PongTimeout)
	}
	if got := cfg.CORS.AllowedOrigins; len(got) != 2 || got[0] != "https://a.example" {
		t.Errorf("AllowedOrigins = %v", got)
	}
	if cfg.CallTeardownOnDisconnect {
		t.Error("CALL_TEARDOWN_ON_DISCONNECT=off should disable teardown")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		k, v string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"ping not shorter than pong", "WS_PING_INTERVAL", "80s"},
		{"zero send buffer", "WS_SEND_BUFFER", "0"},
		{"negative rate", "RATE_RPS", "-1"},
		{"zero burst", "RATE_BURST", "0"},
		{"sample ratio out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5"},
		{"unusable answer key", "QUIZ_ANSWER_KEY", "nonsense"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.k, tc.v)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s should fail validation", tc.k, tc.v)
			}
		})
	}
}

func TestMustLoadPanicsOnInvalid(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad should panic on invalid configuration")
		}
	}()
	MustLoad()
}

func TestGetboolParsing(t *testing.T) {
	cases := []struct {
		v    string
		want bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {"on", true},
		{"0", false}, {"false", false}, {"no", false}, {"off", false},
		{"maybe", true}, // unparsable falls back to default
	}
	for _, tc := range cases {
		t.Setenv("SOME_FLAG", tc.v)
		if got := getbool("SOME_FLAG", true); got != tc.want {
			t.Errorf("getbool(%q) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
