package sysutil

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{" Error ", zerolog.ErrorLevel},
		{"gibberish", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Errorf("SetLogLevel(%q): global level = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupLoggerAppliesLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetupLogger("debug", false)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", zerolog.GlobalLevel())
	}

	SetupLogger("warn", true)
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", zerolog.GlobalLevel())
	}
}
