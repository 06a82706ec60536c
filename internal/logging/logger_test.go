package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	old := os.Getenv(LogLevelEnvVar)
	os.Unsetenv(LogLevelEnvVar)
	defer os.Setenv(LogLevelEnvVar, old)

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("silent logger should not be enabled for any level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitializeWriter_CapturesFields(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "debug")
	defer func() { logger = nil }()

	LogSubmission(3, "loading", "Logging trip...")
	Info("Trip logged", zap.String("user_name", "Alex"))

	out := buf.String()
	for _, want := range []string{"Submission status changed", "loading", "Trip logged", "Alex"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 300)
	got := truncate(long)
	if len(got) != 259 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate() length = %d, want 259 with ellipsis", len(got))
	}
	if truncate([]byte("short")) != "short" {
		t.Error("short payloads should be returned unchanged")
	}
}
