package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			t.Fatalf("log line %q is not JSON: %v", raw, err)
		}
		lines = append(lines, entry)
	}
	return lines
}

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "request handled", F("tool", "account_get"), F("duration_ms", 12))

	lines := logLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	entry := lines[0]
	if entry["level"] != "info" || entry["msg"] != "request handled" {
		t.Errorf("entry = %v, want info/request handled", entry)
	}
	if entry["tool"] != "account_get" {
		t.Errorf("tool = %v, want account_get", entry["tool"])
	}
	if entry["timestamp"] == nil {
		t.Error("entry missing timestamp")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	logger.Debug(context.Background(), "noise")
	logger.Info(context.Background(), "noise")
	logger.Warn(context.Background(), "kept")
	logger.Error(context.Background(), "kept")

	if got := len(logLines(t, &buf)); got != 2 {
		t.Errorf("lines = %d, want 2", got)
	}
}

func TestLoggerRedactsCredentialFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "auth attempt",
		F("auth_token", "eyJhbGciOi..."),
		F("secret", "hunter2"),
		F("user_id", "cust1"),
	)

	entry := logLines(t, &buf)[0]
	if entry["auth_token"] != "[REDACTED]" {
		t.Errorf("auth_token = %v, want [REDACTED]", entry["auth_token"])
	}
	if entry["secret"] != "[REDACTED]" {
		t.Errorf("secret = %v, want [REDACTED]", entry["secret"])
	}
	if entry["user_id"] != "cust1" {
		t.Errorf("user_id = %v, want cust1", entry["user_id"])
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Error("raw secret leaked into log output")
	}
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf).WithComponent("gateway")

	logger.Info(context.Background(), "hello")

	entry := logLines(t, &buf)[0]
	if entry["component"] != "gateway" {
		t.Errorf("component = %v, want gateway", entry["component"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		ServiceName: "fingate",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	missing := Config{}
	if err := missing.Validate(); err == nil {
		t.Error("Validate() without service name error = nil, want error")
	}

	badExporter := valid
	badExporter.Tracing.Exporter = "jaeger"
	if err := badExporter.Validate(); err == nil {
		t.Error("Validate() with unknown exporter error = nil, want error")
	}

	badSample := valid
	badSample.Tracing.SamplePct = 1.5
	if err := badSample.Validate(); err == nil {
		t.Error("Validate() with out-of-range sample error = nil, want error")
	}
}
