package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONWithServiceAndStack(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", "INFO", "tank-api")

	logger.Debug("hidden")
	logger.Error("import failed", "tank_code", "T-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["service"] != "tank-api" {
		t.Errorf("expected service=tank-api, got %v", rec["service"])
	}
	if rec["tank_code"] != "T-1" {
		t.Errorf("expected tank_code=T-1, got %v", rec["tank_code"])
	}
	if _, ok := rec["stacktrace"]; !ok {
		t.Error("expected stacktrace on ERROR record")
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "text", "DEBUG", "").Info("hello", "n", 1)

	out := buf.String()
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "n=1") {
		t.Errorf("unexpected text output: %s", out)
	}
	if strings.Contains(out, "stacktrace") {
		t.Error("INFO record must not carry a stack trace")
	}
}
