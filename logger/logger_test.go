package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithWriter(&Config{Level: level, Format: "json"}, "mddapi", &buf), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithComponent("auth").Info("Login succeeded", Fields("subject", "ali***"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["message"] != "Login succeeded" {
		t.Errorf("unexpected message %v", got["message"])
	}
	if got[FieldComponent] != "auth" {
		t.Errorf("expected component=auth, got %v", got[FieldComponent])
	}
	if got[FieldService] != "mddapi" {
		t.Errorf("expected service=mddapi, got %v", got[FieldService])
	}
	if got["subject"] != "ali***" {
		t.Errorf("expected subject field, got %v", got["subject"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	if n := len(decodeLines(t, buf)); n != 2 {
		t.Errorf("expected 2 lines at warn level, got %d", n)
	}
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newJSONLogger(t, "nonsense")
	l.Debug("hidden")
	l.Info("shown")
	if n := len(decodeLines(t, buf)); n != 1 {
		t.Errorf("expected 1 line, got %d", n)
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithTraceID(ctx, "trace-1")
	l.WithContext(ctx).Info("hello")

	got := decodeLines(t, buf)[0]
	if got[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id, got %v", got[FieldRequestID])
	}
	if got[FieldTraceID] != "trace-1" {
		t.Errorf("expected trace_id, got %v", got[FieldTraceID])
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Error("RequestIDFromContext should return the stored id")
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("expected empty request id for bare context")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithFields(map[string]interface{}{"k": "v"}).WithError(errors.New("boom")).Error("failed")

	got := decodeLines(t, buf)[0]
	if got["k"] != "v" {
		t.Errorf("expected k=v, got %v", got["k"])
	}
	if got["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", got["error"])
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded")
	l.WithComponent("x").Error("discarded")
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "mddapi", &buf)
	l.Warn("careful")
	out := buf.String()
	if !strings.Contains(out, "[MDD][WRN]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if !strings.Contains(out, "careful") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestInitAndGlobal(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	l := Init(&Config{Level: "debug", Format: "json"}, "svc")
	if GetGlobalLogger() != l {
		t.Fatal("expected Init to install the global logger")
	}
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	if WithComponent("x") == nil {
		t.Error("expected component logger")
	}

	custom := NewNop()
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Error("expected default global logger to be created")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("purge", errors.New("boom"))
	if ef[FieldOperation] != "purge" || ef[FieldError] != "boom" {
		t.Errorf("unexpected error fields %v", ef)
	}

	df := DurationFields("purge", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}

	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected error=x, got %v", merged[FieldError])
	}
}
