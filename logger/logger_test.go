package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{Level: "invalid-level", Format: "json", Output: "discard"}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if !l.DebugEnabled() {
		t.Error("expected debug level from LOG_LEVEL")
	}
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "json"}, "svc")
	l.WithComponent("batch").Info("run finished", Fields(FieldRunID, "r1", FieldCount, 3))

	out := buf.String()
	for _, want := range []string{`"component":"batch"`, `"run_id":"r1"`, `"count":3`, `"message":"run finished"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output %s", want, out)
		}
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "warn", Format: "json"}, "svc")
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %s", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn message to be written")
	}
	if l.DebugEnabled() {
		t.Error("debug should be disabled at warn level")
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("nothing")
	if l.DebugEnabled() {
		t.Error("nop logger should not enable debug")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "json"}, "svc")
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(os.ErrNotExist).Error("failed")
	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) || !strings.Contains(out, "file does not exist") {
		t.Errorf("unexpected output %s", out)
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "console", NoColor: true}, "textforge")
	l.Info("hello")
	if !strings.Contains(buf.String(), "[TEX][INF]") {
		t.Errorf("expected service and level tags, got %q", buf.String())
	}
}

func TestInitAndGlobal(t *testing.T) {
	Init(Config{Level: "info", Format: "json", Output: "discard"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}

	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	l := NewNop()
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestRegistry(t *testing.T) {
	l := NewNop()
	Register("stages", l)
	if Get("stages") != l {
		t.Error("expected registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger for unknown names")
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
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stdout"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields %v", f)
	}
	ef := ErrorFields("load", os.ErrNotExist)
	if ef[FieldOperation] != "load" || ef[FieldError] == "" {
		t.Errorf("unexpected error fields %v", ef)
	}
}
