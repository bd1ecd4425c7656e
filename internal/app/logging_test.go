package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("LogLevel(%d).String() = '%s', expected '%s'", tt.level, result, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		result := ParseLogLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLogLevel('%s') = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelDebug)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]", "inkwell:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got:\n%s", want, output)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelWarn)

	logger.Debug("quiet")
	logger.Info("quiet")
	logger.Warn("loud")

	output := buf.String()
	if strings.Contains(output, "quiet") {
		t.Errorf("expected debug/info suppressed, got:\n%s", output)
	}
	if !strings.Contains(output, "loud") {
		t.Errorf("expected warn message, got:\n%s", output)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelError)

	logger.Info("before")
	logger.SetLevel(LogLevelInfo)
	logger.Info("after")

	output := buf.String()
	if strings.Contains(output, "before") {
		t.Errorf("message below level leaked: %s", output)
	}
	if !strings.Contains(output, "after") {
		t.Errorf("expected message after lowering level, got:\n%s", output)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelInfo).
		WithField("session", "abc123").
		WithComponent("watcher")

	logger.Info("hello")

	output := buf.String()
	if !strings.Contains(output, "session=abc123") {
		t.Errorf("expected session field, got:\n%s", output)
	}
	if !strings.Contains(output, "component=watcher") {
		t.Errorf("expected component field, got:\n%s", output)
	}
}

func TestLogger_FieldsDoNotLeakToParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&buf, LogLevelInfo)
	_ = parent.WithField("child", "only")

	parent.Info("hello")

	if strings.Contains(buf.String(), "child=only") {
		t.Errorf("child field leaked into parent output:\n%s", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Info("goes nowhere")
	NullLogger.Error("still nowhere")

	child := NullLogger.WithComponent("sub")
	child.Warn("also nowhere")
}
