package log

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewLogger tests verbosity-controlled log levels.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("quiet logger drops debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")

		out := buf.String()
		if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
			t.Errorf("quiet logger leaked low-level output: %q", out)
		}
		if !strings.Contains(out, "warn message") {
			t.Errorf("quiet logger must still emit warnings: %q", out)
		}
	})

	t.Run("verbose logger emits debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug message")
		if !strings.Contains(buf.String(), "debug message") {
			t.Errorf("verbose logger must emit debug output: %q", buf.String())
		}
	})
}

// TestNewJSONLogger tests that output is structured JSON.
func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, true)

	logger.Warn("hello", "url", "http://x.edu")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"url":"http://x.edu"`) {
		t.Errorf("expected structured attribute, got %q", out)
	}
}
