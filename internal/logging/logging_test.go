package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, false)

	logger.Debug("hidden", "k", 1)
	logger.Warn("connect failed", "database", "stores", "code", -329)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug line dropped, got %q", out)
	}
	for _, want := range []string{"level=WARN", `msg="connect failed"`, "database=stores", "code=-329"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestTextLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, true)

	logger.Debug("connection opened", "session", "C_1")
	logger.Error("boom")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "session=C_1") {
		t.Errorf("Expected debug line, got %q", out)
	}
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("Expected error line, got %q", out)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored", "k", "v")
	if NewSlogLogger(nil).logger == nil {
		t.Error("Expected the default slog logger")
	}
}
