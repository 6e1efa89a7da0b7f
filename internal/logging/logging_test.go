package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("applying overrides", "count", 3)

	output := buf.String()
	if !strings.Contains(output, "applying overrides") {
		t.Errorf("output missing message: %q", output)
	}
	if !strings.Contains(output, "count=3") {
		t.Errorf("output missing attribute: %q", output)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})

	logger.Info("saved document", "path", "model.json")

	output := buf.String()
	if !strings.Contains(output, `"msg":"saved document"`) {
		t.Errorf("expected JSON output, got %q", output)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: &buf,
	})

	logger.Info("should be filtered")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should be filtered") {
		t.Error("info message should have been filtered")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("warn message should have appeared")
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, slog.LevelDebug - 4},
		{5, slog.LevelDebug - 4},
		{-1, slog.LevelInfo},
	}
	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext should return the logger stored by NewContext")
	}
}

func TestFromContext_Missing(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext should fall back to the default logger")
	}
}

func TestSupportsColor_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if supportsColor(&bytes.Buffer{}, true) {
		t.Error("NO_COLOR should disable color even on a TTY")
	}
}

func TestSupportsColor_DumbTerm(t *testing.T) {
	t.Setenv("TERM", "dumb")
	if supportsColor(&bytes.Buffer{}, true) {
		t.Error("TERM=dumb should disable color")
	}
}

func TestSupportsColor_NotTTY(t *testing.T) {
	if supportsColor(&bytes.Buffer{}, false) {
		t.Error("non-TTY writer should not support color")
	}
}
