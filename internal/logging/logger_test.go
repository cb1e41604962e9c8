package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger = NewComponentLogger(logger, "merger")
	logger.Info("inserted new images", Args(Int("count", 2), Int64("newest", 1700000200))...)

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.Contains(line, " INFO merger: inserted new images") {
		t.Errorf("line missing level/component prefix: %q", line)
	}
	if !strings.Contains(line, "count=2") || !strings.Contains(line, "newest=1700000200") {
		t.Errorf("line missing attrs: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should render as prefix, not attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	logger.Warn("fetch failed", Args(String("reason", "connection refused"))...)

	if !strings.Contains(buf.String(), `reason="connection refused"`) {
		t.Errorf("value with spaces not quoted: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should vanish")
	if logger.Enabled(nil, slog.LevelError) {
		t.Error("nop logger should report disabled")
	}
}
