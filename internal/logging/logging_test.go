package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPreInitLoggerUsesConfiguredHandler(t *testing.T) {
	logger := L("swap")

	var buf bytes.Buffer
	Init("text", "info", &buf)
	t.Cleanup(Discard)

	logger.Info("locked surface", "width", 1080)

	out := buf.String()
	if !strings.Contains(out, `msg="locked surface"`) {
		t.Fatalf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=swap") {
		t.Fatalf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "width=1080") {
		t.Fatalf("expected width field, got: %s", out)
	}
}

func TestInitRespectsLevel(t *testing.T) {
	logger := L("hook")

	var buf bytes.Buffer
	Init("text", "warn", &buf)
	t.Cleanup(Discard)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info log should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn log should be emitted: %s", out)
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init("JSON", "debug", &buf)
	t.Cleanup(Discard)

	L("blur").Debug("resources created")
	if !strings.Contains(buf.String(), `"msg":"resources created"`) {
		t.Fatalf("expected json output, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

type logcatLine struct {
	prio int32
	tag  string
	text string
}

func TestLogcatHandler(t *testing.T) {
	var lines []logcatLine
	h := newLogcatHandler("blurhook", slog.LevelInfo, func(prio int32, tag, text string) int32 {
		lines = append(lines, logcatLine{prio, tag, text})
		return 1
	})
	logger := slog.New(h).With("component", "hook")

	logger.Debug("dropped")
	logger.Warn("symbol not found", "symbol", "eglSwapBuffers")

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %+v", len(lines), lines)
	}
	got := lines[0]
	if got.prio != prioWarn || got.tag != "blurhook" {
		t.Errorf("line = %+v, want warn priority and blurhook tag", got)
	}
	if strings.Contains(got.text, "time=") || strings.Contains(got.text, "level=") {
		t.Errorf("line carries time or level: %q", got.text)
	}
	for _, want := range []string{`msg="symbol not found"`, "component=hook", "symbol=eglSwapBuffers"} {
		if !strings.Contains(got.text, want) {
			t.Errorf("line %q missing %q", got.text, want)
		}
	}
	if strings.HasSuffix(got.text, "\n") {
		t.Errorf("line %q ends with newline", got.text)
	}
}

func TestPriority(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  int32
	}{
		{slog.LevelDebug, prioDebug},
		{slog.LevelInfo, prioInfo},
		{slog.LevelWarn, prioWarn},
		{slog.LevelError, prioError},
		{slog.LevelError + 4, prioError},
	}
	for _, tt := range tests {
		if got := priority(tt.level); got != tt.want {
			t.Errorf("priority(%v) = %d, want %d", tt.level, got, tt.want)
		}
	}
}
