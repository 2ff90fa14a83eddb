package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrNoLogcat is returned by OpenLogcat on platforms without liblog.
var ErrNoLogcat = errors.New("logcat not available")

// Android log priorities from <android/log.h>.
const (
	prioDebug int32 = 3
	prioInfo  int32 = 4
	prioWarn  int32 = 5
	prioError int32 = 6
)

// logcatWriteFunc matches __android_log_write.
type logcatWriteFunc func(prio int32, tag, text string) int32

// logcatHandler formats records like slog's text handler, without time and
// level (logcat records both), and writes each record as one log line.
type logcatHandler struct {
	tag    string
	level  slog.Leveler
	write  logcatWriteFunc
	attrs  []slog.Attr
	groups []string
}

func newLogcatHandler(tag string, level slog.Leveler, write logcatWriteFunc) *logcatHandler {
	return &logcatHandler{tag: tag, level: level, write: write}
}

func (h *logcatHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *logcatHandler) Handle(ctx context.Context, record slog.Record) error {
	var buf bytes.Buffer
	var text slog.Handler = slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	})
	for _, g := range h.groups {
		text = text.WithGroup(g)
	}
	if len(h.attrs) > 0 {
		text = text.WithAttrs(h.attrs)
	}
	if err := text.Handle(ctx, record); err != nil {
		return err
	}
	h.write(priority(record.Level), h.tag, strings.TrimSuffix(buf.String(), "\n"))
	return nil
}

func (h *logcatHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *logcatHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(append([]string{}, h.groups...), name)
	return &c
}

func priority(level slog.Level) int32 {
	switch {
	case level >= slog.LevelError:
		return prioError
	case level >= slog.LevelWarn:
		return prioWarn
	case level >= slog.LevelInfo:
		return prioInfo
	default:
		return prioDebug
	}
}
