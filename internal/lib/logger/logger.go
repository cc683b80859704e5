package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the process logger for the given environment.
// Local runs log text to stdout at debug level; dev and prod log JSON,
// prod additionally to a file under logDir.
func SetupLogger(env, logDir string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case envLocal:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	case envDev:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	case envProd:
		out := io.Writer(os.Stdout)
		logPath := filepath.Join(logDir, "sankhyacrm.log")
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = io.MultiWriter(os.Stdout, file)
		}
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.New(handler)
}

// Notifier receives formatted log records for out-of-band alerting.
type Notifier interface {
	NotifyLog(level slog.Level, message string)
}

// SetupTelegramHandler wraps the logger so records at or above minLevel
// are also forwarded to the notifier (the Telegram bot).
func SetupTelegramHandler(log *slog.Logger, n Notifier, minLevel slog.Level) *slog.Logger {
	return slog.New(&notifyHandler{next: log.Handler(), notifier: n, minLevel: minLevel})
}

type notifyHandler struct {
	next     slog.Handler
	notifier Notifier
	minLevel slog.Level
	attrs    []slog.Attr
}

func (h *notifyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *notifyHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel && h.notifier != nil {
		msg := fmt.Sprintf("[%s] %s", r.Level, r.Message)
		attrs := ""
		r.Attrs(func(a slog.Attr) bool {
			attrs += fmt.Sprintf(" %s=%v", a.Key, a.Value)
			return true
		})
		for _, a := range h.attrs {
			attrs += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		}
		h.notifier.NotifyLog(r.Level, msg+attrs)
	}
	return h.next.Handle(ctx, r)
}

func (h *notifyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &notifyHandler{
		next:     h.next.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *notifyHandler) WithGroup(name string) slog.Handler {
	return &notifyHandler{
		next:     h.next.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    h.attrs,
	}
}
