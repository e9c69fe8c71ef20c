package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// Setup は service 名付きのロガーを slog のデフォルトに設定する。
// LOG_LEVEL (DEBUG, INFO, WARN, ERROR) の既定は INFO。LOG_FORMAT=text ならローカル向けのテキスト出力になる。
// ERROR 以上のログにはスタックトレースが付く
func Setup(service string) {
	slog.SetDefault(New(os.Stdout, os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"), service))
}

// New は w に書き出すプロセスロガーを生成する
func New(w io.Writer, format, level, service string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}
	var base slog.Handler
	if strings.EqualFold(format, "text") {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(&stackHandler{Handler: base})
	if service != "" {
		logger = logger.With("service", service)
	}
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal は Error レベルでログを出して終了コード 1 で終了する
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

// stackHandler は ERROR 以上のレコードにスタックトレースを付ける slog.Handler
type stackHandler struct {
	slog.Handler
}

func (h *stackHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		r.AddAttrs(slog.String("stacktrace", string(buf[:n])))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *stackHandler) WithGroup(name string) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithGroup(name)}
}
