package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
)

type requestLogKey struct{}

// requestLog はハンドラがアクセスログ 1 行に足す属性を集める
type requestLog struct {
	id string

	mu    sync.Mutex
	attrs []any
}

// annotate はアクセスログに key/value を追加する。RequestLogger の外では何もしない
func annotate(r *http.Request, attrs ...any) {
	entry, ok := r.Context().Value(requestLogKey{}).(*requestLog)
	if !ok {
		return
	}
	entry.mu.Lock()
	entry.attrs = append(entry.attrs, attrs...)
	entry.mu.Unlock()
}

// RequestID は RequestLogger が割り当てたリクエスト ID を返す
func RequestID(ctx context.Context) string {
	if entry, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		return entry.id
	}
	return ""
}

// statusRecorder はステータスコードと書き出したバイト数を記録する
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	bytes       int64
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.statusCode = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap は http.ResponseController 用
func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// RequestLogger はリクエストごとに ID を振り、完了時にアクセスログを 1 行出す。
// 5xx は WARN、それ以外は INFO
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entry := &requestLog{id: requestID(r)}
		w.Header().Set(requestIDHeader, entry.id)

		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r.WithContext(context.WithValue(r.Context(), requestLogKey{}, entry)))

		level := slog.LevelInfo
		if sr.statusCode >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		attrs := []any{
			"request_id", entry.id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.statusCode,
			"bytes", sr.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		entry.mu.Lock()
		attrs = append(attrs, entry.attrs...)
		entry.mu.Unlock()
		slog.Log(r.Context(), level, "request", attrs...)
	})
}

// requestID は上流が付けた X-Request-ID を引き継ぐ。無い、長すぎる、表示できない文字を含む場合は新しく振る
func requestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(requestIDHeader))
	if id == "" || len(id) > maxRequestIDLen {
		return uuid.NewString()
	}
	if strings.IndexFunc(id, func(c rune) bool { return c < 0x21 || c > 0x7e }) >= 0 {
		return uuid.NewString()
	}
	return id
}
