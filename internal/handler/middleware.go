package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SecurityHeaders は JSON と xlsx ダウンロードだけを返す API 向けのセキュリティヘッダを付ける
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		// 原価や見積りを中継キャッシュに残さない
		if strings.HasPrefix(r.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------------------------------------------------------------------
// レート制限
// ---------------------------------------------------------------------------

// レート制限のスコープ。クライアントごとにスコープ単位の窓で数える
const (
	ScopeImport   = "import"
	ScopeAnalysis = "analysis"
	ScopeAgent    = "agent"
)

const rateWindow = time.Minute

// RateLimitConfig はスコープごとの 1 分あたり上限。0 以下のスコープは制限しない
type RateLimitConfig struct {
	PerMinute map[string]int
	// TrustedProxyCount は X-Forwarded-For の右端から数えた信頼するプロキシの数
	TrustedProxyCount int
}

// RateLimiter はクライアント IP とスコープごとのスライディングウィンドウ制限
type RateLimiter struct {
	limits            map[string]int
	trustedProxyCount int
	now               func() time.Time

	mu      sync.Mutex
	windows map[windowKey][]time.Time
}

type windowKey struct {
	scope  string
	client string
}

// NewRateLimiter は RateLimiter を生成する。古い窓の掃除は ctx が終わるまで続く
func NewRateLimiter(ctx context.Context, cfg RateLimitConfig) *RateLimiter {
	limits := make(map[string]int, len(cfg.PerMinute))
	for scope, n := range cfg.PerMinute {
		limits[scope] = n
	}
	rl := &RateLimiter{
		limits:            limits,
		trustedProxyCount: cfg.TrustedProxyCount,
		now:               time.Now,
		windows:           make(map[windowKey][]time.Time),
	}
	go rl.cleanupLoop(ctx)
	return rl
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.prune(rl.now())
		}
	}
}

// prune は窓の外に出たタイムスタンプと空になったキーを捨てる
func (rl *RateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, ts := range rl.windows {
		ts = trimWindow(ts, now)
		if len(ts) == 0 {
			delete(rl.windows, key)
			continue
		}
		rl.windows[key] = ts
	}
}

func trimWindow(ts []time.Time, now time.Time) []time.Time {
	start := now.Add(-rateWindow)
	valid := ts[:0]
	for _, t := range ts {
		if t.After(start) {
			valid = append(valid, t)
		}
	}
	return valid
}

// allow は 1 リクエスト分を記録する。上限に達していれば記録せず、次に空く時間を返す
func (rl *RateLimiter) allow(scope, client string, limit int) (bool, time.Duration) {
	now := rl.now()
	key := windowKey{scope: scope, client: client}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	ts := trimWindow(rl.windows[key], now)
	if len(ts) >= limit {
		rl.windows[key] = ts
		return false, ts[0].Add(rateWindow).Sub(now)
	}
	rl.windows[key] = append(ts, now)
	return true, 0
}

// Limit は scope の上限で next を包む。上限が設定されていないスコープは next をそのまま返す
func (rl *RateLimiter) Limit(scope string, next http.Handler) http.Handler {
	limit := rl.limits[scope]
	if limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		ok, wait := rl.allow(scope, ip, limit)
		if !ok {
			retry := retryAfterSeconds(wait)
			annotate(r, "rate_limited", scope)
			slog.Warn("rate limit exceeded",
				"scope", scope,
				"client_ip", ip,
				"path", r.URL.Path,
				"limit_per_minute", limit,
				"retry_after_s", retry,
			)
			w.Header().Set("Retry-After", retry)
			w.Header().Set("Content-Type", "application/json")
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP は X-Forwarded-For のうち信頼するプロキシが付けた位置を読む。
// 左側はクライアントが自由に書けるので使わない
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		if idx := len(parts) - rl.trustedProxyCount; idx >= 0 {
			if ip := strings.TrimSpace(parts[idx]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
