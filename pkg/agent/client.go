// Package agent is a small HTTP client for the external analysis/chat agent.
// Calls are JSON POSTs with a per-request timeout and exponential backoff on
// transient failures.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
	backoffFactor       = 2.0
	jitterFraction      = 0.2
)

var (
	// ErrNotConfigured は agent の URL が設定されていない場合のエラー
	ErrNotConfigured = errors.New("agent: not configured")
	// ErrRetriesExhausted はリトライを使い切ったとき最後の失敗をラップして返す
	ErrRetriesExhausted = errors.New("agent: retries exhausted")
)

// ChatResponse はチャットメッセージへの agent の返答
type ChatResponse struct {
	Response string `json:"response"`
	Tokens   int    `json:"tokens"`
}

// PriceAnalysisResponse は仮見積に対する agent のコメント
type PriceAnalysisResponse struct {
	Analysis string `json:"analysis"`
	Tokens   int    `json:"tokens"`
}

// Client は外部 agent のインターフェース
type Client interface {
	// Chat は任意のコンテキスト付きで自由記述メッセージを送る
	Chat(ctx context.Context, message string, context map[string]any) (*ChatResponse, error)
	// AnalyzePrice は formData の仮見積のレビューを agent に依頼する
	AnalyzePrice(ctx context.Context, formData map[string]any, preliminaryPrice float64) (*PriceAnalysisResponse, error)
}

// Options はリトライ挙動の調整。ゼロ値は既定値になる
type Options struct {
	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// RealClient は agent への raw HTTP クライアント実装
type RealClient struct {
	BaseURL string
	APIKey  string

	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	httpClient   *http.Client
	sleep        func(ctx context.Context, d time.Duration) error
	now          func() time.Time
}

// NewClient は RealClient を生成する。MaxRetries が 0 なら既定値、負ならリトライしない
func NewClient(baseURL, apiKey string, opts Options) *RealClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = defaultInitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	return &RealClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		APIKey:       apiKey,
		maxRetries:   opts.MaxRetries,
		initialDelay: opts.InitialDelay,
		maxDelay:     opts.MaxDelay,
		httpClient:   &http.Client{Timeout: opts.Timeout},
		sleep:        sleepContext,
		now:          time.Now,
	}
}

// Chat は /chat に {message, context, timestamp} を送る
func (c *RealClient) Chat(ctx context.Context, message string, chatContext map[string]any) (*ChatResponse, error) {
	body := map[string]any{
		"message":   message,
		"context":   chatContext,
		"timestamp": c.now().UTC().Format(time.RFC3339),
	}
	var out ChatResponse
	if err := c.post(ctx, "/chat", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzePrice は /price-analysis に {formData, preliminaryPrice, timestamp} を送る
func (c *RealClient) AnalyzePrice(ctx context.Context, formData map[string]any, preliminaryPrice float64) (*PriceAnalysisResponse, error) {
	body := map[string]any{
		"formData":         formData,
		"preliminaryPrice": preliminaryPrice,
		"timestamp":        c.now().UTC().Format(time.RFC3339),
	}
	var out PriceAnalysisResponse
	if err := c.post(ctx, "/price-analysis", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// statusError は 2xx 以外の agent レスポンス
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("agent: status %d: %s", e.code, e.body)
}

func (c *RealClient) post(ctx context.Context, path string, body, out any) error {
	if c.BaseURL == "" {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	delay := c.initialDelay
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = c.do(ctx, path, payload, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || ctx.Err() != nil {
			return lastErr
		}
		if attempt >= c.maxRetries {
			break
		}

		wait := withJitter(delay)
		slog.Warn("agent request failed, retrying", "path", path, "attempt", attempt+1, "delay", wait, "error", lastErr)
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
		delay = min(time.Duration(float64(delay)*backoffFactor), c.maxDelay)
	}
	return fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

func (c *RealClient) do(ctx context.Context, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("agent: decode response: %w", err)
	}
	return nil
}

// retryable は err が 5xx/429 レスポンス・タイムアウト・ネットワークエラーかを返す
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func withJitter(d time.Duration) time.Duration {
	f := 1 + jitterFraction*(2*rand.Float64()-1)
	return time.Duration(float64(d) * f)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
