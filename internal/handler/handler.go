package handler

import (
	"net/http"
)

// Handler はヘルスチェックと CORS を受け持つ
type Handler struct {
	frontendURL string
	checks      []HealthCheck
}

// New は Handler を生成する。checks は /api/health で順に実行する
func New(frontendURL string, checks ...HealthCheck) *Handler {
	return &Handler{frontendURL: frontendURL, checks: checks}
}

// CORS はフロントエンドのオリジンだけを許可する。
// Content-Disposition と X-Request-ID はブラウザから読めるように公開する
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.frontendURL)
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
