package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ealtun16/Vespro-sub000/internal/repository"
)

const healthTimeout = 3 * time.Second

// HealthCheck は /api/health で確認する依存先 1 つ分
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// DatabaseCheck は DB の疎通確認
func DatabaseCheck(db repository.DB) HealthCheck {
	return HealthCheck{Name: "database", Check: db.Ping}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// Health は登録された依存先をすべて確認する。1 つでも失敗すれば 503
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Service: "tank-cost-analysis", Checks: make(map[string]string, len(h.checks))}
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Checks[c.Name] = err.Error()
			annotate(r, "failed_check", c.Name)
			continue
		}
		resp.Checks[c.Name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
