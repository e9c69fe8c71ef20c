package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ealtun16/Vespro-sub000/internal/service"
)

// DashboardHandler はダッシュボード集計の HTTP ハンドラ
type DashboardHandler struct {
	svc service.DashboardService
}

// NewDashboardHandler は DashboardHandler を生成する
func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Get は GET /api/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	d, err := h.svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, "dashboard_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(d)
}
