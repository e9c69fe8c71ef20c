package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
)

// SettingsHandler は原価計算設定の HTTP ハンドラ
type SettingsHandler struct {
	svc service.SettingsService
}

// NewSettingsHandler は SettingsHandler を生成する
func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get は GET /api/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s, err := h.svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, err, "settings_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(s)
}

// Update は PATCH /api/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var patch model.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s, err := h.svc.Update(r.Context(), patch)
	if err != nil {
		writeServiceError(w, err, "update_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(s)
}
