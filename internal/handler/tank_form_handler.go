package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TankFormHandler は取り込み済みタンクフォームの HTTP ハンドラ
type TankFormHandler struct {
	svc service.TankFormService
}

// NewTankFormHandler は TankFormHandler を生成する
func NewTankFormHandler(svc service.TankFormService) *TankFormHandler {
	return &TankFormHandler{svc: svc}
}

// List は GET /api/tank-forms?limit=N&offset=M
func (h *TankFormHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, offset := pageParams(r, 20, 100)
	headers, total, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, "list_failed")
		return
	}
	if headers == nil {
		headers = []*model.TankHeader{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"tank_forms": headers,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

// Get は GET /api/tank-forms/{id}
func (h *TankFormHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	form, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get_failed", "tank_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(form)
}

// Delete は DELETE /api/tank-forms/{id}。子行は CASCADE で消える
func (h *TankFormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete_failed", "tank_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Source は GET /api/tank-forms/{id}/source。アップロード元ファイルを返す
func (h *TankFormHandler) Source(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	annotate(r, "tank_id", id)
	rc, name, err := h.svc.OpenSource(r.Context(), id)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeServiceError(w, err, "source_failed", "tank_id", id)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("source stream interrupted", "tank_id", id, "error", err)
	}
}
