package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
)

// TankSpecificationHandler はタンク仕様 CRUD の HTTP ハンドラ
type TankSpecificationHandler struct {
	svc      service.TankSpecificationService
	analyses service.CostAnalysisService
}

// NewTankSpecificationHandler は TankSpecificationHandler を生成する
func NewTankSpecificationHandler(svc service.TankSpecificationService, analyses service.CostAnalysisService) *TankSpecificationHandler {
	return &TankSpecificationHandler{svc: svc, analyses: analyses}
}

// List は GET /api/tank-specifications
func (h *TankSpecificationHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, offset := pageParams(r, 50, 200)
	specs, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, "list_failed")
		return
	}
	if specs == nil {
		specs = []*model.TankSpecification{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"specifications": specs})
}

// Get は GET /api/tank-specifications/{id}
func (h *TankSpecificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	spec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get_failed", "specification_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(spec)
}

// Create は POST /api/tank-specifications。
// レスポンスには作成した仕様と自動解析の結果を並べて返す
func (h *TankSpecificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var spec model.TankSpecification
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	spec.ID = ""

	created, analysis, err := h.svc.Create(r.Context(), &spec)
	if err != nil {
		writeServiceError(w, err, "create_failed")
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"specification": created,
		"analysis":      analysis,
	})
}

// Update は PATCH /api/tank-specifications/{id}
func (h *TankSpecificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	var patch model.TankSpecificationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	spec, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err, "update_failed", "specification_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(spec)
}

// Delete は DELETE /api/tank-specifications/{id}
func (h *TankSpecificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete_failed", "specification_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Analyses は GET /api/tank-specifications/{id}/cost-analyses
func (h *TankSpecificationHandler) Analyses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	list, err := h.analyses.ListBySpecification(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "list_failed", "specification_id", id)
		return
	}
	if list == nil {
		list = []*model.CostAnalysis{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"analyses": list})
}
