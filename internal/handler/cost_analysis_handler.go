package handler

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
)

// CostAnalysisHandler は原価解析の HTTP ハンドラ
type CostAnalysisHandler struct {
	svc service.CostAnalysisService
}

// NewCostAnalysisHandler は CostAnalysisHandler を生成する
func NewCostAnalysisHandler(svc service.CostAnalysisService) *CostAnalysisHandler {
	return &CostAnalysisHandler{svc: svc}
}

// List は GET /api/cost-analyses
func (h *CostAnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, offset := pageParams(r, 50, 200)
	list, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, "list_failed")
		return
	}
	if list == nil {
		list = []*model.CostAnalysis{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"analyses": list})
}

// Get は GET /api/cost-analyses/{id}
func (h *CostAnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get_failed", "analysis_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(a)
}

// Calculate は POST /api/cost-analyses/calculate。保存はしない
func (h *CostAnalysisHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var spec model.TankSpecification
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	b, err := h.svc.Calculate(r.Context(), &spec)
	if err != nil {
		writeServiceError(w, err, "calculate_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(b)
}

// Create は POST /api/cost-analyses ({"specification_id", "notes"})
func (h *CostAnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		SpecificationID string `json:"specification_id"`
		Notes           string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.SpecificationID == "" {
		writeError(w, http.StatusBadRequest, "specification_id_required")
		return
	}

	a, err := h.svc.CreateFromSpecification(r.Context(), req.SpecificationID, req.Notes)
	if err != nil {
		writeServiceError(w, err, "create_failed", "specification_id", req.SpecificationID)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(a)
}

// Update は PATCH /api/cost-analyses/{id}
func (h *CostAnalysisHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	var patch model.CostAnalysisPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	a, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err, "update_failed", "analysis_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(a)
}

// Delete は DELETE /api/cost-analyses/{id}
func (h *CostAnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete_failed", "analysis_id", id)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Export は GET /api/cost-analyses/{id}/export。.xlsx を返す
func (h *CostAnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	annotate(r, "analysis_id", id)
	data, name, err := h.svc.ExportExcel(r.Context(), id)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeServiceError(w, err, "export_failed", "analysis_id", id)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		slog.Warn("export write failed", "analysis_id", id, "error", err)
	}
}
