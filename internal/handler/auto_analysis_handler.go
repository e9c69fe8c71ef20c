package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
)

const maxBatchSize = 50

// AutoAnalysisHandler は自動解析の手動起動 HTTP ハンドラ
type AutoAnalysisHandler struct {
	svc service.AutoAnalysisService
}

// NewAutoAnalysisHandler は AutoAnalysisHandler を生成する
func NewAutoAnalysisHandler(svc service.AutoAnalysisService) *AutoAnalysisHandler {
	return &AutoAnalysisHandler{svc: svc}
}

// Trigger は POST /api/auto-analysis/tank-specifications/{id}。
// 失敗は結果 body に含めるのでステータスは常に 200
func (h *AutoAnalysisHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	res := h.svc.TriggerForSpecification(r.Context(), r.PathValue("id"), model.TriggerManualRequest)
	_ = json.NewEncoder(w).Encode(res)
}

// Batch は POST /api/auto-analysis/batch ({"specification_ids": [...]})
func (h *AutoAnalysisHandler) Batch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		SpecificationIDs []string `json:"specification_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if len(req.SpecificationIDs) == 0 {
		writeError(w, http.StatusBadRequest, "specification_ids_required")
		return
	}
	if len(req.SpecificationIDs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch_too_large")
		return
	}

	results := h.svc.TriggerBatch(r.Context(), req.SpecificationIDs)
	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}
	annotate(r, "batch_size", len(results), "succeeded", succeeded)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"results":   results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}
