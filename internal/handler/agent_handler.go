package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
	"github.com/ealtun16/Vespro-sub000/pkg/agent"
)

// AgentHandler は外部 agent 連携の HTTP ハンドラ
type AgentHandler struct {
	svc service.AgentService
}

// NewAgentHandler は AgentHandler を生成する
func NewAgentHandler(svc service.AgentService) *AgentHandler {
	return &AgentHandler{svc: svc}
}

// Chat は POST /api/agent/chat
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Message string         `json:"message"`
		Context map[string]any `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	resp, err := h.svc.Chat(r.Context(), req.Message, req.Context)
	if err != nil {
		writeAgentError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// PriceAnalysis は POST /api/agent/price-analysis (body はタンク仕様)
func (h *AgentHandler) PriceAnalysis(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var spec model.TankSpecification
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	review, err := h.svc.ReviewPrice(r.Context(), &spec)
	if err != nil {
		writeAgentError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(review)
}

func writeAgentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, agent.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "agent_not_configured")
	default:
		slog.Error("agent request failed", "error", err)
		writeError(w, http.StatusBadGateway, "agent_unavailable")
	}
}
