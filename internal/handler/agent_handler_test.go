package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/service"
	"github.com/ealtun16/Vespro-sub000/pkg/agent"
)

type mockAgentService struct {
	chatFunc   func(ctx context.Context, message string, c map[string]any) (*agent.ChatResponse, error)
	reviewFunc func(ctx context.Context, spec *model.TankSpecification) (*service.PriceReview, error)
}

func (m *mockAgentService) Chat(ctx context.Context, message string, c map[string]any) (*agent.ChatResponse, error) {
	if m.chatFunc != nil {
		return m.chatFunc(ctx, message, c)
	}
	return &agent.ChatResponse{Response: "hi"}, nil
}
func (m *mockAgentService) ReviewPrice(ctx context.Context, spec *model.TankSpecification) (*service.PriceReview, error) {
	if m.reviewFunc != nil {
		return m.reviewFunc(ctx, spec)
	}
	return &service.PriceReview{PreliminaryPrice: 1875.83, Currency: "USD", Analysis: "fair"}, nil
}

func TestAgentHandler_Chat(t *testing.T) {
	var gotContext map[string]any
	mock := &mockAgentService{
		chatFunc: func(_ context.Context, message string, c map[string]any) (*agent.ChatResponse, error) {
			gotContext = c
			return &agent.ChatResponse{Response: "echo: " + message, Tokens: 3}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/agent/chat", strings.NewReader(`{"message":"hello","context":{"page":"dashboard"}}`))
	rec := httptest.NewRecorder()
	NewAgentHandler(mock).Chat(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "echo: hello") {
		t.Errorf("status %d body %s", rec.Code, rec.Body.String())
	}
	if gotContext["page"] != "dashboard" {
		t.Errorf("context: got %v", gotContext)
	}
}

func TestAgentHandler_PriceAnalysis(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/agent/price-analysis", strings.NewReader(`{"name":"T","tank_type":"Storage Tank","height":3000,"diameter":2000}`))
	rec := httptest.NewRecorder()
	NewAgentHandler(&mockAgentService{}).PriceAnalysis(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"preliminary_price":1875.83`) {
		t.Errorf("status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestAgentHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", fmt.Errorf("%w: message is required", service.ErrInvalidInput), http.StatusBadRequest},
		{"not configured", agent.ErrNotConfigured, http.StatusServiceUnavailable},
		{"retries exhausted", fmt.Errorf("%w: status 503", agent.ErrRetriesExhausted), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAgentService{
				chatFunc: func(context.Context, string, map[string]any) (*agent.ChatResponse, error) {
					return nil, tt.err
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/api/agent/chat", strings.NewReader(`{"message":"x"}`))
			rec := httptest.NewRecorder()
			NewAgentHandler(mock).Chat(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
