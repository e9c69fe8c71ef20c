package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/pkg/agent"
)

// PriceReview は算出した見積に対する agent のコメント
type PriceReview struct {
	PreliminaryPrice float64 `json:"preliminary_price"`
	Currency         string  `json:"currency"`
	Analysis         string  `json:"analysis"`
	Tokens           int     `json:"tokens"`
}

// AgentService は外部 agent への問い合わせを行う
type AgentService interface {
	Chat(ctx context.Context, message string, context map[string]any) (*agent.ChatResponse, error)
	// ReviewPrice は spec の見積を計算し agent にコメントを求める
	ReviewPrice(ctx context.Context, spec *model.TankSpecification) (*PriceReview, error)
}

// AgentServiceImpl は AgentService の実装
type AgentServiceImpl struct {
	client agent.Client
	costs  CostAnalysisService
}

// NewAgentService は AgentServiceImpl を生成する
func NewAgentService(client agent.Client, costs CostAnalysisService) AgentService {
	return &AgentServiceImpl{client: client, costs: costs}
}

func (s *AgentServiceImpl) Chat(ctx context.Context, message string, chatContext map[string]any) (*agent.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	return s.client.Chat(ctx, message, chatContext)
}

func (s *AgentServiceImpl) ReviewPrice(ctx context.Context, spec *model.TankSpecification) (*PriceReview, error) {
	b, err := s.costs.Calculate(ctx, spec)
	if err != nil {
		return nil, err
	}
	price := b.TotalCost.InexactFloat64()

	formData := map[string]any{
		"name":           spec.Name,
		"tank_type":      spec.TankType,
		"material_grade": spec.MaterialGrade,
		"surface_area":   b.Geometry.SurfaceArea,
		"weight":         b.Geometry.Weight,
		"complexity":     b.Complexity,
		"currency":       b.Currency,
	}
	for k, v := range map[string]*float64{
		"height":      spec.Height,
		"diameter":    spec.Diameter,
		"width":       spec.Width,
		"capacity":    spec.Capacity,
		"pressure":    spec.Pressure,
		"temperature": spec.Temperature,
	} {
		if v != nil {
			formData[k] = *v
		}
	}

	resp, err := s.client.AnalyzePrice(ctx, formData, price)
	if err != nil {
		return nil, err
	}
	return &PriceReview{
		PreliminaryPrice: price,
		Currency:         b.Currency,
		Analysis:         resp.Analysis,
		Tokens:           resp.Tokens,
	}, nil
}
