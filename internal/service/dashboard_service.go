package service

import (
	"context"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
)

const dashboardRecentLimit = 5

// Dashboard はダッシュボード API のレスポンス
type Dashboard struct {
	Stats           *model.DashboardStats `json:"stats"`
	RecentAnalyses  []*model.CostAnalysis `json:"recent_analyses"`
	RecentTankForms []*model.TankHeader   `json:"recent_tank_forms"`
}

// DashboardService はダッシュボード集計を返す
type DashboardService interface {
	Get(ctx context.Context) (*Dashboard, error)
}

// DashboardServiceImpl は DashboardService の実装
type DashboardServiceImpl struct {
	analyses repository.CostAnalysisRepository
	forms    repository.TankFormRepository
}

// NewDashboardService は DashboardServiceImpl を生成する
func NewDashboardService(analyses repository.CostAnalysisRepository, forms repository.TankFormRepository) DashboardService {
	return &DashboardServiceImpl{analyses: analyses, forms: forms}
}

func (s *DashboardServiceImpl) Get(ctx context.Context) (*Dashboard, error) {
	stats, err := s.analyses.Stats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.analyses.List(ctx, dashboardRecentLimit, 0)
	if err != nil {
		return nil, err
	}
	forms, err := s.forms.List(ctx, dashboardRecentLimit, 0)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*model.CostAnalysis{}
	}
	if forms == nil {
		forms = []*model.TankHeader{}
	}
	return &Dashboard{Stats: stats, RecentAnalyses: recent, RecentTankForms: forms}, nil
}
