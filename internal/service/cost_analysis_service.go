package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ealtun16/Vespro-sub000/internal/estimate"
	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
)

// CostAnalysisService は原価解析の参照・手動作成・更新・出力を行う
type CostAnalysisService interface {
	List(ctx context.Context, limit, offset int) ([]*model.CostAnalysis, error)
	Get(ctx context.Context, id string) (*model.CostAnalysis, error)
	ListBySpecification(ctx context.Context, specificationID string) ([]*model.CostAnalysis, error)
	// Calculate は現在の設定で内訳を試算する。何も保存しない
	Calculate(ctx context.Context, spec *model.TankSpecification) (*estimate.Breakdown, error)
	CreateFromSpecification(ctx context.Context, specificationID, notes string) (*model.CostAnalysis, error)
	Update(ctx context.Context, id string, patch model.CostAnalysisPatch) (*model.CostAnalysis, error)
	Delete(ctx context.Context, id string) error
	// ExportExcel は解析 1 件を .xlsx に出力する
	ExportExcel(ctx context.Context, id string) (data []byte, fileName string, err error)
}

// CostAnalysisServiceImpl は CostAnalysisService の実装
type CostAnalysisServiceImpl struct {
	analyses repository.CostAnalysisRepository
	specs    repository.TankSpecificationRepository
	settings repository.SettingsRepository
	now      func() time.Time
}

// NewCostAnalysisService は CostAnalysisServiceImpl を生成する
func NewCostAnalysisService(
	analyses repository.CostAnalysisRepository,
	specs repository.TankSpecificationRepository,
	settings repository.SettingsRepository,
) *CostAnalysisServiceImpl {
	return &CostAnalysisServiceImpl{analyses: analyses, specs: specs, settings: settings, now: time.Now}
}

func (s *CostAnalysisServiceImpl) List(ctx context.Context, limit, offset int) ([]*model.CostAnalysis, error) {
	return s.analyses.List(ctx, limit, offset)
}

func (s *CostAnalysisServiceImpl) Get(ctx context.Context, id string) (*model.CostAnalysis, error) {
	return s.analyses.GetByID(ctx, id)
}

func (s *CostAnalysisServiceImpl) ListBySpecification(ctx context.Context, specificationID string) ([]*model.CostAnalysis, error) {
	return s.analyses.ListBySpecification(ctx, specificationID)
}

func (s *CostAnalysisServiceImpl) Calculate(ctx context.Context, spec *model.TankSpecification) (*estimate.Breakdown, error) {
	if spec.Height == nil || spec.Diameter == nil {
		return nil, fmt.Errorf("%w: height and diameter are required", ErrInvalidInput)
	}
	settings, err := s.settings.GetOrCreateDefault(ctx, model.GlobalSettingsID)
	if err != nil {
		return nil, err
	}
	b := estimate.Calculate(spec, estimate.RatesFromSettings(settings))
	return &b, nil
}

// CreateFromSpecification は仕様から解析を計算して保存する（手動作成）
func (s *CostAnalysisServiceImpl) CreateFromSpecification(ctx context.Context, specificationID, notes string) (*model.CostAnalysis, error) {
	spec, err := s.specs.GetByID(ctx, specificationID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.GetOrCreateDefault(ctx, model.GlobalSettingsID)
	if err != nil {
		return nil, err
	}
	if notes == "" {
		notes = "Manual Analysis: " + spec.Name
	}
	analysis, b := buildAnalysis(spec, settings, s.now(), notes)
	if err := s.analyses.Create(ctx, analysis); err != nil {
		return nil, err
	}
	slog.Info("cost analysis created",
		"report_id", analysis.ReportID,
		"specification_id", specificationID,
		"complexity", b.Complexity,
		"weight_kg", b.Geometry.Weight,
		"total_cost", analysis.TotalCost.String(),
	)
	return analysis, nil
}

func (s *CostAnalysisServiceImpl) Update(ctx context.Context, id string, patch model.CostAnalysisPatch) (*model.CostAnalysis, error) {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(a)
	if a.MaterialCost.IsNegative() || a.LaborCost.IsNegative() || a.OverheadCost.IsNegative() {
		return nil, fmt.Errorf("%w: costs must not be negative", ErrInvalidInput)
	}
	if err := s.analyses.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CostAnalysisServiceImpl) Delete(ctx context.Context, id string) error {
	return s.analyses.Delete(ctx, id)
}

func (s *CostAnalysisServiceImpl) ExportExcel(ctx context.Context, id string) ([]byte, string, error) {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	var spec *model.TankSpecification
	if a.SpecificationID != nil {
		spec, err = s.specs.GetByID(ctx, *a.SpecificationID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, "", err
		}
	}
	data, err := renderAnalysisWorkbook(a, spec)
	if err != nil {
		return nil, "", err
	}
	return data, a.ReportID + ".xlsx", nil
}
