package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
)

// AutoAnalysisService は取り込み・手動作成の後に原価エンジンを走らせる。
// error は返さず、失敗はすべて結果に載せる
type AutoAnalysisService interface {
	TriggerForImport(ctx context.Context, header *model.TankHeader) *model.AutoAnalysisResult
	TriggerForSpecification(ctx context.Context, specificationID, triggerType string) *model.AutoAnalysisResult
	TriggerBatch(ctx context.Context, specificationIDs []string) []*model.AutoAnalysisResult
}

// AutoAnalysisServiceImpl は AutoAnalysisService の実装
type AutoAnalysisServiceImpl struct {
	settings repository.SettingsRepository
	specs    repository.TankSpecificationRepository
	analyses repository.CostAnalysisRepository
	batchGap time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewAutoAnalysisService は AutoAnalysisServiceImpl を生成する。
// batchGap は TriggerBatch の項目間の固定待ち時間
func NewAutoAnalysisService(
	settings repository.SettingsRepository,
	specs repository.TankSpecificationRepository,
	analyses repository.CostAnalysisRepository,
	batchGap time.Duration,
) *AutoAnalysisServiceImpl {
	return &AutoAnalysisServiceImpl{
		settings: settings,
		specs:    specs,
		analyses: analyses,
		batchGap: batchGap,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// TriggerForImport は取り込んだ header に紐付く仕様を解析する
func (s *AutoAnalysisServiceImpl) TriggerForImport(ctx context.Context, header *model.TankHeader) *model.AutoAnalysisResult {
	res := &model.AutoAnalysisResult{TriggerType: model.TriggerExcelImport, SourceID: header.ID}
	settings, ok := s.enabledSettings(ctx, res)
	if !ok {
		return res
	}
	if header.SpecificationID == nil {
		return s.fail(res, errors.New("tank form has no linked specification"))
	}
	spec, err := s.specs.GetByID(ctx, *header.SpecificationID)
	if err != nil {
		return s.fail(res, fmt.Errorf("load specification: %w", err))
	}
	return s.analyze(ctx, res, spec, settings, "Excel Import: "+header.TankCode)
}

// TriggerForSpecification は既存の仕様を解析する
func (s *AutoAnalysisServiceImpl) TriggerForSpecification(ctx context.Context, specificationID, triggerType string) *model.AutoAnalysisResult {
	res := &model.AutoAnalysisResult{TriggerType: triggerType, SourceID: specificationID}
	settings, ok := s.enabledSettings(ctx, res)
	if !ok {
		return res
	}
	spec, err := s.specs.GetByID(ctx, specificationID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.fail(res, errors.New("tank specification not found"))
	}
	if err != nil {
		return s.fail(res, fmt.Errorf("load specification: %w", err))
	}

	label := "Auto Analysis: "
	if triggerType == model.TriggerManualCreation {
		label = "Manual Creation: "
	}
	return s.analyze(ctx, res, spec, settings, label+spec.Name)
}

// TriggerBatch は id を順に解析し、項目間に固定の待ちを入れる
func (s *AutoAnalysisServiceImpl) TriggerBatch(ctx context.Context, specificationIDs []string) []*model.AutoAnalysisResult {
	results := make([]*model.AutoAnalysisResult, 0, len(specificationIDs))
	for i, id := range specificationIDs {
		if i > 0 && s.batchGap > 0 {
			if err := s.sleep(ctx, s.batchGap); err != nil {
				for _, rest := range specificationIDs[i:] {
					results = append(results, &model.AutoAnalysisResult{
						TriggerType: model.TriggerManualRequest,
						SourceID:    rest,
						Error:       err.Error(),
					})
				}
				break
			}
		}
		results = append(results, s.TriggerForSpecification(ctx, id, model.TriggerManualRequest))
	}
	return results
}

func (s *AutoAnalysisServiceImpl) enabledSettings(ctx context.Context, res *model.AutoAnalysisResult) (*model.Settings, bool) {
	settings, err := s.settings.GetOrCreateDefault(ctx, model.GlobalSettingsID)
	if err != nil {
		s.fail(res, fmt.Errorf("settings unavailable: %w", err))
		return nil, false
	}
	if !settings.AutoAnalysisEnabled {
		res.Error = "auto-analysis is disabled"
		slog.Info("auto-analysis skipped", "trigger_type", res.TriggerType, "source_id", res.SourceID, "reason", "disabled")
		return nil, false
	}
	return settings, true
}

func (s *AutoAnalysisServiceImpl) analyze(ctx context.Context, res *model.AutoAnalysisResult, spec *model.TankSpecification, settings *model.Settings, notes string) *model.AutoAnalysisResult {
	confidence := inputConfidence(spec)
	res.Confidence = math.Round(confidence*100) / 100
	if confidence < settings.ConfidenceThreshold {
		res.LowConfidence = true
		notes = fmt.Sprintf("%s (low confidence %.2f)", notes, res.Confidence)
	}

	analysis, b := buildAnalysis(spec, settings, s.now(), notes)
	if err := s.analyses.Create(ctx, analysis); err != nil {
		return s.fail(res, fmt.Errorf("persist analysis: %w", err))
	}

	res.Success = true
	res.AnalysisID = analysis.ID
	res.ReportID = analysis.ReportID
	res.Complexity = b.Complexity
	res.WeightKg = b.Geometry.Weight
	res.LaborHours = b.LaborHours
	slog.Info("auto-analysis completed",
		"trigger_type", res.TriggerType,
		"source_id", res.SourceID,
		"analysis_id", analysis.ID,
		"total_cost", analysis.TotalCost.String(),
		"complexity", b.Complexity,
		"weight_kg", b.Geometry.Weight,
		"low_confidence", res.LowConfidence,
	)
	return res
}

func (s *AutoAnalysisServiceImpl) fail(res *model.AutoAnalysisResult, err error) *model.AutoAnalysisResult {
	res.Success = false
	res.Error = err.Error()
	slog.Warn("auto-analysis failed", "trigger_type", res.TriggerType, "source_id", res.SourceID, "error", err)
	return res
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
