package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
)

func storageSpec() *model.TankSpecification {
	return &model.TankSpecification{
		ID:       "spec-1",
		Name:     "T-100",
		TankType: model.TankTypeStorage,
		Height:   ptr(3000),
		Diameter: ptr(2000),
	}
}

func fullSpec() *model.TankSpecification {
	s := storageSpec()
	s.Pressure = ptr(2)
	s.Temperature = ptr(40)
	s.Capacity = ptr(9400)
	s.MaterialGrade = "S235JR"
	return s
}

func newTestAutoAnalysis(settings *mockSettingsRepository, specs *mockTankSpecificationRepository, analyses *mockCostAnalysisRepository) *AutoAnalysisServiceImpl {
	svc := NewAutoAnalysisService(settings, specs, analyses, 0)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// ---------------------------------------------------------------------------
// TriggerForSpecification
// ---------------------------------------------------------------------------

func TestTriggerForSpecification_PersistsAnalysis(t *testing.T) {
	var created *model.CostAnalysis
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.TankSpecification, error) {
			if id != "spec-1" {
				t.Errorf("unexpected spec id %q", id)
			}
			return storageSpec(), nil
		},
	}
	analyses := &mockCostAnalysisRepository{
		createFunc: func(_ context.Context, a *model.CostAnalysis) error {
			created = a
			a.ID = "analysis-9"
			return nil
		},
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, analyses)

	res := svc.TriggerForSpecification(context.Background(), "spec-1", model.TriggerManualCreation)

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.AnalysisID != "analysis-9" || res.TriggerType != model.TriggerManualCreation {
		t.Errorf("unexpected result: %+v", res)
	}
	if created == nil {
		t.Fatal("analysis was not persisted")
	}
	if !created.TotalCost.Equal(decimal.RequireFromString("1875.83")) {
		t.Errorf("total cost: got %s", created.TotalCost)
	}
	if created.SpecificationID == nil || *created.SpecificationID != "spec-1" {
		t.Errorf("specification id not set: %v", created.SpecificationID)
	}
	if !strings.HasPrefix(created.ReportID, "CA-20240501-") || len(created.ReportID) != 20 {
		t.Errorf("unexpected report id %q", created.ReportID)
	}
	if res.ReportID != created.ReportID {
		t.Errorf("result report id %q, analysis %q", res.ReportID, created.ReportID)
	}
	if !created.AnalysisDate.Equal(fixedNow) {
		t.Errorf("analysis date: got %v", created.AnalysisDate)
	}
	if res.Complexity != 1 || res.WeightKg != 740 || res.LaborHours != 12.57 {
		t.Errorf("breakdown figures: complexity=%v weight=%v hours=%v", res.Complexity, res.WeightKg, res.LaborHours)
	}
}

func TestTriggerForSpecification_LowConfidenceIsStillSaved(t *testing.T) {
	var notes string
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(context.Context, string) (*model.TankSpecification, error) { return storageSpec(), nil },
	}
	analyses := &mockCostAnalysisRepository{
		createFunc: func(_ context.Context, a *model.CostAnalysis) error {
			notes = a.Notes
			return nil
		},
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, analyses)

	res := svc.TriggerForSpecification(context.Background(), "spec-1", model.TriggerManualCreation)

	if !res.Success || !res.LowConfidence {
		t.Fatalf("expected low-confidence success, got %+v", res)
	}
	if res.Confidence != 0.33 {
		t.Errorf("confidence: got %v", res.Confidence)
	}
	if notes != "Manual Creation: T-100 (low confidence 0.33)" {
		t.Errorf("notes: got %q", notes)
	}
}

func TestTriggerForSpecification_FullInputsAreConfident(t *testing.T) {
	var notes string
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(context.Context, string) (*model.TankSpecification, error) { return fullSpec(), nil },
	}
	analyses := &mockCostAnalysisRepository{
		createFunc: func(_ context.Context, a *model.CostAnalysis) error {
			notes = a.Notes
			return nil
		},
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, analyses)

	res := svc.TriggerForSpecification(context.Background(), "spec-1", model.TriggerManualRequest)

	if res.LowConfidence || res.Confidence != 1 {
		t.Errorf("unexpected confidence: %+v", res)
	}
	if notes != "Auto Analysis: T-100" {
		t.Errorf("notes: got %q", notes)
	}
}

func TestTriggerForSpecification_Disabled(t *testing.T) {
	settings := &mockSettingsRepository{
		getOrCreateDefaultFunc: func(context.Context, string) (*model.Settings, error) {
			s := model.DefaultSettings()
			s.AutoAnalysisEnabled = false
			return s, nil
		},
	}
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(context.Context, string) (*model.TankSpecification, error) {
			t.Error("specification must not be loaded when disabled")
			return nil, nil
		},
	}
	analyses := &mockCostAnalysisRepository{
		createFunc: func(context.Context, *model.CostAnalysis) error {
			t.Error("analysis must not be created when disabled")
			return nil
		},
	}
	svc := newTestAutoAnalysis(settings, specs, analyses)

	res := svc.TriggerForSpecification(context.Background(), "spec-1", model.TriggerManualCreation)

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "auto-analysis is disabled" {
		t.Errorf("error: got %q", res.Error)
	}
}

func TestTriggerForSpecification_NotFound(t *testing.T) {
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, &mockTankSpecificationRepository{}, &mockCostAnalysisRepository{})

	res := svc.TriggerForSpecification(context.Background(), "missing", model.TriggerManualRequest)

	if res.Success || res.Error != "tank specification not found" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.SourceID != "missing" {
		t.Errorf("source id: got %q", res.SourceID)
	}
}

func TestTriggerForSpecification_SettingsError(t *testing.T) {
	settings := &mockSettingsRepository{
		getOrCreateDefaultFunc: func(context.Context, string) (*model.Settings, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestAutoAnalysis(settings, &mockTankSpecificationRepository{}, &mockCostAnalysisRepository{})

	res := svc.TriggerForSpecification(context.Background(), "spec-1", model.TriggerManualRequest)

	if res.Success || !strings.Contains(res.Error, "connection refused") {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestTriggerForSpecification_PersistFailure(t *testing.T) {
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(context.Context, string) (*model.TankSpecification, error) { return fullSpec(), nil },
	}
	analyses := &mockCostAnalysisRepository{
		createFunc: func(context.Context, *model.CostAnalysis) error { return errors.New("duplicate key") },
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, analyses)

	res := svc.TriggerForSpecification(context.Background(), "spec-1", model.TriggerManualRequest)

	if res.Success || !strings.Contains(res.Error, "persist analysis") {
		t.Errorf("unexpected result: %+v", res)
	}
}

// ---------------------------------------------------------------------------
// TriggerForImport
// ---------------------------------------------------------------------------

func TestTriggerForImport_UsesLinkedSpecification(t *testing.T) {
	var notes string
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(context.Context, string) (*model.TankSpecification, error) { return fullSpec(), nil },
	}
	analyses := &mockCostAnalysisRepository{
		createFunc: func(_ context.Context, a *model.CostAnalysis) error {
			notes = a.Notes
			return nil
		},
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, analyses)

	h := &model.TankHeader{ID: "tank-1", TankCode: "TK-1", SpecificationID: strPtr("spec-1")}
	res := svc.TriggerForImport(context.Background(), h)

	if !res.Success || res.TriggerType != model.TriggerExcelImport || res.SourceID != "tank-1" {
		t.Errorf("unexpected result: %+v", res)
	}
	if notes != "Excel Import: TK-1" {
		t.Errorf("notes: got %q", notes)
	}
}

func TestTriggerForImport_WithoutSpecification(t *testing.T) {
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, &mockTankSpecificationRepository{}, &mockCostAnalysisRepository{})

	res := svc.TriggerForImport(context.Background(), &model.TankHeader{ID: "tank-1", TankCode: "TK-1"})

	if res.Success || res.Error == "" {
		t.Errorf("expected failure, got %+v", res)
	}
}

// ---------------------------------------------------------------------------
// TriggerBatch
// ---------------------------------------------------------------------------

func TestTriggerBatch_SleepsBetweenItems(t *testing.T) {
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.TankSpecification, error) {
			if id == "missing" {
				return nil, repository.ErrNotFound
			}
			s := fullSpec()
			s.ID = id
			return s, nil
		},
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, &mockCostAnalysisRepository{})
	svc.batchGap = 100 * time.Millisecond
	var sleeps []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	results := svc.TriggerBatch(context.Background(), []string{"a", "missing", "c"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Errorf("unexpected outcomes: %+v %+v %+v", results[0], results[1], results[2])
	}
	for _, r := range results {
		if r.TriggerType != model.TriggerManualRequest {
			t.Errorf("trigger type: got %q", r.TriggerType)
		}
	}
	if len(sleeps) != 2 || sleeps[0] != 100*time.Millisecond {
		t.Errorf("sleeps: got %v", sleeps)
	}
}

func TestTriggerBatch_ZeroGapNeverSleeps(t *testing.T) {
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(context.Context, string) (*model.TankSpecification, error) { return fullSpec(), nil },
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, &mockCostAnalysisRepository{})
	svc.sleep = func(context.Context, time.Duration) error {
		t.Error("sleep called with zero gap")
		return nil
	}

	results := svc.TriggerBatch(context.Background(), []string{"a", "b"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestTriggerBatch_CancelledContextFailsRemaining(t *testing.T) {
	specs := &mockTankSpecificationRepository{
		getByIDFunc: func(context.Context, string) (*model.TankSpecification, error) { return fullSpec(), nil },
	}
	svc := newTestAutoAnalysis(&mockSettingsRepository{}, specs, &mockCostAnalysisRepository{})
	svc.batchGap = time.Second
	svc.sleep = func(context.Context, time.Duration) error { return context.Canceled }

	results := svc.TriggerBatch(context.Background(), []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Success {
		t.Errorf("first item should run: %+v", results[0])
	}
	for _, r := range results[1:] {
		if r.Success || r.Error != context.Canceled.Error() {
			t.Errorf("expected cancelled result, got %+v", r)
		}
	}
}

func TestSleepContext_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
