package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
	"github.com/ealtun16/Vespro-sub000/internal/storage"
	"github.com/ealtun16/Vespro-sub000/pkg/agent"
)

// ---------------------------------------------------------------------------
// Mock SettingsRepository
// ---------------------------------------------------------------------------

type mockSettingsRepository struct {
	getOrCreateDefaultFunc func(ctx context.Context, scope string) (*model.Settings, error)
	updateFunc             func(ctx context.Context, s *model.Settings) error
}

func (m *mockSettingsRepository) GetOrCreateDefault(ctx context.Context, scope string) (*model.Settings, error) {
	if m.getOrCreateDefaultFunc != nil {
		return m.getOrCreateDefaultFunc(ctx, scope)
	}
	return model.DefaultSettings(), nil
}
func (m *mockSettingsRepository) Update(ctx context.Context, s *model.Settings) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, s)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock TankSpecificationRepository
// ---------------------------------------------------------------------------

type mockTankSpecificationRepository struct {
	createFunc  func(ctx context.Context, spec *model.TankSpecification) error
	getByIDFunc func(ctx context.Context, id string) (*model.TankSpecification, error)
	listFunc    func(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error)
	updateFunc  func(ctx context.Context, spec *model.TankSpecification) error
	deleteFunc  func(ctx context.Context, id string) error
	countFunc   func(ctx context.Context) (int, error)
}

func (m *mockTankSpecificationRepository) Create(ctx context.Context, spec *model.TankSpecification) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, spec)
	}
	spec.ID = "spec-new"
	return nil
}
func (m *mockTankSpecificationRepository) GetByID(ctx context.Context, id string) (*model.TankSpecification, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockTankSpecificationRepository) List(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}
func (m *mockTankSpecificationRepository) Update(ctx context.Context, spec *model.TankSpecification) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, spec)
	}
	return nil
}
func (m *mockTankSpecificationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockTankSpecificationRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// Mock CostAnalysisRepository
// ---------------------------------------------------------------------------

type mockCostAnalysisRepository struct {
	createFunc              func(ctx context.Context, a *model.CostAnalysis) error
	getByIDFunc             func(ctx context.Context, id string) (*model.CostAnalysis, error)
	listFunc                func(ctx context.Context, limit, offset int) ([]*model.CostAnalysis, error)
	listBySpecificationFunc func(ctx context.Context, specificationID string) ([]*model.CostAnalysis, error)
	updateFunc              func(ctx context.Context, a *model.CostAnalysis) error
	deleteFunc              func(ctx context.Context, id string) error
	statsFunc               func(ctx context.Context) (*model.DashboardStats, error)
}

func (m *mockCostAnalysisRepository) Create(ctx context.Context, a *model.CostAnalysis) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	a.ID = "analysis-new"
	return nil
}
func (m *mockCostAnalysisRepository) GetByID(ctx context.Context, id string) (*model.CostAnalysis, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCostAnalysisRepository) List(ctx context.Context, limit, offset int) ([]*model.CostAnalysis, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}
func (m *mockCostAnalysisRepository) ListBySpecification(ctx context.Context, specificationID string) ([]*model.CostAnalysis, error) {
	if m.listBySpecificationFunc != nil {
		return m.listBySpecificationFunc(ctx, specificationID)
	}
	return nil, nil
}
func (m *mockCostAnalysisRepository) Update(ctx context.Context, a *model.CostAnalysis) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, a)
	}
	return nil
}
func (m *mockCostAnalysisRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockCostAnalysisRepository) Stats(ctx context.Context) (*model.DashboardStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.DashboardStats{}, nil
}

// ---------------------------------------------------------------------------
// Mock TankFormRepository
// ---------------------------------------------------------------------------

type mockTankFormRepository struct {
	upsertFunc            func(ctx context.Context, form *model.TankForm) error
	replaceChildrenFunc   func(ctx context.Context, tankID string, children *model.TankChildren) error
	getByIDFunc           func(ctx context.Context, id string) (*model.TankForm, error)
	getByKeyFunc          func(ctx context.Context, tankCode string, priceDate *time.Time) (*model.TankHeader, error)
	listFunc              func(ctx context.Context, limit, offset int) ([]*model.TankHeader, error)
	countFunc             func(ctx context.Context) (int, error)
	deleteFunc            func(ctx context.Context, id string) error
	linkSpecificationFunc func(ctx context.Context, tankID, specificationID string) error
}

func (m *mockTankFormRepository) Upsert(ctx context.Context, form *model.TankForm) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, form)
	}
	form.Header.ID = "tank-1"
	return nil
}
func (m *mockTankFormRepository) ReplaceChildren(ctx context.Context, tankID string, children *model.TankChildren) error {
	if m.replaceChildrenFunc != nil {
		return m.replaceChildrenFunc(ctx, tankID, children)
	}
	return nil
}
func (m *mockTankFormRepository) GetByID(ctx context.Context, id string) (*model.TankForm, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockTankFormRepository) GetByKey(ctx context.Context, tankCode string, priceDate *time.Time) (*model.TankHeader, error) {
	if m.getByKeyFunc != nil {
		return m.getByKeyFunc(ctx, tankCode, priceDate)
	}
	return nil, repository.ErrNotFound
}
func (m *mockTankFormRepository) List(ctx context.Context, limit, offset int) ([]*model.TankHeader, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}
func (m *mockTankFormRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}
func (m *mockTankFormRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockTankFormRepository) LinkSpecification(ctx context.Context, tankID, specificationID string) error {
	if m.linkSpecificationFunc != nil {
		return m.linkSpecificationFunc(ctx, tankID, specificationID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock collaborators
// ---------------------------------------------------------------------------

type mockParser struct {
	parseFunc func(data []byte, fileName, layout string) (*model.ParsedTankImport, error)
}

func (m *mockParser) Parse(data []byte, fileName, layout string) (*model.ParsedTankImport, error) {
	return m.parseFunc(data, fileName, layout)
}

type mockStorage struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{saved: make(map[string][]byte)}
}

func (m *mockStorage) Save(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	b, _ := io.ReadAll(data)
	m.saved[key] = b
	return key, nil
}
func (m *mockStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.saved[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
func (m *mockStorage) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.saved, key)
	return nil
}

func (m *mockStorage) Ping(context.Context) error { return nil }

type mockAutoAnalysis struct {
	importCalls []*model.TankHeader
	specCalls   []string
	result      *model.AutoAnalysisResult
}

func (m *mockAutoAnalysis) TriggerForImport(_ context.Context, h *model.TankHeader) *model.AutoAnalysisResult {
	m.importCalls = append(m.importCalls, h)
	return m.resultFor(model.TriggerExcelImport)
}
func (m *mockAutoAnalysis) TriggerForSpecification(_ context.Context, id, trigger string) *model.AutoAnalysisResult {
	m.specCalls = append(m.specCalls, id)
	return m.resultFor(trigger)
}
func (m *mockAutoAnalysis) TriggerBatch(ctx context.Context, ids []string) []*model.AutoAnalysisResult {
	var out []*model.AutoAnalysisResult
	for _, id := range ids {
		out = append(out, m.TriggerForSpecification(ctx, id, model.TriggerManualRequest))
	}
	return out
}
func (m *mockAutoAnalysis) resultFor(trigger string) *model.AutoAnalysisResult {
	if m.result != nil {
		return m.result
	}
	return &model.AutoAnalysisResult{Success: true, TriggerType: trigger, AnalysisID: "analysis-1"}
}

type mockAgentClient struct {
	chatFunc         func(ctx context.Context, message string, c map[string]any) (*agent.ChatResponse, error)
	analyzePriceFunc func(ctx context.Context, formData map[string]any, price float64) (*agent.PriceAnalysisResponse, error)
}

func (m *mockAgentClient) Chat(ctx context.Context, message string, c map[string]any) (*agent.ChatResponse, error) {
	if m.chatFunc != nil {
		return m.chatFunc(ctx, message, c)
	}
	return &agent.ChatResponse{Response: "ok"}, nil
}
func (m *mockAgentClient) AnalyzePrice(ctx context.Context, formData map[string]any, price float64) (*agent.PriceAnalysisResponse, error) {
	if m.analyzePriceFunc != nil {
		return m.analyzePriceFunc(ctx, formData, price)
	}
	return &agent.PriceAnalysisResponse{Analysis: "ok"}, nil
}

func ptr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
