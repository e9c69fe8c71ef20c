package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
	"github.com/ealtun16/Vespro-sub000/internal/service"
)

// ---------------------------------------------------------------------------
// Mock TankSpecificationService
// ---------------------------------------------------------------------------

type mockTankSpecificationService struct {
	listFunc   func(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error)
	getFunc    func(ctx context.Context, id string) (*model.TankSpecification, error)
	createFunc func(ctx context.Context, spec *model.TankSpecification) (*model.TankSpecification, *model.AutoAnalysisResult, error)
	updateFunc func(ctx context.Context, id string, patch model.TankSpecificationPatch) (*model.TankSpecification, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockTankSpecificationService) List(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}
func (m *mockTankSpecificationService) Get(ctx context.Context, id string) (*model.TankSpecification, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockTankSpecificationService) Create(ctx context.Context, spec *model.TankSpecification) (*model.TankSpecification, *model.AutoAnalysisResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, spec)
	}
	spec.ID = "s1"
	return spec, &model.AutoAnalysisResult{Success: true, TriggerType: model.TriggerManualCreation}, nil
}
func (m *mockTankSpecificationService) Update(ctx context.Context, id string, patch model.TankSpecificationPatch) (*model.TankSpecification, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return &model.TankSpecification{ID: id}, nil
}
func (m *mockTankSpecificationService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// POST /api/tank-specifications
// ---------------------------------------------------------------------------

func TestTankSpecificationHandler_Create(t *testing.T) {
	h := NewTankSpecificationHandler(&mockTankSpecificationService{}, &mockCostAnalysisService{})

	body := `{"id":"client-chosen","name":"T-1","tank_type":"Storage Tank","height":3000,"diameter":2000}`
	req := httptest.NewRequest(http.MethodPost, "/api/tank-specifications", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Specification model.TankSpecification  `json:"specification"`
		Analysis      model.AutoAnalysisResult `json:"analysis"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Specification.ID != "s1" || resp.Specification.Name != "T-1" {
		t.Errorf("unexpected specification: %+v", resp.Specification)
	}
	if !resp.Analysis.Success || resp.Analysis.TriggerType != model.TriggerManualCreation {
		t.Errorf("unexpected analysis: %+v", resp.Analysis)
	}
}

func TestTankSpecificationHandler_Create_ValidationError(t *testing.T) {
	mock := &mockTankSpecificationService{
		createFunc: func(context.Context, *model.TankSpecification) (*model.TankSpecification, *model.AutoAnalysisResult, error) {
			return nil, nil, service.ErrInvalidInput
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/tank-specifications", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	NewTankSpecificationHandler(mock, &mockCostAnalysisService{}).Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET / PATCH / DELETE /api/tank-specifications/{id}
// ---------------------------------------------------------------------------

func TestTankSpecificationHandler_Get_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tank-specifications/x", nil)
	req.SetPathValue("id", "x")
	rec := httptest.NewRecorder()
	NewTankSpecificationHandler(&mockTankSpecificationService{}, &mockCostAnalysisService{}).Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestTankSpecificationHandler_Update(t *testing.T) {
	var gotName string
	mock := &mockTankSpecificationService{
		updateFunc: func(_ context.Context, id string, patch model.TankSpecificationPatch) (*model.TankSpecification, error) {
			if patch.Name != nil {
				gotName = *patch.Name
			}
			return &model.TankSpecification{ID: id, Name: gotName}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPatch, "/api/tank-specifications/s1", strings.NewReader(`{"name":"renamed"}`))
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()
	NewTankSpecificationHandler(mock, &mockCostAnalysisService{}).Update(rec, req)

	if rec.Code != http.StatusOK || gotName != "renamed" {
		t.Errorf("status %d name %q", rec.Code, gotName)
	}
}

func TestTankSpecificationHandler_Delete(t *testing.T) {
	var deleted string
	mock := &mockTankSpecificationService{
		deleteFunc: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/tank-specifications/s1", nil)
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()
	NewTankSpecificationHandler(mock, &mockCostAnalysisService{}).Delete(rec, req)

	if rec.Code != http.StatusOK || deleted != "s1" {
		t.Errorf("status %d deleted %q", rec.Code, deleted)
	}
}

func TestTankSpecificationHandler_Analyses(t *testing.T) {
	analyses := &mockCostAnalysisService{
		listBySpecificationFunc: func(_ context.Context, id string) ([]*model.CostAnalysis, error) {
			return []*model.CostAnalysis{{ID: "a1", SpecificationID: &id}}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/tank-specifications/s1/cost-analyses", nil)
	req.SetPathValue("id", "s1")
	rec := httptest.NewRecorder()
	NewTankSpecificationHandler(&mockTankSpecificationService{}, analyses).Analyses(rec, req)

	var resp struct {
		Analyses []*model.CostAnalysis `json:"analyses"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Analyses) != 1 || *resp.Analyses[0].SpecificationID != "s1" {
		t.Errorf("unexpected analyses: %+v", resp.Analyses)
	}
}
