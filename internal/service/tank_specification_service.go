package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
)

// TankSpecificationService は TankSpecification の CRUD を行う。作成時に自動解析を起動する
type TankSpecificationService interface {
	List(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error)
	Get(ctx context.Context, id string) (*model.TankSpecification, error)
	Create(ctx context.Context, spec *model.TankSpecification) (*model.TankSpecification, *model.AutoAnalysisResult, error)
	Update(ctx context.Context, id string, patch model.TankSpecificationPatch) (*model.TankSpecification, error)
	Delete(ctx context.Context, id string) error
}

// TankSpecificationServiceImpl は TankSpecificationService の実装
type TankSpecificationServiceImpl struct {
	repo repository.TankSpecificationRepository
	auto AutoAnalysisService
}

// NewTankSpecificationService は TankSpecificationServiceImpl を生成する
func NewTankSpecificationService(repo repository.TankSpecificationRepository, auto AutoAnalysisService) TankSpecificationService {
	return &TankSpecificationServiceImpl{repo: repo, auto: auto}
}

func (s *TankSpecificationServiceImpl) List(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *TankSpecificationServiceImpl) Get(ctx context.Context, id string) (*model.TankSpecification, error) {
	return s.repo.GetByID(ctx, id)
}

// Create は仕様を保存し、自動解析の結果を合わせて返す。解析の失敗は作成を失敗させない
func (s *TankSpecificationServiceImpl) Create(ctx context.Context, spec *model.TankSpecification) (*model.TankSpecification, *model.AutoAnalysisResult, error) {
	if err := validateSpecification(spec); err != nil {
		return nil, nil, err
	}
	if err := s.repo.Create(ctx, spec); err != nil {
		return nil, nil, err
	}
	result := s.auto.TriggerForSpecification(ctx, spec.ID, model.TriggerManualCreation)
	return spec, result, nil
}

func (s *TankSpecificationServiceImpl) Update(ctx context.Context, id string, patch model.TankSpecificationPatch) (*model.TankSpecification, error) {
	spec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(spec)
	if err := validateSpecification(spec); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *TankSpecificationServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateSpecification(spec *model.TankSpecification) error {
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(spec.TankType) == "" {
		return fmt.Errorf("%w: tank_type is required", ErrInvalidInput)
	}
	dims := map[string]*float64{
		"capacity":  spec.Capacity,
		"height":    spec.Height,
		"diameter":  spec.Diameter,
		"width":     spec.Width,
		"thickness": spec.Thickness,
	}
	for name, v := range dims {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
		}
	}
	return nil
}
