package repository

import (
	"context"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// CostAnalysisRepository は CostAnalysis の永続化インターフェース
type CostAnalysisRepository interface {
	Create(ctx context.Context, a *model.CostAnalysis) error
	GetByID(ctx context.Context, id string) (*model.CostAnalysis, error)
	List(ctx context.Context, limit, offset int) ([]*model.CostAnalysis, error)
	ListBySpecification(ctx context.Context, specificationID string) ([]*model.CostAnalysis, error)
	Update(ctx context.Context, a *model.CostAnalysis) error
	Delete(ctx context.Context, id string) error
	// Stats は DashboardStats の解析件数と原価合計を埋める
	Stats(ctx context.Context) (*model.DashboardStats, error)
}
