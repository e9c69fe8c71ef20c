package repository

import (
	"context"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// TankSpecificationRepository は TankSpecification の永続化インターフェース
type TankSpecificationRepository interface {
	Create(ctx context.Context, spec *model.TankSpecification) error
	GetByID(ctx context.Context, id string) (*model.TankSpecification, error)
	List(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error)
	Update(ctx context.Context, spec *model.TankSpecification) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
