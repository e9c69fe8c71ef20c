package repository

import (
	"context"
	"time"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// TankFormRepository は取り込んだタンクフォームを永続化する。
// header は (tank code, price date) で一意、子行はそれにぶら下がる
type TankFormRepository interface {
	// Upsert は自然キーで header を挿入または上書きし、子行を同一トランザクションで置き換える。
	// 戻り時に form.Header.ID がセットされる
	Upsert(ctx context.Context, form *model.TankForm) error
	// ReplaceChildren は tankID の子行をすべて原子的に入れ替える
	ReplaceChildren(ctx context.Context, tankID string, children *model.TankChildren) error
	GetByID(ctx context.Context, id string) (*model.TankForm, error)
	GetByKey(ctx context.Context, tankCode string, priceDate *time.Time) (*model.TankHeader, error)
	List(ctx context.Context, limit, offset int) ([]*model.TankHeader, error)
	Count(ctx context.Context) (int, error)
	// Delete は header を削除する。子行は ON DELETE CASCADE で消える
	Delete(ctx context.Context, id string) error
	LinkSpecification(ctx context.Context, tankID, specificationID string) error
}
