package repository

import (
	"context"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// SettingsRepository はスコープ単位のレート設定を永続化する
type SettingsRepository interface {
	// GetOrCreateDefault は scope の行を返す。無ければ model.DefaultSettings を先に挿入する
	GetOrCreateDefault(ctx context.Context, scope string) (*model.Settings, error)
	Update(ctx context.Context, s *model.Settings) error
}
