package service

import (
	"context"
	"io"
	"log/slog"
	"path"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
	"github.com/ealtun16/Vespro-sub000/internal/storage"
)

// TankFormService は取り込み済みタンクフォームの参照・削除を行う
type TankFormService interface {
	List(ctx context.Context, limit, offset int) (headers []*model.TankHeader, total int, err error)
	Get(ctx context.Context, id string) (*model.TankForm, error)
	// Delete はフォームを子行・保存済み元ファイルごと削除する
	Delete(ctx context.Context, id string) error
	// OpenSource はアップロード元のスプレッドシートを返す
	OpenSource(ctx context.Context, id string) (rc io.ReadCloser, fileName string, err error)
}

// TankFormServiceImpl は TankFormService の実装
type TankFormServiceImpl struct {
	repo  repository.TankFormRepository
	store storage.Storage
}

// NewTankFormService は TankFormServiceImpl を生成する
func NewTankFormService(repo repository.TankFormRepository, store storage.Storage) TankFormService {
	return &TankFormServiceImpl{repo: repo, store: store}
}

func (s *TankFormServiceImpl) List(ctx context.Context, limit, offset int) ([]*model.TankHeader, int, error) {
	headers, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return headers, total, nil
}

func (s *TankFormServiceImpl) Get(ctx context.Context, id string) (*model.TankForm, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TankFormServiceImpl) Delete(ctx context.Context, id string) error {
	form, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.store != nil && form.Header.SourceFile != "" {
		if err := s.store.Delete(ctx, form.Header.SourceFile); err != nil {
			slog.Warn("stored source cleanup failed", "tank_id", id, "key", form.Header.SourceFile, "error", err)
		}
	}
	return nil
}

func (s *TankFormServiceImpl) OpenSource(ctx context.Context, id string) (io.ReadCloser, string, error) {
	form, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if s.store == nil || form.Header.SourceFile == "" {
		return nil, "", storage.ErrNotFound
	}
	rc, err := s.store.Open(ctx, form.Header.SourceFile)
	if err != nil {
		return nil, "", err
	}
	return rc, form.Header.TankCode + path.Ext(form.Header.SourceFile), nil
}
