package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
	"github.com/ealtun16/Vespro-sub000/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookParser はスプレッドシートのバイト列を取り込み結果に変換する
type WorkbookParser interface {
	Parse(data []byte, fileName, layout string) (*model.ParsedTankImport, error)
}

// UploadedFile は取り込みエンドポイントで受け取った 1 ファイル
type UploadedFile struct {
	Name string
	Data []byte
}

// ImportOptions は 1 回の取り込みの指定
type ImportOptions struct {
	Layout string // fixed, generic or auto (default)
}

// ImportService は Excel 取り込みのユースケース
type ImportService interface {
	ImportFile(ctx context.Context, file UploadedFile, opts ImportOptions) (*model.FileImportResult, error)
	ImportFiles(ctx context.Context, files []UploadedFile, opts ImportOptions) *model.BatchImportResult
}

// ImportServiceImpl は ImportService の実装
type ImportServiceImpl struct {
	parser WorkbookParser
	forms  repository.TankFormRepository
	specs  repository.TankSpecificationRepository
	store  storage.Storage
	auto   AutoAnalysisService
}

// NewImportService は ImportServiceImpl を生成する。store が nil なら元ファイルは保存しない
func NewImportService(
	parser WorkbookParser,
	forms repository.TankFormRepository,
	specs repository.TankSpecificationRepository,
	store storage.Storage,
	auto AutoAnalysisService,
) *ImportServiceImpl {
	return &ImportServiceImpl{parser: parser, forms: forms, specs: specs, store: store, auto: auto}
}

// ImportFile は 1 ファイルを解析・保存・upsert し、自動解析を起動する。
// 解析と永続化の失敗は error で返し、自動解析の失敗は結果に載せるだけ
func (s *ImportServiceImpl) ImportFile(ctx context.Context, file UploadedFile, opts ImportOptions) (*model.FileImportResult, error) {
	parsed, err := s.parser.Parse(file.Data, file.Name, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Name, err)
	}
	h := parsed.Header

	var key string
	if s.store != nil {
		key = sourceKey(h.TankCode, file.Name)
		if _, err := s.store.Save(ctx, key, bytes.NewReader(file.Data), xlsxContentType); err != nil {
			return nil, fmt.Errorf("store %s: %w", file.Name, err)
		}
		h.SourceFile = key
	} else {
		h.SourceFile = file.Name
	}

	previous, err := s.forms.GetByKey(ctx, h.TankCode, h.PriceDate)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.discard(ctx, key)
		return nil, err
	}

	form := &model.TankForm{Header: h, TankChildren: parsed.TankChildren}
	if err := s.forms.Upsert(ctx, form); err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("save %s: %w", file.Name, err)
	}
	if previous != nil && previous.SourceFile != key && s.store != nil {
		s.discard(ctx, previous.SourceFile)
	}

	result := &model.FileImportResult{
		FileName: file.Name,
		Success:  true,
		Layout:   parsed.Layout,
		TankID:   h.ID,
		TankCode: h.TankCode,
		Items:    len(parsed.Items),
		Skipped:  parsed.Skipped,
	}
	slog.Info("tank form imported",
		"file", file.Name,
		"tank_code", h.TankCode,
		"layout", parsed.Layout,
		"items", len(parsed.Items),
		"skipped", parsed.Skipped,
	)

	if err := s.syncSpecification(ctx, h); err != nil {
		slog.Warn("specification sync failed", "tank_code", h.TankCode, "error", err)
		result.Analysis = &model.AutoAnalysisResult{
			TriggerType: model.TriggerExcelImport,
			SourceID:    h.ID,
			Error:       "specification sync failed: " + err.Error(),
		}
		return result, nil
	}
	result.Analysis = s.auto.TriggerForImport(ctx, h)
	return result, nil
}

// ImportFiles は各ファイルを独立に取り込む。1 件の失敗でバッチ全体は失敗しない
func (s *ImportServiceImpl) ImportFiles(ctx context.Context, files []UploadedFile, opts ImportOptions) *model.BatchImportResult {
	out := &model.BatchImportResult{Results: make([]*model.FileImportResult, 0, len(files))}
	for _, f := range files {
		res, err := s.ImportFile(ctx, f, opts)
		if err != nil {
			slog.Warn("tank form import failed", "file", f.Name, "error", err)
			res = &model.FileImportResult{FileName: f.Name, Error: err.Error()}
			out.Failed++
		} else {
			out.Succeeded++
		}
		out.Results = append(out.Results, res)
	}
	return out
}

// syncSpecification は h から導いた仕様を作成または更新して紐付ける
func (s *ImportServiceImpl) syncSpecification(ctx context.Context, h *model.TankHeader) error {
	derived := specFromHeader(h)

	if h.SpecificationID != nil {
		existing, err := s.specs.GetByID(ctx, *h.SpecificationID)
		switch {
		case err == nil:
			refreshFrom(existing, derived)
			return s.specs.Update(ctx, existing)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}

	if err := s.specs.Create(ctx, derived); err != nil {
		return err
	}
	if err := s.forms.LinkSpecification(ctx, h.ID, derived.ID); err != nil {
		return err
	}
	h.SpecificationID = &derived.ID
	return nil
}

func (s *ImportServiceImpl) discard(ctx context.Context, key string) {
	if s.store == nil || key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		slog.Warn("stored source cleanup failed", "key", key, "error", err)
	}
}

// sourceKey はアップロード元ファイルのストレージキーを作る
func sourceKey(tankCode, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".xlsx"
	}
	return fmt.Sprintf("tank-forms/%s/%s%s", safeSegment(tankCode), uuid.NewString(), ext)
}

func safeSegment(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
