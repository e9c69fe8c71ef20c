package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound は key にオブジェクトが無いとき Open が返す
var ErrNotFound = errors.New("storage: object not found")

// Storage は取り込んだスプレッドシート原本の保存・取得・削除を抽象化するインターフェース。
// ローカルファイルシステム実装と MinIO (S3 互換) 実装がある。
type Storage interface {
	// Save はファイルを保存し、保存先の位置 (URL またはパス) を返す。
	// key はストレージ内の一意パス (例: "tank-forms/<code>/<uuid>.xlsx")。
	Save(ctx context.Context, key string, data io.Reader, contentType string) (location string, err error)

	// Open は key の内容を読み出す。呼び出し側が Close する。
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete は key に対応するファイルを削除する。存在しなければ何もしない。
	Delete(ctx context.Context, key string) error

	// Ping は保存先に書き込める状態かを確認する。ヘルスチェック用。
	Ping(ctx context.Context) error
}
