package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound は対象レコードが存在しないときに返す
	ErrNotFound = errors.New("not found")
	// ErrConflict は一意制約に反する書き込みで返す
	ErrConflict = errors.New("conflict")
)

// PostgreSQL の SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgError は制約違反をリポジトリのエラーに変換する。
// 外部キー違反は参照先が無いことを意味するので ErrNotFound にする
func pgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrConflict
	case pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}
