package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// PgTankSpecificationRepository は TankSpecificationRepository の PostgreSQL 実装
type PgTankSpecificationRepository struct {
	pool *pgxpool.Pool
}

// NewPgTankSpecificationRepository は PgTankSpecificationRepository を生成する
func NewPgTankSpecificationRepository(pool *pgxpool.Pool) *PgTankSpecificationRepository {
	return &PgTankSpecificationRepository{pool: pool}
}

const tankSpecColumns = `id, name, tank_type, capacity, height, diameter, width, pressure, temperature,
	material, material_grade, thickness, features, created_at, updated_at`

func scanTankSpec(row pgx.Row) (*model.TankSpecification, error) {
	var s model.TankSpecification
	err := row.Scan(
		&s.ID, &s.Name, &s.TankType, &s.Capacity, &s.Height, &s.Diameter, &s.Width, &s.Pressure, &s.Temperature,
		&s.Material, &s.MaterialGrade, &s.Thickness, &s.Features, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create は TankSpecification を作成する
func (r *PgTankSpecificationRepository) Create(ctx context.Context, s *model.TankSpecification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tank_specifications (name, tank_type, capacity, height, diameter, width, pressure, temperature,
			material, material_grade, thickness, features)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.TankType, s.Capacity, s.Height, s.Diameter, s.Width, s.Pressure, s.Temperature,
		s.Material, s.MaterialGrade, s.Thickness, featuresOrEmpty(s.Features),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID は ID で TankSpecification を取得する
func (r *PgTankSpecificationRepository) GetByID(ctx context.Context, id string) (*model.TankSpecification, error) {
	s, err := scanTankSpec(r.pool.QueryRow(ctx,
		`SELECT `+tankSpecColumns+` FROM tank_specifications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List は作成日時の新しい順に返す
func (r *PgTankSpecificationRepository) List(ctx context.Context, limit, offset int) ([]*model.TankSpecification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tankSpecColumns+` FROM tank_specifications ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []*model.TankSpecification
	for rows.Next() {
		s, err := scanTankSpec(rows)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, rows.Err()
}

// Update は全フィールドを上書きする
func (r *PgTankSpecificationRepository) Update(ctx context.Context, s *model.TankSpecification) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE tank_specifications SET name=$1, tank_type=$2, capacity=$3, height=$4, diameter=$5, width=$6,
			pressure=$7, temperature=$8, material=$9, material_grade=$10, thickness=$11, features=$12, updated_at=NOW()
		 WHERE id=$13
		 RETURNING updated_at`,
		s.Name, s.TankType, s.Capacity, s.Height, s.Diameter, s.Width,
		s.Pressure, s.Temperature, s.Material, s.MaterialGrade, s.Thickness, featuresOrEmpty(s.Features), s.ID,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete は TankSpecification を削除する。参照している解析の specification_id は NULL になる
func (r *PgTankSpecificationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tank_specifications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count は件数を返す
func (r *PgTankSpecificationRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tank_specifications`).Scan(&n)
	return n, err
}

func featuresOrEmpty(f map[string]any) map[string]any {
	if f == nil {
		return map[string]any{}
	}
	return f
}
