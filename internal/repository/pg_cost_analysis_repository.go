package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// PgCostAnalysisRepository は CostAnalysisRepository の PostgreSQL 実装
type PgCostAnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewPgCostAnalysisRepository は PgCostAnalysisRepository を生成する
func NewPgCostAnalysisRepository(pool *pgxpool.Pool) *PgCostAnalysisRepository {
	return &PgCostAnalysisRepository{pool: pool}
}

const costAnalysisColumns = `id, report_id, specification_id, material_cost, labor_cost, overhead_cost, total_cost,
	currency, analysis_date, notes, created_at, updated_at`

func scanCostAnalysis(row pgx.Row) (*model.CostAnalysis, error) {
	var a model.CostAnalysis
	err := row.Scan(
		&a.ID, &a.ReportID, &a.SpecificationID, &a.MaterialCost, &a.LaborCost, &a.OverheadCost, &a.TotalCost,
		&a.Currency, &a.AnalysisDate, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create は CostAnalysis を作成する
func (r *PgCostAnalysisRepository) Create(ctx context.Context, a *model.CostAnalysis) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cost_analyses (report_id, specification_id, material_cost, labor_cost, overhead_cost, total_cost,
			currency, analysis_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		a.ReportID, a.SpecificationID, a.MaterialCost, a.LaborCost, a.OverheadCost, a.TotalCost,
		a.Currency, a.AnalysisDate, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return pgError(err)
}

// GetByID は ID で CostAnalysis を取得する
func (r *PgCostAnalysisRepository) GetByID(ctx context.Context, id string) (*model.CostAnalysis, error) {
	a, err := scanCostAnalysis(r.pool.QueryRow(ctx,
		`SELECT `+costAnalysisColumns+` FROM cost_analyses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List は解析日時の新しい順に返す
func (r *PgCostAnalysisRepository) List(ctx context.Context, limit, offset int) ([]*model.CostAnalysis, error) {
	return r.query(ctx,
		`SELECT `+costAnalysisColumns+` FROM cost_analyses ORDER BY analysis_date DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

// ListBySpecification は TankSpecification に紐づく解析を返す
func (r *PgCostAnalysisRepository) ListBySpecification(ctx context.Context, specificationID string) ([]*model.CostAnalysis, error) {
	return r.query(ctx,
		`SELECT `+costAnalysisColumns+` FROM cost_analyses WHERE specification_id = $1 ORDER BY analysis_date DESC`,
		specificationID,
	)
}

func (r *PgCostAnalysisRepository) query(ctx context.Context, sql string, args ...any) ([]*model.CostAnalysis, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.CostAnalysis
	for rows.Next() {
		a, err := scanCostAnalysis(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update は金額・通貨・メモを更新する
func (r *PgCostAnalysisRepository) Update(ctx context.Context, a *model.CostAnalysis) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE cost_analyses SET material_cost=$1, labor_cost=$2, overhead_cost=$3, total_cost=$4,
			currency=$5, notes=$6, updated_at=NOW()
		 WHERE id=$7
		 RETURNING updated_at`,
		a.MaterialCost, a.LaborCost, a.OverheadCost, a.TotalCost, a.Currency, a.Notes, a.ID,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete は CostAnalysis を削除する
func (r *PgCostAnalysisRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cost_analyses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats は件数と合計・平均コスト、最新の解析日時を集計する
func (r *PgCostAnalysisRepository) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var s model.DashboardStats
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM tank_headers),
			(SELECT COUNT(*) FROM tank_specifications),
			COUNT(*),
			COALESCE(SUM(total_cost), 0),
			COALESCE(ROUND(AVG(total_cost), 2), 0),
			MAX(analysis_date)
		 FROM cost_analyses`,
	).Scan(&s.TankForms, &s.Specifications, &s.Analyses, &s.TotalCost, &s.AverageCost, &s.LatestAnalysisAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
