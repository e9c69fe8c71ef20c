package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// PgTankFormRepository は TankFormRepository の PostgreSQL 実装
type PgTankFormRepository struct {
	pool *pgxpool.Pool
}

// NewPgTankFormRepository は PgTankFormRepository を生成する
func NewPgTankFormRepository(pool *pgxpool.Pool) *PgTankFormRepository {
	return &PgTankFormRepository{pool: pool}
}

const tankHeaderColumns = `id, tank_code, price_date, diameter, cylinder_length, circumference, volume,
	material_grade, pressure, temperature, total_weight, sales_price, revision_no,
	summary_label, source_file, specification_id, created_at, updated_at`

func scanTankHeader(row pgx.Row) (*model.TankHeader, error) {
	var h model.TankHeader
	err := row.Scan(
		&h.ID, &h.TankCode, &h.PriceDate, &h.Diameter, &h.CylinderLength, &h.Circumference, &h.Volume,
		&h.MaterialGrade, &h.Pressure, &h.Temperature, &h.TotalWeight, &h.SalesPrice, &h.RevisionNo,
		&h.SummaryLabel, &h.SourceFile, &h.SpecificationID, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Upsert は (tank_code, price_date) で header を upsert し、子行を同一トランザクションで置き換える
func (r *PgTankFormRepository) Upsert(ctx context.Context, form *model.TankForm) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	h := form.Header
	if err := tx.QueryRow(ctx,
		`INSERT INTO tank_headers (tank_code, price_date, diameter, cylinder_length, circumference, volume,
			material_grade, pressure, temperature, total_weight, sales_price, revision_no, summary_label, source_file)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (tank_code, price_date) DO UPDATE SET
			diameter = EXCLUDED.diameter,
			cylinder_length = EXCLUDED.cylinder_length,
			circumference = EXCLUDED.circumference,
			volume = EXCLUDED.volume,
			material_grade = EXCLUDED.material_grade,
			pressure = EXCLUDED.pressure,
			temperature = EXCLUDED.temperature,
			total_weight = EXCLUDED.total_weight,
			sales_price = EXCLUDED.sales_price,
			revision_no = EXCLUDED.revision_no,
			summary_label = EXCLUDED.summary_label,
			source_file = EXCLUDED.source_file,
			updated_at = NOW()
		 RETURNING id, specification_id, created_at, updated_at`,
		h.TankCode, h.PriceDate, h.Diameter, h.CylinderLength, h.Circumference, h.Volume,
		h.MaterialGrade, h.Pressure, h.Temperature, h.TotalWeight, h.SalesPrice, h.RevisionNo,
		h.SummaryLabel, h.SourceFile,
	).Scan(&h.ID, &h.SpecificationID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return err
	}

	if err := replaceChildren(ctx, tx, h.ID, &form.TankChildren); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceChildren は tankID の子行をすべて削除して children を挿入する
func (r *PgTankFormRepository) ReplaceChildren(ctx context.Context, tankID string, children *model.TankChildren) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tank_headers WHERE id=$1)`, tankID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if err := replaceChildren(ctx, tx, tankID, children); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceChildren(ctx context.Context, tx pgx.Tx, tankID string, c *model.TankChildren) error {
	for _, table := range []string{"cost_line_items", "labor_items", "logistics_items", "summary_parameters"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE tank_id=$1`, tankID); err != nil {
			return err
		}
	}

	batch := &pgx.Batch{}
	for i, it := range c.Items {
		it.TankID = tankID
		it.SortOrder = i
		batch.Queue(
			`INSERT INTO cost_line_items (tank_id, group_no, sequence_no, cost_factor, material_quality,
				dimension_1, dimension_2, dimension_3, quantity, total_quantity, unit, unit_price, total_price,
				material_status, internal_labor, internal_amount, external_supply, external_amount, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			 ON CONFLICT (tank_id, group_no, sequence_no, cost_factor) DO UPDATE SET
				material_quality = EXCLUDED.material_quality,
				dimension_1 = EXCLUDED.dimension_1,
				dimension_2 = EXCLUDED.dimension_2,
				dimension_3 = EXCLUDED.dimension_3,
				quantity = EXCLUDED.quantity,
				total_quantity = EXCLUDED.total_quantity,
				unit = EXCLUDED.unit,
				unit_price = EXCLUDED.unit_price,
				total_price = EXCLUDED.total_price,
				material_status = EXCLUDED.material_status,
				internal_labor = EXCLUDED.internal_labor,
				internal_amount = EXCLUDED.internal_amount,
				external_supply = EXCLUDED.external_supply,
				external_amount = EXCLUDED.external_amount,
				sort_order = EXCLUDED.sort_order
			 RETURNING id`,
			tankID, it.GroupNo, it.SequenceNo, it.CostFactor, it.MaterialQuality,
			it.Dimension1, it.Dimension2, it.Dimension3, it.Quantity, it.TotalQuantity, it.Unit, it.UnitPrice, it.TotalPrice,
			it.MaterialStatus, it.InternalLabor, it.InternalAmount, it.ExternalSupply, it.ExternalAmount, i,
		).QueryRow(func(row pgx.Row) error { return row.Scan(&it.ID) })
	}
	for i, l := range c.Labor {
		l.TankID = tankID
		l.SortOrder = i
		batch.Queue(
			`INSERT INTO labor_items (tank_id, category, quantity, unit, unit_price, total_price, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			tankID, l.Category, l.Quantity, l.Unit, l.UnitPrice, l.TotalPrice, i,
		).QueryRow(func(row pgx.Row) error { return row.Scan(&l.ID) })
	}
	for i, l := range c.Logistics {
		l.TankID = tankID
		l.SortOrder = i
		batch.Queue(
			`INSERT INTO logistics_items (tank_id, category, quantity, unit, unit_price, total_price, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			tankID, l.Category, l.Quantity, l.Unit, l.UnitPrice, l.TotalPrice, i,
		).QueryRow(func(row pgx.Row) error { return row.Scan(&l.ID) })
	}
	for i, p := range c.Summary {
		p.TankID = tankID
		p.SortOrder = i
		batch.Queue(
			`INSERT INTO summary_parameters (tank_id, name, value, unit, sort_order)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			tankID, p.Name, p.Value, p.Unit, i,
		).QueryRow(func(row pgx.Row) error { return row.Scan(&p.ID) })
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

// GetByID は header と全子行を返す
func (r *PgTankFormRepository) GetByID(ctx context.Context, id string) (*model.TankForm, error) {
	h, err := scanTankHeader(r.pool.QueryRow(ctx,
		`SELECT `+tankHeaderColumns+` FROM tank_headers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	form := &model.TankForm{Header: h}
	if form.Items, err = r.listItems(ctx, id); err != nil {
		return nil, err
	}
	if form.Labor, err = r.listLabor(ctx, `labor_items`, id); err != nil {
		return nil, err
	}
	logistics, err := r.listLabor(ctx, `logistics_items`, id)
	if err != nil {
		return nil, err
	}
	for _, l := range logistics {
		form.Logistics = append(form.Logistics, (*model.LogisticsItem)(l))
	}
	if form.Summary, err = r.listSummary(ctx, id); err != nil {
		return nil, err
	}
	return form, nil
}

func (r *PgTankFormRepository) listItems(ctx context.Context, tankID string) ([]*model.CostLineItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tank_id, group_no, sequence_no, cost_factor, material_quality,
			dimension_1, dimension_2, dimension_3, quantity, total_quantity, unit, unit_price, total_price,
			material_status, internal_labor, internal_amount, external_supply, external_amount, sort_order
		 FROM cost_line_items WHERE tank_id = $1 ORDER BY sort_order`,
		tankID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.CostLineItem
	for rows.Next() {
		var it model.CostLineItem
		if err := rows.Scan(
			&it.ID, &it.TankID, &it.GroupNo, &it.SequenceNo, &it.CostFactor, &it.MaterialQuality,
			&it.Dimension1, &it.Dimension2, &it.Dimension3, &it.Quantity, &it.TotalQuantity, &it.Unit, &it.UnitPrice, &it.TotalPrice,
			&it.MaterialStatus, &it.InternalLabor, &it.InternalAmount, &it.ExternalSupply, &it.ExternalAmount, &it.SortOrder,
		); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// listLabor は labor_items / logistics_items を読む (同じ列構成)
func (r *PgTankFormRepository) listLabor(ctx context.Context, table, tankID string) ([]*model.LaborItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tank_id, category, quantity, unit, unit_price, total_price, sort_order
		 FROM `+table+` WHERE tank_id = $1 ORDER BY sort_order`,
		tankID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.LaborItem
	for rows.Next() {
		var l model.LaborItem
		if err := rows.Scan(&l.ID, &l.TankID, &l.Category, &l.Quantity, &l.Unit, &l.UnitPrice, &l.TotalPrice, &l.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, &l)
	}
	return items, rows.Err()
}

func (r *PgTankFormRepository) listSummary(ctx context.Context, tankID string) ([]*model.SummaryParameter, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tank_id, name, value, unit, sort_order
		 FROM summary_parameters WHERE tank_id = $1 ORDER BY sort_order`,
		tankID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []*model.SummaryParameter
	for rows.Next() {
		var p model.SummaryParameter
		if err := rows.Scan(&p.ID, &p.TankID, &p.Name, &p.Value, &p.Unit, &p.SortOrder); err != nil {
			return nil, err
		}
		params = append(params, &p)
	}
	return params, rows.Err()
}

// GetByKey は自然キー (tank_code, price_date) で header を取得する
func (r *PgTankFormRepository) GetByKey(ctx context.Context, tankCode string, priceDate *time.Time) (*model.TankHeader, error) {
	h, err := scanTankHeader(r.pool.QueryRow(ctx,
		`SELECT `+tankHeaderColumns+` FROM tank_headers
		 WHERE tank_code = $1 AND price_date IS NOT DISTINCT FROM $2`,
		tankCode, priceDate,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// List は更新日時の新しい順に header を返す
func (r *PgTankFormRepository) List(ctx context.Context, limit, offset int) ([]*model.TankHeader, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tankHeaderColumns+` FROM tank_headers
		 ORDER BY updated_at DESC, tank_code LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headers []*model.TankHeader
	for rows.Next() {
		h, err := scanTankHeader(rows)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, rows.Err()
}

// Count は header の件数を返す
func (r *PgTankFormRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tank_headers`).Scan(&n)
	return n, err
}

// Delete は header を削除する（子行は CASCADE）
func (r *PgTankFormRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tank_headers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkSpecification は header に TankSpecification を紐付ける
func (r *PgTankFormRepository) LinkSpecification(ctx context.Context, tankID, specificationID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tank_headers SET specification_id=$1, updated_at=NOW() WHERE id=$2`,
		specificationID, tankID,
	)
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
