package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// PgSettingsRepository は SettingsRepository の PostgreSQL 実装
type PgSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPgSettingsRepository は PgSettingsRepository を生成する
func NewPgSettingsRepository(pool *pgxpool.Pool) *PgSettingsRepository {
	return &PgSettingsRepository{pool: pool}
}

// GetOrCreateDefault は scope の設定行を返す。行が無ければデフォルト値で作成する
func (r *PgSettingsRepository) GetOrCreateDefault(ctx context.Context, scope string) (*model.Settings, error) {
	d := model.DefaultSettings()
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO settings (id, material_multiplier, labor_multiplier, overhead_multiplier, steel_price_per_kg,
			hourly_labor_rate, overhead_percentage, currency, exchange_rates, auto_analysis_enabled, confidence_threshold)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO NOTHING`,
		scope, d.MaterialMultiplier, d.LaborMultiplier, d.OverheadMultiplier, d.SteelPricePerKg,
		d.HourlyLaborRate, d.OverheadPercentage, d.Currency, d.ExchangeRates, d.AutoAnalysisEnabled, d.ConfidenceThreshold,
	); err != nil {
		return nil, err
	}

	var s model.Settings
	err := r.pool.QueryRow(ctx,
		`SELECT id, material_multiplier, labor_multiplier, overhead_multiplier, steel_price_per_kg,
			hourly_labor_rate, overhead_percentage, currency, exchange_rates, auto_analysis_enabled,
			confidence_threshold, updated_at
		 FROM settings WHERE id = $1`,
		scope,
	).Scan(
		&s.ID, &s.MaterialMultiplier, &s.LaborMultiplier, &s.OverheadMultiplier, &s.SteelPricePerKg,
		&s.HourlyLaborRate, &s.OverheadPercentage, &s.Currency, &s.ExchangeRates, &s.AutoAnalysisEnabled,
		&s.ConfidenceThreshold, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update は設定行を上書きする
func (r *PgSettingsRepository) Update(ctx context.Context, s *model.Settings) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE settings SET material_multiplier=$1, labor_multiplier=$2, overhead_multiplier=$3,
			steel_price_per_kg=$4, hourly_labor_rate=$5, overhead_percentage=$6, currency=$7,
			exchange_rates=$8, auto_analysis_enabled=$9, confidence_threshold=$10, updated_at=NOW()
		 WHERE id=$11
		 RETURNING updated_at`,
		s.MaterialMultiplier, s.LaborMultiplier, s.OverheadMultiplier,
		s.SteelPricePerKg, s.HourlyLaborRate, s.OverheadPercentage, s.Currency,
		s.ExchangeRates, s.AutoAnalysisEnabled, s.ConfidenceThreshold, s.ID,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
