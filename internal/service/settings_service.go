package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ealtun16/Vespro-sub000/internal/model"
	"github.com/ealtun16/Vespro-sub000/internal/repository"
)

// SettingsService はグローバル設定の取得・部分更新を行う
type SettingsService interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, patch model.SettingsPatch) (*model.Settings, error)
}

// SettingsServiceImpl は SettingsService の実装
type SettingsServiceImpl struct {
	repo repository.SettingsRepository
}

// NewSettingsService は SettingsServiceImpl を生成する
func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &SettingsServiceImpl{repo: repo}
}

// Get は設定を返す。未作成ならデフォルト値で作成される
func (s *SettingsServiceImpl) Get(ctx context.Context) (*model.Settings, error) {
	return s.repo.GetOrCreateDefault(ctx, model.GlobalSettingsID)
}

// Update は patch を適用して保存する
func (s *SettingsServiceImpl) Update(ctx context.Context, patch model.SettingsPatch) (*model.Settings, error) {
	current, err := s.repo.GetOrCreateDefault(ctx, model.GlobalSettingsID)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)
	if err := validateSettings(current); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func validateSettings(st *model.Settings) error {
	nonNegative := map[string]float64{
		"material_multiplier": st.MaterialMultiplier,
		"labor_multiplier":    st.LaborMultiplier,
		"overhead_multiplier": st.OverheadMultiplier,
		"steel_price_per_kg":  st.SteelPricePerKg,
		"hourly_labor_rate":   st.HourlyLaborRate,
		"overhead_percentage": st.OverheadPercentage,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
		}
	}
	if st.ConfidenceThreshold < 0 || st.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence_threshold must be between 0 and 1", ErrInvalidInput)
	}
	if strings.TrimSpace(st.Currency) == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}
	for code, rate := range st.ExchangeRates {
		if rate <= 0 {
			return fmt.Errorf("%w: exchange rate for %s must be positive", ErrInvalidInput, code)
		}
	}
	return nil
}
