package model

import "time"

// GlobalSettingsID は単一の設定行のスコープキー
const GlobalSettingsID = "global"

// Settings は原価計算に使うレートパラメータ
type Settings struct {
	ID                  string             `json:"id"`
	MaterialMultiplier  float64            `json:"material_multiplier"`
	LaborMultiplier     float64            `json:"labor_multiplier"`
	OverheadMultiplier  float64            `json:"overhead_multiplier"`
	SteelPricePerKg     float64            `json:"steel_price_per_kg"`
	HourlyLaborRate     float64            `json:"hourly_labor_rate"`
	OverheadPercentage  float64            `json:"overhead_percentage"`
	Currency            string             `json:"currency"`
	ExchangeRates       map[string]float64 `json:"exchange_rates"`
	AutoAnalysisEnabled bool               `json:"auto_analysis_enabled"`
	ConfidenceThreshold float64            `json:"confidence_threshold"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// DefaultSettings は設定行がまだ無いときの既定値を返す
func DefaultSettings() *Settings {
	return &Settings{
		ID:                  GlobalSettingsID,
		MaterialMultiplier:  1.0,
		LaborMultiplier:     1.0,
		OverheadMultiplier:  1.0,
		SteelPricePerKg:     1.20,
		HourlyLaborRate:     45,
		OverheadPercentage:  15,
		Currency:            "USD",
		ExchangeRates:       map[string]float64{"USD": 1, "EUR": 0.92, "TRY": 34.0},
		AutoAnalysisEnabled: true,
		ConfidenceThreshold: 0.6,
	}
}

// SettingsPatch は設定行で更新できるフィールド
type SettingsPatch struct {
	MaterialMultiplier  *float64           `json:"material_multiplier"`
	LaborMultiplier     *float64           `json:"labor_multiplier"`
	OverheadMultiplier  *float64           `json:"overhead_multiplier"`
	SteelPricePerKg     *float64           `json:"steel_price_per_kg"`
	HourlyLaborRate     *float64           `json:"hourly_labor_rate"`
	OverheadPercentage  *float64           `json:"overhead_percentage"`
	Currency            *string            `json:"currency"`
	ExchangeRates       map[string]float64 `json:"exchange_rates"`
	AutoAnalysisEnabled *bool              `json:"auto_analysis_enabled"`
	ConfidenceThreshold *float64           `json:"confidence_threshold"`
}

// Apply は p の nil でないフィールドを s にコピーする。為替レートはキー単位でマージする
func (p SettingsPatch) Apply(s *Settings) {
	if p.MaterialMultiplier != nil {
		s.MaterialMultiplier = *p.MaterialMultiplier
	}
	if p.LaborMultiplier != nil {
		s.LaborMultiplier = *p.LaborMultiplier
	}
	if p.OverheadMultiplier != nil {
		s.OverheadMultiplier = *p.OverheadMultiplier
	}
	if p.SteelPricePerKg != nil {
		s.SteelPricePerKg = *p.SteelPricePerKg
	}
	if p.HourlyLaborRate != nil {
		s.HourlyLaborRate = *p.HourlyLaborRate
	}
	if p.OverheadPercentage != nil {
		s.OverheadPercentage = *p.OverheadPercentage
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if len(p.ExchangeRates) > 0 {
		if s.ExchangeRates == nil {
			s.ExchangeRates = make(map[string]float64, len(p.ExchangeRates))
		}
		for k, v := range p.ExchangeRates {
			s.ExchangeRates[k] = v
		}
	}
	if p.AutoAnalysisEnabled != nil {
		s.AutoAnalysisEnabled = *p.AutoAnalysisEnabled
	}
	if p.ConfidenceThreshold != nil {
		s.ConfidenceThreshold = *p.ConfidenceThreshold
	}
}
