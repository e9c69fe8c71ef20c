package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

func TestSettingsUpdate_AppliesPatch(t *testing.T) {
	var saved *model.Settings
	repo := &mockSettingsRepository{
		updateFunc: func(_ context.Context, s *model.Settings) error {
			saved = s
			return nil
		},
	}
	svc := NewSettingsService(repo)

	rate := 50.0
	disabled := false
	got, err := svc.Update(context.Background(), model.SettingsPatch{
		HourlyLaborRate:     &rate,
		AutoAnalysisEnabled: &disabled,
		ExchangeRates:       map[string]float64{"EUR": 0.95},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != got {
		t.Error("patched settings were not persisted")
	}
	if got.HourlyLaborRate != 50 || got.AutoAnalysisEnabled {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.ExchangeRates["EUR"] != 0.95 || got.ExchangeRates["TRY"] != 34 {
		t.Errorf("exchange rates not merged: %v", got.ExchangeRates)
	}
	if got.SteelPricePerKg != 1.20 {
		t.Errorf("untouched field changed: %v", got.SteelPricePerKg)
	}
}

func TestSettingsUpdate_Validation(t *testing.T) {
	neg := -1.0
	tooHigh := 1.5
	empty := ""
	tests := []struct {
		name  string
		patch model.SettingsPatch
	}{
		{"negative rate", model.SettingsPatch{HourlyLaborRate: &neg}},
		{"negative multiplier", model.SettingsPatch{MaterialMultiplier: &neg}},
		{"threshold above one", model.SettingsPatch{ConfidenceThreshold: &tooHigh}},
		{"empty currency", model.SettingsPatch{Currency: &empty}},
		{"zero exchange rate", model.SettingsPatch{ExchangeRates: map[string]float64{"GBP": 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSettingsRepository{
				updateFunc: func(context.Context, *model.Settings) error {
					t.Error("invalid settings must not be saved")
					return nil
				},
			}
			_, err := NewSettingsService(repo).Update(context.Background(), tt.patch)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSettingsGet_UsesGlobalScope(t *testing.T) {
	repo := &mockSettingsRepository{
		getOrCreateDefaultFunc: func(_ context.Context, scope string) (*model.Settings, error) {
			if scope != model.GlobalSettingsID {
				t.Errorf("scope: got %q", scope)
			}
			return model.DefaultSettings(), nil
		},
	}
	s, err := NewSettingsService(repo).Get(context.Background())
	if err != nil || s.Currency != "USD" {
		t.Errorf("unexpected result: %+v, %v", s, err)
	}
}
