package estimate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

const (
	// ancillaryMaterialRate はノズル・サポート・継手分としてシェル鋼材に上乗せする率
	ancillaryMaterialRate = 0.20
	// baseHoursPerSquareMetre は複雑度で補正する前の 1 m² あたり工数
	baseHoursPerSquareMetre = 0.8
)

// Rates は計算に使う設定値の部分集合
type Rates struct {
	MaterialMultiplier float64
	LaborMultiplier    float64
	OverheadMultiplier float64
	SteelPricePerKg    float64
	HourlyLaborRate    float64
	OverheadPercentage float64
	Currency           string
}

// RatesFromSettings は設定レコードから Rates を作る
func RatesFromSettings(s *model.Settings) Rates {
	return Rates{
		MaterialMultiplier: s.MaterialMultiplier,
		LaborMultiplier:    s.LaborMultiplier,
		OverheadMultiplier: s.OverheadMultiplier,
		SteelPricePerKg:    s.SteelPricePerKg,
		HourlyLaborRate:    s.HourlyLaborRate,
		OverheadPercentage: s.OverheadPercentage,
		Currency:           s.Currency,
	}
}

// Breakdown は見積 1 回分の結果
type Breakdown struct {
	Geometry        Geometry        `json:"geometry"`
	Complexity      float64         `json:"complexity"`
	GradeMultiplier float64         `json:"grade_multiplier"`
	LaborHours      float64         `json:"labor_hours"`
	MaterialCost    decimal.Decimal `json:"material_cost"`
	LaborCost       decimal.Decimal `json:"labor_cost"`
	OverheadCost    decimal.Decimal `json:"overhead_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Currency        string          `json:"currency"`
}

// MaterialGradeMultiplier は炭素鋼を 1 とした鋼種の価格倍率を返す
func MaterialGradeMultiplier(grade string) float64 {
	g := strings.ToLower(grade)
	switch {
	case strings.Contains(g, "super") && strings.Contains(g, "duplex"):
		return 4.5
	case strings.Contains(g, "duplex"):
		return 3.2
	case strings.Contains(g, "316"):
		return 2.8
	case strings.Contains(g, "304"):
		return 2.2
	default:
		return 1.0
	}
}

// Calculate は仕様に対して形状・複雑度・原価内訳を計算する
func Calculate(spec *model.TankSpecification, rates Rates) Breakdown {
	geo := CalculateGeometry(Dimensions{
		TankType:  spec.TankType,
		Height:    deref(spec.Height),
		Diameter:  deref(spec.Diameter),
		Width:     spec.Width,
		Thickness: spec.Thickness,
	})
	complexity := ComplexityFactor(ComplexityInput{
		TankType:      spec.TankType,
		Pressure:      deref(spec.Pressure),
		Temperature:   spec.Temperature,
		MaterialGrade: spec.MaterialGrade,
		Capacity:      deref(spec.Capacity),
	})
	return CostBreakdown(geo, complexity, spec.MaterialGrade, rates)
}

// CostBreakdown は形状と複雑度から材料費・工賃・間接費を求める
func CostBreakdown(geo Geometry, complexity float64, grade string, rates Rates) Breakdown {
	gradeMult := MaterialGradeMultiplier(grade)

	material := geo.Weight * rates.SteelPricePerKg * gradeMult
	material *= 1 + ancillaryMaterialRate
	material *= rates.MaterialMultiplier

	hours := geo.SurfaceArea * complexity * baseHoursPerSquareMetre
	labor := hours * rates.HourlyLaborRate * rates.LaborMultiplier

	overhead := (material + labor) * (rates.OverheadPercentage / 100) * rates.OverheadMultiplier

	m := money(material)
	l := money(labor)
	o := money(overhead)

	return Breakdown{
		Geometry:        geo,
		Complexity:      complexity,
		GradeMultiplier: gradeMult,
		LaborHours:      round2(hours),
		MaterialCost:    m,
		LaborCost:       l,
		OverheadCost:    o,
		TotalCost:       m.Add(l).Add(o),
		Currency:        rates.Currency,
	}
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
