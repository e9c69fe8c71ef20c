package estimate

import (
	"strings"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// ComplexityInput は ComplexityFactor が評価するリスク要素
type ComplexityInput struct {
	TankType      string
	Pressure      float64 // bar
	Temperature   *float64
	MaterialGrade string
	Capacity      float64
}

// ComplexityFactor は独立したリスク倍率の積を返す。
// 各倍率は条件を満たさなければ 1.0 で、条件同士は掛け合わさる
func ComplexityFactor(in ComplexityInput) float64 {
	factor := 1.0

	switch in.TankType {
	case model.TankTypeStorage:
	case model.TankTypePressure:
		factor *= 1.4
	case model.TankTypeHeatExchanger:
		factor *= 1.8
	default:
		factor *= 1.2
	}

	switch {
	case in.Pressure > 10:
		factor *= 1.3
	case in.Pressure > 0:
		factor *= 1.1
	}

	if in.Temperature != nil {
		delta := *in.Temperature - 20
		if delta < 0 {
			delta = -delta
		}
		switch {
		case delta > 100:
			factor *= 1.2
		case delta > 50:
			factor *= 1.1
		}
	}

	if isExoticGrade(in.MaterialGrade) {
		factor *= 1.3
	}

	switch {
	case in.Capacity > 50000:
		factor *= 1.4
	case in.Capacity > 10000:
		factor *= 1.2
	}

	return round2(factor)
}

func isExoticGrade(grade string) bool {
	g := strings.ToLower(grade)
	return strings.Contains(g, "duplex") || strings.Contains(g, "super") || strings.Contains(g, "316")
}
