// Package estimate implements the rule-based cost estimation engine:
// geometry → weight → labor hours → cost breakdown.
package estimate

import (
	"math"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

const (
	// SteelDensity は kg/m³
	SteelDensity = 7850.0
	// DefaultThicknessMM は板厚が未指定の仕様に使う
	DefaultThicknessMM = 6.0
	// heatExchangerAreaFactor はチューブ束・バッフル分の面積補正
	heatExchangerAreaFactor = 1.30
)

// Shape はタンクに当てはめる幾何モデル
type Shape string

const (
	ShapeCylinder    Shape = "cylinder"
	ShapeRectangular Shape = "rectangular"
)

// Dimensions は形状計算の入力。長さは mm
type Dimensions struct {
	TankType  string
	Height    float64
	Diameter  float64
	Width     *float64
	Thickness *float64
}

// Geometry はタンクの算出済み形状
type Geometry struct {
	Shape       Shape   `json:"shape"`
	SurfaceArea float64 `json:"surface_area"` // m²
	Volume      float64 `json:"volume"`       // m³
	Weight      float64 `json:"weight"`       // kg
	ThicknessMM float64 `json:"thickness_mm"`
}

// CalculateGeometry は表面積・容積・鋼材重量を求める。
//
// 円筒の面積は胴 π·r·h と鏡板 2 枚の和。過去の帳票はこの式で出しているので
// そのまま再現する
func CalculateGeometry(d Dimensions) Geometry {
	h := d.Height / 1000
	dia := d.Diameter / 1000
	r := dia / 2

	thicknessMM := DefaultThicknessMM
	if d.Thickness != nil && *d.Thickness > 0 {
		thicknessMM = *d.Thickness
	}

	var area, volume float64
	shape := ShapeCylinder
	switch d.TankType {
	case model.TankTypeStorage, model.TankTypePressure:
		area, volume = cylinder(r, h)
	case model.TankTypeHeatExchanger:
		area, volume = cylinder(r, h)
		area *= heatExchangerAreaFactor
	default:
		if d.Width != nil {
			w := *d.Width / 1000
			area = 2 * (h*w + h*dia + w*dia)
			volume = h * w * dia
			shape = ShapeRectangular
		} else {
			area, volume = cylinder(r, h)
		}
	}

	weight := area * (thicknessMM / 1000) * SteelDensity

	return Geometry{
		Shape:       shape,
		SurfaceArea: round2(area),
		Volume:      round2(volume),
		Weight:      math.Round(weight),
		ThicknessMM: thicknessMM,
	}
}

func cylinder(r, h float64) (area, volume float64) {
	lateral := math.Pi * r * h
	caps := 2 * math.Pi * r * r
	return lateral + caps, math.Pi * r * r * h
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
