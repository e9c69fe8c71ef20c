package model

import "time"

// 見積エンジンが扱うタンク種別。それ以外の文字列はフォールバック規則で扱う
const (
	TankTypeStorage       = "Storage Tank"
	TankTypePressure      = "Pressure Vessel"
	TankTypeHeatExchanger = "Heat Exchanger"
)

// TankSpecification は原価エンジンが使う正規化済みのタンク仕様
type TankSpecification struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	TankType      string         `json:"tank_type"`
	Capacity      *float64       `json:"capacity,omitempty"`    // litres
	Height        *float64       `json:"height,omitempty"`      // mm
	Diameter      *float64       `json:"diameter,omitempty"`    // mm
	Width         *float64       `json:"width,omitempty"`       // mm
	Pressure      *float64       `json:"pressure,omitempty"`    // bar
	Temperature   *float64       `json:"temperature,omitempty"` // °C
	Material      string         `json:"material,omitempty"`
	MaterialGrade string         `json:"material_grade,omitempty"`
	Thickness     *float64       `json:"thickness,omitempty"` // mm
	Features      map[string]any `json:"features,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TankSpecificationPatch は仕様の更新可能フィールド
type TankSpecificationPatch struct {
	Name          *string        `json:"name"`
	TankType      *string        `json:"tank_type"`
	Capacity      *float64       `json:"capacity"`
	Height        *float64       `json:"height"`
	Diameter      *float64       `json:"diameter"`
	Width         *float64       `json:"width"`
	Pressure      *float64       `json:"pressure"`
	Temperature   *float64       `json:"temperature"`
	Material      *string        `json:"material"`
	MaterialGrade *string        `json:"material_grade"`
	Thickness     *float64       `json:"thickness"`
	Features      map[string]any `json:"features"`
}

// Apply は p の nil でないフィールドを s にコピーする
func (p TankSpecificationPatch) Apply(s *TankSpecification) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.TankType != nil {
		s.TankType = *p.TankType
	}
	if p.Capacity != nil {
		s.Capacity = p.Capacity
	}
	if p.Height != nil {
		s.Height = p.Height
	}
	if p.Diameter != nil {
		s.Diameter = p.Diameter
	}
	if p.Width != nil {
		s.Width = p.Width
	}
	if p.Pressure != nil {
		s.Pressure = p.Pressure
	}
	if p.Temperature != nil {
		s.Temperature = p.Temperature
	}
	if p.Material != nil {
		s.Material = *p.Material
	}
	if p.MaterialGrade != nil {
		s.MaterialGrade = *p.MaterialGrade
	}
	if p.Thickness != nil {
		s.Thickness = p.Thickness
	}
	if p.Features != nil {
		s.Features = p.Features
	}
}
