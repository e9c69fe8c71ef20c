package model

import (
	"math"
	"time"
)

// TankHeader は取り込んだタンク原価フォーム 1 件。(TankCode, PriceDate) が自然キー
type TankHeader struct {
	ID              string     `json:"id"`
	TankCode        string     `json:"tank_code"`
	PriceDate       *time.Time `json:"price_date,omitempty"`
	Diameter        *float64   `json:"diameter,omitempty"`         // mm
	CylinderLength  *float64   `json:"cylinder_length,omitempty"`  // mm
	Circumference   *float64   `json:"circumference,omitempty"`    // mm
	Volume          *float64   `json:"volume,omitempty"`           // m³
	MaterialGrade   string     `json:"material_grade,omitempty"`
	Pressure        *float64   `json:"pressure,omitempty"`         // bar
	Temperature     *float64   `json:"temperature,omitempty"`      // °C
	TotalWeight     *float64   `json:"total_weight,omitempty"`
	SalesPrice      *float64   `json:"sales_price,omitempty"`
	RevisionNo      *int       `json:"revision_no,omitempty"`
	SummaryLabel    string     `json:"summary_label,omitempty"`
	SourceFile      string     `json:"source_file,omitempty"`
	SpecificationID *string    `json:"specification_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ComputeCircumference は Diameter から Circumference を求める (π·d, 小数 2 桁)
func (h *TankHeader) ComputeCircumference() {
	if h.Diameter == nil {
		h.Circumference = nil
		return
	}
	c := math.Round(math.Pi*(*h.Diameter)*100) / 100
	h.Circumference = &c
}

// CostLineItem はタンクフォームの原価項目 1 行
type CostLineItem struct {
	ID              string   `json:"id"`
	TankID          string   `json:"tank_id"`
	GroupNo         *int     `json:"group_no,omitempty"`
	SequenceNo      *int     `json:"sequence_no,omitempty"`
	CostFactor      string   `json:"cost_factor"`
	MaterialQuality string   `json:"material_quality,omitempty"`
	Dimension1      *float64 `json:"dimension_1,omitempty"`
	Dimension2      *float64 `json:"dimension_2,omitempty"`
	Dimension3      *float64 `json:"dimension_3,omitempty"`
	Quantity        *float64 `json:"quantity,omitempty"`
	TotalQuantity   *float64 `json:"total_quantity,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	UnitPrice       *float64 `json:"unit_price,omitempty"`
	TotalPrice      *float64 `json:"total_price,omitempty"` // stored as found in the sheet
	MaterialStatus  string   `json:"material_status,omitempty"`
	InternalLabor   bool     `json:"internal_labor"`
	InternalAmount  *float64 `json:"internal_amount,omitempty"`
	ExternalSupply  bool     `json:"external_supply"`
	ExternalAmount  *float64 `json:"external_amount,omitempty"`
	SortOrder       int      `json:"sort_order"`
}

// LaborItem は固定の工数区分 (工場・梱包・現地)
type LaborItem struct {
	ID         string   `json:"id"`
	TankID     string   `json:"tank_id"`
	Category   string   `json:"category"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	TotalPrice *float64 `json:"total_price,omitempty"`
	SortOrder  int      `json:"sort_order"`
}

// LogisticsItem は運送費・付帯費用
type LogisticsItem struct {
	ID         string   `json:"id"`
	TankID     string   `json:"tank_id"`
	Category   string   `json:"category"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	TotalPrice *float64 `json:"total_price,omitempty"`
	SortOrder  int      `json:"sort_order"`
}

// SummaryParameter はフォーム下部の集計値 (総重量・単位工数・合計金額など)
type SummaryParameter struct {
	ID        string   `json:"id"`
	TankID    string   `json:"tank_id"`
	Name      string   `json:"name"`
	Value     *float64 `json:"value,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	SortOrder int      `json:"sort_order"`
}

// TankChildren は再取り込み時にまとめて置き換える子行の集合
type TankChildren struct {
	Items     []*CostLineItem     `json:"items"`
	Labor     []*LaborItem        `json:"labor"`
	Logistics []*LogisticsItem    `json:"logistics"`
	Summary   []*SummaryParameter `json:"summary"`
}

// TankForm は header と子行の組
type TankForm struct {
	Header *TankHeader `json:"header"`
	TankChildren
}
