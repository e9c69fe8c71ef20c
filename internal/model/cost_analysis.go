package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostAnalysis は原価計算結果の永続化レコード
type CostAnalysis struct {
	ID              string          `json:"id"`
	ReportID        string          `json:"report_id"`
	SpecificationID *string         `json:"specification_id,omitempty"`
	MaterialCost    decimal.Decimal `json:"material_cost"`
	LaborCost       decimal.Decimal `json:"labor_cost"`
	OverheadCost    decimal.Decimal `json:"overhead_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Currency        string          `json:"currency"`
	AnalysisDate    time.Time       `json:"analysis_date"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CostAnalysisPatch は更新エンドポイントで変更できるフィールド
type CostAnalysisPatch struct {
	MaterialCost *decimal.Decimal `json:"material_cost"`
	LaborCost    *decimal.Decimal `json:"labor_cost"`
	OverheadCost *decimal.Decimal `json:"overhead_cost"`
	Currency     *string          `json:"currency"`
	Notes        *string          `json:"notes"`
}

// Apply は nil でないフィールドをコピーし TotalCost を再計算する
func (p CostAnalysisPatch) Apply(a *CostAnalysis) {
	if p.MaterialCost != nil {
		a.MaterialCost = *p.MaterialCost
	}
	if p.LaborCost != nil {
		a.LaborCost = *p.LaborCost
	}
	if p.OverheadCost != nil {
		a.OverheadCost = *p.OverheadCost
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	a.TotalCost = a.MaterialCost.Add(a.LaborCost).Add(a.OverheadCost)
}

// 自動解析結果に記録するトリガー種別
const (
	TriggerExcelImport    = "excel_import"
	TriggerManualCreation = "manual_creation"
	TriggerManualRequest  = "manual_request"
)

// AutoAnalysisResult は自動解析 1 回分の結果。失敗も error ではなくここに載せる
type AutoAnalysisResult struct {
	Success       bool    `json:"success"`
	TriggerType   string  `json:"trigger_type"`
	SourceID      string  `json:"source_id,omitempty"`
	AnalysisID    string  `json:"analysis_id,omitempty"`
	ReportID      string  `json:"report_id,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
	LowConfidence bool    `json:"low_confidence,omitempty"`
	Complexity    float64 `json:"complexity,omitempty"`
	WeightKg      float64 `json:"weight_kg,omitempty"`
	LaborHours    float64 `json:"labor_hours,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// DashboardStats はダッシュボードに表示する集計値
type DashboardStats struct {
	TankForms        int             `json:"tank_forms"`
	Specifications   int             `json:"specifications"`
	Analyses         int             `json:"analyses"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	LatestAnalysisAt *time.Time      `json:"latest_analysis_at,omitempty"`
}
