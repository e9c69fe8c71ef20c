package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ealtun16/Vespro-sub000/internal/estimate"
	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// newReportID は人が読める帳票 ID (CA-YYYYMMDD-XXXXXXXX) を返す
func newReportID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CA-%s-%s", now.UTC().Format("20060102"), suffix)
}

// buildAnalysis は settings で spec を見積もり、未保存の CostAnalysis を返す
func buildAnalysis(spec *model.TankSpecification, settings *model.Settings, now time.Time, notes string) (*model.CostAnalysis, estimate.Breakdown) {
	b := estimate.Calculate(spec, estimate.RatesFromSettings(settings))
	a := &model.CostAnalysis{
		ReportID:     newReportID(now),
		MaterialCost: b.MaterialCost,
		LaborCost:    b.LaborCost,
		OverheadCost: b.OverheadCost,
		TotalCost:    b.TotalCost,
		Currency:     b.Currency,
		AnalysisDate: now,
		Notes:        notes,
	}
	if spec.ID != "" {
		id := spec.ID
		a.SpecificationID = &id
	}
	return a, b
}

// inputConfidence は見積入力のうち spec に値がある割合
func inputConfidence(spec *model.TankSpecification) float64 {
	present := 0
	for _, v := range []*float64{spec.Height, spec.Diameter, spec.Pressure, spec.Temperature, spec.Capacity} {
		if v != nil {
			present++
		}
	}
	if strings.TrimSpace(spec.MaterialGrade) != "" {
		present++
	}
	return float64(present) / 6
}
