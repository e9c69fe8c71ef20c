package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ealtun16/Vespro-sub000/internal/estimate"
	"github.com/ealtun16/Vespro-sub000/internal/model"
)

const reportSheet = "Cost Analysis"

// renderAnalysisWorkbook は a と、分かれば元の仕様・形状を 2 列の帳票に書き出す
func renderAnalysisWorkbook(a *model.CostAnalysis, spec *model.TankSpecification) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	labelStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00

	row := 1
	put := func(label string, value any, style int) {
		labelCell := fmt.Sprintf("A%d", row)
		valueCell := fmt.Sprintf("B%d", row)
		_ = f.SetCellValue(reportSheet, labelCell, label)
		_ = f.SetCellStyle(reportSheet, labelCell, labelCell, labelStyle)
		_ = f.SetCellValue(reportSheet, valueCell, value)
		if style != 0 {
			_ = f.SetCellStyle(reportSheet, valueCell, valueCell, style)
		}
		row++
	}

	put("Report ID", a.ReportID, 0)
	put("Analysis Date", a.AnalysisDate.Format("2006-01-02 15:04"), 0)
	put("Currency", a.Currency, 0)
	put("Material Cost", a.MaterialCost.InexactFloat64(), moneyStyle)
	put("Labor Cost", a.LaborCost.InexactFloat64(), moneyStyle)
	put("Overhead Cost", a.OverheadCost.InexactFloat64(), moneyStyle)
	put("Total Cost", a.TotalCost.InexactFloat64(), moneyStyle)
	put("Notes", a.Notes, 0)

	if spec != nil {
		row++
		put("Specification", spec.Name, 0)
		put("Tank Type", spec.TankType, 0)
		put("Material Grade", spec.MaterialGrade, 0)
		for _, d := range []struct {
			label string
			v     *float64
		}{
			{"Height (mm)", spec.Height},
			{"Diameter (mm)", spec.Diameter},
			{"Width (mm)", spec.Width},
			{"Capacity (L)", spec.Capacity},
			{"Pressure (bar)", spec.Pressure},
			{"Temperature (°C)", spec.Temperature},
		} {
			if d.v != nil {
				put(d.label, *d.v, 0)
			}
		}

		geo := estimate.CalculateGeometry(estimate.Dimensions{
			TankType:  spec.TankType,
			Height:    valueOr(spec.Height, 0),
			Diameter:  valueOr(spec.Diameter, 0),
			Width:     spec.Width,
			Thickness: spec.Thickness,
		})
		put("Surface Area (m²)", geo.SurfaceArea, 0)
		put("Volume (m³)", geo.Volume, 0)
		put("Weight (kg)", geo.Weight, 0)
	}

	_ = f.SetColWidth(reportSheet, "A", "A", 22)
	_ = f.SetColWidth(reportSheet, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
