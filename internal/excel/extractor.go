package excel

import (
	"errors"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// ErrMissingTankCode は必須のタンクコードセルが空のときに返す
var ErrMissingTankCode = errors.New("excel: tank code cell is empty")

// CellExtractor は標準テンプレートを固定セル座標で読む
type CellExtractor struct {
	layout FixedLayout
}

// NewCellExtractor は layout 用の CellExtractor を生成する
func NewCellExtractor(layout FixedLayout) *CellExtractor {
	return &CellExtractor{layout: layout}
}

// Extract は f の先頭シートから header・原価項目・工数・物流・集計ブロックを読む。
// 致命的なのはタンクコード欠落のみ
func (e *CellExtractor) Extract(f *excelize.File) (*model.ParsedTankImport, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("excel: workbook has no sheets")
	}
	r := &sheetReader{f: f, sheet: sheet}
	l := e.layout

	code := strings.TrimSpace(r.cell(l.TankCode))
	if code == "" {
		return nil, ErrMissingTankCode
	}

	h := &model.TankHeader{
		TankCode:       code,
		SummaryLabel:   strings.TrimSpace(r.cell(l.SummaryLabel)),
		PriceDate:      ParseDate(r.cell(l.PriceDate)),
		RevisionNo:     ParseInt(r.cell(l.RevisionNo)),
		Diameter:       ParseNumber(r.cell(l.Diameter)),
		CylinderLength: ParseNumber(r.cell(l.CylinderLength)),
		Volume:         ParseNumber(r.cell(l.Volume)),
		MaterialGrade:  strings.TrimSpace(r.cell(l.MaterialGrade)),
		Pressure:       ParseNumber(r.cell(l.Pressure)),
		Temperature:    ParseNumber(r.cell(l.Temperature)),
	}
	h.ComputeCircumference()

	out := &model.ParsedTankImport{Layout: model.LayoutFixed, Header: h}

	for row := l.ItemsStart; row <= l.ItemsEnd; row++ {
		item, blank := e.lineItem(r, row)
		if item == nil {
			if !blank {
				out.Skipped++
			}
			continue
		}
		item.SortOrder = len(out.Items)
		out.Items = append(out.Items, item)
	}

	for row := l.LaborStart; row <= l.LaborEnd; row++ {
		label := strings.TrimSpace(r.cell(colCostFactor + strconv.Itoa(row)))
		if label == "" {
			if !r.rowBlank(row) {
				out.Skipped++
			}
			continue
		}
		out.Labor = append(out.Labor, &model.LaborItem{
			Category:   label,
			Quantity:   ParseNumber(r.cell(colQuantity + strconv.Itoa(row))),
			Unit:       strings.TrimSpace(r.cell(colUnit + strconv.Itoa(row))),
			UnitPrice:  ParseNumber(r.cell(colUnitPrice + strconv.Itoa(row))),
			TotalPrice: ParseNumber(r.cell(colTotalPrice + strconv.Itoa(row))),
			SortOrder:  len(out.Labor),
		})
	}

	for row := l.LogisticsStart; row <= l.LogisticsEnd; row++ {
		label := strings.TrimSpace(r.cell(colCostFactor + strconv.Itoa(row)))
		if label == "" {
			if !r.rowBlank(row) {
				out.Skipped++
			}
			continue
		}
		out.Logistics = append(out.Logistics, &model.LogisticsItem{
			Category:   label,
			Quantity:   ParseNumber(r.cell(colQuantity + strconv.Itoa(row))),
			Unit:       strings.TrimSpace(r.cell(colUnit + strconv.Itoa(row))),
			UnitPrice:  ParseNumber(r.cell(colUnitPrice + strconv.Itoa(row))),
			TotalPrice: ParseNumber(r.cell(colTotalPrice + strconv.Itoa(row))),
			SortOrder:  len(out.Logistics),
		})
	}

	for row := l.SummaryStart; row <= l.SummaryEnd; row++ {
		value := ParseNumber(r.cell(colTotalPrice + strconv.Itoa(row)))
		switch row {
		case l.WeightRow:
			h.TotalWeight = value
		case l.SalesPriceRow:
			h.SalesPrice = value
		}
		name := strings.TrimSpace(r.cell(colCostFactor + strconv.Itoa(row)))
		if name == "" {
			if !r.rowBlank(row) {
				out.Skipped++
			}
			continue
		}
		out.Summary = append(out.Summary, &model.SummaryParameter{
			Name:      name,
			Value:     value,
			Unit:      strings.TrimSpace(r.cell(colUnit + strconv.Itoa(row))),
			SortOrder: len(out.Summary),
		})
	}

	return out, nil
}

// lineItem は項目 1 行を読む。グループ・連番・原価要素がすべて空なら nil を返し、
// blank は行全体が空だったかを表す
func (e *CellExtractor) lineItem(r *sheetReader, row int) (item *model.CostLineItem, blank bool) {
	at := func(col string) string { return r.cell(col + strconv.Itoa(row)) }

	group := strings.TrimSpace(at(colGroup))
	seq := strings.TrimSpace(at(colSequence))
	label := strings.TrimSpace(at(colCostFactor))
	if group == "" && seq == "" && label == "" {
		return nil, r.rowBlank(row)
	}

	return &model.CostLineItem{
		GroupNo:         ParseInt(group),
		SequenceNo:      ParseInt(seq),
		CostFactor:      label,
		MaterialQuality: strings.TrimSpace(at(colMaterialQuality)),
		Dimension1:      ParseNumber(at(colDim1)),
		Dimension2:      ParseNumber(at(colDim2)),
		Dimension3:      ParseNumber(at(colDim3)),
		Quantity:        ParseNumber(at(colQuantity)),
		TotalQuantity:   ParseNumber(at(colTotalQuantity)),
		Unit:            strings.TrimSpace(at(colUnit)),
		UnitPrice:       ParseNumber(at(colUnitPrice)),
		TotalPrice:      ParseNumber(at(colTotalPrice)),
		MaterialStatus:  strings.TrimSpace(at(colMaterialStatus)),
		InternalLabor:   isTruthyFlag(at(colInternalFlag)),
		InternalAmount:  ParseNumber(at(colInternalAmount)),
		ExternalSupply:  isTruthyFlag(at(colExternalFlag)),
		ExternalAmount:  ParseNumber(at(colExternalAmount)),
	}, false
}

// sheetReader は 1 シートの生 (書式なし) セル値を読む
type sheetReader struct {
	f     *excelize.File
	sheet string
}

func (r *sheetReader) cell(ref string) string {
	v, err := r.f.GetCellValue(r.sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return ""
	}
	return v
}

func (r *sheetReader) rowBlank(row int) bool {
	for _, col := range itemColumns {
		if strings.TrimSpace(r.cell(col+strconv.Itoa(row))) != "" {
			return false
		}
	}
	return true
}
