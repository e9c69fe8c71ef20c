package excel

import (
	"math"
	"strings"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// RawRow は列記号 ("A", "B", ...) をキーにした見出しなしの 1 行
type RawRow map[string]string

func (r RawRow) get(col string) string {
	return strings.TrimSpace(r[col])
}

// DefaultUnit は単位の無い汎用行に割り当てる単位
const DefaultUnit = "kg"

// RowNormalizer は緩い構造の行を原価項目に対応付ける。
// CellExtractor より既定値には寛容で、原価行とみなす条件は厳しい
type RowNormalizer struct{}

// NewRowNormalizer は RowNormalizer を生成する
func NewRowNormalizer() *RowNormalizer {
	return &RowNormalizer{}
}

// Normalize は rows を原価項目に変換し、IsCostRow を満たさない行を落とす。
// skipped は落とした空でない行の数
func (n *RowNormalizer) Normalize(rows []RawRow) (items []*model.CostLineItem, skipped int) {
	seq := 0
	for _, row := range rows {
		if !IsCostRow(row) {
			if !row.blank() {
				skipped++
			}
			continue
		}
		seq++
		items = append(items, n.toItem(row, seq, len(items)))
	}
	return items, skipped
}

func (n *RowNormalizer) toItem(row RawRow, seq, order int) *model.CostLineItem {
	unitPrice := ParseNumber(row.get(colUnitPrice))

	group := ParseInt(row.get(colGroup))
	if group == nil {
		one := 1
		group = &one
	}
	sequence := ParseInt(row.get(colSequence))
	if sequence == nil {
		s := seq
		sequence = &s
	}
	unit := row.get(colUnit)
	if unit == "" {
		unit = DefaultUnit
	}

	quantity := ParseNumber(row.get(colQuantity))
	total := ParseNumber(row.get(colTotalPrice))
	if total == nil {
		p := *unitPrice
		total = &p
		if quantity == nil {
			one := 1.0
			quantity = &one
		}
	}

	return &model.CostLineItem{
		GroupNo:         group,
		SequenceNo:      sequence,
		CostFactor:      row.get(colCostFactor),
		MaterialQuality: row.get(colMaterialQuality),
		Dimension1:      ParseNumber(row.get(colDim1)),
		Dimension2:      ParseNumber(row.get(colDim2)),
		Dimension3:      ParseNumber(row.get(colDim3)),
		Quantity:        quantity,
		TotalQuantity:   ParseNumber(row.get(colTotalQuantity)),
		Unit:            unit,
		UnitPrice:       unitPrice,
		TotalPrice:      total,
		MaterialStatus:  row.get(colMaterialStatus),
		InternalLabor:   isTruthyFlag(row.get(colInternalFlag)),
		InternalAmount:  ParseNumber(row.get(colInternalAmount)),
		ExternalSupply:  isTruthyFlag(row.get(colExternalFlag)),
		ExternalAmount:  ParseNumber(row.get(colExternalAmount)),
		SortOrder:       order,
	}
}

// IsCostRow は汎用行が実際の原価項目かを返す。原価要素ラベルと正の単価が必要で、
// どちらも小見出しや小計に見えてはいけない
func IsCostRow(row RawRow) bool {
	label := row.get(colCostFactor)
	if label == "" || containsHeaderKeyword(label) {
		return false
	}
	return isPositiveNumber(row.get(colUnitPrice))
}

func isPositiveNumber(s string) bool {
	if s == "" || containsHeaderKeyword(s) {
		return false
	}
	v := ParseNumber(s)
	if v == nil {
		return false
	}
	return *v > 0 && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}

func (r RawRow) blank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
