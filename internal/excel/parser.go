package excel

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

var (
	// ErrUnsupportedLayout は未知のレイアウト名に返す
	ErrUnsupportedLayout = errors.New("excel: unsupported layout")
	// ErrUnsupportedFormat は旧形式のバイナリ .xls に返す
	ErrUnsupportedFormat = errors.New("excel: legacy .xls workbooks are not supported, save as .xlsx")
	// ErrUnreadableWorkbook は Office Open XML のブックとして読めないときに返す
	ErrUnreadableWorkbook = errors.New("excel: unreadable workbook")
)

// Parser はアップロードされたブックに合う解析方式を選んで実行する
type Parser struct {
	extractor  *CellExtractor
	normalizer *RowNormalizer
	now        func() time.Time
}

// NewParser は既定テンプレート用の Parser を生成する
func NewParser() *Parser {
	return &Parser{
		extractor:  NewCellExtractor(DefaultFixedLayout()),
		normalizer: NewRowNormalizer(),
		now:        time.Now,
	}
}

// Parse は data をブックとして開き、layout (fixed / generic / auto) で解析する
func (p *Parser) Parse(data []byte, fileName, layout string) (*model.ParsedTankImport, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xls") {
		return nil, ErrUnsupportedFormat
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	if layout == "" {
		layout = model.LayoutAuto
	}
	if layout == model.LayoutAuto {
		layout = p.DetectLayout(f)
	}

	switch layout {
	case model.LayoutFixed:
		return p.extractor.Extract(f)
	case model.LayoutGeneric:
		return p.parseGeneric(f, fileName)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLayout, layout)
	}
}

// DetectLayout はタンクコードセルに値があり、価格日付セルが日付に見えるときだけ固定テンプレート、
// それ以外は汎用シートとみなす
func (p *Parser) DetectLayout(f *excelize.File) string {
	sheet := f.GetSheetName(0)
	r := &sheetReader{f: f, sheet: sheet}
	l := p.extractor.layout
	if strings.TrimSpace(r.cell(l.TankCode)) != "" && isPriceDateCell(r.cell(l.PriceDate)) {
		return model.LayoutFixed
	}
	return model.LayoutGeneric
}

// 価格日付として受け付けるシリアル値の範囲 (2000-01-01 から 2099-12-31)
const (
	minPriceDateSerial = 36526
	maxPriceDateSerial = 73050
)

// isPriceDateCell は raw が価格日付らしいかを返す。ParseDate は任意の正数をシリアル日付と
// みなすため、寸法などの数値メタデータと区別できるよう範囲で絞る
func isPriceDateCell(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f >= minPriceDateSerial && f <= maxPriceDateSerial
	}
	return parseDateString(raw) != nil
}

func (p *Parser) parseGeneric(f *excelize.File, fileName string) (*model.ParsedTankImport, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("excel: read rows: %w", err)
	}

	raw := make([]RawRow, len(rows))
	for i, cells := range rows {
		raw[i] = toRawRow(cells)
	}

	meta := raw
	if len(meta) > GenericDataStartRow-1 {
		meta = meta[:GenericDataStartRow-1]
	}
	h := headerFromMetadata(meta)
	if h.TankCode == "" {
		h.TankCode = strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	}
	if h.PriceDate == nil {
		h.PriceDate = dateOnly(p.now())
	}
	h.ComputeCircumference()

	out := &model.ParsedTankImport{Layout: model.LayoutGeneric, Header: h}
	if len(raw) >= GenericDataStartRow {
		out.Items, out.Skipped = p.normalizer.Normalize(raw[GenericDataStartRow-1:])
	}
	return out, nil
}

func toRawRow(cells []string) RawRow {
	row := make(RawRow, len(cells))
	for i, v := range cells {
		if v == "" {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		row[col] = v
	}
	return row
}

// metadataLabels は header の各フィールドと汎用フォームで使われるラベルの対応。
// 具体的なラベルほど先に置く
var metadataLabels = []struct {
	field  string
	labels []string
}{
	{"tank_code", []string{"TANK KODU", "TANK CODE", "TANK NO"}},
	{"price_date", []string{"FİYAT TARİHİ", "TARİH", "DATE"}},
	{"diameter", []string{"ÇAP", "DIAMETER"}},
	{"cylinder_length", []string{"SİLİNDİR BOYU", "BOY", "LENGTH"}},
	{"volume", []string{"HACİM", "VOLUME"}},
	{"material_grade", []string{"MALZEME", "MATERIAL"}},
	{"pressure", []string{"BASINÇ", "BASINC", "PRESSURE"}},
	{"temperature", []string{"SICAKLIK", "TEMPERATURE"}},
	{"revision_no", []string{"REVİZYON", "REVISION"}},
}

func headerFromMetadata(rows []RawRow) *model.TankHeader {
	values := make(map[string]string)
	for _, row := range rows {
		cols := sortedColumns(row)
		for i, col := range cols {
			label := foldLabel(row[col])
			field := matchLabel(label)
			if field == "" {
				continue
			}
			if _, seen := values[field]; seen {
				continue
			}
			if _, after, ok := strings.Cut(row[col], ":"); ok && strings.TrimSpace(after) != "" {
				values[field] = strings.TrimSpace(after)
				continue
			}
			if i+1 < len(cols) {
				values[field] = strings.TrimSpace(row[cols[i+1]])
			}
		}
	}

	h := &model.TankHeader{
		TankCode:       values["tank_code"],
		PriceDate:      ParseDate(values["price_date"]),
		Diameter:       ParseNumber(values["diameter"]),
		CylinderLength: ParseNumber(values["cylinder_length"]),
		Volume:         ParseNumber(values["volume"]),
		MaterialGrade:  values["material_grade"],
		Pressure:       ParseNumber(values["pressure"]),
		Temperature:    ParseNumber(values["temperature"]),
		RevisionNo:     ParseInt(values["revision_no"]),
	}
	return h
}

// matchLabel は foldLabel 済みの label に対応する header フィールド名を返す
func matchLabel(label string) string {
	for _, m := range metadataLabels {
		for _, l := range m.labels {
			if strings.Contains(label, foldLabel(l)) {
				return m.field
			}
		}
	}
	return ""
}

// sortedColumns は row の値がある列をシート順で返す
func sortedColumns(row RawRow) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	slices.SortFunc(cols, func(a, b string) int {
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return cols
}
