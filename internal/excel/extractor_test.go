package excel

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// newTemplate returns a workbook laid out like the canonical tank form.
func newTemplate(t *testing.T) *excelize.File {
	t.Helper()
	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })
	cells := map[string]any{
		"B2": "T-100",
		"E2": "Storage tank quote",
		"H2": 45000,
		"K2": 2,
		"B3": 2000,
		"D3": 3000,
		"F3": 9.42,
		"H3": "S235JR",
		"J3": 0,
		"L3": 20,

		// line items
		"A8": 1, "B8": 1, "C8": "Sac levha", "D8": "S235", "H8": 10, "J8": "kg", "K8": 10, "L8": 100, "N8": "X",
		"C9":  "Only label",
		"K10": 5,

		// labor and logistics
		"C163": "Kaynak işçiliği", "H163": 10, "J163": "saat", "K163": 45, "L163": 450,
		"C166": "Nakliye", "L166": 1200,

		// summary
		"C188": "Toplam ağırlık", "L188": 1234, "J188": "kg",
		"C192": "Satış fiyatı", "L192": 99999,
	}
	for ref, v := range cells {
		if err := wb.SetCellValue("Sheet1", ref, v); err != nil {
			t.Fatalf("set %s: %v", ref, err)
		}
	}
	return wb
}

func TestCellExtractor_Header(t *testing.T) {
	out, err := NewCellExtractor(DefaultFixedLayout()).Extract(newTemplate(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	h := out.Header
	if out.Layout != model.LayoutFixed {
		t.Errorf("expected fixed layout, got %q", out.Layout)
	}
	if h.TankCode != "T-100" {
		t.Errorf("expected tank code T-100, got %q", h.TankCode)
	}
	if h.PriceDate == nil || h.PriceDate.Format("2006-01-02") != "2023-03-15" {
		t.Errorf("expected price date 2023-03-15, got %v", h.PriceDate)
	}
	if h.RevisionNo == nil || *h.RevisionNo != 2 {
		t.Errorf("expected revision 2, got %v", h.RevisionNo)
	}
	if h.Diameter == nil || *h.Diameter != 2000 {
		t.Errorf("expected diameter 2000, got %v", h.Diameter)
	}
	if h.Circumference == nil || *h.Circumference != 6283.19 {
		t.Errorf("expected circumference 6283.19, got %v", h.Circumference)
	}
	if h.MaterialGrade != "S235JR" {
		t.Errorf("expected material S235JR, got %q", h.MaterialGrade)
	}
	if h.TotalWeight == nil || *h.TotalWeight != 1234 {
		t.Errorf("expected total weight 1234, got %v", h.TotalWeight)
	}
	if h.SalesPrice == nil || *h.SalesPrice != 99999 {
		t.Errorf("expected sales price 99999, got %v", h.SalesPrice)
	}
}

func TestCellExtractor_Children(t *testing.T) {
	out, err := NewCellExtractor(DefaultFixedLayout()).Extract(newTemplate(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(out.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out.Items))
	}
	first := out.Items[0]
	if first.CostFactor != "Sac levha" || first.TotalPrice == nil || *first.TotalPrice != 100 {
		t.Errorf("unexpected first item: %+v", first)
	}
	if !first.InternalLabor {
		t.Error("expected internal labor flag on first item")
	}
	// a label alone is enough for the template
	if out.Items[1].CostFactor != "Only label" || out.Items[1].UnitPrice != nil {
		t.Errorf("unexpected label-only item: %+v", out.Items[1])
	}
	if out.Items[1].SortOrder != 1 {
		t.Errorf("expected sort order 1, got %d", out.Items[1].SortOrder)
	}
	if out.Skipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", out.Skipped)
	}

	if len(out.Labor) != 1 || out.Labor[0].Category != "Kaynak işçiliği" {
		t.Errorf("unexpected labor: %+v", out.Labor)
	}
	if len(out.Logistics) != 1 || out.Logistics[0].TotalPrice == nil || *out.Logistics[0].TotalPrice != 1200 {
		t.Errorf("unexpected logistics: %+v", out.Logistics)
	}
	if len(out.Summary) != 2 {
		t.Fatalf("expected 2 summary parameters, got %d", len(out.Summary))
	}
	if out.Summary[0].Unit != "kg" {
		t.Errorf("expected unit kg, got %q", out.Summary[0].Unit)
	}
}

func TestCellExtractor_MissingTankCode(t *testing.T) {
	wb := newTemplate(t)
	if err := wb.SetCellValue("Sheet1", "B2", ""); err != nil {
		t.Fatal(err)
	}
	_, err := NewCellExtractor(DefaultFixedLayout()).Extract(wb)
	if !errors.Is(err, ErrMissingTankCode) {
		t.Errorf("expected ErrMissingTankCode, got %v", err)
	}
}

func TestCellExtractor_InvalidDateIsNil(t *testing.T) {
	wb := newTemplate(t)
	if err := wb.SetCellValue("Sheet1", "H2", "not a date"); err != nil {
		t.Fatal(err)
	}
	out, err := NewCellExtractor(DefaultFixedLayout()).Extract(wb)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out.Header.PriceDate != nil {
		t.Errorf("expected nil price date, got %v", out.Header.PriceDate)
	}
}
