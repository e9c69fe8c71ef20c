package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ealtun16/Vespro-sub000/internal/model"
)

// tankTypeKeywords はフォームのラベルやコードに現れる語とタンク種別の対応
var tankTypeKeywords = []struct {
	keywords []string
	tankType string
}{
	{[]string{"EŞANJÖR", "ESANJOR", "EXCHANGER"}, model.TankTypeHeatExchanger},
	{[]string{"BASINÇ", "BASINC", "PRESSURE", "VESSEL"}, model.TankTypePressure},
}

// inferTankType は自由記述からタンク種別を推定する。既定は貯槽
func inferTankType(texts ...string) string {
	upper := cases.Upper(language.Turkish)
	for _, t := range texts {
		u := upper.String(t)
		for _, k := range tankTypeKeywords {
			for _, kw := range k.keywords {
				if strings.Contains(u, kw) {
					return k.tankType
				}
			}
		}
	}
	return model.TankTypeStorage
}

// specFromHeader は取り込んだ header を見積用の仕様に変換する。
// 容積 (m³) はリットル単位の capacity になる
func specFromHeader(h *model.TankHeader) *model.TankSpecification {
	spec := &model.TankSpecification{
		Name:          h.TankCode,
		TankType:      inferTankType(h.SummaryLabel, h.TankCode),
		Height:        h.CylinderLength,
		Diameter:      h.Diameter,
		Pressure:      h.Pressure,
		Temperature:   h.Temperature,
		MaterialGrade: h.MaterialGrade,
		Features:      map[string]any{"source": "excel_import", "tank_form_id": h.ID},
	}
	if h.Volume != nil {
		litres := *h.Volume * 1000
		spec.Capacity = &litres
	}
	return spec
}

// refreshFrom は src の取り込み由来フィールドを dst にコピーする。
// dst の ID と、取り込みに含まれない手入力フィールドは残す
func refreshFrom(dst, src *model.TankSpecification) {
	dst.Name = src.Name
	dst.TankType = src.TankType
	dst.Height = src.Height
	dst.Diameter = src.Diameter
	dst.Pressure = src.Pressure
	dst.Temperature = src.Temperature
	dst.MaterialGrade = src.MaterialGrade
	dst.Capacity = src.Capacity
	if dst.Features == nil {
		dst.Features = map[string]any{}
	}
	for k, v := range src.Features {
		dst.Features[k] = v
	}
}
