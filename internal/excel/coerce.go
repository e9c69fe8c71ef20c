// Package excel turns uploaded tank-form spreadsheets into model.ParsedTankImport
// values. Two strategies exist: a fixed-cell extractor for the canonical template
// and a lenient row normalizer for ad-hoc uploads.
package excel

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseNumber は v の最初の数値部分を float で返す。
// 小数点のカンマはドットとして扱い、数値でなければ nil
func ParseNumber(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		return parseNumberString(n)
	default:
		return nil
	}
}

func parseNumberString(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return nil
	}
	m := numberPattern.FindString(s)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseInt は ParseNumber を int に切り捨てたもの
func ParseInt(v any) *int {
	f := ParseNumber(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseDate はシリアル日付・time.Time・日付文字列を受け取り、UTC 0 時の日付を返す。
// それ以外は nil
func ParseDate(v any) *time.Time {
	switch d := v.(type) {
	case nil:
		return nil
	case time.Time:
		return dateOnly(d)
	case float64:
		return fromSerial(d)
	case int:
		return fromSerial(float64(d))
	case string:
		return parseDateString(d)
	default:
		return nil
	}
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t)
		}
	}
	return nil
}

func fromSerial(serial float64) *time.Time {
	if serial <= 0 {
		return nil
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil
	}
	return dateOnly(t)
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// upperTR はトルコ語の i/ı 規則で大文字化する。Caser は状態を持つので呼び出しごとに作る
func upperTR(s string) string {
	return cases.Upper(language.Turkish).String(s)
}

// foldLabel はラベル照合用の正規形を返す。トルコ語規則で大文字化したうえで İ を I に寄せるので、
// "Diameter" も "TARIH" も点の有無に関係なく一致する
func foldLabel(s string) string {
	return strings.ReplaceAll(upperTR(s), "İ", "I")
}

// headerKeywords は小見出し・小計行 (費用・原価・合計) の目印。foldLabel 済みの綴りで持つ
var headerKeywords = []string{"GIDER", "MALIYET", "TOPLAM"}

// containsHeaderKeyword は s が小見出しか小計ラベルに見えるかを返す
func containsHeaderKeyword(s string) bool {
	u := foldLabel(s)
	for _, kw := range headerKeywords {
		if strings.Contains(u, kw) {
			return true
		}
	}
	return false
}

// isTruthyFlag は区分マーカーのセル ("X", "1", "EVET", "✓") を解釈する
func isTruthyFlag(s string) bool {
	switch upperTR(strings.TrimSpace(s)) {
	case "", "0", "HAYIR", "NO", "-":
		return false
	default:
		return true
	}
}
