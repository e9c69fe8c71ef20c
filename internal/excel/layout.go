package excel

// FixedLayout は標準タンクフォームテンプレートのセル番地と行範囲。
// 行番号はスプレッドシートと同じ 1 始まり
type FixedLayout struct {
	TankCode       string
	SummaryLabel   string
	PriceDate      string
	RevisionNo     string
	Diameter       string
	CylinderLength string
	Volume         string
	MaterialGrade  string
	Pressure       string
	Temperature    string

	ItemsStart, ItemsEnd         int
	LaborStart, LaborEnd         int
	LogisticsStart, LogisticsEnd int
	SummaryStart, SummaryEnd     int

	// WeightRow と SalesPriceRow は header にコピーする集計行
	WeightRow     int
	SalesPriceRow int
}

// DefaultFixedLayout は現行のタンクフォームテンプレートのレイアウト
func DefaultFixedLayout() FixedLayout {
	return FixedLayout{
		TankCode:       "B2",
		SummaryLabel:   "E2",
		PriceDate:      "H2",
		RevisionNo:     "K2",
		Diameter:       "B3",
		CylinderLength: "D3",
		Volume:         "F3",
		MaterialGrade:  "H3",
		Pressure:       "J3",
		Temperature:    "L3",

		ItemsStart:     8,
		ItemsEnd:       162,
		LaborStart:     163,
		LaborEnd:       165,
		LogisticsStart: 166,
		LogisticsEnd:   169,
		SummaryStart:   188,
		SummaryEnd:     192,

		WeightRow:     188,
		SalesPriceRow: 192,
	}
}

// 原価項目の列。両レイアウト共通
const (
	colGroup           = "A"
	colSequence        = "B"
	colCostFactor      = "C"
	colMaterialQuality = "D"
	colDim1            = "E"
	colDim2            = "F"
	colDim3            = "G"
	colQuantity        = "H"
	colTotalQuantity   = "I"
	colUnit            = "J"
	colUnitPrice       = "K"
	colTotalPrice      = "L"
	colMaterialStatus  = "M"
	colInternalFlag    = "N"
	colInternalAmount  = "O"
	colExternalFlag    = "P"
	colExternalAmount  = "Q"
)

var itemColumns = []string{
	colGroup, colSequence, colCostFactor, colMaterialQuality, colDim1, colDim2, colDim3,
	colQuantity, colTotalQuantity, colUnit, colUnitPrice, colTotalPrice, colMaterialStatus,
	colInternalFlag, colInternalAmount, colExternalFlag, colExternalAmount,
}

// GenericDataStartRow は汎用アップロードの最初のデータ行。それより上はフォームのメタデータ
const GenericDataStartRow = 8
