package model

// 取り込みで扱うスプレッドシートのレイアウト
const (
	LayoutFixed   = "fixed"
	LayoutGeneric = "generic"
	LayoutAuto    = "auto"
)

// ParsedTankImport は 2 つの解析方式に共通する出力
type ParsedTankImport struct {
	Layout  string      `json:"layout"`
	Header  *TankHeader `json:"header"`
	TankChildren
	// Skipped は行の妥当性ルールで落とした行数
	Skipped int `json:"skipped"`
}

// FileImportResult はアップロードされた 1 ファイルの取り込み結果
type FileImportResult struct {
	FileName string              `json:"file_name"`
	Success  bool                `json:"success"`
	Layout   string              `json:"layout,omitempty"`
	TankID   string              `json:"tank_id,omitempty"`
	TankCode string              `json:"tank_code,omitempty"`
	Items    int                 `json:"items"`
	Skipped  int                 `json:"skipped"`
	Analysis *AutoAnalysisResult `json:"analysis,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// BatchImportResult は複数ファイルアップロードの集計
type BatchImportResult struct {
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Results   []*FileImportResult `json:"results"`
}
