package parse

// 標籤與幣別字典。解析流程不動，擴充詞彙只要改這裡。

// invoiceNumberLabels 發票號碼的標籤寫法（英文 / 中文）
var invoiceNumberLabels = []string{
	"invoice number",
	"invoice no",
	"invoice #",
	"發票號碼",
}

// invoiceDateLabels 發票日期的標籤寫法
var invoiceDateLabels = []string{
	"invoice date",
	"發票日期",
}

// totalLabels 總額行的標籤寫法
var totalLabels = []string{
	"total",
	"總計",
	"合計",
}

// usdMarkers 美金的幣別標記，比對時先轉大寫
var usdMarkers = map[string]bool{
	"USD": true,
	"US$": true,
	"美元": true,
}

// twdMarkers 台幣的幣別標記
var twdMarkers = map[string]bool{
	"TWD": true,
	"NTD": true,
	"NT$": true,
	"新台幣": true,
	"元":   true,
}

// vendorEntry maps a lowercase substring fragment to a display name. Matching
// is in declaration order so results stay deterministic.
type vendorEntry struct {
	fragment string
	display  string
}

var vendorDictionary = []vendorEntry{
	{"uber", "Uber"},
	{"7-eleven", "7-Eleven"},
	{"7-11", "7-Eleven"},
	{"starbucks", "Starbucks"},
	{"全聯", "PX Mart"},
	{"家樂福", "Carrefour"},
	{"誠品", "Eslite"},
	{"高鐵", "Taiwan High Speed Rail"},
}
