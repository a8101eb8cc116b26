package models

// StockRecord is one inventory line for a teaching-material item. Kode is
// the stable identity key and is unique across all stock records.
type StockRecord struct {
	Kode     string  `json:"kode"`
	Judul    string  `json:"judul"`
	Kategori string  `json:"kategori"`
	UPBJJ    string  `json:"upbjj"`
	Rak      string  `json:"rak"`
	Harga    float64 `json:"harga"`
	Qty      int     `json:"qty"`
	Safety   int     `json:"safety"`
	Catatan  string  `json:"catatan"`
}

// StockSpecial selects the special-condition bucket of a stock filter.
type StockSpecial string

const (
	SpecialNone        StockSpecial = ""
	SpecialBelowSafety StockSpecial = "belowSafety"
	SpecialZero        StockSpecial = "zero"
)

// StockSort selects the single sort rule applied after filtering.
type StockSort string

const (
	SortNone     StockSort = ""
	SortJudulAsc StockSort = "judulAsc"
	SortQtyDesc  StockSort = "qtyDesc"
	SortHargaAsc StockSort = "hargaAsc"
)

// StockFilter is the ephemeral view configuration for the stock list. All
// active predicates are AND-combined. It is never persisted.
type StockFilter struct {
	UPBJJ    string       `form:"upbjj"`
	Kategori string       `form:"kategori"`
	Special  StockSpecial `form:"special"`
	Sort     StockSort    `form:"sort"`
}
