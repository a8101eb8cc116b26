// Package views derives the filtered, sorted projections the rendering
// surface displays. Derivations are pure functions over store snapshots;
// rows carry the record's identity key so callers always mutate by key,
// never by view position.
package views

import (
	"sort"
	"strings"

	"github.com/mamadbah2/stoktrack/internal/domain/models"
)

// Status classifies a stock record's quantity against its safety threshold.
type Status string

const (
	StatusHabis       Status = "Habis"
	StatusHampirHabis Status = "Hampir Habis"
	StatusAman        Status = "Aman"
)

// StatusOf classifies one record. The boundaries are exact: a quantity of
// zero is Habis regardless of safety, and a quantity equal to safety is
// already Aman.
func StatusOf(r models.StockRecord) Status {
	if r.Qty == 0 {
		return StatusHabis
	}
	if r.Qty > 0 && r.Qty < r.Safety {
		return StatusHampirHabis
	}
	return StatusAman
}

// StockRow is one displayed stock line: the record plus its classification.
type StockRow struct {
	models.StockRecord
	Status Status `json:"status"`
}

// StockView applies the filter's predicates conjunctively, then at most one
// sort rule. Without a sort key the filtered rows keep store order.
func StockView(records []models.StockRecord, f models.StockFilter) []StockRow {
	rows := make([]StockRow, 0, len(records))
	for _, r := range records {
		if !matchesFilter(r, f) {
			continue
		}
		rows = append(rows, StockRow{StockRecord: r, Status: StatusOf(r)})
	}

	switch f.Sort {
	case models.SortJudulAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Judul < rows[j].Judul })
	case models.SortQtyDesc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Qty > rows[j].Qty })
	case models.SortHargaAsc:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Harga < rows[j].Harga })
	}

	return rows
}

func matchesFilter(r models.StockRecord, f models.StockFilter) bool {
	if f.UPBJJ != "" && r.UPBJJ != f.UPBJJ {
		return false
	}
	if f.Kategori != "" && r.Kategori != f.Kategori {
		return false
	}
	switch f.Special {
	case models.SpecialBelowSafety:
		if r.Qty >= r.Safety {
			return false
		}
	case models.SpecialZero:
		if r.Qty != 0 {
			return false
		}
	}
	return true
}

// DeliveryView returns the orders whose number, student id or recipient name
// contains the query, case-insensitively. An empty query returns all orders
// in store order.
func DeliveryView(orders []models.DeliveryOrder, query string) []models.DeliveryOrder {
	key := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.DeliveryOrder, 0, len(orders))
	for _, d := range orders {
		if key == "" ||
			strings.Contains(strings.ToLower(d.Nomor), key) ||
			strings.Contains(strings.ToLower(d.NIM), key) ||
			strings.Contains(strings.ToLower(d.Nama), key) {
			out = append(out, d)
		}
	}
	return out
}
