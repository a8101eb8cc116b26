package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stoktrack/internal/domain/models"
	"github.com/mamadbah2/stoktrack/internal/store"
)

func record(kode, judul, upbjj, kategori string, qty, safety int, harga float64) models.StockRecord {
	return models.StockRecord{
		Kode:     kode,
		Judul:    judul,
		UPBJJ:    upbjj,
		Kategori: kategori,
		Qty:      qty,
		Safety:   safety,
		Harga:    harga,
	}
}

func sampleRecords() []models.StockRecord {
	return []models.StockRecord{
		record("A", "Statistika", "Jakarta", "MK Wajib", 10, 5, 65000),
		record("B", "Akuntansi", "Bandung", "MK Wajib", 0, 5, 80000),
		record("C", "Biologi", "Jakarta", "Umum", 3, 5, 40000),
		record("D", "Kimia", "Bandung", "MK Pilihan", 5, 5, 55000),
	}
}

func TestStatusBoundaries(t *testing.T) {
	cases := []struct {
		name        string
		qty, safety int
		want        Status
	}{
		{"zero quantity is habis regardless of safety", 0, 0, StatusHabis},
		{"zero quantity with positive safety", 0, 10, StatusHabis},
		{"one below safety is hampir habis", 4, 5, StatusHampirHabis},
		{"exactly at safety is aman", 5, 5, StatusAman},
		{"above safety is aman", 6, 5, StatusAman},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StatusOf(models.StockRecord{Qty: tc.qty, Safety: tc.safety})
			require.Equal(t, tc.want, got)
		})
	}
}

func TestStockView_FiltersAreConjunctive(t *testing.T) {
	records := sampleRecords()

	filters := []models.StockFilter{
		{},
		{UPBJJ: "Jakarta"},
		{Kategori: "MK Wajib"},
		{UPBJJ: "Bandung", Kategori: "MK Wajib"},
		{Special: models.SpecialBelowSafety},
		{Special: models.SpecialZero},
		{UPBJJ: "Jakarta", Special: models.SpecialBelowSafety},
		{UPBJJ: "Jakarta", Kategori: "Umum", Special: models.SpecialBelowSafety},
	}

	matches := func(r models.StockRecord, f models.StockFilter) bool {
		if f.UPBJJ != "" && r.UPBJJ != f.UPBJJ {
			return false
		}
		if f.Kategori != "" && r.Kategori != f.Kategori {
			return false
		}
		if f.Special == models.SpecialBelowSafety && r.Qty >= r.Safety {
			return false
		}
		if f.Special == models.SpecialZero && r.Qty != 0 {
			return false
		}
		return true
	}

	for _, f := range filters {
		rows := StockView(records, f)

		inView := map[string]bool{}
		for _, row := range rows {
			inView[row.Kode] = true
			require.True(t, matches(row.StockRecord, f), "filter %+v leaked %s", f, row.Kode)
		}
		for _, r := range records {
			require.Equal(t, matches(r, f), inView[r.Kode], "filter %+v, record %s", f, r.Kode)
		}
	}
}

func TestStockView_ZeroFilterExcludesLowButNonzero(t *testing.T) {
	rows := StockView(sampleRecords(), models.StockFilter{Special: models.SpecialZero})
	require.Len(t, rows, 1)
	require.Equal(t, "B", rows[0].Kode)
}

func TestStockView_SortRules(t *testing.T) {
	records := sampleRecords()

	kodes := func(rows []StockRow) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Kode
		}
		return out
	}

	require.Equal(t, []string{"A", "B", "C", "D"},
		kodes(StockView(records, models.StockFilter{})), "no sort keeps store order")
	require.Equal(t, []string{"B", "C", "D", "A"},
		kodes(StockView(records, models.StockFilter{Sort: models.SortJudulAsc})))
	require.Equal(t, []string{"A", "D", "C", "B"},
		kodes(StockView(records, models.StockFilter{Sort: models.SortQtyDesc})))
	require.Equal(t, []string{"C", "D", "A", "B"},
		kodes(StockView(records, models.StockFilter{Sort: models.SortHargaAsc})))
}

func TestStockView_RowsCarryStatus(t *testing.T) {
	rows := StockView(sampleRecords(), models.StockFilter{})
	byKode := map[string]Status{}
	for _, r := range rows {
		byKode[r.Kode] = r.Status
	}
	require.Equal(t, StatusAman, byKode["A"])
	require.Equal(t, StatusHabis, byKode["B"])
	require.Equal(t, StatusHampirHabis, byKode["C"])
	require.Equal(t, StatusAman, byKode["D"])
}

// Deleting through a filtered view must remove the selected record, not the
// record that happens to share its position in the unfiltered collection.
func TestDeleteThroughFilteredView(t *testing.T) {
	s := store.New(nil, nil)
	for _, r := range []models.StockRecord{
		record("1", "A", "Jakarta", "MK Wajib", 10, 5, 1),
		record("2", "B", "Bandung", "MK Wajib", 10, 5, 1),
		record("3", "C", "Bandung", "MK Wajib", 10, 5, 1),
	} {
		require.NoError(t, s.UpsertStock(context.Background(), r))
	}

	rows := StockView(s.AllStock(), models.StockFilter{UPBJJ: "Bandung"})
	require.Len(t, rows, 2)

	// "view index 0" resolves to kode 2, not store index 0
	require.NoError(t, s.DeleteStockByKode(context.Background(), rows[0].Kode))

	remaining := s.AllStock()
	require.Len(t, remaining, 2)
	require.Equal(t, "1", remaining[0].Kode)
	require.Equal(t, "3", remaining[1].Kode)
}

func TestDeliveryView_Search(t *testing.T) {
	orders := []models.DeliveryOrder{
		{Nomor: "DO2024-001", NIM: "044111222", Nama: "Budi Santoso"},
		{Nomor: "DO2024-002", NIM: "044333444", Nama: "Siti Aminah"},
		{Nomor: "DO2023-009", NIM: "044555666", Nama: "Agus Budiman"},
	}

	require.Len(t, DeliveryView(orders, ""), 3)
	require.Len(t, DeliveryView(orders, "  "), 3)

	byNomor := DeliveryView(orders, "do2023")
	require.Len(t, byNomor, 1)
	require.Equal(t, "DO2023-009", byNomor[0].Nomor)

	byNIM := DeliveryView(orders, "044333")
	require.Len(t, byNIM, 1)
	require.Equal(t, "DO2024-002", byNIM[0].Nomor)

	byName := DeliveryView(orders, "BUDI")
	require.Len(t, byName, 2)

	require.Empty(t, DeliveryView(orders, "tidak ada"))
}

func TestDeliveryView_PreservesStoreOrder(t *testing.T) {
	orders := []models.DeliveryOrder{
		{Nomor: "DO2024-003", NIM: "1", Nama: "x"},
		{Nomor: "DO2024-001", NIM: "2", Nama: "y"},
		{Nomor: "DO2024-002", NIM: "3", Nama: "z"},
	}
	got := DeliveryView(orders, "do2024")
	require.Equal(t, "DO2024-003", got[0].Nomor)
	require.Equal(t, "DO2024-001", got[1].Nomor)
	require.Equal(t, "DO2024-002", got[2].Nomor)
}
