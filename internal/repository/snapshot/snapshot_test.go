package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stoktrack/internal/config"
	"github.com/mamadbah2/stoktrack/internal/domain/models"
)

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Stocks: []models.StockRecord{{
			Kode:     "BMP001",
			Judul:    "Pengantar Statistika",
			Kategori: "MK Wajib",
			UPBJJ:    "Jakarta",
			Harga:    65000.50,
			Qty:      12,
			Safety:   5,
		}},
		DeliveryOrders: []models.DeliveryOrder{{
			Nomor:        "DO2024-001",
			NIM:          "044111222",
			Nama:         "Budi Santoso",
			Ekspedisi:    "JNE",
			TanggalKirim: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
			TotalHarga:   130001,
			Progress: []models.ProgressEntry{{
				Time:       time.Date(2024, 3, 11, 14, 0, 0, 0, time.UTC),
				Keterangan: "Diserahkan ke kurir",
			}},
		}},
		PengirimanList: []models.Expedition{{Nama: "JNE"}, {Nama: "SiCepat"}},
	}
}

func fileStore(t *testing.T, cfg config.StorageConfig) *Store {
	t.Helper()
	return NewStore(NewFileBackend(cfg.SnapshotPath), cfg, nil)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := config.StorageConfig{SnapshotPath: filepath.Join(dir, "snapshot.json")}
	s := fileStore(t, cfg)

	want := sampleSnapshot()
	require.NoError(t, s.Save(context.Background(), want))

	got := s.Load(context.Background())
	require.Equal(t, want.Stocks, got.Stocks)
	require.Equal(t, want.PengirimanList, got.PengirimanList)
	require.Len(t, got.DeliveryOrders, 1)

	gotDO, wantDO := got.DeliveryOrders[0], want.DeliveryOrders[0]
	require.Equal(t, wantDO.Nomor, gotDO.Nomor)
	require.Equal(t, wantDO.TotalHarga, gotDO.TotalHarga)
	require.True(t, wantDO.TanggalKirim.Equal(gotDO.TanggalKirim))
	require.Len(t, gotDO.Progress, 1)
	require.True(t, wantDO.Progress[0].Time.Equal(gotDO.Progress[0].Time))
	require.Equal(t, wantDO.Progress[0].Keterangan, gotDO.Progress[0].Keterangan)
}

func TestLoadFallsBackToSeedFileAndPersistsIt(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.json")
	raw, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(seedPath, raw, 0o644))

	cfg := config.StorageConfig{
		SnapshotPath: filepath.Join(dir, "snapshot.json"),
		SeedPath:     seedPath,
	}
	s := fileStore(t, cfg)

	got := s.Load(context.Background())
	require.Len(t, got.Stocks, 1)

	// seed must be persisted immediately so the fallback runs only once
	_, err = os.Stat(cfg.SnapshotPath)
	require.NoError(t, err)

	// corrupting the seed afterwards must not matter anymore
	require.NoError(t, os.WriteFile(seedPath, []byte("{broken"), 0o644))
	again := s.Load(context.Background())
	require.Len(t, again.Stocks, 1)
}

func TestLoadFallsBackToSeedURL(t *testing.T) {
	raw, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.StorageConfig{
		SnapshotPath: filepath.Join(dir, "snapshot.json"),
		SeedURL:      srv.URL + "/seed.json",
	}
	s := fileStore(t, cfg)

	got := s.Load(context.Background())
	require.Len(t, got.Stocks, 1)
	require.Equal(t, "BMP001", got.Stocks[0].Kode)
}

func TestLoadCorruptSnapshotFallsBackToSeed(t *testing.T) {
	dir := t.TempDir()
	snapshotPath := filepath.Join(dir, "snapshot.json")
	seedPath := filepath.Join(dir, "seed.json")

	require.NoError(t, os.WriteFile(snapshotPath, []byte("not json"), 0o644))
	raw, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(seedPath, raw, 0o644))

	s := fileStore(t, config.StorageConfig{SnapshotPath: snapshotPath, SeedPath: seedPath})

	got := s.Load(context.Background())
	require.Len(t, got.Stocks, 1)
}

func TestLoadDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	cfg := config.StorageConfig{
		SnapshotPath: filepath.Join(dir, "snapshot.json"),
		SeedPath:     filepath.Join(dir, "missing-seed.json"),
	}
	s := fileStore(t, cfg)

	got := s.Load(context.Background())
	require.Empty(t, got.Stocks)
	require.Empty(t, got.DeliveryOrders)
	require.Empty(t, got.PengirimanList)
}

func TestNumbersSurviveRoundTripWithoutDrift(t *testing.T) {
	dir := t.TempDir()
	cfg := config.StorageConfig{SnapshotPath: filepath.Join(dir, "snapshot.json")}
	s := fileStore(t, cfg)

	snap := sampleSnapshot()
	snap.Stocks[0].Harga = 19999.99
	snap.Stocks[0].Qty = 7
	require.NoError(t, s.Save(context.Background(), snap))

	got := s.Load(context.Background())
	require.Equal(t, 19999.99, got.Stocks[0].Harga)
	require.Equal(t, 7, got.Stocks[0].Qty)
}
