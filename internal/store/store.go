package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stoktrack/internal/domain/models"
)

// Saver persists a snapshot of the store. Implementations are best-effort:
// a failed save is logged and never fails the mutation that triggered it.
type Saver interface {
	Save(ctx context.Context, snap models.Snapshot) error
}

// Store owns the stock and delivery-order collections. It is an explicitly
// constructed, injectable container; every mutation goes through its
// operations and synchronously triggers the Saver before returning.
type Store struct {
	mu          sync.RWMutex
	stocks      []models.StockRecord
	orders      []models.DeliveryOrder
	expeditions []models.Expedition

	stockIdx map[string]int
	orderIdx map[string]int

	version      uint64
	upbjjList    []string
	kategoriList []string

	saver  Saver
	logger *zap.Logger
	now    func() time.Time
}

// New constructs an empty store. saver may be nil (no persistence).
func New(saver Saver, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		stockIdx: map[string]int{},
		orderIdx: map[string]int{},
		saver:    saver,
		logger:   logger,
		now:      time.Now,
	}
}

// Seed replaces the store contents with a loaded snapshot. Used once at
// startup; does not trigger a save.
func (s *Store) Seed(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := snap.Clone()
	s.stocks = clone.Stocks
	s.orders = clone.DeliveryOrders
	s.expeditions = clone.PengirimanList
	s.reindexLocked()
	s.bumpLocked()
}

// Snapshot returns a deep copy of the current state in the persisted shape.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Version returns the mutation counter. Derived values cached outside the
// store should key their recomputation on it.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// AllStock returns a copy of the stock collection in store order.
func (s *Store) AllStock() []models.StockRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StockRecord, len(s.stocks))
	copy(out, s.stocks)
	return out
}

// StockByKode resolves an identity key to its record.
func (s *Store) StockByKode(kode string) (models.StockRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.stockIdx[kode]
	if !ok {
		return models.StockRecord{}, false
	}
	return s.stocks[i], true
}

// UpsertStock inserts the record when its kode is unseen, otherwise replaces
// the existing record in place. Kode, judul and upbjj are mandatory.
func (s *Store) UpsertStock(ctx context.Context, rec models.StockRecord) error {
	if err := validateStock(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.stockIdx[rec.Kode]; ok {
		s.stocks[i] = rec
	} else {
		s.stocks = append(s.stocks, rec)
		s.stockIdx[rec.Kode] = len(s.stocks) - 1
	}
	s.bumpLocked()
	s.persistLocked(ctx)
	return nil
}

// ReplaceStock replaces the record identified by kode with rec, keeping its
// position. Unlike UpsertStock it supports changing the identity key; the
// new kode must not collide with another record.
func (s *Store) ReplaceStock(ctx context.Context, kode string, rec models.StockRecord) error {
	if err := validateStock(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.stockIdx[kode]
	if !ok {
		return fmt.Errorf("%w: stock %q", models.ErrNotFound, kode)
	}
	if rec.Kode != kode {
		if _, taken := s.stockIdx[rec.Kode]; taken {
			return fmt.Errorf("%w: kode %q already in use", models.ErrValidation, rec.Kode)
		}
		delete(s.stockIdx, kode)
		s.stockIdx[rec.Kode] = i
	}
	s.stocks[i] = rec
	s.bumpLocked()
	s.persistLocked(ctx)
	return nil
}

// DeleteStockByKode removes the record identified by kode.
func (s *Store) DeleteStockByKode(ctx context.Context, kode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.stockIdx[kode]
	if !ok {
		return fmt.Errorf("%w: stock %q", models.ErrNotFound, kode)
	}
	s.stocks = append(s.stocks[:i], s.stocks[i+1:]...)
	s.reindexLocked()
	s.bumpLocked()
	s.persistLocked(ctx)
	return nil
}

// AllDeliveryOrders returns a deep copy of the delivery orders in store order.
func (s *Store) AllDeliveryOrders() []models.DeliveryOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DeliveryOrder, 0, len(s.orders))
	for _, d := range s.orders {
		out = append(out, d.Clone())
	}
	return out
}

// DOByNomor resolves an order number to its delivery order.
func (s *Store) DOByNomor(nomor string) (models.DeliveryOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.orderIdx[nomor]
	if !ok {
		return models.DeliveryOrder{}, false
	}
	return s.orders[i].Clone(), true
}

// AppendDeliveryOrder appends a new order. Nomor, NIM, nama and ekspedisi
// are mandatory and nomor must be unique; a zero ship date defaults to now.
func (s *Store) AppendDeliveryOrder(ctx context.Context, order models.DeliveryOrder) (models.DeliveryOrder, error) {
	if err := validateDO(order); err != nil {
		return models.DeliveryOrder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.orderIdx[order.Nomor]; taken {
		return models.DeliveryOrder{}, fmt.Errorf("%w: nomor %q already in use", models.ErrValidation, order.Nomor)
	}
	if order.TanggalKirim.IsZero() {
		order.TanggalKirim = s.now()
	}

	clone := order.Clone()
	s.orders = append(s.orders, clone)
	s.orderIdx[clone.Nomor] = len(s.orders) - 1
	s.bumpLocked()
	s.persistLocked(ctx)
	return clone.Clone(), nil
}

// DeleteDOByNomor removes the order identified by nomor.
func (s *Store) DeleteDOByNomor(ctx context.Context, nomor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.orderIdx[nomor]
	if !ok {
		return fmt.Errorf("%w: delivery order %q", models.ErrNotFound, nomor)
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	s.reindexLocked()
	s.bumpLocked()
	s.persistLocked(ctx)
	return nil
}

// AppendProgress appends a timestamped note to the order's progress history
// and clears the order's draft note. History is append-only.
func (s *Store) AppendProgress(ctx context.Context, nomor, text string) error {
	if strings.TrimSpace(text) == "" {
		return models.RequiredFieldError("keterangan")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.orderIdx[nomor]
	if !ok {
		return fmt.Errorf("%w: delivery order %q", models.ErrNotFound, nomor)
	}
	s.orders[i].Progress = append(s.orders[i].Progress, models.ProgressEntry{
		Time:       s.now(),
		Keterangan: text,
	})
	s.orders[i].DraftProgress = ""
	s.bumpLocked()
	s.persistLocked(ctx)
	return nil
}

// UPBJJList returns the distinct upbjj values across stock records, sorted.
func (s *Store) UPBJJList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.upbjjList))
	copy(out, s.upbjjList)
	return out
}

// KategoriList returns the distinct categories across stock records, sorted.
func (s *Store) KategoriList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.kategoriList))
	copy(out, s.kategoriList)
	return out
}

// EkspedisiList returns the seeded carrier names.
func (s *Store) EkspedisiList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.expeditions))
	for _, e := range s.expeditions {
		out = append(out, e.Nama)
	}
	return out
}

func (s *Store) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Stocks:         s.stocks,
		DeliveryOrders: s.orders,
		PengirimanList: s.expeditions,
	}
	return snap.Clone()
}

// bumpLocked advances the version counter and recomputes the derived lookup
// lists. Called after every mutation while holding the write lock.
func (s *Store) bumpLocked() {
	s.version++

	upbjj := map[string]struct{}{}
	kategori := map[string]struct{}{}
	for _, r := range s.stocks {
		if r.UPBJJ != "" {
			upbjj[r.UPBJJ] = struct{}{}
		}
		if r.Kategori != "" {
			kategori[r.Kategori] = struct{}{}
		}
	}
	s.upbjjList = sortedKeys(upbjj)
	s.kategoriList = sortedKeys(kategori)
}

func (s *Store) reindexLocked() {
	s.stockIdx = make(map[string]int, len(s.stocks))
	for i, r := range s.stocks {
		s.stockIdx[r.Kode] = i
	}
	s.orderIdx = make(map[string]int, len(s.orders))
	for i, o := range s.orders {
		s.orderIdx[o.Nomor] = i
	}
}

// persistLocked pushes the current state to the saver. Persistence is
// best-effort: failures are logged, never returned to the caller.
func (s *Store) persistLocked(ctx context.Context) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Warn("snapshot save failed", zap.Error(err))
	}
}

func validateStock(rec models.StockRecord) error {
	switch {
	case strings.TrimSpace(rec.Kode) == "":
		return models.RequiredFieldError("kode")
	case strings.TrimSpace(rec.Judul) == "":
		return models.RequiredFieldError("judul")
	case strings.TrimSpace(rec.UPBJJ) == "":
		return models.RequiredFieldError("upbjj")
	}
	if rec.Qty < 0 {
		return fmt.Errorf("%w: qty must not be negative", models.ErrValidation)
	}
	if rec.Safety < 0 {
		return fmt.Errorf("%w: safety must not be negative", models.ErrValidation)
	}
	return nil
}

func validateDO(order models.DeliveryOrder) error {
	switch {
	case strings.TrimSpace(order.Nomor) == "":
		return models.RequiredFieldError("nomor")
	case strings.TrimSpace(order.NIM) == "":
		return models.RequiredFieldError("nim")
	case strings.TrimSpace(order.Nama) == "":
		return models.RequiredFieldError("nama")
	case strings.TrimSpace(order.Ekspedisi) == "":
		return models.RequiredFieldError("ekspedisi")
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
