// Package editor implements the transient edit sessions through which stock
// records and delivery orders are created and modified. An editor is either
// closed (no draft) or open (draft present); the draft is a disconnected
// copy, so in-progress edits never touch the store until Commit.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stoktrack/internal/domain/models"
	"github.com/mamadbah2/stoktrack/internal/store"
)

// ErrClosed indicates Commit or Draft was called without an open session.
var ErrClosed = errors.New("editor is not open")

// NextDONumber derives the next order number for the given collection:
// DO<year>-<seq>, seq being the count of existing numbers containing the
// DO<year> prefix plus one, zero-padded to three digits. The sequence is
// recomputed from current state, not persisted; see DESIGN.md for the
// multi-session caveat.
func NextDONumber(orders []models.DeliveryOrder, now time.Time) string {
	prefix := fmt.Sprintf("DO%d", now.Year())
	count := 0
	for _, o := range orders {
		if strings.Contains(o.Nomor, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, count+1)
}

// StockEditor is the edit session for stock records.
type StockEditor struct {
	store  *store.Store
	logger *zap.Logger

	open       bool
	targetKode string
	draft      models.StockRecord
}

// NewStockEditor builds a closed stock editor bound to the store.
func NewStockEditor(st *store.Store, logger *zap.Logger) *StockEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockEditor{store: st, logger: logger}
}

// OpenCreate opens the editor with an empty draft targeting a new record.
func (e *StockEditor) OpenCreate() {
	e.open = true
	e.targetKode = ""
	e.draft = models.StockRecord{}
}

// OpenEdit resolves the identity key and opens the editor with a copy of
// the record. Fails with ErrNotFound when the key resolves to nothing,
// which happens when the invoking view has gone stale.
func (e *StockEditor) OpenEdit(kode string) error {
	rec, ok := e.store.StockByKode(kode)
	if !ok {
		return fmt.Errorf("%w: stock %q", models.ErrNotFound, kode)
	}
	e.open = true
	e.targetKode = kode
	e.draft = rec
	return nil
}

// IsOpen reports whether a draft is present.
func (e *StockEditor) IsOpen() bool { return e.open }

// Draft exposes the mutable draft while the editor is open.
func (e *StockEditor) Draft() *models.StockRecord {
	if !e.open {
		return nil
	}
	return &e.draft
}

// Commit validates and merges the draft into the store, then closes the
// editor. On validation failure the editor stays open and the store is
// untouched.
func (e *StockEditor) Commit(ctx context.Context) error {
	if !e.open {
		return ErrClosed
	}

	var err error
	if e.targetKode == "" {
		err = e.store.UpsertStock(ctx, e.draft)
	} else {
		err = e.store.ReplaceStock(ctx, e.targetKode, e.draft)
	}
	if err != nil {
		e.logger.Warn("stock commit rejected", zap.String("kode", e.draft.Kode), zap.Error(err))
		return err
	}

	e.open = false
	e.targetKode = ""
	e.draft = models.StockRecord{}
	return nil
}

// Cancel discards the draft and closes the editor without touching the store.
func (e *StockEditor) Cancel() {
	e.open = false
	e.targetKode = ""
	e.draft = models.StockRecord{}
}

// DOEditor is the edit session for new delivery orders.
type DOEditor struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time

	open  bool
	draft models.DeliveryOrder
}

// NewDOEditor builds a closed delivery-order editor bound to the store.
func NewDOEditor(st *store.Store, logger *zap.Logger) *DOEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DOEditor{store: st, logger: logger, now: time.Now}
}

// OpenCreate opens the editor with an empty draft. The order number is
// assigned here, at open time, not at commit.
func (e *DOEditor) OpenCreate() {
	e.open = true
	e.draft = models.DeliveryOrder{
		Nomor:    NextDONumber(e.store.AllDeliveryOrders(), e.now()),
		Progress: []models.ProgressEntry{},
	}
}

// IsOpen reports whether a draft is present.
func (e *DOEditor) IsOpen() bool { return e.open }

// Draft exposes the mutable draft while the editor is open.
func (e *DOEditor) Draft() *models.DeliveryOrder {
	if !e.open {
		return nil
	}
	return &e.draft
}

// Commit validates and appends the draft, then closes the editor. On
// validation failure the editor stays open and the store is untouched.
func (e *DOEditor) Commit(ctx context.Context) (models.DeliveryOrder, error) {
	if !e.open {
		return models.DeliveryOrder{}, ErrClosed
	}

	saved, err := e.store.AppendDeliveryOrder(ctx, e.draft)
	if err != nil {
		e.logger.Warn("delivery order commit rejected", zap.String("nomor", e.draft.Nomor), zap.Error(err))
		return models.DeliveryOrder{}, err
	}

	e.open = false
	e.draft = models.DeliveryOrder{}
	return saved, nil
}

// Cancel discards the draft and closes the editor without touching the store.
func (e *DOEditor) Cancel() {
	e.open = false
	e.draft = models.DeliveryOrder{}
}
