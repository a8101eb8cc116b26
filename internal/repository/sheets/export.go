package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/stoktrack/internal/config"
	"github.com/mamadbah2/stoktrack/internal/domain/models"
	"github.com/mamadbah2/stoktrack/internal/service/views"
)

const (
	stockExportRange = "Stocks!A:I"
	doExportRange    = "DeliveryOrders!A:H"
	dateLayout       = "2006-01-02 15:04:05"
)

// Exporter pushes the current inventory state to an external spreadsheet.
type Exporter interface {
	ExportInventory(ctx context.Context, snap models.Snapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
	now           func() time.Time
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// ExportInventory appends one row per stock record and one per delivery
// order, each stamped with the export time.
func (e *GoogleSheetExporter) ExportInventory(ctx context.Context, snap models.Snapshot) error {
	stamp := e.now().UTC().Format(dateLayout)

	stockRows := make([][]interface{}, 0, len(snap.Stocks))
	for _, r := range snap.Stocks {
		stockRows = append(stockRows, []interface{}{
			stamp, r.Kode, r.Judul, r.Kategori, r.UPBJJ, r.Qty, r.Safety, r.Harga, string(views.StatusOf(r)),
		})
	}
	if err := e.appendRows(ctx, stockExportRange, stockRows); err != nil {
		return err
	}

	doRows := make([][]interface{}, 0, len(snap.DeliveryOrders))
	for _, d := range snap.DeliveryOrders {
		doRows = append(doRows, []interface{}{
			stamp, d.Nomor, d.NIM, d.Nama, d.Ekspedisi, d.TanggalKirim.Format(dateLayout), d.TotalHarga, len(d.Progress),
		})
	}
	if err := e.appendRows(ctx, doExportRange, doRows); err != nil {
		return err
	}

	e.logger.Debug("inventory exported",
		zap.Int("stocks", len(stockRows)),
		zap.Int("delivery_orders", len(doRows)))
	return nil
}

func (e *GoogleSheetExporter) appendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}
	return nil
}
