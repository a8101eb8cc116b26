package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stoktrack/internal/domain/models"
	"github.com/mamadbah2/stoktrack/internal/service/editor"
	"github.com/mamadbah2/stoktrack/internal/service/views"
	"github.com/mamadbah2/stoktrack/internal/store"
)

// Accepted layouts for the user-entered ship date.
var shipDateLayouts = []string{time.RFC3339, "2006-01-02"}

// InventoryHandler exposes the store, views and editors over HTTP. It is
// the rendering surface of the application; all mutations go through the
// store operations, never around them.
type InventoryHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(st *store.Store, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{store: st, logger: logger}
}

// ListStocks renders the filtered, sorted stock view.
func (h *InventoryHandler) ListStocks(c *gin.Context) {
	var filter models.StockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.Warn("invalid stock filter", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}

	rows := views.StockView(h.store.AllStock(), filter)
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// CreateStock commits a new stock record through a create session.
func (h *InventoryHandler) CreateStock(c *gin.Context) {
	var payload models.StockRecord
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid stock payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session := editor.NewStockEditor(h.store, h.logger)
	session.OpenCreate()
	*session.Draft() = payload

	if err := session.Commit(c.Request.Context()); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

// UpdateStock commits changes to the record identified by the kode path
// parameter. The payload may carry a new kode; the path names the target.
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var payload models.StockRecord
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid stock payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session := editor.NewStockEditor(h.store, h.logger)
	if err := session.OpenEdit(c.Param("kode")); err != nil {
		h.renderError(c, err)
		return
	}
	*session.Draft() = payload

	if err := session.Commit(c.Request.Context()); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// DeleteStock removes the record identified by the kode path parameter.
func (h *InventoryHandler) DeleteStock(c *gin.Context) {
	if err := h.store.DeleteStockByKode(c.Request.Context(), c.Param("kode")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StockOptions renders the derived filter option lists.
func (h *InventoryHandler) StockOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"upbjj":    h.store.UPBJJList(),
		"kategori": h.store.KategoriList(),
	})
}

// ListDeliveryOrders renders the search-filtered delivery view.
func (h *InventoryHandler) ListDeliveryOrders(c *gin.Context) {
	orders := views.DeliveryView(h.store.AllDeliveryOrders(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"items": orders})
}

// GetDeliveryOrder renders one order with its full progress history.
func (h *InventoryHandler) GetDeliveryOrder(c *gin.Context) {
	order, ok := h.store.DOByNomor(c.Param("nomor"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type createDORequest struct {
	NIM          string  `json:"nim"`
	Nama         string  `json:"nama"`
	Ekspedisi    string  `json:"ekspedisi"`
	TanggalKirim string  `json:"tanggalKirim"`
	TotalHarga   float64 `json:"totalHarga"`
}

// CreateDeliveryOrder opens a create session, which assigns the order
// number, fills the draft from the payload, and commits.
func (h *InventoryHandler) CreateDeliveryOrder(c *gin.Context) {
	var req createDORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid delivery order payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	shipDate, err := parseShipDate(req.TanggalKirim)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tanggalKirim"})
		return
	}

	session := editor.NewDOEditor(h.store, h.logger)
	session.OpenCreate()
	draft := session.Draft()
	draft.NIM = req.NIM
	draft.Nama = req.Nama
	draft.Ekspedisi = req.Ekspedisi
	draft.TanggalKirim = shipDate
	draft.TotalHarga = req.TotalHarga

	saved, err := session.Commit(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// DeleteDeliveryOrder removes the order identified by the nomor path
// parameter.
func (h *InventoryHandler) DeleteDeliveryOrder(c *gin.Context) {
	if err := h.store.DeleteDOByNomor(c.Request.Context(), c.Param("nomor")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type appendProgressRequest struct {
	Keterangan string `json:"keterangan"`
}

// AppendProgress appends a timestamped note to the order's history.
func (h *InventoryHandler) AppendProgress(c *gin.Context) {
	var req appendProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid progress payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	nomor := c.Param("nomor")
	if err := h.store.AppendProgress(c.Request.Context(), nomor, req.Keterangan); err != nil {
		h.renderError(c, err)
		return
	}

	order, _ := h.store.DOByNomor(nomor)
	c.JSON(http.StatusOK, order)
}

// ListExpeditions renders the seeded carrier options.
func (h *InventoryHandler) ListExpeditions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.store.EkspedisiList()})
}

func (h *InventoryHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseShipDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range shipDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
