package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stoktrack/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.InventoryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/stocks", handler.ListStocks)
		api.POST("/stocks", handler.CreateStock)
		api.PUT("/stocks/:kode", handler.UpdateStock)
		api.DELETE("/stocks/:kode", handler.DeleteStock)
		api.GET("/stocks/options", handler.StockOptions)

		api.GET("/delivery-orders", handler.ListDeliveryOrders)
		api.POST("/delivery-orders", handler.CreateDeliveryOrder)
		api.GET("/delivery-orders/:nomor", handler.GetDeliveryOrder)
		api.DELETE("/delivery-orders/:nomor", handler.DeleteDeliveryOrder)
		api.POST("/delivery-orders/:nomor/progress", handler.AppendProgress)

		api.GET("/expeditions", handler.ListExpeditions)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
