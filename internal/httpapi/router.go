package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"martpos/internal/domain/product"
	"martpos/internal/domain/sale"
	"martpos/internal/domain/stock"
	"martpos/pkg/logger"
)

// RouterConfig wires the engine services into the HTTP surface.
type RouterConfig struct {
	Logger    *logger.Logger
	JWTSecret string

	SaleWriter     *sale.Writer
	SaleReader     *sale.Reader
	StockLedger    *stock.Ledger
	ProductService *product.Service
}

// NewRouter builds the gin engine. Middleware order matters: recovery first,
// then tracing and logging, then the error translator, then auth on the
// protected group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(Recovery())
	router.Use(Trace())
	router.Use(RequestLogger(cfg.Logger))
	router.Use(ErrorHandler())

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	saleHandler := NewSaleHandler(cfg.SaleWriter, cfg.SaleReader)
	stockHandler := NewStockHandler(cfg.StockLedger)
	productHandler := NewProductHandler(cfg.ProductService)

	v1 := router.Group("/api/v1")
	v1.Use(Auth(cfg.JWTSecret))
	{
		sales := v1.Group("/sales")
		{
			sales.POST("", saleHandler.Create)
			sales.GET("", saleHandler.List)
			sales.GET("/today", saleHandler.Today)
			sales.GET("/:id", saleHandler.Get)
		}

		stockGroup := v1.Group("/stock")
		{
			stockGroup.POST("/movements", stockHandler.CreateMovement)
			stockGroup.GET("/movements", stockHandler.History)
		}

		products := v1.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.DELETE("/:id", productHandler.Delete)
		}
	}

	return router
}
