package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"martpos/internal/core/appctx"
	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/internal/domain/product"
	"martpos/internal/domain/sale"
	"martpos/internal/domain/stock"
)

// SaleHandler serves the sale endpoints.
type SaleHandler struct {
	writer *sale.Writer
	reader *sale.Reader
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(writer *sale.Writer, reader *sale.Reader) *SaleHandler {
	return &SaleHandler{writer: writer, reader: reader}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewValidation("invalid request body").WithCause(err))
		return
	}

	result, err := h.writer.Create(ctx, req.ToDraft(appctx.GetUserID(ctx)))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperror.NewValidation("invalid id format"))
		return
	}

	s, err := h.reader.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// List handles GET /sales with optional date= and customerId= filters.
func (h *SaleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			_ = c.Error(apperror.NewValidation("invalid date, expected YYYY-MM-DD"))
			return
		}
		sales, err := h.reader.ListForDate(ctx, day)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, sales)
		return
	}

	if customerID := c.Query("customerId"); customerID != "" {
		id, err := strconv.ParseInt(customerID, 10, 64)
		if err != nil {
			_ = c.Error(apperror.NewValidation("invalid customerId format"))
			return
		}
		sales, err := h.reader.ListForCustomer(ctx, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, sales)
		return
	}

	sales, err := h.reader.ListAll(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// Today handles GET /sales/today.
func (h *SaleHandler) Today(c *gin.Context) {
	sales, err := h.reader.ListToday(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// StockHandler serves the stock ledger endpoints.
type StockHandler struct {
	ledger *stock.Ledger
}

// NewStockHandler creates a stock handler.
func NewStockHandler(ledger *stock.Ledger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// CreateMovement handles POST /stock/movements for manual changes
// (receiving, spoilage, recount).
func (h *StockHandler) CreateMovement(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewValidation("invalid request body").WithCause(err))
		return
	}

	movement, err := h.ledger.Apply(c.Request.Context(), stock.ApplyRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Type:      domain.MovementType(req.Type),
		Note:      req.Note,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// History handles GET /stock/movements?productId=&limit=.
func (h *StockHandler) History(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
	if err != nil {
		_ = c.Error(apperror.NewValidation("productId is required"))
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	movements, err := h.ledger.History(c.Request.Context(), productID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// ProductHandler serves the catalog endpoints the terminal needs.
type ProductHandler struct {
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(service *product.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewValidation("invalid request body").WithCause(err))
		return
	}

	p := req.ToProduct()
	if err := h.service.Create(c.Request.Context(), p, req.InitialQuantity); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperror.NewValidation("invalid id format"))
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// List handles GET /products, with ?includeInactive=true and ?lowStock=true.
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("lowStock") == "true" {
		products, err := h.service.LowStock(ctx)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}

	products, err := h.service.List(ctx, c.Query("includeInactive") == "true")
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Delete handles DELETE /products/:id (soft delete).
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
