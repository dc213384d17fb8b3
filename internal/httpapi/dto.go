package httpapi

import (
	"martpos/internal/core/types"
	"martpos/internal/domain"
)

// CreateSaleRequest is a cart submitted by the terminal. The acting operator
// comes from the session token, not the body.
type CreateSaleRequest struct {
	CustomerID    *int64            `json:"customerId"`
	Discount      types.Money       `json:"discount"`
	Tax           types.Money       `json:"tax"`
	PaymentMethod string            `json:"paymentMethod"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemRequest is one cart line.
type SaleItemRequest struct {
	ProductID *int64      `json:"productId"`
	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Discount  types.Money `json:"discount"`
	TaxRate   types.Money `json:"taxRate"`
}

// ToDraft maps the request onto a sale draft for the given operator.
func (r CreateSaleRequest) ToDraft(userID int64) *domain.SaleDraft {
	draft := &domain.SaleDraft{
		CustomerID:    r.CustomerID,
		UserID:        userID,
		Discount:      r.Discount,
		Tax:           r.Tax,
		PaymentMethod: r.PaymentMethod,
		Items:         make([]domain.DraftItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		draft.Items = append(draft.Items, domain.DraftItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
		})
	}
	return draft
}

// CreateMovementRequest records a manual stock change.
type CreateMovementRequest struct {
	ProductID int64  `json:"productId"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// CreateProductRequest registers a catalog item, optionally with opening
// stock.
type CreateProductRequest struct {
	SKU             string      `json:"sku"`
	Name            string      `json:"name"`
	CategoryID      *int64      `json:"categoryId"`
	SupplierID      *int64      `json:"supplierId"`
	CostPrice       types.Money `json:"costPrice"`
	SellingPrice    types.Money `json:"sellingPrice"`
	MinStock        int         `json:"minStock"`
	InitialQuantity int         `json:"initialQuantity"`
}

// ToProduct maps the request onto a product entity.
func (r CreateProductRequest) ToProduct() *domain.Product {
	return &domain.Product{
		SKU:          r.SKU,
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		SupplierID:   r.SupplierID,
		CostPrice:    r.CostPrice,
		SellingPrice: r.SellingPrice,
		MinStock:     r.MinStock,
	}
}
