// Package domain holds the engine's entities. Storage backends and services
// both depend on this package and never on each other's internals.
package domain

import (
	"time"

	"martpos/internal/core/apperror"
	"martpos/internal/core/types"
)

// Product is an inventory-backed catalog item.
// SKU is unique and immutable after creation. Products are soft-deleted
// (Active cleared) so historical sales keep valid references.
type Product struct {
	ID           int64       `db:"id" json:"id"`
	SKU          string      `db:"sku" json:"sku"`
	Name         string      `db:"name" json:"name"`
	CategoryID   *int64      `db:"category_id" json:"categoryId,omitempty"`
	SupplierID   *int64      `db:"supplier_id" json:"supplierId,omitempty"`
	CostPrice    types.Money `db:"cost_price" json:"costPrice"`
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// Quantity is on-hand stock. Steady state is >= 0 but it may transiently
	// go negative when oversell is permitted by policy.
	Quantity int `db:"quantity" json:"quantity"`

	MinStock  int       `db:"min_stock" json:"minStock"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields before a write.
func (p *Product) Validate() error {
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").WithDetail("field", "sku")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.SellingPrice.IsNegative() || p.CostPrice.IsNegative() {
		return apperror.NewValidation("prices must not be negative")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("min stock must not be negative").WithDetail("field", "minStock")
	}
	return nil
}

// IsLowStock reports whether on-hand quantity is at or below the
// minimum-stock threshold. Display concern, never a hard error.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}
