// Package storage defines the capability interface the engine is written
// against. Two production backends implement it: the embedded sqlite store
// used by single-terminal shops, and the hosted postgres store shared by
// multi-terminal shops. An in-memory store backs tests and demos. Everything
// above this interface is backend-agnostic.
package storage

import (
	"context"
	"time"

	"martpos/internal/core/tx"
	"martpos/internal/domain"
)

// ProductStore owns the product catalog rows the engine touches.
type ProductStore interface {
	InsertProduct(ctx context.Context, p *domain.Product) (int64, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error)

	// DeactivateProduct clears the active flag. Rows are never removed so
	// historical sales keep valid references.
	DeactivateProduct(ctx context.Context, id int64) error

	// AdjustProductQuantity applies delta to on-hand quantity as a single
	// conditional update (qty = qty + delta), never read-then-write. When
	// enforceFloor is set the update refuses to drive quantity below zero
	// and returns an INSUFFICIENT_STOCK error instead.
	AdjustProductQuantity(ctx context.Context, id int64, delta int, enforceFloor bool) (newQty int, err error)

	// SetProductQuantity replaces on-hand quantity absolutely and returns
	// the previous value so the caller can log the applied difference.
	SetProductQuantity(ctx context.Context, id int64, qty int) (prevQty int, err error)
}

// MovementStore owns the append-only stock movement log.
type MovementStore interface {
	InsertMovement(ctx context.Context, m *domain.StockMovement) (int64, error)
	MovementsByProduct(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error)
	MovementsByReference(ctx context.Context, refType string, refID int64) ([]domain.StockMovement, error)
}

// SaleStore owns sale headers, their line items and the read-side joins.
type SaleStore interface {
	InsertSale(ctx context.Context, s *domain.Sale) (int64, error)
	InsertSaleItem(ctx context.Context, item *domain.SaleItem) (int64, error)

	// GetSale returns the header joined with customer and operator display
	// fields, without items. NOT_FOUND error for unknown ids.
	GetSale(ctx context.Context, id int64) (*domain.EnrichedSale, error)
	GetSaleItems(ctx context.Context, saleID int64) ([]domain.EnrichedSaleItem, error)

	// List projections, newest first, non-paginated.
	ListSales(ctx context.Context) ([]domain.EnrichedSale, error)
	ListSalesByDate(ctx context.Context, day time.Time) ([]domain.EnrichedSale, error)
	ListSalesByCustomer(ctx context.Context, customerID int64) ([]domain.EnrichedSale, error)
}

// PartyStore provides the customer/operator rows sales reference.
type PartyStore interface {
	InsertCustomer(ctx context.Context, c *domain.Customer) (int64, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	InsertUser(ctx context.Context, u *domain.User) (int64, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// InvoiceNumberSource mints invoice numbers. The scheme differs by backend:
// the embedded store derives the next per-day sequence inside the consuming
// transaction (race-free under its single-writer semantics); the hosted store
// uses a clock-fragment suffix, trading strict sequentiality for uniqueness
// without a cross-network lock.
type InvoiceNumberSource interface {
	NextInvoiceNumber(ctx context.Context, now time.Time) (string, error)
}

// Store is the full capability surface the engine depends on.
//
// Its tx.Manager carries the per-backend atomicity contract: strict
// all-or-nothing on the embedded backend, best-effort sequencing with no
// cross-call rollback on the hosted backend (see tx.Manager).
type Store interface {
	tx.Manager
	InvoiceNumberSource
	ProductStore
	MovementStore
	SaleStore
	PartyStore

	Close() error
}
