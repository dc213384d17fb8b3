// Package product provides the catalog operations the sale engine needs:
// creation with optional opening stock, lookup, and soft deletion. Full
// catalog management screens live outside this engine.
package product

import (
	"context"
	"fmt"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/internal/domain/stock"
	"martpos/internal/storage"
	"martpos/pkg/logger"
)

// Service provides product operations.
type Service struct {
	store  storage.Store
	ledger *stock.Ledger
}

// NewService creates a product service.
func NewService(store storage.Store, ledger *stock.Ledger) *Service {
	return &Service{store: store, ledger: ledger}
}

// Create persists a new product. A positive initial quantity is applied
// through the stock ledger so opening stock shows up in the movement log
// like any other change.
func (s *Service) Create(ctx context.Context, p *domain.Product, initialQty int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if initialQty < 0 {
		return apperror.NewValidation("initial quantity must not be negative")
	}

	p.Active = true
	p.Quantity = 0

	err := s.store.RunInUnit(ctx, func(ctx context.Context) error {
		id, err := s.store.InsertProduct(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id

		if initialQty > 0 {
			_, err := s.ledger.Apply(ctx, stock.ApplyRequest{
				ProductID: id,
				Quantity:  initialQty,
				Type:      domain.MovementIn,
				Note:      "initial stock",
			})
			if err != nil {
				return fmt.Errorf("apply initial stock: %w", err)
			}
			p.Quantity = initialQty
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "sku", p.SKU, "initial_qty", initialQty)
	return nil
}

// GetByID returns a product or a NOT_FOUND error.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if id == 0 {
		return nil, apperror.NewValidation("product id is required")
	}
	return s.store.GetProduct(ctx, id)
}

// GetBySKU returns a product by its SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if sku == "" {
		return nil, apperror.NewValidation("sku is required")
	}
	return s.store.GetProductBySKU(ctx, sku)
}

// List returns products, optionally including soft-deleted ones.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, includeInactive)
}

// Deactivate soft-deletes a product. The row stays so historical sales keep
// valid references.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id == 0 {
		return apperror.NewValidation("product id is required")
	}
	if err := s.store.DeactivateProduct(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, "product deactivated", "product_id", id)
	return nil
}

// LowStock returns active products at or below their minimum-stock threshold.
func (s *Service) LowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.store.ListProducts(ctx, false)
	if err != nil {
		return nil, err
	}
	low := products[:0:0]
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}
