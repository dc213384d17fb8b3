// Package stock provides the stock ledger: every change to a product's
// on-hand quantity goes through Apply, which writes the new quantity and
// appends exactly one immutable movement record explaining it.
package stock

import (
	"fmt"

	"context"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/internal/storage"
	"martpos/pkg/logger"
)

// Ledger owns product on-hand quantity and the movement log.
type Ledger struct {
	store storage.Store

	// rejectOversell, when set, refuses `out` movements that would drive
	// quantity below zero. Default is off: overselling is permitted and
	// flagged downstream via the minimum-stock threshold.
	rejectOversell bool
}

// NewLedger creates a stock ledger over the given store.
func NewLedger(store storage.Store, rejectOversell bool) *Ledger {
	return &Ledger{store: store, rejectOversell: rejectOversell}
}

// ApplyRequest describes one stock mutation.
type ApplyRequest struct {
	ProductID int64
	// Quantity is the positive magnitude for in/out, or the new absolute
	// on-hand value for adjustment.
	Quantity int
	Type     domain.MovementType
	RefType  *string
	RefID    *int64
	Note     string
}

// Apply mutates on-hand quantity according to the movement type (`in` adds,
// `out` subtracts, `adjustment` replaces absolutely) and appends exactly one
// movement row. There is no batching: a sale holding the same product on two
// lines produces two movement rows.
func (l *Ledger) Apply(ctx context.Context, req ApplyRequest) (*domain.StockMovement, error) {
	movement := &domain.StockMovement{
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		RefType:   req.RefType,
		RefID:     req.RefID,
		Note:      req.Note,
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}

	var newQty int
	switch req.Type {
	case domain.MovementIn:
		qty, err := l.store.AdjustProductQuantity(ctx, req.ProductID, req.Quantity, false)
		if err != nil {
			return nil, err
		}
		newQty = qty

	case domain.MovementOut:
		qty, err := l.store.AdjustProductQuantity(ctx, req.ProductID, -req.Quantity, l.rejectOversell)
		if err != nil {
			return nil, err
		}
		newQty = qty

	case domain.MovementAdjustment:
		if req.Quantity < 0 {
			return nil, apperror.NewValidation("adjusted quantity must not be negative")
		}
		prev, err := l.store.SetProductQuantity(ctx, req.ProductID, req.Quantity)
		if err != nil {
			return nil, err
		}
		newQty = req.Quantity
		// The movement row records the magnitude of the applied difference.
		diff := req.Quantity - prev
		if diff < 0 {
			diff = -diff
		}
		movement.Quantity = diff
	}

	movementID, err := l.store.InsertMovement(ctx, movement)
	if err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}
	movement.ID = movementID

	logger.Info(ctx, "stock movement applied",
		"product_id", req.ProductID,
		"type", req.Type,
		"quantity", movement.Quantity,
		"new_quantity", newQty,
	)

	return movement, nil
}

// History returns the most recent movements for a product, newest first.
func (l *Ledger) History(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error) {
	if productID == 0 {
		return nil, apperror.NewValidation("product is required")
	}
	return l.store.MovementsByProduct(ctx, productID, limit)
}

// ByReference returns the movements a causing entity produced, e.g. all
// decrements of one sale.
func (l *Ledger) ByReference(ctx context.Context, refType string, refID int64) ([]domain.StockMovement, error) {
	return l.store.MovementsByReference(ctx, refType, refID)
}
