package domain

import (
	"time"

	"martpos/internal/core/apperror"
)

// MovementType encodes the direction of a stock change.
type MovementType string

const (
	// MovementIn adds the quantity to on-hand stock.
	MovementIn MovementType = "in"
	// MovementOut subtracts the quantity from on-hand stock.
	MovementOut MovementType = "out"
	// MovementAdjustment replaces on-hand stock absolutely.
	MovementAdjustment MovementType = "adjustment"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// ReferenceSale tags movements caused by a sale.
const ReferenceSale = "sale"

// StockMovement is one append-only audit record explaining a change to a
// product's on-hand quantity. Never updated or deleted. Quantity is always a
// positive magnitude; Type encodes the sign (for adjustments it is the
// absolute difference applied).
type StockMovement struct {
	ID        int64        `db:"id" json:"id"`
	ProductID int64        `db:"product_id" json:"productId"`
	Type      MovementType `db:"movement_type" json:"type"`
	Quantity  int          `db:"quantity" json:"quantity"`
	RefType   *string      `db:"ref_type" json:"refType,omitempty"`
	RefID     *int64       `db:"ref_id" json:"refId,omitempty"`
	Note      string       `db:"note" json:"note,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}

// Validate checks the record before it is appended.
func (m *StockMovement) Validate() error {
	if m.ProductID == 0 {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if !m.Type.Valid() {
		return apperror.NewValidation("unknown movement type").WithDetail("type", string(m.Type))
	}
	if m.Quantity < 0 {
		return apperror.NewValidation("movement quantity must not be negative")
	}
	if m.Quantity == 0 && m.Type != MovementAdjustment {
		return apperror.NewValidation("movement quantity must be positive")
	}
	return nil
}
