package sale

import (
	"context"
	"fmt"
	"time"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/internal/storage"
)

// Reader reconstructs sales for display and printing. All enrichment
// (customer, operator, product display fields) is looked up at read time,
// never denormalized into the stored rows.
type Reader struct {
	store storage.Store
}

// NewReader creates a sale reader.
func NewReader(store storage.Store) *Reader {
	return &Reader{store: store}
}

// GetByID returns the sale joined with customer/operator display fields and
// its ordered, product-enriched line items. Unknown ids return a NOT_FOUND
// error, never a panic or a raw driver error.
func (r *Reader) GetByID(ctx context.Context, id int64) (*domain.EnrichedSale, error) {
	if id == 0 {
		return nil, apperror.NewValidation("sale id is required")
	}

	sale, err := r.store.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := r.store.GetSaleItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	sale.Items = items

	return sale, nil
}

// ListAll returns every sale, newest first.
func (r *Reader) ListAll(ctx context.Context) ([]domain.EnrichedSale, error) {
	return r.store.ListSales(ctx)
}

// ListForDate returns the sales created on the given calendar day.
func (r *Reader) ListForDate(ctx context.Context, day time.Time) ([]domain.EnrichedSale, error) {
	return r.store.ListSalesByDate(ctx, day)
}

// ListToday returns the current day's sales.
func (r *Reader) ListToday(ctx context.Context) ([]domain.EnrichedSale, error) {
	return r.store.ListSalesByDate(ctx, time.Now())
}

// ListForCustomer returns one customer's purchase history, newest first.
func (r *Reader) ListForCustomer(ctx context.Context, customerID int64) ([]domain.EnrichedSale, error) {
	if customerID == 0 {
		return nil, apperror.NewValidation("customer id is required")
	}
	return r.store.ListSalesByCustomer(ctx, customerID)
}

// referenceOrPassthrough converts a NOT_FOUND lookup miss into a REFERENCE
// error naming the submitted id; other failures pass through unchanged.
func referenceOrPassthrough(err error, entity string, id int64) error {
	if apperror.IsNotFound(err) {
		return apperror.NewReference(entity, id)
	}
	return err
}
