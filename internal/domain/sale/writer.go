// Package sale provides the sale transaction engine: the Writer persists a
// cart as an invoice-numbered sale with stock decrements, the Reader
// reconstructs enriched sales for display and printing.
package sale

import (
	"context"
	"fmt"
	"time"

	"martpos/internal/domain"
	"martpos/internal/domain/stock"
	"martpos/internal/storage"
	"martpos/pkg/logger"
)

// Writer orchestrates sale persistence: invoice number, header, line items
// and one stock decrement + movement per inventory-backed line, as a single
// unit of work. How atomic that unit really is depends on the backend (see
// tx.Manager); the Writer itself never claims more than the store provides.
type Writer struct {
	store  storage.Store
	ledger *stock.Ledger
}

// NewWriter creates a sale writer.
func NewWriter(store storage.Store, ledger *stock.Ledger) *Writer {
	return &Writer{store: store, ledger: ledger}
}

// CreateResult identifies a successfully persisted sale.
type CreateResult struct {
	SaleID        int64  `json:"saleId"`
	InvoiceNumber string `json:"invoiceNumber"`
}

// Create validates and persists the draft. On success the sale header, all
// line items, and one `out` movement per inventory-backed line exist, and the
// result carries the new id and invoice number. Expected failures come back
// as structured errors: VALIDATION before any write, REFERENCE for unknown
// product/customer/user ids, DUPLICATE on an invoice number collision.
func (w *Writer) Create(ctx context.Context, draft *domain.SaleDraft) (*CreateResult, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// Referential checks before any write. The store's constraints remain
	// the backstop inside the unit; checking here keeps the hosted backend
	// from leaving a partial sale behind on a bad reference.
	if err := w.checkReferences(ctx, draft); err != nil {
		return nil, err
	}

	subtotal, total := draft.Totals()
	now := time.Now()

	var result CreateResult
	err := w.store.RunInUnit(ctx, func(ctx context.Context) error {
		number, err := w.store.NextInvoiceNumber(ctx, now)
		if err != nil {
			return fmt.Errorf("generate invoice number: %w", err)
		}

		header := &domain.Sale{
			InvoiceNumber: number,
			CustomerID:    draft.CustomerID,
			UserID:        draft.UserID,
			Subtotal:      subtotal,
			Discount:      draft.Discount,
			Tax:           draft.Tax,
			Total:         total,
			PaymentMethod: draft.PaymentMethod,
			CreatedAt:     now,
		}
		saleID, err := w.store.InsertSale(ctx, header)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		refType := domain.ReferenceSale
		for i, item := range draft.Items {
			row := &domain.SaleItem{
				SaleID:    saleID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Discount:  item.Discount,
				TaxRate:   item.TaxRate,
				LineTotal: item.LineTotal(),
			}
			if _, err := w.store.InsertSaleItem(ctx, row); err != nil {
				return fmt.Errorf("insert item %d: %w", i+1, err)
			}

			if item.ProductID == nil {
				continue
			}
			refID := saleID
			_, err := w.ledger.Apply(ctx, stock.ApplyRequest{
				ProductID: *item.ProductID,
				Quantity:  item.Quantity,
				Type:      domain.MovementOut,
				RefType:   &refType,
				RefID:     &refID,
				Note:      number,
			})
			if err != nil {
				return fmt.Errorf("decrement stock for item %d: %w", i+1, err)
			}
		}

		result = CreateResult{SaleID: saleID, InvoiceNumber: number}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"sale_id", result.SaleID,
		"invoice_number", result.InvoiceNumber,
		"items", len(draft.Items),
		"total", total,
	)

	return &result, nil
}

func (w *Writer) checkReferences(ctx context.Context, draft *domain.SaleDraft) error {
	if _, err := w.store.GetUser(ctx, draft.UserID); err != nil {
		return referenceOrPassthrough(err, "user", draft.UserID)
	}
	if draft.CustomerID != nil {
		if _, err := w.store.GetCustomer(ctx, *draft.CustomerID); err != nil {
			return referenceOrPassthrough(err, "customer", *draft.CustomerID)
		}
	}
	seen := make(map[int64]bool, len(draft.Items))
	for _, item := range draft.Items {
		if item.ProductID == nil || seen[*item.ProductID] {
			continue
		}
		seen[*item.ProductID] = true
		if _, err := w.store.GetProduct(ctx, *item.ProductID); err != nil {
			return referenceOrPassthrough(err, "product", *item.ProductID)
		}
	}
	return nil
}
