package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/pkg/invoice"
)

func TestNextInvoiceNumber_StartsAtOneAndIncrements(t *testing.T) {
	ctx := context.Background()
	store := New()
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	number, err := store.NextInvoiceNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "INV2609010001", number)

	userID, err := store.InsertUser(ctx, &domain.User{Username: "ani", DisplayName: "Ani"})
	require.NoError(t, err)
	_, err = store.InsertSale(ctx, &domain.Sale{InvoiceNumber: number, UserID: userID, CreatedAt: now})
	require.NoError(t, err)

	next, err := store.NextInvoiceNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "INV2609010002", next)

	// A new day starts a new sequence.
	tomorrow, err := store.NextInvoiceNumber(ctx, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, invoice.Sequence(tomorrow, invoice.DefaultPrefix))
}

func TestInsertSale_DuplicateInvoiceNumber(t *testing.T) {
	ctx := context.Background()
	store := New()
	userID, err := store.InsertUser(ctx, &domain.User{Username: "ani", DisplayName: "Ani"})
	require.NoError(t, err)

	_, err = store.InsertSale(ctx, &domain.Sale{InvoiceNumber: "INV2609010001", UserID: userID})
	require.NoError(t, err)

	_, err = store.InsertSale(ctx, &domain.Sale{InvoiceNumber: "INV2609010001", UserID: userID})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestRunInUnit_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := New()
	id, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 10, Active: true})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.RunInUnit(ctx, func(ctx context.Context) error {
		if _, err := store.AdjustProductQuantity(ctx, id, -4, false); err != nil {
			return err
		}
		if _, err := store.InsertMovement(ctx, &domain.StockMovement{
			ProductID: id, Type: domain.MovementOut, Quantity: 4,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)

	movements, err := store.MovementsByProduct(ctx, id, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestRunInUnit_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := New()
	id, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 10, Active: true})
	require.NoError(t, err)

	err = store.RunInUnit(ctx, func(ctx context.Context) error {
		_, err := store.AdjustProductQuantity(ctx, id, -4, false)
		return err
	})
	require.NoError(t, err)

	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Quantity)
}

// Two terminals that each read the quantity and write back an absolute value
// lose one of the decrements. The delta-based conditional adjust applies both.
// This is why sale decrements always go through AdjustProductQuantity.
func TestAbsoluteWritesLoseConcurrentDecrements(t *testing.T) {
	ctx := context.Background()
	store := New()
	id, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 10, Active: true})
	require.NoError(t, err)

	// Interleaving: both read 10, then both write their own result.
	a, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	b, err := store.GetProduct(ctx, id)
	require.NoError(t, err)

	_, err = store.SetProductQuantity(ctx, id, a.Quantity-3)
	require.NoError(t, err)
	_, err = store.SetProductQuantity(ctx, id, b.Quantity-4)
	require.NoError(t, err)

	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Quantity) // the -3 decrement is gone

	// Same two decrements as deltas both land.
	_, err = store.SetProductQuantity(ctx, id, 10)
	require.NoError(t, err)
	_, err = store.AdjustProductQuantity(ctx, id, -3, false)
	require.NoError(t, err)
	qty, err := store.AdjustProductQuantity(ctx, id, -4, false)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
}

func TestAdjustProductQuantity_Floor(t *testing.T) {
	ctx := context.Background()
	store := New()
	id, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 2, Active: true})
	require.NoError(t, err)

	_, err = store.AdjustProductQuantity(ctx, id, -5, true)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Without the floor the same delta goes through.
	qty, err := store.AdjustProductQuantity(ctx, id, -5, false)
	require.NoError(t, err)
	assert.Equal(t, -3, qty)
}
