package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martpos/internal/core/apperror"
	"martpos/internal/core/types"
	"martpos/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("MARTPOS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set MARTPOS_TEST_POSTGRES_DSN to run postgres integration tests")
	}

	store, err := New(context.Background(), DefaultConfig(dsn))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func uniqueSKU(t *testing.T) string {
	return fmt.Sprintf("SKU-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestIntegration_ProductRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	p := &domain.Product{
		SKU:          uniqueSKU(t),
		Name:         "Integration Product",
		SellingPrice: types.MustMoney("12.50"),
		Quantity:     7,
		Active:       true,
	}
	id, err := store.InsertProduct(ctx, p)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, p.SKU, got.SKU)
	assert.True(t, got.SellingPrice.Equal(types.MustMoney("12.50")))
	assert.Equal(t, 7, got.Quantity)

	// Duplicate SKU maps to a structured error.
	_, err = store.InsertProduct(ctx, &domain.Product{SKU: p.SKU, Name: "Clone"})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestIntegration_AdjustQuantityFloor(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	id, err := store.InsertProduct(ctx, &domain.Product{
		SKU: uniqueSKU(t), Name: "Floor Test", Quantity: 2, Active: true,
	})
	require.NoError(t, err)

	_, err = store.AdjustProductQuantity(ctx, id, -5, true)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	qty, err := store.AdjustProductQuantity(ctx, id, -5, false)
	require.NoError(t, err)
	assert.Equal(t, -3, qty)
}

func TestIntegration_SaleWithClockInvoiceNumber(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	userID, err := store.InsertUser(ctx, &domain.User{
		Username:    fmt.Sprintf("op-%d", time.Now().UnixNano()),
		DisplayName: "Operator",
	})
	require.NoError(t, err)

	number, err := store.NextInvoiceNumber(ctx, time.Now())
	require.NoError(t, err)
	assert.Contains(t, number, "INV")

	saleID, err := store.InsertSale(ctx, &domain.Sale{
		InvoiceNumber: number,
		UserID:        userID,
		Subtotal:      types.MustMoney("10.00"),
		Total:         types.MustMoney("10.00"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	got, err := store.GetSale(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, number, got.InvoiceNumber)
	assert.Equal(t, "Operator", got.OperatorName)

	// The creation is mirrored into the audit trail.
	entries, err := store.Audit().History(ctx, "sale", saleID, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
