package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martpos/internal/core/apperror"
	"martpos/internal/core/types"
	"martpos/internal/domain"
	"martpos/pkg/invoice"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store) int64 {
	t.Helper()
	id, err := store.InsertUser(context.Background(), &domain.User{
		Username:    "ani",
		DisplayName: "Ani",
		Role:        "cashier",
	})
	require.NoError(t, err)
	return id
}

func TestProductRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	p := &domain.Product{
		SKU:          "SKU-1",
		Name:         "Instant Noodles",
		CostPrice:    types.MustMoney("2.00"),
		SellingPrice: types.MustMoney("3.50"),
		Quantity:     10,
		MinStock:     3,
		Active:       true,
	}
	id, err := store.InsertProduct(ctx, p)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", got.SKU)
	assert.True(t, got.SellingPrice.Equal(types.MustMoney("3.50")))
	assert.Equal(t, 10, got.Quantity)
	assert.True(t, got.Active)

	bySKU, err := store.GetProductBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, id, bySKU.ID)

	_, err = store.GetProduct(ctx, 999)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDuplicateSKUMapsToStructuredError(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	_, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "First", Active: true})
	require.NoError(t, err)

	_, err = store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Second", Active: true})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestForeignKeyMapsToReferenceError(t *testing.T) {
	store := testStore(t)

	_, err := store.InsertMovement(context.Background(), &domain.StockMovement{
		ProductID: 999,
		Type:      domain.MovementIn,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsReference(err))
}

func TestAdjustProductQuantity(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	id, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 2, Active: true})
	require.NoError(t, err)

	qty, err := store.AdjustProductQuantity(ctx, id, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	// Floor refuses the update and reports what was available.
	_, err = store.AdjustProductQuantity(ctx, id, -8, true)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Without the floor the quantity may go negative.
	qty, err = store.AdjustProductQuantity(ctx, id, -8, false)
	require.NoError(t, err)
	assert.Equal(t, -3, qty)

	_, err = store.AdjustProductQuantity(ctx, 999, 1, false)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetProductQuantityReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	id, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 7, Active: true})
	require.NoError(t, err)

	prev, err := store.SetProductQuantity(ctx, id, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, prev)

	got, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}

func TestNextInvoiceNumber_PerDaySequence(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	userID := seedUser(t, store)
	now := time.Now()

	number, err := store.NextInvoiceNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, invoice.Sequence(number, invoice.DefaultPrefix))

	_, err = store.InsertSale(ctx, &domain.Sale{
		InvoiceNumber: number,
		UserID:        userID,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	next, err := store.NextInvoiceNumber(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, invoice.Sequence(next, invoice.DefaultPrefix))
}

func TestRunInUnit_RollsBackAllWrites(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	boom := errors.New("boom")
	err := store.RunInUnit(ctx, func(ctx context.Context) error {
		id, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 5, Active: true})
		if err != nil {
			return err
		}
		if _, err := store.AdjustProductQuantity(ctx, id, -2, false); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.GetProductBySKU(ctx, "SKU-1")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRunInUnit_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	err := store.RunInUnit(ctx, func(ctx context.Context) error {
		_, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Active: true})
		return err
	})
	require.NoError(t, err)

	_, err = store.GetProductBySKU(ctx, "SKU-1")
	require.NoError(t, err)
}

func TestSaleReadSideJoins(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	userID := seedUser(t, store)

	customerID, err := store.InsertCustomer(ctx, &domain.Customer{Name: "Budi", Phone: "0812"})
	require.NoError(t, err)

	productID, err := store.InsertProduct(ctx, &domain.Product{SKU: "SKU-1", Name: "Thing", Quantity: 10, Active: true})
	require.NoError(t, err)

	saleID, err := store.InsertSale(ctx, &domain.Sale{
		InvoiceNumber: "INV2609010001",
		CustomerID:    &customerID,
		UserID:        userID,
		Subtotal:      types.MustMoney("7.00"),
		Total:         types.MustMoney("7.00"),
		PaymentMethod: "cash",
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)

	_, err = store.InsertSaleItem(ctx, &domain.SaleItem{
		SaleID:    saleID,
		ProductID: &productID,
		Quantity:  2,
		UnitPrice: types.MustMoney("3.50"),
		LineTotal: types.MustMoney("7.00"),
	})
	require.NoError(t, err)

	got, err := store.GetSale(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", got.CustomerName)
	assert.Equal(t, "Ani", got.OperatorName)

	items, err := store.GetSaleItems(ctx, saleID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-1", items[0].ProductSKU)
	assert.True(t, items[0].LineTotal.Equal(types.MustMoney("7.00")))

	today, err := store.ListSalesByDate(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, today, 1)

	yesterday, err := store.ListSalesByDate(ctx, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, yesterday)

	byCustomer, err := store.ListSalesByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)
}
