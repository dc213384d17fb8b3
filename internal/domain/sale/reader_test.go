package sale

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
)

func (e *testEnv) createSale(t *testing.T, productID int64, qty int) *CreateResult {
	t.Helper()
	result, err := e.writer.Create(context.Background(), &domain.SaleDraft{
		CustomerID: &e.customerID,
		UserID:     e.userID,
		Items:      []domain.DraftItem{draftItem(&productID, qty, "10.00")},
	})
	require.NoError(t, err)
	return result
}

func TestGetByID_UnknownSale(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.reader.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetByID_ZeroID(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.reader.GetByID(context.Background(), 0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetByID_ReadsAreRepeatable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 50)
	result := env.createSale(t, productA, 2)

	first, err := env.reader.GetByID(ctx, result.SaleID)
	require.NoError(t, err)
	second, err := env.reader.GetByID(ctx, result.SaleID)
	require.NoError(t, err)

	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Len(t, second.Items, len(first.Items))

	// Reading must not move stock.
	p, err := env.store.GetProduct(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, 48, p.Quantity)
}

func TestListAll_NewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 50)

	first := env.createSale(t, productA, 1)
	second := env.createSale(t, productA, 1)

	sales, err := env.reader.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, second.SaleID, sales[0].ID)
	assert.Equal(t, first.SaleID, sales[1].ID)
}

func TestListForDate_FiltersByCalendarDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 50)
	env.createSale(t, productA, 1)

	today, err := env.reader.ListForDate(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, today, 1)

	yesterday, err := env.reader.ListForDate(ctx, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, yesterday)
}

func TestListToday(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 50)
	env.createSale(t, productA, 1)

	sales, err := env.reader.ListToday(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestListForCustomer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 50)
	env.createSale(t, productA, 1)

	// Anonymous walk-in sale for contrast.
	_, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items:  []domain.DraftItem{draftItem(&productA, 1, "10.00")},
	})
	require.NoError(t, err)

	sales, err := env.reader.ListForCustomer(ctx, env.customerID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Budi", sales[0].CustomerName)
}
