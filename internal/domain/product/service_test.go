package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martpos/internal/core/apperror"
	"martpos/internal/core/types"
	"martpos/internal/domain"
	"martpos/internal/domain/stock"
	"martpos/internal/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewService(store, stock.NewLedger(store, false)), store
}

func TestCreate_WithInitialStock(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	p := &domain.Product{
		SKU:          "SKU-1",
		Name:         "Instant Noodles",
		SellingPrice: types.MustMoney("3.50"),
	}
	require.NoError(t, svc.Create(ctx, p, 24))
	assert.NotZero(t, p.ID)
	assert.Equal(t, 24, p.Quantity)
	assert.True(t, p.Active)

	// Opening stock shows up in the movement log.
	movements, err := store.MovementsByProduct(ctx, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementIn, movements[0].Type)
	assert.Equal(t, 24, movements[0].Quantity)
	assert.Equal(t, "initial stock", movements[0].Note)
}

func TestCreate_WithoutInitialStock(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	p := &domain.Product{SKU: "SKU-1", Name: "Thing"}
	require.NoError(t, svc.Create(ctx, p, 0))

	movements, err := store.MovementsByProduct(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestCreate_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.Create(ctx, &domain.Product{SKU: "SKU-1", Name: "First"}, 0))

	err := svc.Create(ctx, &domain.Product{SKU: "SKU-1", Name: "Second"}, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))

	products, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestCreate_NegativeInitialQuantity(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Create(context.Background(), &domain.Product{SKU: "SKU-1", Name: "Thing"}, -1)
	require.Error(t, err)
}

func TestDeactivate_HidesFromDefaultList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	p := &domain.Product{SKU: "SKU-1", Name: "Thing"}
	require.NoError(t, svc.Create(ctx, p, 0))
	require.NoError(t, svc.Deactivate(ctx, p.ID))

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	// The row survives for historical sale references.
	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thing", got.Name)
}

func TestLowStock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	low := &domain.Product{SKU: "SKU-1", Name: "Low", MinStock: 5}
	require.NoError(t, svc.Create(ctx, low, 3))
	ok := &domain.Product{SKU: "SKU-2", Name: "Plenty", MinStock: 5}
	require.NoError(t, svc.Create(ctx, ok, 50))

	got, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SKU-1", got[0].SKU)
}

func TestGetBySKU(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	p := &domain.Product{SKU: "SKU-1", Name: "Thing"}
	require.NoError(t, svc.Create(ctx, p, 0))

	got, err := svc.GetBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetBySKU(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
