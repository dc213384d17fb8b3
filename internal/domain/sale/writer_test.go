package sale

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martpos/internal/core/apperror"
	"martpos/internal/core/types"
	"martpos/internal/domain"
	"martpos/internal/domain/stock"
	"martpos/internal/storage/memory"
	"martpos/pkg/invoice"
)

type testEnv struct {
	store  *memory.Store
	writer *Writer
	reader *Reader

	userID     int64
	customerID int64
}

func newTestEnv(t *testing.T, rejectOversell bool) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	ledger := stock.NewLedger(store, rejectOversell)

	userID, err := store.InsertUser(ctx, &domain.User{
		Username:    "ani",
		DisplayName: "Ani",
		Role:        "cashier",
	})
	require.NoError(t, err)

	customerID, err := store.InsertCustomer(ctx, &domain.Customer{
		Name:  "Budi",
		Phone: "0812",
	})
	require.NoError(t, err)

	return &testEnv{
		store:      store,
		writer:     NewWriter(store, ledger),
		reader:     NewReader(store),
		userID:     userID,
		customerID: customerID,
	}
}

func (e *testEnv) seedProduct(t *testing.T, sku string, price string, qty int) int64 {
	t.Helper()
	id, err := e.store.InsertProduct(context.Background(), &domain.Product{
		SKU:          sku,
		Name:         "Product " + sku,
		SellingPrice: types.MustMoney(price),
		Quantity:     qty,
		Active:       true,
	})
	require.NoError(t, err)
	return id
}

func draftItem(productID *int64, qty int, price string) domain.DraftItem {
	return domain.DraftItem{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: types.MustMoney(price),
	}
}

func TestCreate_PersistsHeaderItemsAndMovements(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 10)
	productB := env.seedProduct(t, "SKU-B", "5.50", 4)

	draft := &domain.SaleDraft{
		CustomerID:    &env.customerID,
		UserID:        env.userID,
		Discount:      types.MustMoney("2.50"),
		Tax:           types.MustMoney("1.00"),
		PaymentMethod: "cash",
		Items: []domain.DraftItem{
			draftItem(&productA, 2, "10.00"),
			draftItem(&productB, 1, "5.50"),
			draftItem(nil, 1, "2.00"), // service charge, no inventory
		},
	}

	result, err := env.writer.Create(ctx, draft)
	require.NoError(t, err)
	assert.NotZero(t, result.SaleID)
	assert.True(t, strings.HasPrefix(result.InvoiceNumber, invoice.DayPrefix(invoice.DefaultPrefix, time.Now())))

	got, err := env.reader.GetByID(ctx, result.SaleID)
	require.NoError(t, err)
	assert.Equal(t, result.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, "Budi", got.CustomerName)
	assert.Equal(t, "Ani", got.OperatorName)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "SKU-A", got.Items[0].ProductSKU)
	assert.Empty(t, got.Items[2].ProductSKU)

	// subtotal 27.50, minus 2.50 discount plus 1.00 tax.
	assert.True(t, got.Subtotal.Equal(types.MustMoney("27.50")), "subtotal %s", got.Subtotal)
	assert.True(t, got.Total.Equal(types.MustMoney("26.00")), "total %s", got.Total)

	// One decrement per inventory-backed line, tagged with the sale.
	movements, err := env.store.MovementsByReference(ctx, domain.ReferenceSale, result.SaleID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, domain.MovementOut, m.Type)
		assert.Equal(t, result.InvoiceNumber, m.Note)
	}

	pa, err := env.store.GetProduct(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, 8, pa.Quantity)
	pb, err := env.store.GetProduct(ctx, productB)
	require.NoError(t, err)
	assert.Equal(t, 3, pb.Quantity)
}

func TestCreate_InvoiceNumbersAreSequentialPerDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 100)

	first, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items:  []domain.DraftItem{draftItem(&productA, 1, "10.00")},
	})
	require.NoError(t, err)

	second, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items:  []domain.DraftItem{draftItem(&productA, 1, "10.00")},
	})
	require.NoError(t, err)

	seqFirst := invoice.Sequence(first.InvoiceNumber, invoice.DefaultPrefix)
	seqSecond := invoice.Sequence(second.InvoiceNumber, invoice.DefaultPrefix)
	assert.Equal(t, seqFirst+1, seqSecond)
}

func TestCreate_ValidationFailsBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)

	_, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items:  nil,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	sales, err := env.reader.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreate_UnknownProductIsReferenceError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	bogus := int64(999)

	_, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items:  []domain.DraftItem{draftItem(&bogus, 1, "10.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsReference(err))

	sales, err := env.reader.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreate_UnknownCustomerIsReferenceError(t *testing.T) {
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 10)
	bogus := int64(999)

	_, err := env.writer.Create(context.Background(), &domain.SaleDraft{
		CustomerID: &bogus,
		UserID:     env.userID,
		Items:      []domain.DraftItem{draftItem(&productA, 1, "10.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsReference(err))
}

func TestCreate_UnknownOperatorIsReferenceError(t *testing.T) {
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 10)

	_, err := env.writer.Create(context.Background(), &domain.SaleDraft{
		UserID: 999,
		Items:  []domain.DraftItem{draftItem(&productA, 1, "10.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsReference(err))
}

func TestCreate_OversellPermittedByDefault(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 1)

	result, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items:  []domain.DraftItem{draftItem(&productA, 3, "10.00")},
	})
	require.NoError(t, err)
	assert.NotZero(t, result.SaleID)

	p, err := env.store.GetProduct(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, -2, p.Quantity)
}

func TestCreate_OversellRejectedRollsBackWholeSale(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	productA := env.seedProduct(t, "SKU-A", "10.00", 10)
	productB := env.seedProduct(t, "SKU-B", "5.00", 1)

	_, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items: []domain.DraftItem{
			draftItem(&productA, 2, "10.00"),
			draftItem(&productB, 3, "5.00"), // only 1 on hand
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing survives: no header, no items, no movements, stock untouched.
	sales, err := env.reader.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)

	pa, err := env.store.GetProduct(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, 10, pa.Quantity)

	movements, err := env.store.MovementsByProduct(ctx, productA, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestCreate_SameProductOnTwoLines(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "10.00", 10)

	result, err := env.writer.Create(ctx, &domain.SaleDraft{
		UserID: env.userID,
		Items: []domain.DraftItem{
			draftItem(&productA, 2, "10.00"),
			draftItem(&productA, 3, "9.00"), // repriced second line
		},
	})
	require.NoError(t, err)

	// Two lines, two movement rows, both decrements applied.
	movements, err := env.store.MovementsByReference(ctx, domain.ReferenceSale, result.SaleID)
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	p, err := env.store.GetProduct(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Quantity)
}

func TestCreate_LineTotalIncludesTaxAndDiscount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	productA := env.seedProduct(t, "SKU-A", "100.00", 10)

	draft := &domain.SaleDraft{
		UserID: env.userID,
		Items: []domain.DraftItem{
			{
				ProductID: &productA,
				Quantity:  2,
				UnitPrice: types.MustMoney("100.00"),
				Discount:  types.MustMoney("20.00"),
				TaxRate:   types.MustMoney("10"),
			},
		},
	}

	result, err := env.writer.Create(ctx, draft)
	require.NoError(t, err)

	got, err := env.reader.GetByID(ctx, result.SaleID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	// (2*100 - 20) * 1.10 = 198.00
	assert.True(t, got.Items[0].LineTotal.Equal(types.MustMoney("198.00")),
		"line total %s", got.Items[0].LineTotal)
	assert.True(t, got.Subtotal.Equal(types.MustMoney("198.00")))
}
