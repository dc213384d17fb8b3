// Package memory provides an in-memory Store for tests and demos. It mirrors
// the embedded backend's contract: units of work are all-or-nothing (state is
// snapshotted on entry and restored on error) and writes are serialized
// through one mutex.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/internal/storage"
	"martpos/pkg/invoice"
)

type unitKey struct{}

// Store implements storage.Store with plain maps.
type Store struct {
	mu sync.Mutex

	prefix string

	products  map[int64]domain.Product
	movements []domain.StockMovement
	sales     map[int64]domain.Sale
	saleItems map[int64][]domain.SaleItem
	customers map[int64]domain.Customer
	users     map[int64]domain.User

	nextProductID  int64
	nextMovementID int64
	nextSaleID     int64
	nextItemID     int64
	nextCustomerID int64
	nextUserID     int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		prefix:    invoice.DefaultPrefix,
		products:  make(map[int64]domain.Product),
		sales:     make(map[int64]domain.Sale),
		saleItems: make(map[int64][]domain.SaleItem),
		customers: make(map[int64]domain.Customer),
		users:     make(map[int64]domain.User),
	}
}

// Close implements storage.Store.
func (s *Store) Close() error { return nil }

// enter locks the store unless the context already runs inside a unit of
// work (which holds the lock for its whole duration).
func (s *Store) enter(ctx context.Context) func() {
	if inUnit(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func inUnit(ctx context.Context) bool {
	v, _ := ctx.Value(unitKey{}).(bool)
	return v
}

// RunInUnit executes fn under the store lock with snapshot/restore rollback,
// matching the embedded backend's all-or-nothing contract.
func (s *Store) RunInUnit(ctx context.Context, fn func(ctx context.Context) error) error {
	if inUnit(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, unitKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshotState struct {
	products  map[int64]domain.Product
	movements []domain.StockMovement
	sales     map[int64]domain.Sale
	saleItems map[int64][]domain.SaleItem
	customers map[int64]domain.Customer
	users     map[int64]domain.User
	counters  [6]int64
}

func (s *Store) snapshot() snapshotState {
	snap := snapshotState{
		products:  make(map[int64]domain.Product, len(s.products)),
		movements: append([]domain.StockMovement(nil), s.movements...),
		sales:     make(map[int64]domain.Sale, len(s.sales)),
		saleItems: make(map[int64][]domain.SaleItem, len(s.saleItems)),
		customers: make(map[int64]domain.Customer, len(s.customers)),
		users:     make(map[int64]domain.User, len(s.users)),
		counters:  [6]int64{s.nextProductID, s.nextMovementID, s.nextSaleID, s.nextItemID, s.nextCustomerID, s.nextUserID},
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.saleItems {
		snap.saleItems[k] = append([]domain.SaleItem(nil), v...)
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshotState) {
	s.products = snap.products
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.customers = snap.customers
	s.users = snap.users
	s.nextProductID = snap.counters[0]
	s.nextMovementID = snap.counters[1]
	s.nextSaleID = snap.counters[2]
	s.nextItemID = snap.counters[3]
	s.nextCustomerID = snap.counters[4]
	s.nextUserID = snap.counters[5]
}

// --- invoice numbers ---

// NextInvoiceNumber mirrors the embedded scheme: highest sequence carrying
// today's day prefix, plus one.
func (s *Store) NextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	defer s.enter(ctx)()

	day := invoice.DayPrefix(s.prefix, now)
	last := 0
	for _, sale := range s.sales {
		if len(sale.InvoiceNumber) <= len(day) || sale.InvoiceNumber[:len(day)] != day {
			continue
		}
		if seq := invoice.Sequence(sale.InvoiceNumber, s.prefix); seq > last {
			last = seq
		}
	}
	return invoice.Format(s.prefix, now, last+1), nil
}

// --- products ---

func (s *Store) InsertProduct(ctx context.Context, p *domain.Product) (int64, error) {
	defer s.enter(ctx)()

	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			return 0, apperror.NewDuplicate("product", "sku", p.SKU)
		}
	}

	s.nextProductID++
	p.ID = s.nextProductID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = *p
	return p.ID, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	defer s.enter(ctx)()

	p, ok := s.products[id]
	if !ok {
		return nil, apperror.NewNotFound("product", id)
	}
	return &p, nil
}

func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	defer s.enter(ctx)()

	for _, p := range s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

func (s *Store) ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	defer s.enter(ctx)()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeactivateProduct(ctx context.Context, id int64) error {
	defer s.enter(ctx)()

	p, ok := s.products[id]
	if !ok {
		return apperror.NewNotFound("product", id)
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return nil
}

func (s *Store) AdjustProductQuantity(ctx context.Context, id int64, delta int, enforceFloor bool) (int, error) {
	defer s.enter(ctx)()

	p, ok := s.products[id]
	if !ok {
		return 0, apperror.NewNotFound("product", id)
	}
	next := p.Quantity + delta
	if enforceFloor && next < 0 {
		return 0, apperror.NewInsufficientStock(id, -delta, p.Quantity)
	}
	p.Quantity = next
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return next, nil
}

func (s *Store) SetProductQuantity(ctx context.Context, id int64, qty int) (int, error) {
	defer s.enter(ctx)()

	p, ok := s.products[id]
	if !ok {
		return 0, apperror.NewNotFound("product", id)
	}
	prev := p.Quantity
	p.Quantity = qty
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return prev, nil
}

// --- movements ---

func (s *Store) InsertMovement(ctx context.Context, m *domain.StockMovement) (int64, error) {
	defer s.enter(ctx)()

	if _, ok := s.products[m.ProductID]; !ok {
		return 0, apperror.NewReference("product", m.ProductID)
	}

	s.nextMovementID++
	m.ID = s.nextMovementID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.movements = append(s.movements, *m)
	return m.ID, nil
}

func (s *Store) MovementsByProduct(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error) {
	defer s.enter(ctx)()

	var out []domain.StockMovement
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].ProductID != productID {
			continue
		}
		out = append(out, s.movements[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MovementsByReference(ctx context.Context, refType string, refID int64) ([]domain.StockMovement, error) {
	defer s.enter(ctx)()

	var out []domain.StockMovement
	for _, m := range s.movements {
		if m.RefType != nil && *m.RefType == refType && m.RefID != nil && *m.RefID == refID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- sales ---

func (s *Store) InsertSale(ctx context.Context, sale *domain.Sale) (int64, error) {
	defer s.enter(ctx)()

	for _, existing := range s.sales {
		if existing.InvoiceNumber == sale.InvoiceNumber {
			return 0, apperror.NewDuplicate("sale", "invoice_number", sale.InvoiceNumber)
		}
	}
	if sale.CustomerID != nil {
		if _, ok := s.customers[*sale.CustomerID]; !ok {
			return 0, apperror.NewReference("customer", *sale.CustomerID)
		}
	}
	if _, ok := s.users[sale.UserID]; !ok {
		return 0, apperror.NewReference("user", sale.UserID)
	}

	s.nextSaleID++
	sale.ID = s.nextSaleID
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	s.sales[sale.ID] = *sale
	return sale.ID, nil
}

func (s *Store) InsertSaleItem(ctx context.Context, item *domain.SaleItem) (int64, error) {
	defer s.enter(ctx)()

	if _, ok := s.sales[item.SaleID]; !ok {
		return 0, apperror.NewReference("sale", item.SaleID)
	}
	if item.ProductID != nil {
		if _, ok := s.products[*item.ProductID]; !ok {
			return 0, apperror.NewReference("product", *item.ProductID)
		}
	}

	s.nextItemID++
	item.ID = s.nextItemID
	s.saleItems[item.SaleID] = append(s.saleItems[item.SaleID], *item)
	return item.ID, nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (*domain.EnrichedSale, error) {
	defer s.enter(ctx)()

	sale, ok := s.sales[id]
	if !ok {
		return nil, apperror.NewNotFound("sale", id)
	}
	enriched := s.enrich(sale)
	return &enriched, nil
}

func (s *Store) GetSaleItems(ctx context.Context, saleID int64) ([]domain.EnrichedSaleItem, error) {
	defer s.enter(ctx)()

	items := s.saleItems[saleID]
	out := make([]domain.EnrichedSaleItem, 0, len(items))
	for _, item := range items {
		e := domain.EnrichedSaleItem{SaleItem: item}
		if item.ProductID != nil {
			if p, ok := s.products[*item.ProductID]; ok {
				e.ProductName = p.Name
				e.ProductSKU = p.SKU
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.EnrichedSale, error) {
	defer s.enter(ctx)()
	return s.listWhere(func(domain.Sale) bool { return true }), nil
}

func (s *Store) ListSalesByDate(ctx context.Context, day time.Time) ([]domain.EnrichedSale, error) {
	defer s.enter(ctx)()

	y, m, d := day.Date()
	return s.listWhere(func(sale domain.Sale) bool {
		sy, sm, sd := sale.CreatedAt.Date()
		return sy == y && sm == m && sd == d
	}), nil
}

func (s *Store) ListSalesByCustomer(ctx context.Context, customerID int64) ([]domain.EnrichedSale, error) {
	defer s.enter(ctx)()

	return s.listWhere(func(sale domain.Sale) bool {
		return sale.CustomerID != nil && *sale.CustomerID == customerID
	}), nil
}

func (s *Store) listWhere(match func(domain.Sale) bool) []domain.EnrichedSale {
	out := make([]domain.EnrichedSale, 0)
	for _, sale := range s.sales {
		if match(sale) {
			out = append(out, s.enrich(sale))
		}
	}
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) enrich(sale domain.Sale) domain.EnrichedSale {
	e := domain.EnrichedSale{Sale: sale}
	if sale.CustomerID != nil {
		if c, ok := s.customers[*sale.CustomerID]; ok {
			e.CustomerName = c.Name
			e.CustomerPhone = c.Phone
			e.CustomerAddress = c.Address
		}
	}
	if u, ok := s.users[sale.UserID]; ok {
		e.OperatorName = u.DisplayName
	}
	return e
}

// --- parties ---

func (s *Store) InsertCustomer(ctx context.Context, c *domain.Customer) (int64, error) {
	defer s.enter(ctx)()

	s.nextCustomerID++
	c.ID = s.nextCustomerID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.customers[c.ID] = *c
	return c.ID, nil
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	defer s.enter(ctx)()

	c, ok := s.customers[id]
	if !ok {
		return nil, apperror.NewNotFound("customer", id)
	}
	return &c, nil
}

func (s *Store) InsertUser(ctx context.Context, u *domain.User) (int64, error) {
	defer s.enter(ctx)()

	s.nextUserID++
	u.ID = s.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = *u
	return u.ID, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	defer s.enter(ctx)()

	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id)
	}
	return &u, nil
}

// Ensure interface compliance.
var _ storage.Store = (*Store)(nil)
