// Package sqlite implements storage.Store on an embedded SQLite database.
// This is the single-terminal backend: all writes serialize through SQLite's
// native locking, and RunInUnit maps to a real transaction, so the sale
// write protocol is strictly all-or-nothing here.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	sqlite3 "github.com/mattn/go-sqlite3"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/internal/storage"
	"martpos/pkg/invoice"
	"martpos/pkg/logger"
)

// Store implements storage.Store over database/sql + go-sqlite3.
type Store struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
	prefix  string
}

// New opens (and migrates) the database at path. Use ":memory:" for an
// in-memory database. WAL mode keeps readers unblocked by the single writer.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_loc=UTC")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection sidesteps SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		prefix:  invoice.DefaultPrefix,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'cashier',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category_id INTEGER,
		supplier_id INTEGER,
		cost_price TEXT NOT NULL DEFAULT '0',
		selling_price TEXT NOT NULL DEFAULT '0',
		quantity INTEGER NOT NULL DEFAULT 0,
		min_stock INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	-- Append-only: no UPDATE or DELETE is ever issued against this table.
	CREATE TABLE IF NOT EXISTS stock_movements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id),
		movement_type TEXT NOT NULL CHECK (movement_type IN ('in','out','adjustment')),
		quantity INTEGER NOT NULL,
		ref_type TEXT,
		ref_id INTEGER,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_movements_product ON stock_movements(product_id);
	CREATE INDEX IF NOT EXISTS idx_movements_reference ON stock_movements(ref_type, ref_id);

	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invoice_number TEXT NOT NULL UNIQUE,
		customer_id INTEGER REFERENCES customers(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		subtotal TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '0',
		tax TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL DEFAULT '0',
		payment_method TEXT NOT NULL DEFAULT 'cash',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sales_created ON sales(created_at);
	CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_id);

	CREATE TABLE IF NOT EXISTS sale_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id INTEGER NOT NULL REFERENCES sales(id),
		product_id INTEGER REFERENCES products(id),
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '0',
		tax_rate TEXT NOT NULL DEFAULT '0',
		line_total TEXT NOT NULL DEFAULT '0'
	);
	CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- transactions ---

type txKey struct{}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the active transaction from context, or the bare connection.
func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// RunInUnit executes fn inside one native transaction. Any error rolls the
// whole unit back. Nested calls reuse the transaction from context.
func (s *Store) RunInUnit(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("begin transaction: %w", err))
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDatabase(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// --- error mapping ---

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// --- invoice numbers ---

// NextInvoiceNumber derives today's next sequence from the last persisted
// invoice number carrying today's day prefix. Executed inside the same
// transaction as the insert that consumes it, this is race-free under
// SQLite's single-writer semantics.
func (s *Store) NextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	day := invoice.DayPrefix(s.prefix, now)

	var last string
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT invoice_number FROM sales WHERE invoice_number LIKE ? ORDER BY id DESC LIMIT 1`,
		day+"%",
	).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return invoice.Format(s.prefix, now, 1), nil
	case err != nil:
		return "", apperror.NewDatabase(fmt.Errorf("last invoice number: %w", err))
	}

	seq := invoice.Sequence(last, s.prefix)
	if seq < 0 {
		return "", apperror.NewInternal(fmt.Errorf("unparseable invoice number %q", last))
	}
	return invoice.Format(s.prefix, now, seq+1), nil
}

// --- products ---

func (s *Store) InsertProduct(ctx context.Context, p *domain.Product) (int64, error) {
	now := time.Now().UTC()
	q := s.builder.Insert("products").
		Columns("sku", "name", "category_id", "supplier_id", "cost_price", "selling_price",
			"quantity", "min_stock", "active", "created_at", "updated_at").
		Values(p.SKU, p.Name, p.CategoryID, p.SupplierID, p.CostPrice, p.SellingPrice,
			p.Quantity, p.MinStock, p.Active, now, now)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	res, err := s.q(ctx).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicate("product", "sku", p.SKU)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert product: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return id, nil
}

const productColumns = "id, sku, name, category_id, supplier_id, cost_price, selling_price, quantity, min_stock, active, created_at, updated_at"

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := sqlscan.Get(ctx, s.q(ctx), &p,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get product: %w", err))
	}
	return &p, nil
}

func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	err := sqlscan.Get(ctx, s.q(ctx), &p,
		"SELECT "+productColumns+" FROM products WHERE sku = ?", sku)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get product by sku: %w", err))
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	q := s.builder.Select(productColumns).From("products").OrderBy("id")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build query: %w", err))
	}

	var products []domain.Product
	if err := sqlscan.Select(ctx, s.q(ctx), &products, sqlStr, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

func (s *Store) DeactivateProduct(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE products SET active = 0, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("deactivate product: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("product", id)
	}
	return nil
}

// AdjustProductQuantity applies the delta in one conditional UPDATE rather
// than read-then-write, so two overlapping sales cannot both decrement from
// the same stale value.
func (s *Store) AdjustProductQuantity(ctx context.Context, id int64, delta int, enforceFloor bool) (int, error) {
	stmt := "UPDATE products SET quantity = quantity + ?, updated_at = ? WHERE id = ?"
	args := []any{delta, time.Now().UTC(), id}
	if enforceFloor {
		stmt += " AND quantity + ? >= 0"
		args = append(args, delta)
	}

	res, err := s.q(ctx).ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("adjust quantity: %w", err))
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// Either the product is missing or the floor refused the update.
		var current int
		err := s.q(ctx).QueryRowContext(ctx, "SELECT quantity FROM products WHERE id = ?", id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.NewNotFound("product", id)
		}
		if err != nil {
			return 0, apperror.NewDatabase(err)
		}
		return 0, apperror.NewInsufficientStock(id, -delta, current)
	}

	var newQty int
	if err := s.q(ctx).QueryRowContext(ctx, "SELECT quantity FROM products WHERE id = ?", id).Scan(&newQty); err != nil {
		return 0, apperror.NewDatabase(err)
	}
	return newQty, nil
}

func (s *Store) SetProductQuantity(ctx context.Context, id int64, qty int) (int, error) {
	var prev int
	err := s.q(ctx).QueryRowContext(ctx, "SELECT quantity FROM products WHERE id = ?", id).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperror.NewNotFound("product", id)
	}
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}

	_, err = s.q(ctx).ExecContext(ctx,
		"UPDATE products SET quantity = ?, updated_at = ? WHERE id = ?",
		qty, time.Now().UTC(), id)
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("set quantity: %w", err))
	}
	return prev, nil
}

// --- movements ---

func (s *Store) InsertMovement(ctx context.Context, m *domain.StockMovement) (int64, error) {
	now := time.Now().UTC()
	q := s.builder.Insert("stock_movements").
		Columns("product_id", "movement_type", "quantity", "ref_type", "ref_id", "note", "created_at").
		Values(m.ProductID, m.Type, m.Quantity, m.RefType, m.RefID, m.Note, now)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	res, err := s.q(ctx).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperror.NewReference("product", m.ProductID)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert movement: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}
	m.ID = id
	m.CreatedAt = now
	return id, nil
}

const movementColumns = "id, product_id, movement_type, quantity, ref_type, ref_id, note, created_at"

func (s *Store) MovementsByProduct(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error) {
	q := s.builder.Select(movementColumns).From("stock_movements").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build query: %w", err))
	}

	var movements []domain.StockMovement
	if err := sqlscan.Select(ctx, s.q(ctx), &movements, sqlStr, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("movements by product: %w", err))
	}
	return movements, nil
}

func (s *Store) MovementsByReference(ctx context.Context, refType string, refID int64) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := sqlscan.Select(ctx, s.q(ctx), &movements,
		"SELECT "+movementColumns+" FROM stock_movements WHERE ref_type = ? AND ref_id = ? ORDER BY id",
		refType, refID)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("movements by reference: %w", err))
	}
	return movements, nil
}

// --- sales ---

func (s *Store) InsertSale(ctx context.Context, sale *domain.Sale) (int64, error) {
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	q := s.builder.Insert("sales").
		Columns("invoice_number", "customer_id", "user_id", "subtotal", "discount", "tax", "total",
			"payment_method", "created_at").
		Values(sale.InvoiceNumber, sale.CustomerID, sale.UserID, sale.Subtotal, sale.Discount,
			sale.Tax, sale.Total, sale.PaymentMethod, sale.CreatedAt.UTC())

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	res, err := s.q(ctx).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicate("sale", "invoice_number", sale.InvoiceNumber)
		}
		if isForeignKeyViolation(err) {
			return 0, apperror.NewReference("customer or user", sale.UserID)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert sale: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}
	sale.ID = id
	return id, nil
}

func (s *Store) InsertSaleItem(ctx context.Context, item *domain.SaleItem) (int64, error) {
	q := s.builder.Insert("sale_items").
		Columns("sale_id", "product_id", "quantity", "unit_price", "discount", "tax_rate", "line_total").
		Values(item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Discount,
			item.TaxRate, item.LineTotal)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	res, err := s.q(ctx).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperror.NewReference("sale or product", item.SaleID)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert sale item: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}
	item.ID = id
	return id, nil
}

// enrichedSaleSelect joins display fields at read time; a later product or
// customer rename is reflected in older sales on purpose.
const enrichedSaleSelect = `
	SELECT s.id, s.invoice_number, s.customer_id, s.user_id,
	       s.subtotal, s.discount, s.tax, s.total, s.payment_method, s.created_at,
	       COALESCE(c.name, '') AS customer_name,
	       COALESCE(c.phone, '') AS customer_phone,
	       COALESCE(c.address, '') AS customer_address,
	       COALESCE(u.display_name, '') AS operator_name
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id
	LEFT JOIN users u ON u.id = s.user_id`

func (s *Store) GetSale(ctx context.Context, id int64) (*domain.EnrichedSale, error) {
	var sale domain.EnrichedSale
	err := sqlscan.Get(ctx, s.q(ctx), &sale, enrichedSaleSelect+" WHERE s.id = ?", id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get sale: %w", err))
	}
	return &sale, nil
}

func (s *Store) GetSaleItems(ctx context.Context, saleID int64) ([]domain.EnrichedSaleItem, error) {
	var items []domain.EnrichedSaleItem
	err := sqlscan.Select(ctx, s.q(ctx), &items, `
		SELECT i.id, i.sale_id, i.product_id, i.quantity, i.unit_price, i.discount,
		       i.tax_rate, i.line_total,
		       COALESCE(p.name, '') AS product_name,
		       COALESCE(p.sku, '') AS product_sku
		FROM sale_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = ?
		ORDER BY i.id`, saleID)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("get sale items: %w", err))
	}
	return items, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.EnrichedSale, error) {
	var sales []domain.EnrichedSale
	err := sqlscan.Select(ctx, s.q(ctx), &sales, enrichedSaleSelect+" ORDER BY s.id DESC")
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list sales: %w", err))
	}
	return sales, nil
}

func (s *Store) ListSalesByDate(ctx context.Context, day time.Time) ([]domain.EnrichedSale, error) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location()).UTC()
	end := start.Add(24 * time.Hour)

	var sales []domain.EnrichedSale
	err := sqlscan.Select(ctx, s.q(ctx), &sales,
		enrichedSaleSelect+" WHERE s.created_at >= ? AND s.created_at < ? ORDER BY s.id DESC",
		start, end)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list sales by date: %w", err))
	}
	return sales, nil
}

func (s *Store) ListSalesByCustomer(ctx context.Context, customerID int64) ([]domain.EnrichedSale, error) {
	var sales []domain.EnrichedSale
	err := sqlscan.Select(ctx, s.q(ctx), &sales,
		enrichedSaleSelect+" WHERE s.customer_id = ? ORDER BY s.id DESC", customerID)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list sales by customer: %w", err))
	}
	return sales, nil
}

// --- parties ---

func (s *Store) InsertCustomer(ctx context.Context, c *domain.Customer) (int64, error) {
	now := time.Now().UTC()
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO customers (name, phone, address, created_at) VALUES (?, ?, ?, ?)",
		c.Name, c.Phone, c.Address, now)
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("insert customer: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}
	c.ID = id
	c.CreatedAt = now
	return id, nil
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := sqlscan.Get(ctx, s.q(ctx), &c,
		"SELECT id, name, phone, address, created_at FROM customers WHERE id = ?", id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get customer: %w", err))
	}
	return &c, nil
}

func (s *Store) InsertUser(ctx context.Context, u *domain.User) (int64, error) {
	now := time.Now().UTC()
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO users (username, display_name, role, created_at) VALUES (?, ?, ?, ?)",
		u.Username, u.DisplayName, u.Role, now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicate("user", "username", u.Username)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert user: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}
	u.ID = id
	u.CreatedAt = now
	return id, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := sqlscan.Get(ctx, s.q(ctx), &u,
		"SELECT id, username, display_name, role, created_at FROM users WHERE id = ?", id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get user: %w", err))
	}
	return &u, nil
}

// Ensure interface compliance.
var _ storage.Store = (*Store)(nil)
