// Package postgres implements storage.Store on a hosted PostgreSQL database
// shared by multiple terminals.
//
// Atomicity caveat: RunInUnit here is NOT a database transaction. Each store
// call commits independently and a mid-sequence failure leaves the earlier
// writes in place (see tx.Manager). The per-row quantity updates themselves
// are still atomic conditional statements, so concurrent terminals never
// lose a decrement.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"martpos/internal/core/apperror"
	"martpos/internal/domain"
	"martpos/internal/storage"
	"martpos/pkg/invoice"
)

var tracer = otel.Tracer("martpos/storage/postgres")

// Store implements storage.Store over pgxpool.
type Store struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
	prefix  string
	audit   *Trail
}

// Config holds connection pool configuration.
type Config struct {
	DSN               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultConfig returns sensible pool defaults for a shop backend.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:               dsn,
		MaxConns:          25,
		MinConns:          5,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
	}
}

// New connects, registers the decimal codec and migrates the schema.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		// NUMERIC columns scan straight into decimal values.
		pgxdecimal.Register(conn.TypeMap())
		_, err := conn.Exec(ctx, "SET application_name = 'martpos'")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		prefix:  invoice.DefaultPrefix,
	}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.audit, err = NewTrail(pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Audit returns the backend's audit trail.
func (s *Store) Audit() *Trail {
	return s.audit
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'cashier',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category_id BIGINT,
		supplier_id BIGINT,
		cost_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		selling_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0,
		min_stock INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS stock_movements (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id),
		movement_type TEXT NOT NULL CHECK (movement_type IN ('in','out','adjustment')),
		quantity INTEGER NOT NULL,
		ref_type TEXT,
		ref_id BIGINT,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_movements_product ON stock_movements(product_id);
	CREATE INDEX IF NOT EXISTS idx_movements_reference ON stock_movements(ref_type, ref_id);

	CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		customer_id BIGINT REFERENCES customers(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
		discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax NUMERIC(12,2) NOT NULL DEFAULT 0,
		total NUMERIC(12,2) NOT NULL DEFAULT 0,
		payment_method TEXT NOT NULL DEFAULT 'cash',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_sales_created ON sales(created_at);
	CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_id);

	CREATE TABLE IF NOT EXISTS sale_items (
		id BIGSERIAL PRIMARY KEY,
		sale_id BIGINT NOT NULL REFERENCES sales(id),
		product_id BIGINT REFERENCES products(id),
		quantity INTEGER NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
		line_total NUMERIC(12,2) NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);

	CREATE TABLE IF NOT EXISTS audit_log (
		id BIGSERIAL PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		user_id BIGINT,
		payload JSONB,
		payload_compressed BYTEA,
		compression TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// RunInUnit sequences fn's store calls without wrapping them in a database
// transaction. Pooled connections across terminals make a long-held tx a
// contention hazard, so each call commits on its own; a failure mid-unit
// does not undo earlier calls. Callers that need stronger guarantees run
// against the embedded backend.
func (s *Store) RunInUnit(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "storage.unit")
	defer span.End()

	if err := fn(ctx); err != nil {
		span.SetAttributes(attribute.String("unit.error", err.Error()))
		return err
	}
	return nil
}

// --- error mapping ---

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// --- invoice numbers ---

// NextInvoiceNumber mints a clock-suffixed number. Multiple terminals share
// this database, so a per-day sequence scan would race between commits;
// a millisecond-clock fragment gives collision-resistant numbers without a
// cross-network lock, at the cost of strict sequentiality. The UNIQUE
// constraint on sales.invoice_number remains the backstop.
func (s *Store) NextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	return invoice.FormatClock(s.prefix, now), nil
}

// --- products ---

func (s *Store) InsertProduct(ctx context.Context, p *domain.Product) (int64, error) {
	q := s.builder.Insert("products").
		Columns("sku", "name", "category_id", "supplier_id", "cost_price", "selling_price",
			"quantity", "min_stock", "active").
		Values(p.SKU, p.Name, p.CategoryID, p.SupplierID, p.CostPrice, p.SellingPrice,
			p.Quantity, p.MinStock, p.Active).
		Suffix("RETURNING id, created_at, updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicate("product", "sku", p.SKU)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert product: %w", err))
	}
	return p.ID, nil
}

const productColumns = "id, sku, name, category_id, supplier_id, cost_price, selling_price, quantity, min_stock, active, created_at, updated_at"

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := pgxscan.Get(ctx, s.pool, &p,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get product: %w", err))
	}
	return &p, nil
}

func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	err := pgxscan.Get(ctx, s.pool, &p,
		"SELECT "+productColumns+" FROM products WHERE sku = $1", sku)
	if err != nil {
		if pgxscan.NotFound(err) {
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
	if err := pgxscan.Select(ctx, s.pool, &products, sqlStr, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

func (s *Store) DeactivateProduct(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET active = false, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("deactivate product: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", id)
	}
	return nil
}

// AdjustProductQuantity applies the delta as one conditional UPDATE, so
// concurrent terminals decrementing the same product serialize on the row
// and neither update is lost.
func (s *Store) AdjustProductQuantity(ctx context.Context, id int64, delta int, enforceFloor bool) (int, error) {
	stmt := "UPDATE products SET quantity = quantity + $1, updated_at = now() WHERE id = $2"
	if enforceFloor {
		stmt += " AND quantity + $1 >= 0"
	}
	stmt += " RETURNING quantity"

	var newQty int
	err := s.pool.QueryRow(ctx, stmt, delta, id).Scan(&newQty)
	if errors.Is(err, pgx.ErrNoRows) {
		var current int
		err := s.pool.QueryRow(ctx, "SELECT quantity FROM products WHERE id = $1", id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("product", id)
		}
		if err != nil {
			return 0, apperror.NewDatabase(err)
		}
		return 0, apperror.NewInsufficientStock(id, -delta, current)
	}
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("adjust quantity: %w", err))
	}
	return newQty, nil
}

// SetProductQuantity replaces the on-hand quantity under a row lock and
// returns the value it replaced.
func (s *Store) SetProductQuantity(ctx context.Context, id int64, qty int) (int, error) {
	var prev int
	err := s.pool.QueryRow(ctx, `
		UPDATE products p SET quantity = $2, updated_at = now()
		FROM (SELECT quantity FROM products WHERE id = $1 FOR UPDATE) old
		WHERE p.id = $1
		RETURNING old.quantity`, id, qty).Scan(&prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewNotFound("product", id)
	}
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("set quantity: %w", err))
	}
	return prev, nil
}

// --- movements ---

func (s *Store) InsertMovement(ctx context.Context, m *domain.StockMovement) (int64, error) {
	q := s.builder.Insert("stock_movements").
		Columns("product_id", "movement_type", "quantity", "ref_type", "ref_id", "note").
		Values(m.ProductID, m.Type, m.Quantity, m.RefType, m.RefID, m.Note).
		Suffix("RETURNING id, created_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperror.NewReference("product", m.ProductID)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert movement: %w", err))
	}

	s.audit.Record(ctx, "stock_movement", m.ID, "create", m)
	return m.ID, nil
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
	if err := pgxscan.Select(ctx, s.pool, &movements, sqlStr, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("movements by product: %w", err))
	}
	return movements, nil
}

func (s *Store) MovementsByReference(ctx context.Context, refType string, refID int64) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := pgxscan.Select(ctx, s.pool, &movements,
		"SELECT "+movementColumns+" FROM stock_movements WHERE ref_type = $1 AND ref_id = $2 ORDER BY id",
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
		Columns("invoice_number", "customer_id", "user_id", "subtotal", "discount", "tax",
			"total", "payment_method", "created_at").
		Values(sale.InvoiceNumber, sale.CustomerID, sale.UserID, sale.Subtotal, sale.Discount,
			sale.Tax, sale.Total, sale.PaymentMethod, sale.CreatedAt).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&sale.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicate("sale", "invoice_number", sale.InvoiceNumber)
		}
		if isForeignKeyViolation(err) {
			return 0, apperror.NewReference("customer or user", sale.UserID)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert sale: %w", err))
	}

	s.audit.Record(ctx, "sale", sale.ID, "create", sale)
	return sale.ID, nil
}

func (s *Store) InsertSaleItem(ctx context.Context, item *domain.SaleItem) (int64, error) {
	q := s.builder.Insert("sale_items").
		Columns("sale_id", "product_id", "quantity", "unit_price", "discount", "tax_rate", "line_total").
		Values(item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Discount,
			item.TaxRate, item.LineTotal).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, apperror.NewInternal(fmt.Errorf("build insert: %w", err))
	}

	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperror.NewReference("sale or product", item.SaleID)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert sale item: %w", err))
	}
	return item.ID, nil
}

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
	err := pgxscan.Get(ctx, s.pool, &sale, enrichedSaleSelect+" WHERE s.id = $1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get sale: %w", err))
	}
	return &sale, nil
}

func (s *Store) GetSaleItems(ctx context.Context, saleID int64) ([]domain.EnrichedSaleItem, error) {
	var items []domain.EnrichedSaleItem
	err := pgxscan.Select(ctx, s.pool, &items, `
		SELECT i.id, i.sale_id, i.product_id, i.quantity, i.unit_price, i.discount,
		       i.tax_rate, i.line_total,
		       COALESCE(p.name, '') AS product_name,
		       COALESCE(p.sku, '') AS product_sku
		FROM sale_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.id`, saleID)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("get sale items: %w", err))
	}
	return items, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.EnrichedSale, error) {
	var sales []domain.EnrichedSale
	err := pgxscan.Select(ctx, s.pool, &sales, enrichedSaleSelect+" ORDER BY s.id DESC")
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list sales: %w", err))
	}
	return sales, nil
}

func (s *Store) ListSalesByDate(ctx context.Context, day time.Time) ([]domain.EnrichedSale, error) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var sales []domain.EnrichedSale
	err := pgxscan.Select(ctx, s.pool, &sales,
		enrichedSaleSelect+" WHERE s.created_at >= $1 AND s.created_at < $2 ORDER BY s.id DESC",
		start, end)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list sales by date: %w", err))
	}
	return sales, nil
}

func (s *Store) ListSalesByCustomer(ctx context.Context, customerID int64) ([]domain.EnrichedSale, error) {
	var sales []domain.EnrichedSale
	err := pgxscan.Select(ctx, s.pool, &sales,
		enrichedSaleSelect+" WHERE s.customer_id = $1 ORDER BY s.id DESC", customerID)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list sales by customer: %w", err))
	}
	return sales, nil
}

// --- parties ---

func (s *Store) InsertCustomer(ctx context.Context, c *domain.Customer) (int64, error) {
	err := s.pool.QueryRow(ctx,
		"INSERT INTO customers (name, phone, address) VALUES ($1, $2, $3) RETURNING id, created_at",
		c.Name, c.Phone, c.Address).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("insert customer: %w", err))
	}
	return c.ID, nil
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := pgxscan.Get(ctx, s.pool, &c,
		"SELECT id, name, phone, address, created_at FROM customers WHERE id = $1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get customer: %w", err))
	}
	return &c, nil
}

func (s *Store) InsertUser(ctx context.Context, u *domain.User) (int64, error) {
	err := s.pool.QueryRow(ctx,
		"INSERT INTO users (username, display_name, role) VALUES ($1, $2, $3) RETURNING id, created_at",
		u.Username, u.DisplayName, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicate("user", "username", u.Username)
		}
		return 0, apperror.NewDatabase(fmt.Errorf("insert user: %w", err))
	}
	return u.ID, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := pgxscan.Get(ctx, s.pool, &u,
		"SELECT id, username, display_name, role, created_at FROM users WHERE id = $1", id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", id)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get user: %w", err))
	}
	return &u, nil
}

// Ensure interface compliance.
var _ storage.Store = (*Store)(nil)
