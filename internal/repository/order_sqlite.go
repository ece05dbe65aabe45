package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"affiliate-order-sync/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteOrderRepository implements OrderRepository using SQLite. Intended for
// development and tests; it bootstraps the two order tables if absent.
type SQLiteOrderRepository struct {
	db              *sql.DB
	insertOrderStmt string
	insertItemStmt  string
}

// NewSQLiteOrderRepository creates a SQLite order repository.
// dbPath is the path to the SQLite database file (e.g., "./data/orders.db")
func NewSQLiteOrderRepository(dbPath string) (*SQLiteOrderRepository, error) {
	if err := model.ValidateMapping(); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteOrderRepository] Initialized with database: %s", dbPath)
	return &SQLiteOrderRepository{
		db:              db,
		insertOrderStmt: insertStatement("AffiliateOrders", model.OrderColumns),
		insertItemStmt:  insertStatement("AffiliateOrderItems", model.ItemColumns),
	}, nil
}

// createTables creates the order tables. The AffiliateOrders columns are
// generated from the declarative mapping so the DDL cannot drift from it.
func createTables(db *sql.DB) error {
	orderCols := "\t\t" + model.OrderColumns[0] + " TEXT NOT NULL"
	for _, col := range model.OrderColumns[1:] {
		orderCols += ",\n\t\t" + col + " TEXT"
	}

	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS AffiliateOrders (
%s
	);
	CREATE TABLE IF NOT EXISTS AffiliateOrderItems (
		conversion_id TEXT NOT NULL,
		network_order_line_item_id INTEGER,
		order_id INTEGER,
		order_number INTEGER,
		product_id INTEGER,
		sku TEXT,
		name TEXT,
		quantity INTEGER,
		price NUMERIC,
		discount NUMERIC
	);
	CREATE INDEX IF NOT EXISTS idx_orders_conversion ON AffiliateOrders(conversion_id);
	CREATE INDEX IF NOT EXISTS idx_items_conversion ON AffiliateOrderItems(conversion_id);
	`, orderCols)

	_, err := db.Exec(query)
	return err
}

// InsertOrder appends one flattened order row.
func (r *SQLiteOrderRepository) InsertOrder(ctx context.Context, row *model.OrderRow) error {
	if _, err := r.db.ExecContext(ctx, r.insertOrderStmt, row.Values()...); err != nil {
		return fmt.Errorf("failed to insert order %s: %w", row.ConversionID, err)
	}
	return nil
}

// InsertOrderItem appends one line-item row.
func (r *SQLiteOrderRepository) InsertOrderItem(ctx context.Context, item *model.OrderItemRow) error {
	if _, err := r.db.ExecContext(ctx, r.insertItemStmt, item.Values()...); err != nil {
		return fmt.Errorf("failed to insert line item %d for order %s: %w",
			item.NetworkOrderLineItemID, item.ConversionID, err)
	}
	return nil
}

// Ping verifies the store connection.
func (r *SQLiteOrderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database.
func (r *SQLiteOrderRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteOrderRepository implements OrderRepository
var _ OrderRepository = (*SQLiteOrderRepository)(nil)
