package repository

import (
	"context"
	"database/sql"
	"fmt"

	"affiliate-order-sync/internal/model"
)

// MySQLOrderRepository implements OrderRepository against the production
// AffiliateOrders / AffiliateOrderItems tables. The tables are expected to
// exist; this repository performs no schema management.
type MySQLOrderRepository struct {
	db              *sql.DB
	insertOrderStmt string
	insertItemStmt  string
}

// NewMySQLOrderRepository creates a MySQL order repository. The column
// mapping is validated here so a misaligned mapping fails at startup rather
// than silently mis-mapping rows.
func NewMySQLOrderRepository(db *sql.DB) (*MySQLOrderRepository, error) {
	if err := model.ValidateMapping(); err != nil {
		return nil, err
	}

	return &MySQLOrderRepository{
		db:              db,
		insertOrderStmt: insertStatement("AffiliateOrders", model.OrderColumns),
		insertItemStmt:  insertStatement("AffiliateOrderItems", model.ItemColumns),
	}, nil
}

// InsertOrder appends one flattened order row.
func (r *MySQLOrderRepository) InsertOrder(ctx context.Context, row *model.OrderRow) error {
	if _, err := r.db.ExecContext(ctx, r.insertOrderStmt, row.Values()...); err != nil {
		return fmt.Errorf("failed to insert order %s: %w", row.ConversionID, err)
	}
	return nil
}

// InsertOrderItem appends one line-item row.
func (r *MySQLOrderRepository) InsertOrderItem(ctx context.Context, item *model.OrderItemRow) error {
	if _, err := r.db.ExecContext(ctx, r.insertItemStmt, item.Values()...); err != nil {
		return fmt.Errorf("failed to insert line item %d for order %s: %w",
			item.NetworkOrderLineItemID, item.ConversionID, err)
	}
	return nil
}

// Ping verifies the store connection.
func (r *MySQLOrderRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (r *MySQLOrderRepository) Close() error {
	return r.db.Close()
}

// Ensure MySQLOrderRepository implements OrderRepository
var _ OrderRepository = (*MySQLOrderRepository)(nil)
