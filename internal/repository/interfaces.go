package repository

import (
	"context"
	"fmt"
	"strings"

	"affiliate-order-sync/internal/model"
)

// OrderRepository defines the destination store contract: plain inserts that
// fail per row. No upsert or dedup semantics are provided here.
type OrderRepository interface {
	// InsertOrder appends one flattened order row.
	InsertOrder(ctx context.Context, row *model.OrderRow) error

	// InsertOrderItem appends one line-item row.
	InsertOrderItem(ctx context.Context, item *model.OrderItemRow) error

	// Ping verifies the store connection.
	Ping(ctx context.Context) error

	// Close releases the store connection.
	Close() error
}

// insertStatement builds an INSERT for the given table from a column list.
// Both backends use ? placeholders.
func insertStatement(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)
}
