package repository

import (
	"context"
	"path/filepath"
	"testing"

	"affiliate-order-sync/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteOrderRepository {
	t.Helper()

	repo, err := NewSQLiteOrderRepository(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func sampleRow(id uuid.UUID) *model.OrderRow {
	clickTS := int64(1716990000)
	return &model.OrderRow{
		ConversionID:                id,
		ConversionUnixTimestamp:     1717000000,
		Status:                      "approved",
		Payout:                      decimal.NewFromFloat(12.50),
		Revenue:                     decimal.NewFromFloat(25.00),
		Country:                     "US",
		ClickUnixTimestamp:          &clickTS,
		RelationshipOfferName:       "Spring Sale",
		RelationshipQueryParameters: `{"utm_source":"newsletter"}`,
	}
}

func TestInsertOrderAndItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, repo.InsertOrder(ctx, sampleRow(id)))

	item := &model.OrderItemRow{
		ConversionID:           id,
		NetworkOrderLineItemID: 1,
		OrderID:                1001,
		ProductID:              900001,
		Sku:                    "SKU-RED",
		Name:                   "Red Widget",
		Quantity:               2,
		Price:                  decimal.NewFromFloat(9.99),
		Discount:               decimal.NewFromFloat(1.00),
	}
	require.NoError(t, repo.InsertOrderItem(ctx, item))

	var orderCount, itemCount int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM AffiliateOrders").Scan(&orderCount))
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM AffiliateOrderItems").Scan(&itemCount))
	assert.Equal(t, 1, orderCount)
	assert.Equal(t, 1, itemCount)

	var storedID, offerName string
	require.NoError(t, repo.db.QueryRow(
		"SELECT conversion_id, relationship_offer_name FROM AffiliateOrders").Scan(&storedID, &offerName))
	assert.Equal(t, id.String(), storedID)
	assert.Equal(t, "Spring Sale", offerName)
}

func TestInsertIsPlainAppend(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := uuid.New()

	// No dedup key at the sink: re-running the same window duplicates rows.
	require.NoError(t, repo.InsertOrder(ctx, sampleRow(id)))
	require.NoError(t, repo.InsertOrder(ctx, sampleRow(id)))

	var count int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM AffiliateOrders").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
