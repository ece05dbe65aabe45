package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"affiliate-order-sync/internal/cache"
	"affiliate-order-sync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves scripted pages and records which pages were requested.
type fakeFetcher struct {
	pages map[int]*model.ConversionPage
	errs  map[int]error
	calls []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, page int) (*model.ConversionPage, error) {
	f.calls = append(f.calls, page)
	if err, ok := f.errs[page]; ok {
		return nil, err
	}
	result, ok := f.pages[page]
	if !ok {
		return nil, fmt.Errorf("unexpected page %d", page)
	}
	return result, nil
}

// fakeRepo collects inserted rows and can be scripted to fail per row.
type fakeRepo struct {
	orders   []*model.OrderRow
	items    []*model.OrderItemRow
	orderErr func(row *model.OrderRow) error
	itemErr  func(item *model.OrderItemRow) error
}

func (r *fakeRepo) InsertOrder(ctx context.Context, row *model.OrderRow) error {
	if r.orderErr != nil {
		if err := r.orderErr(row); err != nil {
			return err
		}
	}
	r.orders = append(r.orders, row)
	return nil
}

func (r *fakeRepo) InsertOrderItem(ctx context.Context, item *model.OrderItemRow) error {
	if r.itemErr != nil {
		if err := r.itemErr(item); err != nil {
			return err
		}
	}
	r.items = append(r.items, item)
	return nil
}

func (r *fakeRepo) Ping(ctx context.Context) error { return nil }
func (r *fakeRepo) Close() error                   { return nil }

func makeRecords(n int) []model.ConversionRecord {
	records := make([]model.ConversionRecord, n)
	for i := range records {
		records[i] = model.ConversionRecord{
			ConversionID: uuid.New().String(),
			Status:       "approved",
		}
	}
	return records
}

func withItems(rec model.ConversionRecord, n int) model.ConversionRecord {
	for i := 0; i < n; i++ {
		rec.Relationship.OrderLineItems = append(rec.Relationship.OrderLineItems, model.LineItem{
			NetworkOrderLineItemID: i + 1,
			OrderID:                1001,
			Quantity:               1,
		})
	}
	return rec
}

func page(num, size, total int, records []model.ConversionRecord) *model.ConversionPage {
	return &model.ConversionPage{
		Paging:      model.Paging{Page: num, PageSize: size, TotalCount: total},
		Conversions: records,
	}
}

func newTestService(fetcher *fakeFetcher, repo *fakeRepo) *IngestService {
	return NewIngestService(fetcher, repo, cache.NewMemoryCache(), time.Hour, 1000)
}

func TestRunFetchesUntilTotalCountExhausted(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{
		1: page(1, 2000, 2500, makeRecords(2000)),
		2: page(2, 2000, 2500, makeRecords(500)),
	}}
	repo := &fakeRepo{}

	summary, err := newTestService(fetcher, repo).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, fetcher.calls)
	assert.Equal(t, 2500, summary.Records)
	assert.Equal(t, 2500, summary.OrdersInserted)
	assert.Len(t, repo.orders, 2500)
	assert.False(t, summary.NoData)
}

func TestRunStopsAfterSinglePage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{
		1: page(1, 2000, 1500, makeRecords(3)),
	}}
	repo := &fakeRepo{}

	_, err := newTestService(fetcher, repo).Run(context.Background())
	require.NoError(t, err)

	// page * page_size >= total_count: no further fetch call.
	assert.Equal(t, []int{1}, fetcher.calls)
}

func TestRunEmptyFirstPageIsNoData(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{
		1: page(1, 2000, 0, nil),
	}}
	repo := &fakeRepo{}

	summary, err := newTestService(fetcher, repo).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.NoData)
	assert.Empty(t, repo.orders)
	assert.Empty(t, repo.items)
}

func TestRunFetchErrorAbortsRun(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]*model.ConversionPage{
			1: page(1, 2, 5, makeRecords(2)),
		},
		errs: map[int]error{
			2: errors.New("status 500"),
		},
	}
	repo := &fakeRepo{}

	_, err := newTestService(fetcher, repo).Run(context.Background())
	require.Error(t, err)

	// Page 1 rows stay persisted; nothing from page 2 is written.
	assert.Len(t, repo.orders, 2)
}

func TestRunSkipsRecordWithInvalidUUID(t *testing.T) {
	records := makeRecords(10)
	records[4].ConversionID = "not-a-guid"

	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{
		1: page(1, 2000, 10, records),
	}}
	repo := &fakeRepo{}

	summary, err := newTestService(fetcher, repo).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, summary.OrdersInserted)
	assert.Equal(t, 1, summary.OrdersSkipped)
	assert.Len(t, repo.orders, 9)
}

func TestRunOrderInsertFailureIsIsolated(t *testing.T) {
	records := makeRecords(3)
	records[1] = withItems(records[1], 2)
	failing := uuid.MustParse(records[1].ConversionID)

	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{
		1: page(1, 2000, 3, records),
	}}
	repo := &fakeRepo{
		orderErr: func(row *model.OrderRow) error {
			if row.ConversionID == failing {
				return errors.New("column type mismatch")
			}
			return nil
		},
	}

	summary, err := newTestService(fetcher, repo).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.OrdersInserted)
	assert.Equal(t, 1, summary.OrdersFailed)
	// The failed order's line items are not attempted.
	assert.Empty(t, repo.items)
	assert.Equal(t, 0, summary.ItemsInserted)
}

func TestRunLineItemFailureLeavesSiblingsAndParent(t *testing.T) {
	records := []model.ConversionRecord{withItems(makeRecords(1)[0], 3)}

	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{
		1: page(1, 2000, 1, records),
	}}
	repo := &fakeRepo{
		itemErr: func(item *model.OrderItemRow) error {
			if item.NetworkOrderLineItemID == 2 {
				return errors.New("constraint violation")
			}
			return nil
		},
	}

	summary, err := newTestService(fetcher, repo).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OrdersInserted)
	assert.Equal(t, 2, summary.ItemsInserted)
	assert.Equal(t, 1, summary.ItemsFailed)
	assert.Len(t, repo.items, 2)
}

func TestRunStopsAtMaxPageCap(t *testing.T) {
	// Every page claims more data than has been returned.
	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{}}
	for i := 1; i <= 10; i++ {
		fetcher.pages[i] = page(i, 10, 1000000, makeRecords(10))
	}

	svc := NewIngestService(fetcher, &fakeRepo{}, nil, 0, 3)
	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fetcher.calls)
	assert.Equal(t, 3, summary.Pages)
}

func TestRunRecordsSummaryInCache(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*model.ConversionPage{
		1: page(1, 2000, 2, makeRecords(2)),
	}}
	svc := newTestService(fetcher, &fakeRepo{})

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	last, err := svc.LastSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, last.OrdersInserted)
	assert.Equal(t, 1, last.Pages)
}

func TestLastSummaryWithoutRuns(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &fakeRepo{})

	_, err := svc.LastSummary(context.Background())
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
