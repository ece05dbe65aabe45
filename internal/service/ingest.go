package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"affiliate-order-sync/internal/cache"
	"affiliate-order-sync/internal/mapper"
	"affiliate-order-sync/internal/model"
	"affiliate-order-sync/internal/repository"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LastRunKey is the cache key holding the most recent run summary.
const LastRunKey = "ordersync:lastrun"

// PageFetcher returns one page of conversions. Implemented by eflow.Client.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (*model.ConversionPage, error)
}

// IngestService drives the pagination loop: fetch a page, map and persist
// every record, then continue while paging metadata says more pages exist.
//
// Failure semantics: a fetch failure aborts the whole run. A single record's
// mapping or insert failure is logged and the loop continues with the next
// record. Order rows and line items get the same per-row isolation; when an
// order row fails to insert, its line items are not attempted.
type IngestService struct {
	fetcher     PageFetcher
	orders      repository.OrderRepository
	statusCache cache.Cache
	statusTTL   time.Duration
	maxPages    int
}

// NewIngestService creates an ingest service. statusCache may be nil, in
// which case run summaries are not recorded.
func NewIngestService(fetcher PageFetcher, orders repository.OrderRepository, statusCache cache.Cache, statusTTL time.Duration, maxPages int) *IngestService {
	if maxPages <= 0 {
		maxPages = 1000
	}
	return &IngestService{
		fetcher:     fetcher,
		orders:      orders,
		statusCache: statusCache,
		statusTTL:   statusTTL,
		maxPages:    maxPages,
	}
}

// Run executes one ingestion run over the configured date window, one page
// at a time, sequentially. It returns a summary on success; fetch or store
// connection failures abort the run with an error.
func (s *IngestService) Run(ctx context.Context) (*model.IngestSummary, error) {
	summary := &model.IngestSummary{StartedAt: time.Now().UTC()}

	page := 1
	for {
		log.Printf("[Ingest] Fetching page %d", page)

		result, err := s.fetcher.FetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch aborted run at page %d: %w", page, err)
		}
		summary.Pages++

		if len(result.Conversions) == 0 {
			if page == 1 {
				log.Printf("[Ingest] First page is empty, nothing to process")
				summary.NoData = true
			} else {
				log.Printf("[Ingest] Page %d is empty, stopping", page)
			}
			break
		}

		s.processPage(ctx, result.Conversions, summary)

		if !result.Paging.HasMore() {
			break
		}

		page++
		if page > s.maxPages {
			// total_count comes from the source and can drift mid-run; the
			// cap keeps a moving target from looping forever.
			log.Printf("[Ingest] Reached max page cap (%d), stopping", s.maxPages)
			break
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	log.Printf("[Ingest] Run finished: pages=%d records=%d orders=%d skipped=%d failed=%d items=%d item_failures=%d",
		summary.Pages, summary.Records, summary.OrdersInserted, summary.OrdersSkipped,
		summary.OrdersFailed, summary.ItemsInserted, summary.ItemsFailed)

	s.saveSummary(ctx, summary)

	return summary, nil
}

// processPage maps and persists every record in a page. Failures are
// absorbed per record; the page always runs to completion.
func (s *IngestService) processPage(ctx context.Context, records []model.ConversionRecord, summary *model.IngestSummary) {
	for i := range records {
		rec := &records[i]
		summary.Records++

		row, items, err := mapper.MapOrder(rec)
		if err != nil {
			if errors.Is(err, mapper.ErrSkipRecord) {
				log.Printf("[Ingest] Skipping record: %v", err)
				summary.OrdersSkipped++
				continue
			}
			log.Printf("[Ingest] Failed to map record %s: %v", rec.ConversionID, err)
			summary.OrdersFailed++
			continue
		}

		if err := s.orders.InsertOrder(ctx, row); err != nil {
			log.Printf("[Ingest] Failed to insert order: %v", err)
			summary.OrdersFailed++
			continue
		}
		summary.OrdersInserted++

		for j := range items {
			if err := s.orders.InsertOrderItem(ctx, &items[j]); err != nil {
				log.Printf("[Ingest] Failed to insert line item: %v", err)
				summary.ItemsFailed++
				continue
			}
			summary.ItemsInserted++
		}
	}
}

// saveSummary records the run summary in the status cache, best effort.
func (s *IngestService) saveSummary(ctx context.Context, summary *model.IngestSummary) {
	if s.statusCache == nil {
		return
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		log.Printf("[Ingest] Failed to encode run summary: %v", err)
		return
	}

	if err := s.statusCache.Set(ctx, LastRunKey, payload, s.statusTTL); err != nil {
		log.Printf("[Ingest] Failed to record run summary: %v", err)
	}
}

// LastSummary returns the most recent run summary, or cache.ErrCacheMiss if
// no run has been recorded.
func (s *IngestService) LastSummary(ctx context.Context) (*model.IngestSummary, error) {
	if s.statusCache == nil {
		return nil, cache.ErrCacheMiss
	}

	payload, err := s.statusCache.Get(ctx, LastRunKey)
	if err != nil {
		return nil, err
	}

	var summary model.IngestSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode run summary: %w", err)
	}
	return &summary, nil
}
