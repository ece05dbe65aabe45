package model

import "time"

// IngestSummary reports the outcome of one ingestion run.
type IngestSummary struct {
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration_ns"`
	Pages          int           `json:"pages"`
	Records        int           `json:"records"`
	OrdersInserted int           `json:"orders_inserted"`
	OrdersSkipped  int           `json:"orders_skipped"`
	OrdersFailed   int           `json:"orders_failed"`
	ItemsInserted  int           `json:"items_inserted"`
	ItemsFailed    int           `json:"items_failed"`
	NoData         bool          `json:"no_data"`
}
