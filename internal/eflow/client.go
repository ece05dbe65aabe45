// Package eflow fetches conversion report pages from the network's
// reporting API.
package eflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"affiliate-order-sync/internal/config"
	"affiliate-order-sync/internal/model"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// apiKeyHeader carries the reporting API credential.
const apiKeyHeader = "X-Eflow-API-Key"

// Client fetches one page of conversions per call. It performs exactly one
// attempt per page; callers wanting retries must wrap it.
type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
	timezoneID int
	currencyID string
	windowDays int

	// now is swapped out in tests to pin the date window.
	now func() time.Time
}

// NewClient creates a reporting client. The *http.Client is created once at
// startup and shared across pages; the client never recreates it per call.
func NewClient(httpClient *http.Client, cfg config.EflowConfig) *Client {
	return &Client{
		http:       httpClient,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		pageSize:   cfg.PageSize,
		timezoneID: cfg.TimezoneID,
		currencyID: cfg.CurrencyID,
		windowDays: cfg.WindowDays,
		now:        time.Now,
	}
}

type reportRequest struct {
	TimezoneID      int         `json:"timezone_id"`
	CurrencyID      string      `json:"currency_id"`
	From            string      `json:"from"`
	To              string      `json:"to"`
	ShowEvents      bool        `json:"show_events"`
	ShowConversions bool        `json:"show_conversions"`
	Query           reportQuery `json:"query"`
}

type reportQuery struct {
	Filters     []reportFilter `json:"filters"`
	SearchTerms []string       `json:"search_terms"`
}

type reportFilter struct {
	ResourceType  string `json:"resource_type"`
	FilterIDValue string `json:"filter_id_value"`
}

// window returns the trailing report window: from today-windowDays through
// yesterday, UTC.
func (c *Client) window() (from, to string) {
	today := c.now().UTC()
	from = today.AddDate(0, 0, -c.windowDays).Format("2006-01-02")
	to = today.AddDate(0, 0, -1).Format("2006-01-02")
	return from, to
}

// FetchPage issues one authenticated POST for the given page (1-based) and
// decodes the result. Any transport error, non-2xx status or undecodable
// body is returned as an error; there is no retry. On success the returned
// page's Conversions slice is never nil, though it may be empty.
func (c *Client) FetchPage(ctx context.Context, page int) (*model.ConversionPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}

	from, to := c.window()
	reqBody := reportRequest{
		TimezoneID:      c.timezoneID,
		CurrencyID:      c.currencyID,
		From:            from,
		To:              to,
		ShowEvents:      true,
		ShowConversions: true,
		Query: reportQuery{
			Filters: []reportFilter{
				{ResourceType: "status", FilterIDValue: "approved"},
			},
			SearchTerms: []string{},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report request: %w", err)
	}

	url := fmt.Sprintf("%s?page=%d&page_size=%d&order_field=&order_direction=", c.baseURL, page, c.pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report request for page %d failed: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the error message, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("report request for page %d returned status %d: %s", page, resp.StatusCode, snippet)
	}

	var result model.ConversionPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode report response for page %d: %w", page, err)
	}

	if result.Conversions == nil {
		result.Conversions = []model.ConversionRecord{}
	}

	return &result, nil
}
