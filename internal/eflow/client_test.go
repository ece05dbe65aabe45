package eflow

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"affiliate-order-sync/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.EflowConfig {
	return config.EflowConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		PageSize:   2000,
		TimezoneID: 90,
		CurrencyID: "USD",
		WindowDays: 7,
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

func TestFetchPageRequestShape(t *testing.T) {
	var captured struct {
		query  map[string]string
		apiKey string
		body   map[string]interface{}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.query = map[string]string{}
		for key := range r.URL.Query() {
			captured.query[key] = r.URL.Query().Get(key)
		}
		captured.apiKey = r.Header.Get("X-Eflow-API-Key")

		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &captured.body))

		w.Write([]byte(`{"paging":{"page":3,"page_size":2000,"total_count":6500},"conversions":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), testConfig(server.URL))
	client.now = fixedNow

	result, err := client.FetchPage(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "3", captured.query["page"])
	assert.Equal(t, "2000", captured.query["page_size"])
	assert.Contains(t, captured.query, "order_field")
	assert.Contains(t, captured.query, "order_direction")
	assert.Equal(t, "", captured.query["order_field"])
	assert.Equal(t, "", captured.query["order_direction"])
	assert.Equal(t, "test-key", captured.apiKey)

	assert.Equal(t, float64(90), captured.body["timezone_id"])
	assert.Equal(t, "USD", captured.body["currency_id"])
	assert.Equal(t, "2024-06-08", captured.body["from"])
	assert.Equal(t, "2024-06-14", captured.body["to"])
	assert.Equal(t, true, captured.body["show_events"])
	assert.Equal(t, true, captured.body["show_conversions"])
	assert.Equal(t, map[string]interface{}{
		"filters": []interface{}{
			map[string]interface{}{"resource_type": "status", "filter_id_value": "approved"},
		},
		"search_terms": []interface{}{},
	}, captured.body["query"])

	assert.Equal(t, 3, result.Paging.Page)
	assert.Equal(t, 6500, result.Paging.TotalCount)
}

func TestFetchPageDecodesConversions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"paging":{"page":1,"page_size":2000,"total_count":1},
			"conversions":[{
				"conversion_id":"0b5fac27-8fd8-43ad-9b2b-b3a9f7a65c1a",
				"conversion_unix_timestamp":1717000000,
				"payout":12.5,
				"revenue":25,
				"sale_amount":99.95,
				"click_unix_timestamp":1716990000,
				"relationship":{
					"offer":{"network_offer_id":42,"name":"Spring Sale"},
					"query_parameters":{"utm_source":"newsletter"},
					"order_line_items":[{"network_order_line_item_id":1,"price":9.99,"quantity":2}]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), testConfig(server.URL))

	result, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, result.Conversions, 1)

	rec := result.Conversions[0]
	assert.Equal(t, "0b5fac27-8fd8-43ad-9b2b-b3a9f7a65c1a", rec.ConversionID)
	assert.True(t, rec.Payout.Equal(decimal.NewFromFloat(12.5)))
	assert.True(t, rec.SaleAmount.Valid)
	assert.True(t, rec.SaleAmount.Decimal.Equal(decimal.NewFromFloat(99.95)))
	require.NotNil(t, rec.ClickUnixTimestamp)
	assert.Equal(t, int64(1716990000), *rec.ClickUnixTimestamp)
	assert.Equal(t, 42, rec.Relationship.Offer.NetworkOfferID)
	require.Len(t, rec.Relationship.OrderLineItems, 1)
	assert.Equal(t, 2, rec.Relationship.OrderLineItems[0].Quantity)
}

func TestFetchPageNullConversionsIsEmptyNotNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"paging":{"page":1,"page_size":2000,"total_count":0},"conversions":null}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), testConfig(server.URL))

	result, err := client.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, result.Conversions)
	assert.Empty(t, result.Conversions)
}

func TestFetchPageServerErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.Client(), testConfig(server.URL))

	_, err := client.FetchPage(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFetchPageMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"paging":`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), testConfig(server.URL))

	_, err := client.FetchPage(context.Background(), 1)
	require.Error(t, err)
}

func TestFetchPageRejectsNonPositivePage(t *testing.T) {
	client := NewClient(http.DefaultClient, testConfig("http://unused.invalid"))

	_, err := client.FetchPage(context.Background(), 0)
	require.Error(t, err)
}
