package model

import "github.com/shopspring/decimal"

// ConversionPage is one page of the reporting API response.
type ConversionPage struct {
	Paging      Paging             `json:"paging"`
	Conversions []ConversionRecord `json:"conversions"`
}

// Paging describes how much of the result set has been returned so far.
type Paging struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// HasMore reports whether pages remain after this one.
func (p Paging) HasMore() bool {
	return p.Page*p.PageSize < p.TotalCount
}

// ConversionRecord is one approved conversion/order as reported by the
// network. conversion_id is expected to be a UUID; records that fail that
// check are skipped during ingestion.
type ConversionRecord struct {
	ConversionID                string              `json:"conversion_id"`
	ConversionUnixTimestamp     int64               `json:"conversion_unix_timestamp"`
	Sub1                        string              `json:"sub1"`
	Sub2                        string              `json:"sub2"`
	Sub3                        string              `json:"sub3"`
	Sub4                        string              `json:"sub4"`
	Sub5                        string              `json:"sub5"`
	SourceID                    string              `json:"source_id"`
	Status                      string              `json:"status"`
	PayoutType                  string              `json:"payout_type"`
	RevenueType                 string              `json:"revenue_type"`
	Payout                      decimal.Decimal     `json:"payout"`
	Revenue                     decimal.Decimal     `json:"revenue"`
	SessionUserIP               string              `json:"session_user_ip"`
	ConversionUserIP            string              `json:"conversion_user_ip"`
	Country                     string              `json:"country"`
	Region                      string              `json:"region"`
	City                        string              `json:"city"`
	Dma                         *int                `json:"dma"`
	Carrier                     string              `json:"carrier"`
	Platform                    string              `json:"platform"`
	OsVersion                   string              `json:"os_version"`
	DeviceType                  string              `json:"device_type"`
	DeviceModel                 string              `json:"device_model"`
	Brand                       string              `json:"brand"`
	Browser                     string              `json:"browser"`
	Language                    string              `json:"language"`
	HTTPUserAgent               string              `json:"http_user_agent"`
	Adv1                        string              `json:"adv1"`
	Adv2                        string              `json:"adv2"`
	Adv3                        string              `json:"adv3"`
	Adv4                        string              `json:"adv4"`
	Adv5                        string              `json:"adv5"`
	IsEvent                     *bool               `json:"is_event"`
	Event                       string              `json:"event"`
	Notes                       string              `json:"notes"`
	TransactionID               string              `json:"transaction_id"`
	ClickUnixTimestamp          *int64              `json:"click_unix_timestamp"`
	ErrorCode                   *int                `json:"error_code"`
	ErrorMessage                string              `json:"error_message"`
	SaleAmount                  decimal.NullDecimal `json:"sale_amount"`
	IsScrub                     *bool               `json:"is_scrub"`
	CouponCode                  string              `json:"coupon_code"`
	OrderID                     string              `json:"order_id"`
	URL                         string              `json:"url"`
	Isp                         string              `json:"isp"`
	Referer                     string              `json:"referer"`
	AppID                       string              `json:"app_id"`
	CurrencyID                  string              `json:"currency_id"`
	Email                       string              `json:"email"`
	IsViewThrough               *bool               `json:"is_view_through"`
	PreviousNetworkOfferID      *int                `json:"previous_network_offer_id"`
	Relationship                Relationship        `json:"relationship"`
	NetworkOfferPayoutRevenueID *int                `json:"network_offer_payout_revenue_id"`
}

// Relationship bundles the descriptive sub-entities attached to a conversion.
type Relationship struct {
	Offer             Offer             `json:"offer"`
	Advertiser        Advertiser        `json:"advertiser"`
	AccountManager    AccountManager    `json:"account_manager"`
	Affiliate         Affiliate         `json:"affiliate"`
	AffiliateManager  AffiliateManager  `json:"affiliate_manager"`
	QueryParameters   map[string]string `json:"query_parameters"`
	AttributionMethod string            `json:"attribution_method"`
	UsmData           string            `json:"usm_data"`
	OrderLineItems    []LineItem        `json:"order_line_items"`
}

// Offer is the offer the conversion was attributed to.
type Offer struct {
	NetworkOfferID int    `json:"network_offer_id"`
	NetworkID      int    `json:"network_id"`
	Name           string `json:"name"`
	OfferStatus    string `json:"offer_status"`
}

// Advertiser is the advertiser behind the offer.
type Advertiser struct {
	NetworkAdvertiserID int    `json:"network_advertiser_id"`
	NetworkID           int    `json:"network_id"`
	Name                string `json:"name"`
	AccountStatus       string `json:"account_status"`
}

// AccountManager is the network employee managing the advertiser account.
type AccountManager struct {
	NetworkEmployeeID int    `json:"network_employee_id"`
	NetworkID         int    `json:"network_id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	FullName          string `json:"full_name"`
	AccountStatus     string `json:"account_status"`
}

// Affiliate is the partner that drove the conversion.
type Affiliate struct {
	NetworkAffiliateID int    `json:"network_affiliate_id"`
	NetworkID          int    `json:"network_id"`
	Name               string `json:"name"`
	AccountStatus      string `json:"account_status"`
}

// AffiliateManager is the network employee managing the affiliate account.
type AffiliateManager struct {
	NetworkEmployeeID int    `json:"network_employee_id"`
	NetworkID         int    `json:"network_id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	FullName          string `json:"full_name"`
	AccountStatus     string `json:"account_status"`
}

// LineItem is one product/unit entry within an order's cart. Line items carry
// no independent global identity; they are keyed by the parent conversion.
type LineItem struct {
	NetworkOrderLineItemID int             `json:"network_order_line_item_id"`
	OrderID                int             `json:"order_id"`
	OrderNumber            int             `json:"order_number"`
	ProductID              int64           `json:"product_id"`
	Sku                    string          `json:"sku"`
	Name                   string          `json:"name"`
	Quantity               int             `json:"quantity"`
	Price                  decimal.Decimal `json:"price"`
	Discount               decimal.Decimal `json:"discount"`
}
