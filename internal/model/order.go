package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRow is one flattened AffiliateOrders row. Relationship sub-objects are
// spread into relationship_* columns; the query-parameters map is serialized
// to a single JSON string column.
type OrderRow struct {
	ConversionID            uuid.UUID
	ConversionUnixTimestamp int64
	Sub1                    string
	Sub2                    string
	Sub3                    string
	Sub4                    string
	Sub5                    string
	SourceID                string
	Status                  string
	PayoutType              string
	RevenueType             string
	Payout                  decimal.Decimal
	Revenue                 decimal.Decimal
	SessionUserIP           string
	ConversionUserIP        string
	Country                 string
	Region                  string
	City                    string
	Dma                     *int
	Carrier                 string
	Platform                string
	OsVersion               string
	DeviceType              string
	DeviceModel             string
	Brand                   string
	Browser                 string
	Language                string
	HTTPUserAgent           string
	Adv1                    string
	Adv2                    string
	Adv3                    string
	Adv4                    string
	Adv5                    string
	IsEvent                 *bool
	Event                   string
	Notes                   string
	TransactionID           string
	ClickUnixTimestamp      *int64
	ErrorCode               *int
	ErrorMessage            string
	SaleAmount              decimal.NullDecimal
	IsScrub                 *bool
	CouponCode              string
	OrderID                 string
	URL                     string
	Isp                     string
	Referer                 string
	AppID                   string
	CurrencyID              string
	Email                   string
	IsViewThrough           *bool
	PreviousNetworkOfferID  *int

	RelationshipOfferNetworkOfferID               int
	RelationshipOfferNetworkID                    int
	RelationshipOfferName                         string
	RelationshipOfferOfferStatus                  string
	RelationshipAdvertiserNetworkAdvertiserID     int
	RelationshipAdvertiserNetworkID               int
	RelationshipAdvertiserName                    string
	RelationshipAdvertiserAccountStatus           string
	RelationshipAccountManagerNetworkEmployeeID   int
	RelationshipAccountManagerNetworkID           int
	RelationshipAccountManagerFirstName           string
	RelationshipAccountManagerLastName            string
	RelationshipAccountManagerFullName            string
	RelationshipAffiliateNetworkAffiliateID       int
	RelationshipAffiliateNetworkID                int
	RelationshipAffiliateName                     string
	RelationshipAffiliateAccountStatus            string
	RelationshipAffiliateManagerNetworkEmployeeID int
	RelationshipAffiliateManagerNetworkID         int
	RelationshipAffiliateManagerFirstName         string
	RelationshipAffiliateManagerLastName          string
	RelationshipAffiliateManagerFullName          string
	RelationshipAffiliateManagerAccountStatus     string
	RelationshipQueryParameters                   string
	RelationshipAttributionMethod                 string
	RelationshipUsmData                           string

	NetworkOfferPayoutRevenueID *int
}

// OrderItemRow is one AffiliateOrderItems row, stamped with the parent
// order's validated conversion UUID.
type OrderItemRow struct {
	ConversionID           uuid.UUID
	NetworkOrderLineItemID int
	OrderID                int
	OrderNumber            int
	ProductID              int64
	Sku                    string
	Name                   string
	Quantity               int
	Price                  decimal.Decimal
	Discount               decimal.Decimal
}

// OrderColumns lists the AffiliateOrders destination columns in insert order.
// It must stay aligned with OrderRow.Values; ValidateMapping checks the two
// at repository construction time.
var OrderColumns = []string{
	"conversion_id", "conversion_unix_timestamp", "sub1", "sub2", "sub3", "sub4", "sub5",
	"source_id", "status", "payout_type", "revenue_type", "payout", "revenue", "session_user_ip",
	"conversion_user_ip", "country", "region", "city", "dma", "carrier", "platform", "os_version",
	"device_type", "device_model", "brand", "browser", "language", "http_user_agent", "adv1", "adv2",
	"adv3", "adv4", "adv5", "is_event", "event", "notes", "transaction_id", "click_unix_timestamp",
	"error_code", "error_message", "sale_amount", "is_scrub", "coupon_code", "order_id", "url", "isp",
	"referer", "app_id", "currency_id", "email", "is_view_through", "previous_network_offer_id",
	"relationship_offer_network_offer_id", "relationship_offer_network_id",
	"relationship_offer_name", "relationship_offer_offer_status",
	"relationship_advertiser_network_advertiser_id", "relationship_advertiser_network_id",
	"relationship_advertiser_name", "relationship_advertiser_account_status",
	"relationship_account_manager_network_employee_id",
	"relationship_account_manager_network_id", "relationship_account_manager_first_name",
	"relationship_account_manager_last_name", "relationship_account_manager_full_name",
	"relationship_affiliate_network_affiliate_id", "relationship_affiliate_network_id",
	"relationship_affiliate_name", "relationship_affiliate_account_status",
	"relationship_affiliate_manager_network_employee_id",
	"relationship_affiliate_manager_network_id", "relationship_affiliate_manager_first_name",
	"relationship_affiliate_manager_last_name", "relationship_affiliate_manager_full_name",
	"relationship_affiliate_manager_account_status", "relationship_query_parameters",
	"relationship_attribution_method", "relationship_usm_data", "network_offer_payout_revenue_id",
}

// ItemColumns lists the AffiliateOrderItems destination columns in insert order.
var ItemColumns = []string{
	"conversion_id", "network_order_line_item_id", "order_id", "order_number",
	"product_id", "sku", "name", "quantity", "price", "discount",
}

// Values returns the row's column values in OrderColumns order.
func (r *OrderRow) Values() []any {
	return []any{
		r.ConversionID, r.ConversionUnixTimestamp, r.Sub1, r.Sub2, r.Sub3, r.Sub4, r.Sub5,
		r.SourceID, r.Status, r.PayoutType, r.RevenueType, r.Payout, r.Revenue, r.SessionUserIP,
		r.ConversionUserIP, r.Country, r.Region, r.City, r.Dma, r.Carrier, r.Platform, r.OsVersion,
		r.DeviceType, r.DeviceModel, r.Brand, r.Browser, r.Language, r.HTTPUserAgent, r.Adv1, r.Adv2,
		r.Adv3, r.Adv4, r.Adv5, r.IsEvent, r.Event, r.Notes, r.TransactionID, r.ClickUnixTimestamp,
		r.ErrorCode, r.ErrorMessage, r.SaleAmount, r.IsScrub, r.CouponCode, r.OrderID, r.URL, r.Isp,
		r.Referer, r.AppID, r.CurrencyID, r.Email, r.IsViewThrough, r.PreviousNetworkOfferID,
		r.RelationshipOfferNetworkOfferID, r.RelationshipOfferNetworkID,
		r.RelationshipOfferName, r.RelationshipOfferOfferStatus,
		r.RelationshipAdvertiserNetworkAdvertiserID, r.RelationshipAdvertiserNetworkID,
		r.RelationshipAdvertiserName, r.RelationshipAdvertiserAccountStatus,
		r.RelationshipAccountManagerNetworkEmployeeID,
		r.RelationshipAccountManagerNetworkID, r.RelationshipAccountManagerFirstName,
		r.RelationshipAccountManagerLastName, r.RelationshipAccountManagerFullName,
		r.RelationshipAffiliateNetworkAffiliateID, r.RelationshipAffiliateNetworkID,
		r.RelationshipAffiliateName, r.RelationshipAffiliateAccountStatus,
		r.RelationshipAffiliateManagerNetworkEmployeeID,
		r.RelationshipAffiliateManagerNetworkID, r.RelationshipAffiliateManagerFirstName,
		r.RelationshipAffiliateManagerLastName, r.RelationshipAffiliateManagerFullName,
		r.RelationshipAffiliateManagerAccountStatus, r.RelationshipQueryParameters,
		r.RelationshipAttributionMethod, r.RelationshipUsmData, r.NetworkOfferPayoutRevenueID,
	}
}

// Values returns the item row's column values in ItemColumns order.
func (r *OrderItemRow) Values() []any {
	return []any{
		r.ConversionID, r.NetworkOrderLineItemID, r.OrderID, r.OrderNumber,
		r.ProductID, r.Sku, r.Name, r.Quantity, r.Price, r.Discount,
	}
}

// ValidateMapping verifies the column lists and value methods are aligned.
// Called once at repository construction so a missing or renamed column
// fails fast instead of silently mis-mapping.
func ValidateMapping() error {
	if n, c := len((&OrderRow{}).Values()), len(OrderColumns); n != c {
		return fmt.Errorf("order mapping misaligned: %d values for %d columns", n, c)
	}
	if n, c := len((&OrderItemRow{}).Values()), len(ItemColumns); n != c {
		return fmt.Errorf("order item mapping misaligned: %d values for %d columns", n, c)
	}
	return nil
}
