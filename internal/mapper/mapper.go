// Package mapper flattens nested conversion records into relational rows.
package mapper

import (
	"errors"
	"fmt"
	"log"

	"affiliate-order-sync/internal/model"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrSkipRecord marks a record that must be skipped, not persisted. It is
// never fatal: the ingestion loop logs it and moves on to the next record.
var ErrSkipRecord = errors.New("record skipped")

// MapOrder converts one conversion record into a flat order row plus zero or
// more line-item rows. A conversion_id that does not parse as a UUID yields
// an ErrSkipRecord-wrapped error and no rows. Every line-item row is stamped
// with the parent's parsed UUID.
func MapOrder(rec *model.ConversionRecord) (*model.OrderRow, []model.OrderItemRow, error) {
	conversionID, err := uuid.Parse(rec.ConversionID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid conversion_id %q", ErrSkipRecord, rec.ConversionID)
	}

	rel := rec.Relationship

	queryParams, err := json.MarshalToString(rel.QueryParameters)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: query parameters for %s not serializable: %v", ErrSkipRecord, conversionID, err)
	}

	row := &model.OrderRow{
		ConversionID:            conversionID,
		ConversionUnixTimestamp: rec.ConversionUnixTimestamp,
		Sub1:                    rec.Sub1,
		Sub2:                    rec.Sub2,
		Sub3:                    rec.Sub3,
		Sub4:                    rec.Sub4,
		Sub5:                    rec.Sub5,
		SourceID:                rec.SourceID,
		Status:                  rec.Status,
		PayoutType:              rec.PayoutType,
		RevenueType:             rec.RevenueType,
		Payout:                  rec.Payout,
		Revenue:                 rec.Revenue,
		SessionUserIP:           rec.SessionUserIP,
		ConversionUserIP:        rec.ConversionUserIP,
		Country:                 rec.Country,
		Region:                  rec.Region,
		City:                    rec.City,
		Dma:                     rec.Dma,
		Carrier:                 rec.Carrier,
		Platform:                rec.Platform,
		OsVersion:               rec.OsVersion,
		DeviceType:              rec.DeviceType,
		DeviceModel:             rec.DeviceModel,
		Brand:                   rec.Brand,
		Browser:                 rec.Browser,
		Language:                rec.Language,
		HTTPUserAgent:           rec.HTTPUserAgent,
		Adv1:                    rec.Adv1,
		Adv2:                    rec.Adv2,
		Adv3:                    rec.Adv3,
		Adv4:                    rec.Adv4,
		Adv5:                    rec.Adv5,
		IsEvent:                 rec.IsEvent,
		Event:                   rec.Event,
		Notes:                   rec.Notes,
		TransactionID:           rec.TransactionID,
		ClickUnixTimestamp:      rec.ClickUnixTimestamp,
		ErrorCode:               rec.ErrorCode,
		ErrorMessage:            rec.ErrorMessage,
		SaleAmount:              rec.SaleAmount,
		IsScrub:                 rec.IsScrub,
		CouponCode:              rec.CouponCode,
		OrderID:                 rec.OrderID,
		URL:                     rec.URL,
		Isp:                     rec.Isp,
		Referer:                 rec.Referer,
		AppID:                   rec.AppID,
		CurrencyID:              rec.CurrencyID,
		Email:                   rec.Email,
		IsViewThrough:           rec.IsViewThrough,
		PreviousNetworkOfferID:  rec.PreviousNetworkOfferID,

		RelationshipOfferNetworkOfferID:               rel.Offer.NetworkOfferID,
		RelationshipOfferNetworkID:                    rel.Offer.NetworkID,
		RelationshipOfferName:                         rel.Offer.Name,
		RelationshipOfferOfferStatus:                  rel.Offer.OfferStatus,
		RelationshipAdvertiserNetworkAdvertiserID:     rel.Advertiser.NetworkAdvertiserID,
		RelationshipAdvertiserNetworkID:               rel.Advertiser.NetworkID,
		RelationshipAdvertiserName:                    rel.Advertiser.Name,
		RelationshipAdvertiserAccountStatus:           rel.Advertiser.AccountStatus,
		RelationshipAccountManagerNetworkEmployeeID:   rel.AccountManager.NetworkEmployeeID,
		RelationshipAccountManagerNetworkID:           rel.AccountManager.NetworkID,
		RelationshipAccountManagerFirstName:           rel.AccountManager.FirstName,
		RelationshipAccountManagerLastName:            rel.AccountManager.LastName,
		RelationshipAccountManagerFullName:            rel.AccountManager.FullName,
		RelationshipAffiliateNetworkAffiliateID:       rel.Affiliate.NetworkAffiliateID,
		RelationshipAffiliateNetworkID:                rel.Affiliate.NetworkID,
		RelationshipAffiliateName:                     rel.Affiliate.Name,
		RelationshipAffiliateAccountStatus:            rel.Affiliate.AccountStatus,
		RelationshipAffiliateManagerNetworkEmployeeID: rel.AffiliateManager.NetworkEmployeeID,
		RelationshipAffiliateManagerNetworkID:         rel.AffiliateManager.NetworkID,
		RelationshipAffiliateManagerFirstName:         rel.AffiliateManager.FirstName,
		RelationshipAffiliateManagerLastName:          rel.AffiliateManager.LastName,
		RelationshipAffiliateManagerFullName:          rel.AffiliateManager.FullName,
		RelationshipAffiliateManagerAccountStatus:     rel.AffiliateManager.AccountStatus,
		RelationshipQueryParameters:                   queryParams,
		RelationshipAttributionMethod:                 rel.AttributionMethod,
		RelationshipUsmData:                           rel.UsmData,

		NetworkOfferPayoutRevenueID: rec.NetworkOfferPayoutRevenueID,
	}

	if len(rel.OrderLineItems) == 0 {
		log.Printf("[Mapper] Order %s has no line items", conversionID)
		return row, []model.OrderItemRow{}, nil
	}

	items := make([]model.OrderItemRow, 0, len(rel.OrderLineItems))
	for _, item := range rel.OrderLineItems {
		items = append(items, model.OrderItemRow{
			ConversionID:           conversionID,
			NetworkOrderLineItemID: item.NetworkOrderLineItemID,
			OrderID:                item.OrderID,
			OrderNumber:            item.OrderNumber,
			ProductID:              item.ProductID,
			Sku:                    item.Sku,
			Name:                   item.Name,
			Quantity:               item.Quantity,
			Price:                  item.Price,
			Discount:               item.Discount,
		})
	}

	return row, items, nil
}
