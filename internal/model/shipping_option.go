package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObjectShippingOption is the object name reported for shipping options.
const ObjectShippingOption = "shipping-option"

type ShippingOptionPriceType string

const (
	ShippingOptionPriceTypeFlatRate   ShippingOptionPriceType = "flat_rate"
	ShippingOptionPriceTypeCalculated ShippingOptionPriceType = "calculated"
)

// ShippingOption is a way of shipping offered in a region. Amount is null
// for calculated options.
type ShippingOption struct {
	ID         string                  `db:"id" json:"id"`
	Name       string                  `db:"name" json:"name"`
	RegionID   string                  `db:"region_id" json:"region_id"`
	ProfileID  string                  `db:"profile_id" json:"profile_id"`
	ProviderID string                  `db:"provider_id" json:"provider_id"`
	PriceType  ShippingOptionPriceType `db:"price_type" json:"price_type"`
	Amount     decimal.NullDecimal     `db:"amount" json:"amount"`
	IsReturn   bool                    `db:"is_return" json:"is_return"`
	AdminOnly  bool                    `db:"admin_only" json:"admin_only"`
	Metadata   map[string]any          `db:"metadata" json:"metadata"`
	CreatedAt  time.Time               `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time               `db:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time              `db:"deleted_at" json:"deleted_at"`
}
