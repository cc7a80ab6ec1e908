package checkout

import (
	"flexipay-be/internal/config"
	"flexipay-be/internal/money"
)

// discountEpsilon keeps spurious zero-amount discount entries out of the
// payload; float discount totals are rarely exactly zero.
const discountEpsilon = 0.001

type Address struct {
	FullName    string `json:"full_name"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryCode string `json:"country_code"`
	Zipcode     string `json:"zipcode"`
}

type Item struct {
	SKU         string  `json:"sku"`
	DisplayName string  `json:"display_name"`
	ItemURL     string  `json:"item_url"`
	ImageURL    string  `json:"image_url"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
}

// Order is the slice of the merchant order the gateway checkout needs.
type Order struct {
	IncrementID    string   `json:"increment_id"`
	CurrencyCode   string   `json:"currency_code"`
	CustomerEmail  string   `json:"customer_email"`
	Billing        Address  `json:"billing"`
	Shipping       *Address `json:"shipping,omitempty"`
	Items          []Item   `json:"items"`
	ShippingAmount float64  `json:"shipping_amount"`
	ShippingMethod string   `json:"shipping_method"`
	TaxAmount      float64  `json:"tax_amount"`
	DiscountAmount float64  `json:"discount_amount"`
	CouponCode     string   `json:"coupon_code"`
}

// Payload is the JSON-serializable structure the gateway checkout session is
// initiated with, upstream of authorize.
type Payload map[string]interface{}

type Builder struct {
	apiKey              string
	financialProductKey string
	confirmURL          string
	cancelURL           string
	declinedURL         string
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		apiKey:              cfg.FinloopAPIKey,
		financialProductKey: cfg.FinancialProductKey,
		confirmURL:          cfg.MerchantConfirmURL,
		cancelURL:           cfg.MerchantCancelURL,
		declinedURL:         cfg.MerchantDeclinedURL,
	}
}

func (b *Builder) BuildPayload(order Order) Payload {
	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, map[string]interface{}{
			"sku":            it.SKU,
			"display_name":   it.DisplayName,
			"item_url":       it.ItemURL,
			"item_image_url": it.ImageURL,
			"qty":            it.Qty,
			"unit_price":     money.FormatCents(it.UnitPrice),
		})
	}

	billing := map[string]interface{}{
		"email":   order.CustomerEmail,
		"name":    map[string]interface{}{"full": order.Billing.FullName},
		"address": addressBlock(order.Billing),
	}

	payload := Payload{
		"checkout_id":     order.IncrementID,
		"currency":        order.CurrencyCode,
		"shipping_amount": money.FormatCents(order.ShippingAmount),
		"shipping_type":   order.ShippingMethod,
		"tax_amount":      money.FormatCents(order.TaxAmount),
		"merchant": map[string]interface{}{
			"public_api_key":        b.apiKey,
			"user_confirmation_url": b.confirmURL,
			"user_cancel_url":       b.cancelURL,
			"charge_declined_url":   b.declinedURL,
		},
		"config":  map[string]interface{}{"required_billing_fields": "name,address,email"},
		"items":   items,
		"billing": billing,
	}

	if order.DiscountAmount > discountEpsilon {
		payload["discounts"] = []map[string]interface{}{{
			"code":   order.CouponCode,
			"amount": money.FormatCents(order.DiscountAmount),
		}}
	}

	if order.Shipping != nil {
		payload["shipping"] = map[string]interface{}{
			"name":    map[string]interface{}{"full": order.Shipping.FullName},
			"address": addressBlock(*order.Shipping),
		}
	}

	payload["financial_product_key"] = b.financialProductKey
	return payload
}

func addressBlock(a Address) map[string]interface{} {
	return map[string]interface{}{
		"line1":   a.Line1,
		"line2":   a.Line2,
		"city":    a.City,
		"state":   a.Region,
		"country": a.CountryCode,
		"zipcode": a.Zipcode,
	}
}
