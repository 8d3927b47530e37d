// Package ussd builds the mobile money dial strings customers use to pay a merchant.
package ussd

import (
	"github.com/shopspring/decimal"
)

type Provider string

const (
	MTNMoMo     Provider = "MTN_MOMO"
	AirtelMoney Provider = "AIRTEL_MONEY"
	OrangeMoney Provider = "ORANGE_MONEY"
	MPesa       Provider = "MPESA"
)

type Country string

const (
	Rwanda   Country = "RWANDA"
	Uganda   Country = "UGANDA"
	Kenya    Country = "KENYA"
	Tanzania Country = "TANZANIA"
	DRC      Country = "DRC"
	Burundi  Country = "BURUNDI"
)

// Shape is the kind of output a route produces.
type Shape string

const (
	ShapeFixedCode     Shape = "fixed-code"
	ShapeGenericPrompt Shape = "generic-prompt"
	ShapeUnsupported   Shape = "unsupported"
)

// NoCodeAvailable is returned for any provider/country pair without a route.
const NoCodeAvailable = "No code available for this provider/country"

// Recipient code keys. MPESA reads its number from the M_PESA entry.
const (
	KeyMTNMoMo     = "MTN_MOMO"
	KeyAirtelMoney = "AIRTEL_MONEY"
	KeyOrangeMoney = "ORANGE_MONEY"
	KeyMPesa       = "M_PESA"
)

// RecipientCodes holds a merchant's registered number per provider key.
type RecipientCodes map[string]string

// Route describes how a customer pays through one provider in one country.
type Route struct {
	Provider     Provider `json:"provider"`
	Country      Country  `json:"country"`
	Shape        Shape    `json:"shape"`
	RecipientKey string   `json:"recipient_key,omitempty"`
	// Sequence is the menu path dialed before the recipient code, fixed-code only.
	Sequence string `json:"sequence,omitempty"`
	// Menu names the provider menu the customer navigates, generic-prompt only.
	Menu string `json:"menu,omitempty"`
}

// Render produces the customer-facing string for this route.
func (r Route) Render(code string, amount decimal.Decimal) string {
	switch r.Shape {
	case ShapeFixedCode:
		return "*" + r.Sequence + "*" + code + "*" + amount.String() + "#"
	case ShapeGenericPrompt:
		return code + " (Dial " + r.Menu + ", follow prompts)"
	default:
		return NoCodeAvailable
	}
}

// Resolve looks up the route for a provider/country pair. Pairs outside the
// table resolve to an unsupported route.
func Resolve(provider Provider, country Country) Route {
	byCountry, ok := routes[provider]
	if !ok {
		return Route{Provider: provider, Country: country, Shape: ShapeUnsupported}
	}
	d, ok := byCountry[country]
	if !ok {
		return Route{Provider: provider, Country: country, Shape: ShapeUnsupported}
	}
	r := Route{
		Provider:     provider,
		Country:      country,
		Shape:        d.shape,
		RecipientKey: recipientKeys[provider],
	}
	if d.shape == ShapeFixedCode {
		r.Sequence = d.value
	} else {
		r.Menu = d.value
	}
	return r
}

// GeneratePaymentCode returns the dial string a customer uses to pay amount to
// the merchant owning codes. It never fails: unknown pairs yield NoCodeAvailable.
func GeneratePaymentCode(codes RecipientCodes, country, provider string, amount decimal.Decimal) string {
	r := Resolve(Provider(provider), Country(country))
	if r.Shape == ShapeUnsupported {
		return NoCodeAvailable
	}
	return r.Render(codes[r.RecipientKey], amount)
}
