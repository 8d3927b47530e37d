package ussd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("amount is not a number")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrAmountOutOfRange  = errors.New("amount out of range")
)

// Amount bounds accepted in a dial string.
const (
	MaxAmountDigits   = 12
	MaxAmountDecimals = 2

	maxCoefficientDigits = 32
	maxCoefficientBits   = 110
)

// Providers returns the supported providers in display order.
func Providers() []Provider {
	return append([]Provider(nil), providerOrder...)
}

// Countries returns the supported countries in display order.
func Countries() []Country {
	return append([]Country(nil), countryOrder...)
}

// ProviderName returns the display name of a provider, or the raw identifier
// when it is unknown.
func ProviderName(p Provider) string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return string(p)
}

// SupportedCountries lists the countries where provider has a route.
func SupportedCountries(p Provider) []Country {
	var out []Country
	for _, c := range countryOrder {
		if Resolve(p, c).Shape != ShapeUnsupported {
			out = append(out, c)
		}
	}
	return out
}

// Matrix returns every provider/country route, providers first.
func Matrix() []Route {
	out := make([]Route, 0, len(providerOrder)*len(countryOrder))
	for _, p := range providerOrder {
		for _, c := range countryOrder {
			out = append(out, Resolve(p, c))
		}
	}
	return out
}

// ParseAmount parses a customer payment amount and applies CheckAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckAmount accepts positive amounts with at most MaxAmountDigits integer
// digits and MaxAmountDecimals decimals. The amount is never rescaled before
// its coefficient and exponent are within bounds.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if amount.Coefficient().BitLen() > maxCoefficientBits {
		return fmt.Errorf("%w: at most %d digits and %d decimals", ErrAmountOutOfRange, MaxAmountDigits, MaxAmountDecimals)
	}
	digits, exp := int64(amount.NumDigits()), int64(amount.Exponent())
	if digits > maxCoefficientDigits ||
		digits+exp > MaxAmountDigits ||
		exp < -(digits+MaxAmountDecimals) {
		return fmt.Errorf("%w: at most %d digits and %d decimals", ErrAmountOutOfRange, MaxAmountDigits, MaxAmountDecimals)
	}
	if !amount.Truncate(MaxAmountDecimals).Equal(amount) {
		return fmt.Errorf("%w: at most %d decimals", ErrAmountOutOfRange, MaxAmountDecimals)
	}
	return nil
}
