package exchange

import (
	"context"
	"fmt"
	"math"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/domain/invoice"
)

// Converter converts a monetary amount into another currency.
type Converter interface {
	Convert(ctx context.Context, amount invoice.Amount, toCurrency string) (invoice.Amount, error)
}

// defaultRates holds exchange rates relative to USD for the supported
// billing currencies.
var defaultRates = map[string]float64{
	"USD": 1.0,
	"EUR": 1.09,
	"GBP": 1.27,
	"DKK": 0.146,
	"SEK": 0.095,
}

// FixedRateConverter converts amounts using a static rate table. Rates are
// expressed as the USD value of one unit of the currency.
type FixedRateConverter struct {
	rates map[string]float64
}

// NewFixedRateConverter creates a converter with the given rate table,
// or the default table when rates is nil.
func NewFixedRateConverter(rates map[string]float64) *FixedRateConverter {
	if rates == nil {
		rates = defaultRates
	}
	return &FixedRateConverter{rates: rates}
}

func (c *FixedRateConverter) Convert(ctx context.Context, amount invoice.Amount, toCurrency string) (invoice.Amount, error) {
	if amount.Currency == toCurrency {
		return amount, nil
	}

	fromRate, ok := c.rates[amount.Currency]
	if !ok {
		return invoice.Amount{}, fmt.Errorf("convert from %s: %w", amount.Currency, domainErrors.ErrUnknownCurrency)
	}
	toRate, ok := c.rates[toCurrency]
	if !ok {
		return invoice.Amount{}, fmt.Errorf("convert to %s: %w", toCurrency, domainErrors.ErrUnknownCurrency)
	}

	converted := math.Round(float64(amount.ValueCents) * fromRate / toRate)
	return invoice.Amount{
		ValueCents: int64(converted),
		Currency:   toCurrency,
	}, nil
}
