package exchange

import (
	"context"
	"testing"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/cassiomorais/billing/internal/domain/invoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedRateConverter(t *testing.T) {
	ctx := context.Background()
	converter := NewFixedRateConverter(nil)

	t.Run("same currency is identity", func(t *testing.T) {
		in := invoice.Amount{ValueCents: 1999, Currency: "EUR"}
		out, err := converter.Convert(ctx, in, "EUR")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("converts through the rate table", func(t *testing.T) {
		out, err := converter.Convert(ctx, invoice.Amount{ValueCents: 100_00, Currency: "USD"}, "EUR")
		require.NoError(t, err)
		assert.Equal(t, "EUR", out.Currency)
		// 100.00 USD at 1 EUR = 1.09 USD
		assert.Equal(t, int64(9174), out.ValueCents)
	})

	t.Run("unknown source currency", func(t *testing.T) {
		_, err := converter.Convert(ctx, invoice.Amount{ValueCents: 100, Currency: "XXX"}, "EUR")
		assert.ErrorIs(t, err, domainErrors.ErrUnknownCurrency)
	})

	t.Run("unknown target currency", func(t *testing.T) {
		_, err := converter.Convert(ctx, invoice.Amount{ValueCents: 100, Currency: "EUR"}, "XXX")
		assert.ErrorIs(t, err, domainErrors.ErrUnknownCurrency)
	})

	t.Run("custom rate table", func(t *testing.T) {
		c := NewFixedRateConverter(map[string]float64{"AAA": 2.0, "BBB": 1.0})
		out, err := c.Convert(ctx, invoice.Amount{ValueCents: 500, Currency: "AAA"}, "BBB")
		require.NoError(t, err)
		assert.Equal(t, invoice.Amount{ValueCents: 1000, Currency: "BBB"}, out)
	})
}
