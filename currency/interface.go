// Package currency converts amounts between currencies using an external
// exchange rate source with in-memory caching.
//
// The conversions here are advisory. The remote backend is the sole
// authority for any conversion that affects money movement or commission
// math, so callers that want the backend to convert must send the raw
// amount and currency with the server side conversion flag instead of
// pre-converting.
package currency

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable is returned when no exchange rate could be obtained
// for a currency, either because the rate source is unreachable or because
// it does not list the currency.
var ErrRateUnavailable = errors.New("exchange rate not available")

// BaseCurrency is the currency all amounts are stored in.
const BaseCurrency = "USD"

// ConversionToUSD is the outcome of converting an amount into USD cents.
type ConversionToUSD struct {
	AmountCents      int64
	AmountDecimal    decimal.Decimal // in USD dollars
	AmountFormatted  string
	Currency         string // always "USD"
	ExchangeRate     decimal.Decimal
	OriginalAmount   int64
	OriginalCurrency string
}

// ConversionFromUSD is the outcome of converting USD cents into another
// currency's smallest unit.
type ConversionFromUSD struct {
	Amount              int64
	AmountDecimal       decimal.Decimal // in target currency major units
	AmountFormatted     string
	Currency            string
	ExchangeRate        decimal.Decimal
	OriginalAmountCents int64
	OriginalCurrency    string // always "USD"
}

type Converter interface {
	// GetExchangeRate returns the rate such that 1 fromCurrency equals
	// rate toCurrency. Returns ErrRateUnavailable if the rate source
	// fails or does not know the currency.
	GetExchangeRate(ctx context.Context, toCurrency string, fromCurrency string) (decimal.Decimal, error)

	// ConvertToUSDCents converts an amount given in the source currency's
	// smallest unit into USD cents.
	ConvertToUSDCents(ctx context.Context, amount int64, fromCurrency string) (ConversionToUSD, error)

	// ConvertFromUSDCents converts USD cents into the target currency's
	// smallest unit.
	ConvertFromUSDCents(ctx context.Context, amountCents int64, toCurrency string) (ConversionFromUSD, error)

	// FormatAmount renders an amount in major units with the currency's
	// symbol, e.g. "$ 10" or "Rp 150,000".
	FormatAmount(amount decimal.Decimal, currencyCode string) string
}
