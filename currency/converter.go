package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	aulogging "github.com/StephanHCB/go-autumn-logging"
	aurestbreaker "github.com/StephanHCB/go-autumn-restclient-circuitbreaker/implementation/breaker"
	aurestclientapi "github.com/StephanHCB/go-autumn-restclient/api"
	auresthttpclient "github.com/StephanHCB/go-autumn-restclient/implementation/httpclient"
	aurestlogging "github.com/StephanHCB/go-autumn-restclient/implementation/requestlogging"
	"github.com/shopspring/decimal"

	"github.com/havnhq/havn-sdk-go/apierrors"
)

type Impl struct {
	client aurestclientapi.Client
	apiUrl string
	cache  *RateCache
}

// New builds the production converter. The public rate source sits behind a
// circuit breaker so a flapping upstream cannot stall callers for the full
// timeout on every request.
func New(apiUrl string, cacheDuration time.Duration, apiTimeout time.Duration) (Converter, error) {
	httpClient, err := auresthttpclient.New(apiTimeout, nil, nil)
	if err != nil {
		return nil, err
	}

	requestLoggingClient := aurestlogging.New(httpClient)

	circuitBreakerClient := aurestbreaker.New(requestLoggingClient,
		"exchange-rate-api-breaker",
		10,
		2*time.Minute,
		30*time.Second,
		apiTimeout,
	)

	return &Impl{
		client: circuitBreakerClient,
		apiUrl: apiUrl,
		cache:  NewRateCache(cacheDuration),
	}, nil
}

// NewTestingConverter builds a converter around a caller-supplied client and
// cache, bypassing the breaker chain.
func NewTestingConverter(apiUrl string, client aurestclientapi.Client, cache *RateCache) Converter {
	return &Impl{
		client: client,
		apiUrl: apiUrl,
		cache:  cache,
	}
}

var oneHundred = decimal.NewFromInt(100)

func (i *Impl) GetExchangeRate(ctx context.Context, toCurrency string, fromCurrency string) (decimal.Decimal, error) {
	toCurrency = strings.ToUpper(strings.TrimSpace(toCurrency))
	fromCurrency = strings.ToUpper(strings.TrimSpace(fromCurrency))
	if err := checkCurrencyCode(toCurrency); err != nil {
		return decimal.Decimal{}, err
	}
	if err := checkCurrencyCode(fromCurrency); err != nil {
		return decimal.Decimal{}, err
	}

	if fromCurrency == toCurrency {
		return decimal.NewFromInt(1), nil
	}
	if fromCurrency == BaseCurrency {
		return i.rateFromUSD(ctx, toCurrency)
	}
	if toCurrency == BaseCurrency {
		rate, err := i.rateFromUSD(ctx, fromCurrency)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return decimal.NewFromInt(1).Div(rate), nil
	}

	// cross rate via USD, e.g. IDR -> EUR = EUR_rate / IDR_rate
	fromRate, err := i.rateFromUSD(ctx, fromCurrency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toRate, err := i.rateFromUSD(ctx, toCurrency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return toRate.Div(fromRate), nil
}

func (i *Impl) ConvertToUSDCents(ctx context.Context, amount int64, fromCurrency string) (ConversionToUSD, error) {
	fromCurrency = strings.ToUpper(strings.TrimSpace(fromCurrency))

	rate, err := i.GetExchangeRate(ctx, BaseCurrency, fromCurrency)
	if err != nil {
		return ConversionToUSD{}, err
	}

	amountDecimal := decimal.NewFromInt(amount).Mul(rate)
	amountCents := amountDecimal.Mul(oneHundred).Round(0).IntPart()

	return ConversionToUSD{
		AmountCents:      amountCents,
		AmountDecimal:    amountDecimal,
		AmountFormatted:  i.FormatAmount(amountDecimal, BaseCurrency),
		Currency:         BaseCurrency,
		ExchangeRate:     rate,
		OriginalAmount:   amount,
		OriginalCurrency: fromCurrency,
	}, nil
}

func (i *Impl) ConvertFromUSDCents(ctx context.Context, amountCents int64, toCurrency string) (ConversionFromUSD, error) {
	toCurrency = strings.ToUpper(strings.TrimSpace(toCurrency))

	rate, err := i.GetExchangeRate(ctx, toCurrency, BaseCurrency)
	if err != nil {
		return ConversionFromUSD{}, err
	}

	amountTarget := decimal.NewFromInt(amountCents).Div(oneHundred).Mul(rate)
	amount := amountTarget.Round(0).IntPart()

	return ConversionFromUSD{
		Amount:              amount,
		AmountDecimal:       amountTarget,
		AmountFormatted:     i.FormatAmount(amountTarget, toCurrency),
		Currency:            toCurrency,
		ExchangeRate:        rate,
		OriginalAmountCents: amountCents,
		OriginalCurrency:    BaseCurrency,
	}, nil
}

type ratesResponseBody struct {
	Rates map[string]json.Number `json:"rates"`
}

func (i *Impl) rateFromUSD(ctx context.Context, currencyCode string) (decimal.Decimal, error) {
	if rate, ok := i.cache.Get(currencyCode); ok {
		return rate, nil
	}

	responseBody := ratesResponseBody{}
	response := aurestclientapi.ParsedResponse{
		Body: &responseBody,
	}
	if err := i.client.Perform(ctx, http.MethodGet, i.apiUrl, nil, &response); err != nil {
		aulogging.Logger.Ctx(ctx).Warn().WithErr(err).Printf("failed to fetch exchange rate for %s", currencyCode)
		return decimal.Decimal{}, ErrRateUnavailable
	}
	if response.Status != http.StatusOK {
		aulogging.Logger.Ctx(ctx).Warn().Printf("exchange rate source replied status %d", response.Status)
		return decimal.Decimal{}, ErrRateUnavailable
	}

	rawRate, ok := responseBody.Rates[currencyCode]
	if !ok {
		aulogging.Logger.Ctx(ctx).Warn().Printf("exchange rate source does not list %s", currencyCode)
		return decimal.Decimal{}, ErrRateUnavailable
	}
	rate, err := decimal.NewFromString(rawRate.String())
	if err != nil || rate.IsZero() {
		aulogging.Logger.Ctx(ctx).Warn().Printf("exchange rate source returned unusable rate %s for %s", rawRate.String(), currencyCode)
		return decimal.Decimal{}, ErrRateUnavailable
	}

	i.cache.Set(currencyCode, rate)
	return rate, nil
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"IDR": "Rp",
	"INR": "₹",
	"CNY": "¥",
	"KRW": "₩",
	"SGD": "S$",
	"MYR": "RM",
	"THB": "฿",
	"PHP": "₱",
	"VND": "₫",
}

func (i *Impl) FormatAmount(amount decimal.Decimal, currencyCode string) string {
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	symbol, ok := currencySymbols[currencyCode]
	if !ok {
		symbol = currencyCode
	}

	rendered := groupThousands(amount.StringFixed(2))
	rendered = strings.TrimRight(rendered, "0")
	rendered = strings.TrimRight(rendered, ".")
	return symbol + " " + rendered
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return sign + intPart + "." + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for pos := lead; pos < len(intPart); pos += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(intPart[pos : pos+3])
	}
	return sign + b.String() + "." + fracPart
}

func checkCurrencyCode(currencyCode string) error {
	if len(currencyCode) != 3 {
		return invalidCurrency(currencyCode)
	}
	for _, r := range currencyCode {
		if r < 'A' || r > 'Z' {
			return invalidCurrency(currencyCode)
		}
	}
	return nil
}

func invalidCurrency(currencyCode string) error {
	return apierrors.NewValidation("invalid currency code",
		url.Values{"currency": []string{fmt.Sprintf("not a 3-letter currency code: %s", currencyCode)}})
}
