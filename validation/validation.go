// Package validation contains pure input validators for the values that get
// sent to the HAVN webhooks. Each validator returns nil if the value is
// acceptable, or an error describing the violation. Validators never perform
// network calls.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxAmountCents is the largest amount the platform accepts ($10M in cents).
const MaxAmountCents = 10_000_000_00

// MaxCustomFields is the maximum number of entries in a custom fields map.
const MaxCustomFields = 3

var emailMatcher = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// supportedCurrencies is the ISO 4217 allow-list accepted by the platform.
var supportedCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CNY": true,
	"AUD": true, "CAD": true, "CHF": true, "HKD": true, "SGD": true,
	"SEK": true, "NOK": true, "DKK": true, "INR": true, "IDR": true,
	"MYR": true, "PHP": true, "THB": true, "VND": true, "KRW": true,
	"TWD": true, "BRL": true, "MXN": true, "ZAR": true, "TRY": true,
	"RUB": true,
}

// ValidateAmount checks a transaction amount given in cents.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	if amount > MaxAmountCents {
		return fmt.Errorf("amount exceeds maximum allowed ($10,000,000)")
	}
	return nil
}

// ValidateCurrency checks a 3-letter ISO 4217 currency code against the
// allow-list. Lowercase codes are rejected, callers are expected to normalize
// before validating.
func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return fmt.Errorf("currency code must be 3 characters (ISO 4217)")
	}
	if currency != strings.ToUpper(currency) {
		return fmt.Errorf("currency code must be uppercase")
	}
	if !supportedCurrencies[currency] {
		return fmt.Errorf("unsupported currency code: %s", currency)
	}
	return nil
}

// ValidateEmail checks an email address against a simplified RFC 5322 shape.
func ValidateEmail(email string) error {
	if !emailMatcher.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateCustomFields checks a custom metadata map. At most MaxCustomFields
// entries are allowed and values must be strings, numbers or booleans.
func ValidateCustomFields(customFields map[string]interface{}) error {
	if customFields == nil {
		return nil
	}
	if len(customFields) > MaxCustomFields {
		return fmt.Errorf("custom_fields cannot exceed %d entries (got %d)", MaxCustomFields, len(customFields))
	}
	for key, value := range customFields {
		switch value.(type) {
		case string, bool, int, int32, int64, float32, float64:
			// acceptable
		default:
			return fmt.Errorf("custom_fields values must be string, number, or boolean (key '%s')", key)
		}
	}
	return nil
}

// ValidateReferralCode checks a referral code. Codes conventionally follow
// the HAVN-XX-NNN format, but only length bounds are enforced here - callers
// must not rely on stricter format enforcement.
func ValidateReferralCode(referralCode string) error {
	if strings.TrimSpace(referralCode) == "" {
		return fmt.Errorf("referral code cannot be empty")
	}
	if len(referralCode) < 3 || len(referralCode) > 50 {
		return fmt.Errorf("referral code must be between 3 and 50 characters")
	}
	return nil
}

// ValidateCountryCode checks a 2-letter uppercase ISO 3166-1 alpha-2 code.
func ValidateCountryCode(countryCode string) error {
	if len(countryCode) != 2 {
		return fmt.Errorf("country code must be 2 characters (ISO 3166-1 alpha-2)")
	}
	if countryCode != strings.ToUpper(countryCode) {
		return fmt.Errorf("country code must be uppercase")
	}
	return nil
}
