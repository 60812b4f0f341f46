package validation

import (
	"testing"

	"github.com/havnhq/havn-sdk-go/docs"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	docs.Description("amounts must be positive and capped at the platform maximum")
	require.Nil(t, ValidateAmount(1))
	require.Nil(t, ValidateAmount(10000))
	require.Nil(t, ValidateAmount(MaxAmountCents))

	require.NotNil(t, ValidateAmount(0))
	require.NotNil(t, ValidateAmount(-500))
	require.NotNil(t, ValidateAmount(MaxAmountCents+1))
}

func TestValidateCurrency(t *testing.T) {
	docs.Description("currency codes must be 3 uppercase letters from the allow-list")
	require.Nil(t, ValidateCurrency("USD"))
	require.Nil(t, ValidateCurrency("IDR"))
	require.Nil(t, ValidateCurrency("TRY"))

	require.NotNil(t, ValidateCurrency("usd"), "lowercase must be rejected")
	require.NotNil(t, ValidateCurrency("US"))
	require.NotNil(t, ValidateCurrency("USDT"))
	require.NotNil(t, ValidateCurrency("XXX"), "not on the allow-list")
	require.NotNil(t, ValidateCurrency(""))
}

func TestValidateEmail(t *testing.T) {
	docs.Description("emails are checked against a simplified rfc 5322 shape")
	require.Nil(t, ValidateEmail("a@b.com"))
	require.Nil(t, ValidateEmail("user.name+tag@example.co.uk"))

	require.NotNil(t, ValidateEmail(""))
	require.NotNil(t, ValidateEmail("not-an-email"))
	require.NotNil(t, ValidateEmail("missing@tld"))
	require.NotNil(t, ValidateEmail("@example.com"))
}

func TestValidateCustomFields(t *testing.T) {
	docs.Description("custom fields allow at most 3 entries with primitive values")
	require.Nil(t, ValidateCustomFields(nil))
	require.Nil(t, ValidateCustomFields(map[string]interface{}{
		"order_id": "ORD123",
		"retries":  3,
		"flagged":  true,
	}))

	require.NotNil(t, ValidateCustomFields(map[string]interface{}{
		"a": 1, "b": 2, "c": 3, "d": 4,
	}), "more than 3 entries must be rejected")
	require.NotNil(t, ValidateCustomFields(map[string]interface{}{
		"nested": map[string]interface{}{"x": 1},
	}), "nested values must be rejected")
}

func TestValidateReferralCode(t *testing.T) {
	docs.Description("referral codes only enforce length bounds, not the documented format")
	require.Nil(t, ValidateReferralCode("HAVN-MJ-001"))
	require.Nil(t, ValidateReferralCode("ABC"))

	require.NotNil(t, ValidateReferralCode(""))
	require.NotNil(t, ValidateReferralCode("  "))
	require.NotNil(t, ValidateReferralCode("AB"))

	tooLong := make([]byte, 51)
	for idx := range tooLong {
		tooLong[idx] = 'A'
	}
	require.NotNil(t, ValidateReferralCode(string(tooLong)))
}

func TestValidateCountryCode(t *testing.T) {
	docs.Description("country codes must be 2 uppercase letters")
	require.Nil(t, ValidateCountryCode("ID"))
	require.Nil(t, ValidateCountryCode("DE"))

	require.NotNil(t, ValidateCountryCode("id"))
	require.NotNil(t, ValidateCountryCode("IDN"))
	require.NotNil(t, ValidateCountryCode(""))
}
