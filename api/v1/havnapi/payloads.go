package havnapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/havnhq/havn-sdk-go/validation"
)

// MaxBulkUsers bounds the user list of a bulk sync request. Exceeding it is
// a local validation failure, not a server round trip.
const MaxBulkUsers = 50

// TransactionRequest is the payload of the transaction webhook.
//
// Amount, PaymentGatewayTransactionID, CustomerEmail and ReferralCode are
// required. PaymentGatewayTransactionID doubles as the idempotency key - the
// server deduplicates retried submissions of the same logical transaction
// by it.
type TransactionRequest struct {
	Amount                      int64                  `json:"amount"`                           // required, final amount in cents
	PaymentGatewayTransactionID string                 `json:"payment_gateway_transaction_id"`   // required, idempotency key
	PaymentGateway              string                 `json:"payment_gateway,omitempty"`        // gateway identifier, uppercased
	CustomerEmail               string                 `json:"customer_email"`                   // required
	ReferralCode                string                 `json:"referral_code"`                    // required, uppercased
	PromoCode                   string                 `json:"promo_code,omitempty"`             // voucher code
	Currency                    string                 `json:"currency,omitempty"`               // ISO 4217, default USD
	CustomerType                string                 `json:"customer_type,omitempty"`          // NEW_CUSTOMER | RECURRING, normally auto-determined server side
	SubtotalTransaction         *int64                 `json:"subtotal_transaction,omitempty"`   // original amount before discount
	AcquisitionMethod           string                 `json:"acquisition_method,omitempty"`     // REFERRAL | REFERRAL_VOUCHER, normally auto-determined server side
	CustomFields                map[string]interface{} `json:"custom_fields,omitempty"`          // max 3 entries
	InvoiceID                   string                 `json:"invoice_id,omitempty"`             // external invoice id
	CustomerID                  string                 `json:"customer_id,omitempty"`            // external customer id
	TransactionType             string                 `json:"transaction_type,omitempty"`       //
	Description                 string                 `json:"description,omitempty"`            //
	IsRecurring                 *bool                  `json:"is_recurring,omitempty"`           //
	ServerSideConversion        *bool                  `json:"server_side_conversion,omitempty"` // let the backend perform the authoritative FX conversion
}

// Validate normalizes the request in place and checks it for validity.
//
// The returned url.Values contains detailed error messages per field that
// can be used to construct a meaningful response. It is nil if no validation
// errors were encountered.
func (r *TransactionRequest) Validate() url.Values {
	errs := url.Values{}

	if err := validation.ValidateAmount(r.Amount); err != nil {
		errs.Add("amount", err.Error())
	}

	if r.Currency == "" {
		r.Currency = "USD"
	}
	if err := validation.ValidateCurrency(r.Currency); err != nil {
		errs.Add("currency", err.Error())
	}

	if err := validation.ValidateCustomFields(r.CustomFields); err != nil {
		errs.Add("custom_fields", err.Error())
	}

	r.ReferralCode = strings.ToUpper(strings.TrimSpace(r.ReferralCode))
	if err := validation.ValidateReferralCode(r.ReferralCode); err != nil {
		errs.Add("referral_code", err.Error())
	}

	if r.CustomerType != "" {
		r.CustomerType = strings.ToUpper(strings.TrimSpace(r.CustomerType))
		if r.CustomerType != "NEW_CUSTOMER" && r.CustomerType != "RECURRING" {
			errs.Add("customer_type", "must be NEW_CUSTOMER or RECURRING")
		}
	}

	if r.SubtotalTransaction != nil {
		if err := validation.ValidateAmount(*r.SubtotalTransaction); err != nil {
			errs.Add("subtotal_transaction", err.Error())
		} else if *r.SubtotalTransaction < r.Amount {
			errs.Add("subtotal_transaction", "must be greater than or equal to amount")
		}
	}

	r.PaymentGatewayTransactionID = strings.TrimSpace(r.PaymentGatewayTransactionID)
	if r.PaymentGatewayTransactionID == "" {
		errs.Add("payment_gateway_transaction_id", "field is required and cannot be empty")
	} else if len(r.PaymentGatewayTransactionID) > 200 {
		errs.Add("payment_gateway_transaction_id", "cannot exceed 200 characters")
	}

	r.PaymentGateway = strings.ToUpper(strings.TrimSpace(r.PaymentGateway))
	if len(r.PaymentGateway) > 100 {
		errs.Add("payment_gateway", "cannot exceed 100 characters")
	}

	if strings.TrimSpace(r.CustomerEmail) == "" {
		errs.Add("customer_email", "field is required and cannot be empty")
	} else if err := validation.ValidateEmail(r.CustomerEmail); err != nil {
		errs.Add("customer_email", err.Error())
	}

	r.InvoiceID = strings.TrimSpace(r.InvoiceID)
	if len(r.InvoiceID) > 100 {
		errs.Add("invoice_id", "cannot exceed 100 characters")
	}

	if r.AcquisitionMethod != "" {
		method := strings.ToUpper(r.AcquisitionMethod)
		if method != "REFERRAL" && method != "REFERRAL_VOUCHER" {
			errs.Add("acquisition_method", "must be one of: REFERRAL, REFERRAL_VOUCHER")
		} else {
			r.AcquisitionMethod = method
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UserSyncRequest is the payload of the user sync webhook.
type UserSyncRequest struct {
	Email           string `json:"email"`                    // required
	Name            string `json:"name"`                     // required
	GoogleID        string `json:"google_id,omitempty"`      //
	Picture         string `json:"picture,omitempty"`        // profile picture url
	Avatar          string `json:"avatar,omitempty"`         //
	UplineCode      string `json:"upline_code,omitempty"`    // upline associate referral code
	ReferralCode    string `json:"referral_code,omitempty"`  // referral code for associate creation
	CountryCode     string `json:"country_code,omitempty"`   // ISO 3166-1 alpha-2
	CreateAssociate *bool  `json:"create_associate"`         // default true
	IsOwner         *bool  `json:"is_owner,omitempty"`       // role owner instead of partner
}

// Validate normalizes the request in place and checks it for validity.
// CreateAssociate defaults to true when unset.
func (r *UserSyncRequest) Validate() url.Values {
	errs := url.Values{}

	if err := validation.ValidateEmail(r.Email); err != nil {
		errs.Add("email", err.Error())
	}

	if strings.TrimSpace(r.Name) == "" {
		errs.Add("name", "field cannot be empty")
	} else if len(r.Name) > 200 {
		errs.Add("name", "cannot exceed 200 characters")
	}

	if r.UplineCode != "" {
		r.UplineCode = strings.ToUpper(strings.TrimSpace(r.UplineCode))
		if err := validation.ValidateReferralCode(r.UplineCode); err != nil {
			errs.Add("upline_code", err.Error())
		}
	}
	if r.ReferralCode != "" {
		r.ReferralCode = strings.ToUpper(strings.TrimSpace(r.ReferralCode))
		if err := validation.ValidateReferralCode(r.ReferralCode); err != nil {
			errs.Add("referral_code", err.Error())
		}
	}

	if r.CountryCode != "" {
		if err := validation.ValidateCountryCode(r.CountryCode); err != nil {
			errs.Add("country_code", err.Error())
		}
	}

	if r.CreateAssociate == nil {
		defaultCreate := true
		r.CreateAssociate = &defaultCreate
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// BulkUser is a single entry in a bulk sync request.
type BulkUser struct {
	Email        string `json:"email"`                   // required
	Name         string `json:"name"`                    // required
	GoogleID     string `json:"google_id,omitempty"`     //
	Picture      string `json:"picture,omitempty"`       //
	Avatar       string `json:"avatar,omitempty"`        //
	UplineCode   string `json:"upline_code,omitempty"`   //
	ReferralCode string `json:"referral_code,omitempty"` //
	CountryCode  string `json:"country_code,omitempty"`  //
	IsOwner      *bool  `json:"is_owner,omitempty"`      //
}

// BulkUserSyncRequest is the payload of the bulk user sync webhook. The
// shared fields apply to every user in the list unless overridden per entry.
type BulkUserSyncRequest struct {
	Users           []BulkUser `json:"users"`                   // required, 1..MaxBulkUsers entries
	UplineCode      string     `json:"upline_code,omitempty"`   // shared upline referral code
	ReferralCode    string     `json:"referral_code,omitempty"` // shared referral code
	CreateAssociate *bool      `json:"create_associate,omitempty"`
	IsOwner         *bool      `json:"is_owner,omitempty"`
}

// Validate checks structural bounds only. Per-item email format is left to
// the server so that a single bad entry is reported in the errors list of
// the response instead of aborting the whole batch locally.
func (r *BulkUserSyncRequest) Validate() url.Values {
	errs := url.Values{}

	if len(r.Users) == 0 {
		errs.Add("users", "at least one user is required")
	}
	if len(r.Users) > MaxBulkUsers {
		errs.Add("users", fmt.Sprintf("cannot exceed %d users per request (got %d)", MaxBulkUsers, len(r.Users)))
	}
	for idx, user := range r.Users {
		if strings.TrimSpace(user.Email) == "" {
			errs.Add(fmt.Sprintf("users[%d].email", idx), "field is required and cannot be empty")
		}
		if strings.TrimSpace(user.Name) == "" {
			errs.Add(fmt.Sprintf("users[%d].name", idx), "field is required and cannot be empty")
		}
	}

	if r.UplineCode != "" {
		r.UplineCode = strings.ToUpper(strings.TrimSpace(r.UplineCode))
		if err := validation.ValidateReferralCode(r.UplineCode); err != nil {
			errs.Add("upline_code", err.Error())
		}
	}
	if r.ReferralCode != "" {
		r.ReferralCode = strings.ToUpper(strings.TrimSpace(r.ReferralCode))
		if err := validation.ValidateReferralCode(r.ReferralCode); err != nil {
			errs.Add("referral_code", err.Error())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// VoucherValidationRequest is the payload of the voucher validation webhook.
type VoucherValidationRequest struct {
	VoucherCode string `json:"voucher_code"`       // required
	Amount      *int64 `json:"amount,omitempty"`   // transaction amount in cents
	Currency    string `json:"currency,omitempty"` // ISO 4217
}

// Validate checks the request for validity.
func (r *VoucherValidationRequest) Validate() url.Values {
	errs := url.Values{}

	if strings.TrimSpace(r.VoucherCode) == "" {
		errs.Add("voucher_code", "field cannot be empty")
	} else if len(r.VoucherCode) > 100 {
		errs.Add("voucher_code", "cannot exceed 100 characters")
	}

	if r.Amount != nil {
		if err := validation.ValidateAmount(*r.Amount); err != nil {
			errs.Add("amount", err.Error())
		}
	}
	if r.Currency != "" {
		if err := validation.ValidateCurrency(r.Currency); err != nil {
			errs.Add("currency", err.Error())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// VoucherListFilters narrows down a voucher list query. All fields are
// optional; zero values (nil pointers, empty strings) are omitted from the
// query string.
type VoucherListFilters struct {
	Page            *int   // page number, >= 1
	PerPage         *int   // items per page, 1..100
	Active          *bool  //
	Type            string // DISCOUNT_PERCENTAGE | DISCOUNT_FIXED
	ClientType      string // NEW_CUSTOMER | RECURRING
	Currency        string //
	Search          string // matches code and description
	StartDateFrom   string // YYYY-MM-DD
	StartDateTo     string // YYYY-MM-DD
	EndDateFrom     string // YYYY-MM-DD
	EndDateTo       string // YYYY-MM-DD
	CreatedFrom     string // YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS
	CreatedTo       string // YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS
	MinValue        *int64 //
	MaxValue        *int64 //
	MinPurchaseFrom *int64 //
	MinPurchaseTo   *int64 //
	UsageLimitFrom  *int64 //
	UsageLimitTo    *int64 //
	IsValid         *bool  //
	IsExpired       *bool  //
	SortBy          string // code, type, value, start_date, end_date, created_date, current_usage, usage_limit, min_purchase
	SortOrder       string // asc | desc
	DisplayCurrency string // target currency for display conversion, handled by the backend
}

var validSortFields = map[string]bool{
	"code": true, "type": true, "value": true, "start_date": true,
	"end_date": true, "created_date": true, "current_usage": true,
	"usage_limit": true, "min_purchase": true,
}

// Validate checks the filters for validity.
func (f *VoucherListFilters) Validate() url.Values {
	errs := url.Values{}

	if f.Page != nil && *f.Page < 1 {
		errs.Add("page", "must be >= 1")
	}
	if f.PerPage != nil && (*f.PerPage < 1 || *f.PerPage > 100) {
		errs.Add("per_page", "must be between 1 and 100")
	}

	if f.Type != "" {
		typeUpper := strings.ToUpper(f.Type)
		if typeUpper != "DISCOUNT_PERCENTAGE" && typeUpper != "DISCOUNT_FIXED" {
			errs.Add("type", "must be one of: DISCOUNT_PERCENTAGE, DISCOUNT_FIXED")
		}
	}
	if f.ClientType != "" {
		clientTypeUpper := strings.ToUpper(f.ClientType)
		if clientTypeUpper != "NEW_CUSTOMER" && clientTypeUpper != "RECURRING" {
			errs.Add("client_type", "must be one of: NEW_CUSTOMER, RECURRING")
		}
	}
	if f.SortBy != "" && !validSortFields[strings.ToLower(f.SortBy)] {
		errs.Add("sort_by", "must be one of: code, type, value, start_date, end_date, created_date, current_usage, usage_limit, min_purchase")
	}
	if f.SortOrder != "" {
		order := strings.ToLower(f.SortOrder)
		if order != "asc" && order != "desc" {
			errs.Add("sort_order", "must be one of: asc, desc")
		}
	}

	dateFields := map[string]string{
		"start_date_from": f.StartDateFrom,
		"start_date_to":   f.StartDateTo,
		"end_date_from":   f.EndDateFrom,
		"end_date_to":     f.EndDateTo,
	}
	for name, value := range dateFields {
		if value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			errs.Add(name, fmt.Sprintf("must be in YYYY-MM-DD format, got: %s", value))
		}
	}
	datetimeFields := map[string]string{
		"created_from": f.CreatedFrom,
		"created_to":   f.CreatedTo,
	}
	for name, value := range datetimeFields {
		if value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02T15:04:05", value); err != nil {
			if _, err := time.Parse("2006-01-02", value); err != nil {
				errs.Add(name, fmt.Sprintf("must be in YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS format, got: %s", value))
			}
		}
	}

	numericRanges := []struct {
		minName string
		maxName string
		min     *int64
		max     *int64
	}{
		{"min_value", "max_value", f.MinValue, f.MaxValue},
		{"min_purchase_from", "min_purchase_to", f.MinPurchaseFrom, f.MinPurchaseTo},
		{"usage_limit_from", "usage_limit_to", f.UsageLimitFrom, f.UsageLimitTo},
	}
	for _, bounds := range numericRanges {
		if bounds.min != nil && *bounds.min < 0 {
			errs.Add(bounds.minName, "must be >= 0")
		}
		if bounds.max != nil && *bounds.max < 0 {
			errs.Add(bounds.maxName, "must be >= 0")
		}
		if bounds.min != nil && bounds.max != nil && *bounds.min > *bounds.max {
			errs.Add(bounds.minName, fmt.Sprintf("must be <= %s", bounds.maxName))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Query converts the filters to url query parameters, omitting unset fields.
func (f *VoucherListFilters) Query() url.Values {
	query := url.Values{}

	setInt := func(key string, value *int) {
		if value != nil {
			query.Set(key, strconv.Itoa(*value))
		}
	}
	setInt64 := func(key string, value *int64) {
		if value != nil {
			query.Set(key, strconv.FormatInt(*value, 10))
		}
	}
	setBool := func(key string, value *bool) {
		if value != nil {
			query.Set(key, strconv.FormatBool(*value))
		}
	}
	setString := func(key string, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}

	setInt("page", f.Page)
	setInt("per_page", f.PerPage)
	setBool("active", f.Active)
	setString("type", f.Type)
	setString("client_type", f.ClientType)
	setString("currency", f.Currency)
	setString("search", f.Search)
	setString("start_date_from", f.StartDateFrom)
	setString("start_date_to", f.StartDateTo)
	setString("end_date_from", f.EndDateFrom)
	setString("end_date_to", f.EndDateTo)
	setString("created_from", f.CreatedFrom)
	setString("created_to", f.CreatedTo)
	setInt64("min_value", f.MinValue)
	setInt64("max_value", f.MaxValue)
	setInt64("min_purchase_from", f.MinPurchaseFrom)
	setInt64("min_purchase_to", f.MinPurchaseTo)
	setInt64("usage_limit_from", f.UsageLimitFrom)
	setInt64("usage_limit_to", f.UsageLimitTo)
	setBool("is_valid", f.IsValid)
	setBool("is_expired", f.IsExpired)
	setString("sort_by", f.SortBy)
	setString("sort_order", f.SortOrder)
	setString("display_currency", f.DisplayCurrency)

	return query
}

// LoginRequest is the payload of the login webhook.
type LoginRequest struct {
	Email string `json:"email"`
}
