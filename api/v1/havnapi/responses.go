package havnapi

import (
	"encoding/json"
	"strings"
)

// TransactionData describes the transaction the server recorded.
type TransactionData struct {
	TransactionID       string `json:"transaction_id"`
	Amount              int64  `json:"amount"`
	Currency            string `json:"currency"`
	Status              string `json:"status"`
	CustomerType        string `json:"customer_type"`
	AcquisitionMethod   string `json:"acquisition_method,omitempty"`
	SubtotalTransaction *int64 `json:"subtotal_transaction,omitempty"`
	SubtotalDiscount    *int64 `json:"subtotal_discount,omitempty"`
	CreatedAt           string `json:"created_at,omitempty"`
}

// CommissionData is one commission entry of the multi-level calculation.
type CommissionData struct {
	CommissionID string  `json:"commission_id"`
	AssociateID  string  `json:"associate_id"`
	Level        int     `json:"level"`
	Amount       int64   `json:"amount"`
	Percentage   float64 `json:"percentage"`
	Type         string  `json:"type"`
	Direction    string  `json:"direction"`
	Status       string  `json:"status"`
}

// TransactionResponse is the parsed transaction webhook response.
// RawResponse preserves the unparsed body so unexpected server fields stay
// inspectable.
type TransactionResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	Transaction TransactionData  `json:"transaction"`
	Commissions []CommissionData `json:"commissions"`
	RawResponse json.RawMessage  `json:"-"`
}

// UserData describes the synced platform user.
type UserData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	GoogleID string `json:"google_id,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// AssociateData describes the associate linked to a synced user.
type AssociateData struct {
	AssociateID   string `json:"associate_id"`
	AssociateName string `json:"associate_name"`
	ReferralCode  string `json:"referral_code"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	UplineID      string `json:"upline_id,omitempty"`
}

// UserSyncResponse is the parsed user sync webhook response.
type UserSyncResponse struct {
	Success          bool            `json:"success"`
	Message          string          `json:"message"`
	UserCreated      bool            `json:"user_created"`
	AssociateCreated bool            `json:"associate_created"`
	User             UserData        `json:"user"`
	Associate        *AssociateData  `json:"associate,omitempty"`
	RawResponse      json.RawMessage `json:"-"`
}

// BulkSyncResult is one succeeded item of a bulk sync.
type BulkSyncResult struct {
	Index            int            `json:"index"`
	Email            string         `json:"email"`
	UserCreated      bool           `json:"user_created"`
	AssociateCreated bool           `json:"associate_created"`
	User             UserData       `json:"user"`
	Associate        *AssociateData `json:"associate,omitempty"`
}

// BulkSyncError is one failed item of a bulk sync. Index refers to the
// position in the submitted users list.
type BulkSyncError struct {
	Index int    `json:"index"`
	Email string `json:"email"`
	Error string `json:"error"`
}

// BulkSyncSummary aggregates a bulk sync outcome.
type BulkSyncSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// BulkUserSyncResponse is the parsed bulk user sync webhook response.
// Success is true if at least one item succeeded; per-item failures are in
// Errors so the caller can remediate individually.
type BulkUserSyncResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Results      []BulkSyncResult `json:"results"`
	Errors       []BulkSyncError `json:"errors"`
	Summary      BulkSyncSummary `json:"summary"`
	ReferralCode string          `json:"referral_code,omitempty"`
	RawResponse  json.RawMessage `json:"-"`
}

// VoucherValidationResult is the outcome of a voucher validation. An invalid
// voucher is an expected business outcome, not an error: Valid is false and
// Reason carries the human-readable cause derived from the status code.
type VoucherValidationResult struct {
	Valid      bool
	StatusCode int
	Reason     string
}

// VoucherData describes one voucher of a list query.
type VoucherData struct {
	Serial            string                 `json:"serial"`
	SaasCompanyID     int64                  `json:"saas_company_id"`
	AssociateID       string                 `json:"associate_id"`
	Code              string                 `json:"code"`
	Type              string                 `json:"type"`
	Value             int64                  `json:"value"`
	UsageLimit        int64                  `json:"usage_limit"`
	CurrentUsage      int64                  `json:"current_usage"`
	MinPurchase       int64                  `json:"min_purchase"`
	MaxPurchase       *int64                 `json:"max_purchase,omitempty"`
	StartDate         string                 `json:"start_date"`
	EndDate           string                 `json:"end_date"`
	Active            bool                   `json:"active"`
	ClientType        string                 `json:"client_type,omitempty"`
	Description       string                 `json:"description,omitempty"`
	CreationCost      int64                  `json:"creation_cost"`
	CreatedBy         string                 `json:"created_by"`
	CreatedDate       string                 `json:"created_date"`
	UpdatedAt         string                 `json:"updated_at"`
	Currency          string                 `json:"currency"`
	AffiliatesURL     string                 `json:"affiliates_url,omitempty"`
	AffiliatesQRImage string                 `json:"affiliates_qr_image,omitempty"`
	IsExpired         bool                   `json:"is_expired"`
	IsValid           bool                   `json:"is_valid"`
	RemainingUsage    int64                  `json:"remaining_usage"`
	UsagePercentage   float64                `json:"usage_percentage"`
	Associate         map[string]interface{} `json:"associate,omitempty"`
	IsHavnVoucher     bool                   `json:"-"` // derived from the code prefix, not sent by the server
}

// VoucherListPagination carries the paging information of a list query.
type VoucherListPagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// VoucherListResponse is the parsed voucher list response.
type VoucherListResponse struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message"`
	Data        []VoucherData          `json:"-"`
	Pagination  *VoucherListPagination `json:"-"`
	RawResponse json.RawMessage        `json:"-"`
}

// LoginData carries the auto-login redirect the server generated.
type LoginData struct {
	RedirectURL string `json:"redirect_url"`
	Token       string `json:"token,omitempty"`
}

// LoginResponse is the parsed login webhook response.
type LoginResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	Data        LoginData       `json:"data"`
	RawResponse json.RawMessage `json:"-"`
}

// IsHavnVoucherCode reports whether a voucher code was issued by the HAVN
// platform. Platform vouchers follow HAVN-{ASSOCIATE}-{SAAS}-{RANDOM} and
// always start with "HAVN-".
func IsHavnVoucherCode(code string) bool {
	return strings.HasPrefix(strings.ToUpper(code), "HAVN-")
}
