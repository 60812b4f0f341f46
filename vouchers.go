package havn

import (
	"context"
	"errors"
	"net/http"

	"github.com/havnhq/havn-sdk-go/api/v1/havnapi"
	"github.com/havnhq/havn-sdk-go/apierrors"
)

// VouchersAPI validates and lists discount vouchers.
type VouchersAPI struct {
	client *Client
}

// Validate checks a voucher code against the platform, optionally for a
// concrete amount. An invalid voucher is a business outcome, not an error:
// the result carries Valid=false plus the status code and a reason. Only
// validation failures, transport failures and unexpected statuses return an
// error.
func (a *VouchersAPI) Validate(ctx context.Context, request havnapi.VoucherValidationRequest) (havnapi.VoucherValidationResult, error) {
	if errs := request.Validate(); errs != nil {
		return havnapi.VoucherValidationResult{}, apierrors.NewValidation("voucher validation failed", errs)
	}

	response, err := a.client.transport.Perform(ctx, http.MethodPost, havnapi.EndpointVoucherValidate, request)
	if err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusNotFound:
				return invalidVoucher(apiErr.StatusCode, "voucher not found"), nil
			case http.StatusBadRequest:
				return invalidVoucher(apiErr.StatusCode, "voucher invalid (expired, used up, or inactive)"), nil
			case http.StatusUnprocessableEntity:
				return invalidVoucher(apiErr.StatusCode, "amount does not meet voucher requirements"), nil
			}
		}
		return havnapi.VoucherValidationResult{}, err
	}

	// the endpoint answers with a bare 200, no body
	return havnapi.VoucherValidationResult{
		Valid:      true,
		StatusCode: response.Status,
	}, nil
}

func invalidVoucher(statusCode int, reason string) havnapi.VoucherValidationResult {
	return havnapi.VoucherValidationResult{
		Valid:      false,
		StatusCode: statusCode,
		Reason:     reason,
	}
}

type voucherListEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Data       []havnapi.VoucherData          `json:"data"`
		Pagination *havnapi.VoucherListPagination `json:"pagination"`
	} `json:"data"`
}

// List queries vouchers matching the given filters. Each returned voucher is
// flagged as platform-issued or local based on its code prefix.
func (a *VouchersAPI) List(ctx context.Context, filters havnapi.VoucherListFilters) (havnapi.VoucherListResponse, error) {
	if errs := filters.Validate(); errs != nil {
		return havnapi.VoucherListResponse{}, apierrors.NewValidation("voucher list filter validation failed", errs)
	}

	path := havnapi.EndpointVoucherList
	if query := filters.Query(); len(query) > 0 {
		path = path + "?" + query.Encode()
	}

	response, err := a.client.transport.Perform(ctx, http.MethodGet, path, nil)
	if err != nil {
		return havnapi.VoucherListResponse{}, err
	}

	envelope := voucherListEnvelope{}
	if err := parseBody(response.Body, &envelope); err != nil {
		return havnapi.VoucherListResponse{}, err
	}

	vouchers := envelope.Data.Data
	for idx := range vouchers {
		vouchers[idx].IsHavnVoucher = havnapi.IsHavnVoucherCode(vouchers[idx].Code)
	}

	return havnapi.VoucherListResponse{
		Success:     envelope.Success,
		Message:     envelope.Message,
		Data:        vouchers,
		Pagination:  envelope.Data.Pagination,
		RawResponse: response.Body,
	}, nil
}
