package havn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/havnhq/havn-sdk-go/api/v1/havnapi"
	"github.com/havnhq/havn-sdk-go/apierrors"
	"github.com/havnhq/havn-sdk-go/docs"
	"github.com/havnhq/havn-sdk-go/internal/transport"
)

func TestVouchersValidateValid(t *testing.T) {
	docs.Description("a 200 with empty body means the voucher is valid")
	client, mock := tstClient()
	mock.ScriptResponse(transport.Response{Status: 200})

	amount := int64(10000)
	result, err := client.Vouchers.Validate(context.TODO(), havnapi.VoucherValidationRequest{
		VoucherCode: "HAVN-AQNEO-S08-ABC123",
		Amount:      &amount,
	})

	require.Nil(t, err)
	require.True(t, result.Valid)
	require.Equal(t, 200, result.StatusCode)
	require.Equal(t, []string{"POST /api/v1/webhook/voucher/validate"}, mock.Recording())
}

func TestVouchersValidateInvalidStatuses(t *testing.T) {
	docs.Description("404, 400 and 422 map to typed invalid results instead of errors")
	testcases := []struct {
		status int
		reason string
	}{
		{404, "voucher not found"},
		{400, "voucher invalid (expired, used up, or inactive)"},
		{422, "amount does not meet voucher requirements"},
	}
	for _, tc := range testcases {
		client, mock := tstClient()
		mock.ScriptResponse(transport.Response{Status: tc.status})

		result, err := client.Vouchers.Validate(context.TODO(), havnapi.VoucherValidationRequest{
			VoucherCode: "SOMECODE",
		})

		require.Nil(t, err, "status %d must not be an error", tc.status)
		require.False(t, result.Valid)
		require.Equal(t, tc.status, result.StatusCode)
		require.Equal(t, tc.reason, result.Reason)
	}
}

func TestVouchersValidateUnexpectedStatusIsError(t *testing.T) {
	docs.Description("statuses outside the invalid-voucher set remain errors")
	client, mock := tstClient()
	mock.ScriptResponse(transport.Response{Status: 503, Body: []byte(`{"message":"maintenance"}`)})

	_, err := client.Vouchers.Validate(context.TODO(), havnapi.VoucherValidationRequest{
		VoucherCode: "SOMECODE",
	})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 503, apiErr.StatusCode)
}

func TestVouchersValidateValidation(t *testing.T) {
	docs.Description("an empty voucher code fails fast without a network call")
	client, mock := tstClient()

	_, err := client.Vouchers.Validate(context.TODO(), havnapi.VoucherValidationRequest{})

	var validationErr *apierrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, 0, len(mock.Recording()))
}

func TestVouchersList(t *testing.T) {
	docs.Given("given a server with two vouchers, one platform issued and one local")
	client, mock := tstClient()
	mock.ScriptResponse(transport.Response{
		Status: 200,
		Body: []byte(`{"success":true,"message":"ok","data":{` +
			`"data":[{"serial":"s1","code":"HAVN-AQNEO-S08-ABC123","type":"DISCOUNT_PERCENTAGE","value":10,"active":true},` +
			`{"serial":"s2","code":"LOCAL123","type":"DISCOUNT_FIXED","value":500,"active":true}],` +
			`"pagination":{"page":1,"limit":20,"total":2,"total_pages":1,"has_prev":false,"has_next":false}}}`),
	})

	docs.When("when vouchers are listed with filters")
	page := 1
	active := true
	result, err := client.Vouchers.List(context.TODO(), havnapi.VoucherListFilters{
		Page:   &page,
		Active: &active,
	})

	docs.Then("then the nested envelope is flattened and platform vouchers are flagged")
	require.Nil(t, err)
	require.True(t, result.Success)
	require.Equal(t, 2, len(result.Data))
	require.True(t, result.Data[0].IsHavnVoucher)
	require.False(t, result.Data[1].IsHavnVoucher)
	require.NotNil(t, result.Pagination)
	require.Equal(t, 2, result.Pagination.Total)

	require.Equal(t, 1, len(mock.Recording()))
	require.Equal(t, "GET /api/v1/webhook/voucher/list?active=true&page=1", mock.Recording()[0])
}

func TestVouchersListNoFilters(t *testing.T) {
	docs.Description("without filters the list path carries no query string")
	client, mock := tstClient()
	mock.ScriptResponse(transport.Response{Status: 200, Body: []byte(`{"success":true,"data":{"data":[]}}`)})

	result, err := client.Vouchers.List(context.TODO(), havnapi.VoucherListFilters{})
	require.Nil(t, err)
	require.Equal(t, 0, len(result.Data))
	require.Equal(t, "GET /api/v1/webhook/voucher/list", mock.Recording()[0])
}

func TestVouchersListFilterValidation(t *testing.T) {
	docs.Description("invalid filters fail fast without a network call")
	client, mock := tstClient()

	page := 0
	_, err := client.Vouchers.List(context.TODO(), havnapi.VoucherListFilters{
		Page:      &page,
		SortBy:    "color",
		SortOrder: "sideways",
		Type:      "DISCOUNT_WEIRD",
	})

	var validationErr *apierrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.NotEmpty(t, validationErr.Fields.Get("page"))
	require.NotEmpty(t, validationErr.Fields.Get("sort_by"))
	require.NotEmpty(t, validationErr.Fields.Get("sort_order"))
	require.NotEmpty(t, validationErr.Fields.Get("type"))
	require.Equal(t, 0, len(mock.Recording()))
}

func TestIsHavnVoucherCode(t *testing.T) {
	docs.Description("platform vouchers are recognized by their code prefix, case insensitively")
	require.True(t, havnapi.IsHavnVoucherCode("HAVN-AQNEO-S08-ABC123"))
	require.True(t, havnapi.IsHavnVoucherCode("havn-test"))
	require.False(t, havnapi.IsHavnVoucherCode("LOCAL123"))
	require.False(t, havnapi.IsHavnVoucherCode(""))
}
