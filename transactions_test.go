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

func TestTransactionsSend(t *testing.T) {
	docs.Given("given a configured client and a server that accepts the transaction")
	client, mock := tstClient()
	mock.ScriptResponse(transport.Response{
		Status: 200,
		Body: []byte(`{"success":true,"transaction":{"transaction_id":"tx_1","amount":10000,"status":"success"},"commissions":[]}`),
	})

	docs.When("when a valid transaction is sent")
	result, err := client.Transactions.Send(context.TODO(), havnapi.TransactionRequest{
		Amount:                      10000,
		Currency:                    "USD",
		ReferralCode:                "HAVN-MJ-001",
		PaymentGatewayTransactionID: "t1",
		CustomerEmail:               "a@b.com",
	})

	docs.Then("then the typed response carries the recorded transaction")
	require.Nil(t, err)
	require.Equal(t, "tx_1", result.Transaction.TransactionID)
	require.Equal(t, int64(10000), result.Transaction.Amount)
	require.Equal(t, "success", result.Transaction.Status)
	require.Equal(t, 0, len(result.Commissions))
	require.Contains(t, string(result.RawResponse), "tx_1")
	require.Equal(t, []string{"POST /api/v1/webhook/transaction"}, mock.Recording())
}

func TestTransactionsSendNormalizesPayload(t *testing.T) {
	docs.Description("referral code and gateway are uppercased, currency defaults to USD")
	client, mock := tstClient()

	_, err := client.Transactions.Send(context.TODO(), havnapi.TransactionRequest{
		Amount:                      5000,
		ReferralCode:                " havn-mj-001 ",
		PaymentGateway:              "stripe",
		PaymentGatewayTransactionID: "t2",
		CustomerEmail:               "a@b.com",
	})
	require.Nil(t, err)

	sent, ok := mock.LastPayload().(havnapi.TransactionRequest)
	require.True(t, ok)
	require.Equal(t, "HAVN-MJ-001", sent.ReferralCode)
	require.Equal(t, "STRIPE", sent.PaymentGateway)
	require.Equal(t, "USD", sent.Currency)
}

func TestTransactionsSendFailsFastOnValidation(t *testing.T) {
	docs.Given("given a transaction with several invalid fields")
	client, mock := tstClient()

	docs.When("when it is sent")
	_, err := client.Transactions.Send(context.TODO(), havnapi.TransactionRequest{
		Amount:        -100,
		ReferralCode:  "",
		CustomerEmail: "not-an-email",
	})

	docs.Then("then a validation error is returned without any network call")
	var validationErr *apierrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields.Get("amount"), "greater than 0")
	require.Contains(t, validationErr.Fields.Get("referral_code"), "cannot be empty")
	require.Contains(t, validationErr.Fields.Get("customer_email"), "invalid email format")
	require.NotEmpty(t, validationErr.Fields.Get("payment_gateway_transaction_id"))
	require.Equal(t, 0, len(mock.Recording()))
}

func TestTransactionsSendPropagatesAPIError(t *testing.T) {
	docs.Description("a non-2xx response surfaces as the typed api error")
	client, mock := tstClient()
	mock.ScriptResponse(transport.Response{
		Status: 500,
		Body:   []byte(`{"error":"ServerError","message":"boom"}`),
	})

	_, err := client.Transactions.Send(context.TODO(), havnapi.TransactionRequest{
		Amount:                      10000,
		ReferralCode:                "HAVN-MJ-001",
		PaymentGatewayTransactionID: "t1",
		CustomerEmail:               "a@b.com",
	})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 500, apiErr.StatusCode)
}
