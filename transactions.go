package havn

import (
	"context"
	"net/http"

	"github.com/havnhq/havn-sdk-go/api/v1/havnapi"
	"github.com/havnhq/havn-sdk-go/apierrors"
)

// TransactionsAPI submits transactions for multi-level commission
// calculation.
type TransactionsAPI struct {
	client *Client
}

// Send submits a transaction. The request is validated locally first; a
// validation failure returns a ValidationError without any network call.
//
// The payment gateway transaction id doubles as the idempotency key, so a
// retried submission of the same logical transaction is deduplicated by the
// server rather than double-counted.
func (a *TransactionsAPI) Send(ctx context.Context, request havnapi.TransactionRequest) (havnapi.TransactionResponse, error) {
	if errs := request.Validate(); errs != nil {
		return havnapi.TransactionResponse{}, apierrors.NewValidation("transaction validation failed", errs)
	}

	response, err := a.client.transport.Perform(ctx, http.MethodPost, havnapi.EndpointTransaction, request)
	if err != nil {
		return havnapi.TransactionResponse{}, err
	}

	result := havnapi.TransactionResponse{}
	if err := parseBody(response.Body, &result); err != nil {
		return havnapi.TransactionResponse{}, err
	}
	result.RawResponse = response.Body
	return result, nil
}
