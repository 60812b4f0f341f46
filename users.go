package havn

import (
	"context"
	"net/http"

	"github.com/havnhq/havn-sdk-go/api/v1/havnapi"
	"github.com/havnhq/havn-sdk-go/apierrors"
)

// UsersAPI synchronizes user and associate records with the platform.
type UsersAPI struct {
	client *Client
}

// Sync sends a single user record. When CreateAssociate is left unset it
// defaults to true and the server creates an associate for the user.
func (a *UsersAPI) Sync(ctx context.Context, request havnapi.UserSyncRequest) (havnapi.UserSyncResponse, error) {
	if errs := request.Validate(); errs != nil {
		return havnapi.UserSyncResponse{}, apierrors.NewValidation("user sync validation failed", errs)
	}

	response, err := a.client.transport.Perform(ctx, http.MethodPost, havnapi.EndpointUserSync, request)
	if err != nil {
		return havnapi.UserSyncResponse{}, err
	}

	result := havnapi.UserSyncResponse{}
	if err := parseBody(response.Body, &result); err != nil {
		return havnapi.UserSyncResponse{}, err
	}
	result.RawResponse = response.Body
	return result, nil
}

// SyncBulk sends up to havnapi.MaxBulkUsers user records in one request.
// Partial success is an expected outcome: the response separates succeeded
// items (Results) from failed ones (Errors, by submitted index), and Success
// is true if at least one item went through.
func (a *UsersAPI) SyncBulk(ctx context.Context, request havnapi.BulkUserSyncRequest) (havnapi.BulkUserSyncResponse, error) {
	if errs := request.Validate(); errs != nil {
		return havnapi.BulkUserSyncResponse{}, apierrors.NewValidation("bulk user sync validation failed", errs)
	}

	response, err := a.client.transport.Perform(ctx, http.MethodPost, havnapi.EndpointUserSync, request)
	if err != nil {
		return havnapi.BulkUserSyncResponse{}, err
	}

	result := havnapi.BulkUserSyncResponse{}
	if err := parseBody(response.Body, &result); err != nil {
		return havnapi.BulkUserSyncResponse{}, err
	}
	result.RawResponse = response.Body
	return result, nil
}
