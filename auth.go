package havn

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/havnhq/havn-sdk-go/api/v1/havnapi"
	"github.com/havnhq/havn-sdk-go/apierrors"
	"github.com/havnhq/havn-sdk-go/validation"
)

// AuthAPI initiates platform logins for users of the integrating company.
type AuthAPI struct {
	client *Client
}

// Login requests an auto-login redirect for the given user. The server
// validates that the user exists and is active, generates a temporary
// single-use token and returns the frontend URL to send the user's browser
// to.
func (a *AuthAPI) Login(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return "", apierrors.NewValidation("valid email address is required",
			url.Values{"email": []string{err.Error()}})
	}

	response, err := a.client.transport.Perform(ctx, http.MethodPost, havnapi.EndpointLogin, havnapi.LoginRequest{Email: email})
	if err != nil {
		return "", err
	}

	result := havnapi.LoginResponse{}
	if err := parseBody(response.Body, &result); err != nil {
		return "", err
	}

	if result.Data.RedirectURL == "" {
		return "", &apierrors.APIError{
			Message:    "backend did not return a redirect url",
			StatusCode: response.Status,
			Response:   response.Body,
		}
	}
	return result.Data.RedirectURL, nil
}
