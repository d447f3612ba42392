package token

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/oauth2"

	"github.com/designofadecade/edge-auth/internal/errors"
)

// Exchanger wraps the provider's token endpoint. Both operations are single
// form-encoded POSTs with no retries: a failed exchange surfaces immediately
// and the caller is expected to restart the flow.
type Exchanger struct {
	conf *oauth2.Config
}

// NewExchanger builds an Exchanger for a public client. RedirectURL must
// match the redirect URI used to obtain authorization codes.
func NewExchanger(clientID, redirectURL string, endpoint oauth2.Endpoint) *Exchanger {
	return &Exchanger{
		conf: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Endpoint:    endpoint,
		},
	}
}

// ExchangeCode redeems an authorization code for a token set.
func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (*Set, error) {
	tok, err := e.conf.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(err)
	}
	return setFromToken(tok)
}

// ExchangeRefreshToken redeems a refresh token for a new token set.
func (e *Exchanger) ExchangeRefreshToken(ctx context.Context, refreshToken string) (*Set, error) {
	src := e.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, exchangeError(err)
	}
	return setFromToken(tok)
}

// exchangeError classifies a token-endpoint failure. A non-200 response is
// an upstream authentication failure whose body is kept in the wrapped error
// for logging, never for the caller's response.
func exchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return errors.Wrapf(errors.ErrExchangeFailed,
			"token endpoint returned %d with body %q",
			retrieveErr.Response.StatusCode, string(retrieveErr.Body))
	}
	return errors.Wrapf(err, "token endpoint request failed")
}

// setFromToken validates the transport-level success. A 200 without both an
// access token and an ID token is a malformed response: some providers
// return errors in a 200 payload.
func setFromToken(tok *oauth2.Token) (*Set, error) {
	idToken, _ := tok.Extra("id_token").(string)
	if tok.AccessToken == "" || idToken == "" {
		return nil, errors.Wrapf(errors.ErrMalformedTokenResponse,
			"token response missing access_token or id_token")
	}

	return &Set{
		AccessToken:  tok.AccessToken,
		IDToken:      idToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn(tok),
	}, nil
}

func expiresIn(tok *oauth2.Token) int {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	if !tok.Expiry.IsZero() {
		if secs := int(time.Until(tok.Expiry).Seconds()); secs > 0 {
			return secs
		}
	}
	return 0
}
