// Package errors defines the error taxonomy for the edge authentication
// service. Every handler classifies a failure into exactly one category and
// maps it to a fixed, generic response; the wrapped detail is logged and
// never returned to the caller.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Input errors: a required value was absent from the request, so no
	// upstream call is attempted.
	ErrMissingAuthCode     = errors.New("missing authorization code")
	ErrMissingRefreshToken = errors.New("missing refresh token")

	// Upstream authentication errors from the token endpoint.
	ErrExchangeFailed         = errors.New("token exchange failed")
	ErrMalformedTokenResponse = errors.New("malformed token response")

	// Verification errors raised by the request authorizer.
	ErrNoIdentityToken = errors.New("no identity token")
	ErrOriginMismatch  = errors.New("origin verification failed")
	ErrInvalidToken    = errors.New("invalid token")
)

// Category classifies an error for response mapping.
type Category int

const (
	CategoryUnexpected Category = iota
	CategoryInput
	CategoryUpstreamAuth
	CategoryVerification
)

// CategoryOf returns the category of err. Anything outside the known
// sentinels, including transport failures, is unexpected.
func CategoryOf(err error) Category {
	switch {
	case errors.Is(err, ErrMissingAuthCode), errors.Is(err, ErrMissingRefreshToken):
		return CategoryInput
	case errors.Is(err, ErrExchangeFailed), errors.Is(err, ErrMalformedTokenResponse):
		return CategoryUpstreamAuth
	case errors.Is(err, ErrNoIdentityToken), errors.Is(err, ErrOriginMismatch), errors.Is(err, ErrInvalidToken):
		return CategoryVerification
	default:
		return CategoryUnexpected
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
