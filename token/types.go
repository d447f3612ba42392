// Package token talks to the identity provider: it exchanges authorization
// codes and refresh tokens at the token endpoint, verifies ID tokens against
// the provider's published keys, and discovers provider endpoints from the
// issuer's metadata.
package token

// Set is the result of a successful token-endpoint exchange. AccessToken,
// IDToken and ExpiresIn always come from the same response; RefreshToken is
// whatever the provider returned, which on a refresh grant may simply be the
// token that was sent.
type Set struct {
	AccessToken  string
	IDToken      string
	RefreshToken string

	// ExpiresIn is the access token lifetime in seconds as reported by the
	// provider, zero when the response carried none.
	ExpiresIn int
}
