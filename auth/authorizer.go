// Package auth implements the request authorizer: the only consumer in the
// service that verifies credentials rather than issuing them.
package auth

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog"

	"github.com/designofadecade/edge-auth/claims"
	"github.com/designofadecade/edge-auth/cookies"
	"github.com/designofadecade/edge-auth/internal/errors"
)

// TokenVerifier checks an identity token's signature, issuer, audience and
// token use, returning its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (map[string]any, error)
}

// Decision is the authorizer's answer. It never carries error detail; a
// denial always has an empty context.
type Decision struct {
	IsAuthorized bool              `json:"isAuthorized"`
	Context      map[string]string `json:"context"`
}

// Authorizer runs the per-request check pipeline: origin shared-secret,
// identity-token extraction, verification, context construction. It holds no
// per-request state, so repeated checks over the same input yield the same
// decision.
type Authorizer struct {
	verifier      TokenVerifier
	originSecret  string
	contextClaims []string
	log           zerolog.Logger
}

// NewAuthorizer builds an Authorizer. An empty originSecret disables the
// origin check; contextClaims is the allow-list of claims exported into the
// authorization context.
func NewAuthorizer(verifier TokenVerifier, originSecret string, contextClaims []string, log zerolog.Logger) *Authorizer {
	return &Authorizer{
		verifier:      verifier,
		originSecret:  originSecret,
		contextClaims: contextClaims,
		log:           log,
	}
}

// Authorize checks one forwarded request. identitySource is the cookie
// header forwarded by the upstream layer; originHeader is the shared-secret
// header value, empty when absent. Failures are logged and collapse into a
// plain denial.
func (a *Authorizer) Authorize(ctx context.Context, identitySource, originHeader string) Decision {
	if err := a.checkOrigin(originHeader); err != nil {
		a.deny(err)
		return Decision{Context: map[string]string{}}
	}

	rawToken, ok := cookies.IDTokenFromIdentitySource(identitySource)
	if !ok {
		a.deny(errors.ErrNoIdentityToken)
		return Decision{Context: map[string]string{}}
	}

	claimSet, err := a.verifier.Verify(ctx, rawToken)
	if err != nil {
		a.deny(err)
		return Decision{Context: map[string]string{}}
	}

	return Decision{
		IsAuthorized: true,
		Context:      claims.BuildContext(claimSet, a.contextClaims),
	}
}

// checkOrigin defends against the CDN being bypassed and the backend hit
// directly: when a shared secret is configured the forwarded header must
// match it.
func (a *Authorizer) checkOrigin(originHeader string) error {
	if a.originSecret == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(originHeader), []byte(a.originSecret)) != 1 {
		return errors.ErrOriginMismatch
	}
	return nil
}

func (a *Authorizer) deny(err error) {
	a.log.Warn().Err(err).Msg("authorization denied")
}
