package token

import (
	"context"
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/designofadecade/edge-auth/internal/errors"
)

// Verifier validates ID tokens against the provider's published JWKS. The
// key set is fetched through a refreshing cache keyed by the JWKS URL.
type Verifier struct {
	issuer   string
	clientID string
	jwksURL  string
	keys     *jwk.Cache
}

// NewVerifier creates a Verifier for the given issuer and audience. When
// jwksURL is empty it is derived from the issuer using the conventional
// well-known location.
func NewVerifier(ctx context.Context, issuer, clientID, jwksURL string) (*Verifier, error) {
	if jwksURL == "" {
		jwksURL = strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json"
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL); err != nil {
		return nil, fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	return &Verifier{
		issuer:   issuer,
		clientID: clientID,
		jwksURL:  jwksURL,
		keys:     cache,
	}, nil
}

// Verify checks the token's signature, issuer, audience, expiry and token
// use, and returns its claims. Any failure is a verification error.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (map[string]any, error) {
	tok, err := jwtlib.Parse(rawToken,
		func(t *jwtlib.Token) (any, error) { return v.keyFromJWKS(ctx, t) },
		jwtlib.WithValidMethods([]string{"RS256"}),
		jwtlib.WithIssuer(v.issuer),
		jwtlib.WithAudience(v.clientID),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "failed to parse token: %s", err)
	}
	if !tok.Valid {
		return nil, errors.ErrInvalidToken
	}

	mapClaims, ok := tok.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "error extracting claims from token")
	}

	// The authorizer only ever accepts identity tokens; an access token with
	// a matching signature must still be rejected.
	if use, _ := mapClaims["token_use"].(string); use != "id" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token_use %q is not an identity token", use)
	}

	return mapClaims, nil
}

// keyFromJWKS resolves the verification key named by the token's kid header
// from the cached key set.
func (v *Verifier) keyFromJWKS(ctx context.Context, tok *jwtlib.Token) (any, error) {
	kid, ok := tok.Header["kid"].(string)
	if !ok {
		return nil, fmt.Errorf("token header missing kid")
	}

	keySet, err := v.keys.Get(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	key, found := keySet.LookupKeyID(kid)
	if !found {
		return nil, fmt.Errorf("key ID %s not found in JWKS", kid)
	}

	var rawKey any
	if err := key.Raw(&rawKey); err != nil {
		return nil, fmt.Errorf("failed to get raw key: %w", err)
	}
	return rawKey, nil
}
