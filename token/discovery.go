package token

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Endpoints holds the provider locations the service needs: where to
// exchange tokens and where the signing keys live.
type Endpoints struct {
	Token   oauth2.Endpoint
	JWKSURL string
}

// Discover resolves the provider's endpoints from the issuer's OIDC
// discovery document.
func Discover(ctx context.Context, issuer string) (*Endpoints, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	var meta struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("failed to read provider metadata: %w", err)
	}

	return &Endpoints{
		Token:   provider.Endpoint(),
		JWKSURL: meta.JWKSURI,
	}, nil
}

// EndpointsFromDomain builds token-endpoint locations for a hosted auth
// domain without consulting the discovery document. The domain may be given
// with or without a scheme.
func EndpointsFromDomain(domain string) *Endpoints {
	base := domain
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	base = strings.TrimSuffix(base, "/")

	return &Endpoints{
		Token: oauth2.Endpoint{
			AuthURL:   base + "/oauth2/authorize",
			TokenURL:  base + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
