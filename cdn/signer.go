// Package cdn issues resource-scoped grants: CloudFront signed-cookie
// triples that authorize direct CDN access to private path prefixes until an
// expiry, independent of the session token lifetime.
package cdn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/cloudfront/sign"

	"github.com/designofadecade/edge-auth/secrets"
)

// Grant is the signed-cookie value triple for one path prefix. All three
// values come from a single signing call and share one expiry; they are only
// ever set or cleared together.
type Grant struct {
	Path      string
	Policy    string
	Signature string
	KeyPairID string
}

// Signer produces grants for a fixed set of path prefixes. The private key
// is retrieved from the secret store on every signing operation so that a
// rotated key takes effect immediately.
type Signer struct {
	keyPairID string
	secretID  string
	domain    string
	paths     []string
	secrets   secrets.Retriever
}

// NewSigner builds a Signer. Signing is disabled when keyPairID or secretID
// is empty; a disabled signer produces zero grants, which callers treat as
// "no CDN cookie scoping configured".
func NewSigner(keyPairID, secretID, domain string, paths []string, retriever secrets.Retriever) *Signer {
	return &Signer{
		keyPairID: keyPairID,
		secretID:  secretID,
		domain:    strings.TrimSuffix(domain, "/"),
		paths:     paths,
		secrets:   retriever,
	}
}

// Enabled reports whether a signing key is configured.
func (s *Signer) Enabled() bool {
	return s.keyPairID != "" && s.secretID != ""
}

// SignGrants signs one grant per configured path prefix, all expiring at
// expires. A disabled signer returns a nil slice and no error.
func (s *Signer) SignGrants(ctx context.Context, expires time.Time) ([]Grant, error) {
	if !s.Enabled() || len(s.paths) == 0 {
		return nil, nil
	}

	pemKey, err := s.secrets.GetSecret(ctx, s.secretID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve signing key: %w", err)
	}

	privKey, err := sign.LoadPEMPrivKey(strings.NewReader(pemKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	cookieSigner := sign.NewCookieSigner(s.keyPairID, privKey)

	grants := make([]Grant, 0, len(s.paths))
	for _, path := range s.paths {
		policy := &sign.Policy{
			Statements: []sign.Statement{{
				Resource: s.domain + path + "/*",
				Condition: sign.Condition{
					DateLessThan: &sign.AWSEpochTime{Time: expires},
				},
			}},
		}

		cookies, err := cookieSigner.SignWithPolicy(policy)
		if err != nil {
			return nil, fmt.Errorf("failed to sign policy for %s: %w", path, err)
		}

		grant := Grant{Path: path}
		for _, c := range cookies {
			switch c.Name {
			case "CloudFront-Policy":
				grant.Policy = c.Value
			case "CloudFront-Signature":
				grant.Signature = c.Value
			case "CloudFront-Key-Pair-Id":
				grant.KeyPairID = c.Value
			}
		}
		if grant.Policy == "" || grant.Signature == "" || grant.KeyPairID == "" {
			return nil, fmt.Errorf("incomplete signed cookie set for %s", path)
		}
		grants = append(grants, grant)
	}

	return grants, nil
}
