package token_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"

	"github.com/designofadecade/edge-auth/internal/errors"
	"github.com/designofadecade/edge-auth/token"
)

const (
	testIssuer   = "https://pool.example.com"
	testClientID = "client-abc"
	testKeyID    = "test-key-1"
)

// newJWKSServer publishes the public half of key as a JWKS document.
func newJWKSServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()

	pub, err := jwk.FromRaw(key.Public())
	require.NoError(t, err)
	require.NoError(t, pub.Set(jwk.KeyIDKey, testKeyID))
	require.NoError(t, pub.Set(jwk.AlgorithmKey, "RS256"))
	require.NoError(t, pub.Set(jwk.KeyUsageKey, "sig"))

	keySet := jwk.NewSet()
	require.NoError(t, keySet.AddKey(pub))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(keySet))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwtlib.MapClaims) string {
	t.Helper()
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return signed
}

func idClaims(overrides jwtlib.MapClaims) jwtlib.MapClaims {
	claims := jwtlib.MapClaims{
		"iss":       testIssuer,
		"aud":       testClientID,
		"sub":       "user-123",
		"token_use": "id",
		"exp":       time.Now().Add(time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}
	for k, v := range overrides {
		claims[k] = v
	}
	return claims
}

func TestVerifier_Verify(t *testing.T) {
	ctx := context.Background()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newJWKSServer(t, key)

	v, err := token.NewVerifier(ctx, testIssuer, testClientID, srv.URL)
	require.NoError(t, err)

	t.Run("valid identity token yields claims", func(t *testing.T) {
		raw := signToken(t, key, testKeyID, idClaims(nil))
		set, err := v.Verify(ctx, raw)
		require.NoError(t, err)
		require.Equal(t, "user-123", set["sub"])
		require.Equal(t, testIssuer, set["iss"])
	})

	t.Run("verification is idempotent", func(t *testing.T) {
		raw := signToken(t, key, testKeyID, idClaims(nil))
		first, err := v.Verify(ctx, raw)
		require.NoError(t, err)
		second, err := v.Verify(ctx, raw)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		raw := signToken(t, key, testKeyID, idClaims(jwtlib.MapClaims{"iss": "https://evil.example.com"}))
		_, err := v.Verify(ctx, raw)
		require.True(t, errors.Is(err, errors.ErrInvalidToken))
	})

	t.Run("wrong audience rejected", func(t *testing.T) {
		raw := signToken(t, key, testKeyID, idClaims(jwtlib.MapClaims{"aud": "other-client"}))
		_, err := v.Verify(ctx, raw)
		require.True(t, errors.Is(err, errors.ErrInvalidToken))
	})

	t.Run("expired token rejected", func(t *testing.T) {
		raw := signToken(t, key, testKeyID, idClaims(jwtlib.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}))
		_, err := v.Verify(ctx, raw)
		require.True(t, errors.Is(err, errors.ErrInvalidToken))
	})

	t.Run("access token rejected by token use", func(t *testing.T) {
		raw := signToken(t, key, testKeyID, idClaims(jwtlib.MapClaims{"token_use": "access"}))
		_, err := v.Verify(ctx, raw)
		require.True(t, errors.Is(err, errors.ErrInvalidToken))
	})

	t.Run("signature from unknown key rejected", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		raw := signToken(t, otherKey, testKeyID, idClaims(nil))
		_, err = v.Verify(ctx, raw)
		require.True(t, errors.Is(err, errors.ErrInvalidToken))
	})

	t.Run("unknown kid rejected", func(t *testing.T) {
		raw := signToken(t, key, "missing-key", idClaims(nil))
		_, err := v.Verify(ctx, raw)
		require.True(t, errors.Is(err, errors.ErrInvalidToken))
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := v.Verify(ctx, "not-a-jwt")
		require.True(t, errors.Is(err, errors.ErrInvalidToken))
	})

	t.Run("verification errors classified for denial", func(t *testing.T) {
		_, err := v.Verify(ctx, "not-a-jwt")
		require.Equal(t, errors.CategoryVerification, errors.CategoryOf(err))
	})
}
