package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/designofadecade/edge-auth/auth"
	"github.com/designofadecade/edge-auth/internal/errors"
)

type fakeVerifier struct {
	claims map[string]any
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(context.Context, string) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func validClaims() map[string]any {
	return map[string]any{
		"sub":         "user-123",
		"email":       "user@example.com",
		"custom:tier": "gold",
	}
}

func TestAuthorizer_Authorize(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()
	source := "accessToken=A; idToken=abc.def.ghi; refreshToken=R"

	t.Run("valid token allowed with context", func(t *testing.T) {
		a := auth.NewAuthorizer(&fakeVerifier{claims: validClaims()}, "", []string{"email", "custom:tier"}, log)
		d := a.Authorize(ctx, source, "")
		require.True(t, d.IsAuthorized)
		require.Equal(t, map[string]string{
			"sub":   "user-123",
			"email": "user@example.com",
			"tier":  "gold",
		}, d.Context)
	})

	t.Run("context always contains sub", func(t *testing.T) {
		a := auth.NewAuthorizer(&fakeVerifier{claims: validClaims()}, "", nil, log)
		d := a.Authorize(ctx, source, "")
		require.True(t, d.IsAuthorized)
		require.Equal(t, map[string]string{"sub": "user-123"}, d.Context)
	})

	t.Run("identical input yields identical decision", func(t *testing.T) {
		a := auth.NewAuthorizer(&fakeVerifier{claims: validClaims()}, "", []string{"email"}, log)
		first := a.Authorize(ctx, source, "")
		second := a.Authorize(ctx, source, "")
		require.Equal(t, first, second)
	})

	t.Run("missing idToken denied without verification", func(t *testing.T) {
		verifier := &fakeVerifier{claims: validClaims()}
		a := auth.NewAuthorizer(verifier, "", nil, log)
		d := a.Authorize(ctx, "accessToken=A; refreshToken=R", "")
		require.False(t, d.IsAuthorized)
		require.Empty(t, d.Context)
		require.NotNil(t, d.Context)
		require.Zero(t, verifier.calls)
	})

	t.Run("verification failure denied with empty context", func(t *testing.T) {
		a := auth.NewAuthorizer(&fakeVerifier{err: errors.ErrInvalidToken}, "", nil, log)
		d := a.Authorize(ctx, source, "")
		require.False(t, d.IsAuthorized)
		require.Empty(t, d.Context)
	})

	t.Run("origin mismatch denied before token extraction", func(t *testing.T) {
		verifier := &fakeVerifier{claims: validClaims()}
		a := auth.NewAuthorizer(verifier, "shared-secret", nil, log)
		d := a.Authorize(ctx, source, "wrong-secret")
		require.False(t, d.IsAuthorized)
		require.Zero(t, verifier.calls)
	})

	t.Run("matching origin secret allowed", func(t *testing.T) {
		a := auth.NewAuthorizer(&fakeVerifier{claims: validClaims()}, "shared-secret", nil, log)
		d := a.Authorize(ctx, source, "shared-secret")
		require.True(t, d.IsAuthorized)
	})

	t.Run("no origin secret configured skips the check", func(t *testing.T) {
		a := auth.NewAuthorizer(&fakeVerifier{claims: validClaims()}, "", nil, log)
		d := a.Authorize(ctx, source, "anything")
		require.True(t, d.IsAuthorized)
	})
}
