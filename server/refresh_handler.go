package server

import (
	"context"
	"net/http"

	"github.com/designofadecade/edge-auth/cookies"
	"github.com/designofadecade/edge-auth/internal/errors"
)

// RefreshHandler rotates the access and id tokens using the refresh token
// from the inbound cookies. The refresh cookie itself is left untouched:
// even when the provider's response carries a new refresh token, the
// existing cookie keeps its value and lifetime.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := s.refreshSession(r.Context(), r.Header.Get("Cookie"))
		if err != nil {
			s.log.Error().Err(err).Msg("refresh failed")
			switch errors.CategoryOf(err) {
			case errors.CategoryInput:
				http.Error(w, "missing refresh token", http.StatusUnauthorized)
			case errors.CategoryUpstreamAuth:
				http.Error(w, "authentication failed", http.StatusUnauthorized)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		setCookies(w, set)
		disableCaching(w)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) refreshSession(ctx context.Context, cookieHeader string) ([]*http.Cookie, error) {
	refreshToken, ok := cookies.RefreshTokenFromHeader(cookieHeader)
	if !ok {
		return nil, errors.ErrMissingRefreshToken
	}

	ts, err := s.exchanger.ExchangeRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	return s.issueCookies(ctx, ts, "")
}
