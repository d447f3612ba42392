package server

import (
	"context"
	"net/http"

	"github.com/designofadecade/edge-auth/internal/errors"
)

// CallbackHandler completes the authorization-code flow: it exchanges the
// code for tokens and converts them into the session cookie set, then
// redirects to the configured post-login URL. Failure detail is logged,
// never returned; the client only ever sees a fixed message per category.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := s.establishSession(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			s.log.Error().Err(err).Msg("callback failed")
			switch {
			case errors.CategoryOf(err) == errors.CategoryInput:
				http.Error(w, "missing authorization code", http.StatusBadRequest)
			case errors.Is(err, errors.ErrMalformedTokenResponse):
				http.Error(w, "invalid token response", http.StatusUnauthorized)
			case errors.CategoryOf(err) == errors.CategoryUpstreamAuth:
				http.Error(w, "authentication failed", http.StatusUnauthorized)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		setCookies(w, set)
		disableCaching(w)
		http.Redirect(w, r, s.cfg.PostLoginRedirectURL, http.StatusFound)
	}
}

// establishSession is the callback's inner pipeline. A missing code fails
// fast before any upstream call.
func (s *Server) establishSession(ctx context.Context, code string) ([]*http.Cookie, error) {
	if code == "" {
		return nil, errors.ErrMissingAuthCode
	}

	ts, err := s.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.issueCookies(ctx, ts, ts.RefreshToken)
}
