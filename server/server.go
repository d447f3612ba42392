// Package server exposes the edge authentication entry points over HTTP:
// callback, refresh, signout, authorize and the token-issuance hook. Each
// handler is an independent, stateless unit of work; handlers never call
// each other.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/designofadecade/edge-auth/auth"
	"github.com/designofadecade/edge-auth/cdn"
	"github.com/designofadecade/edge-auth/claims"
	"github.com/designofadecade/edge-auth/cookies"
	"github.com/designofadecade/edge-auth/internal/config"
	"github.com/designofadecade/edge-auth/token"
)

// TokenExchanger wraps the identity provider's token endpoint.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*token.Set, error)
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (*token.Set, error)
}

// GrantSigner produces resource-scoped grants. An unconfigured signer
// returns zero grants, which means no CDN cookie scoping.
type GrantSigner interface {
	SignGrants(ctx context.Context, expires time.Time) ([]cdn.Grant, error)
}

// fallbackSessionDuration applies when neither an explicit override nor a
// provider expires_in is available.
const fallbackSessionDuration = 3600

type Server struct {
	cfg        *config.Config
	log        zerolog.Logger
	exchanger  TokenExchanger
	signer     GrantSigner
	codec      *cookies.Codec
	authorizer *auth.Authorizer
	filter     *claims.Filter
	router     chi.Router

	now func() time.Time
}

func New(cfg *config.Config, exchanger TokenExchanger, signer GrantSigner, authorizer *auth.Authorizer, log zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log,
		exchanger: exchanger,
		signer:    signer,
		codec: &cookies.Codec{
			AccessTokenPath:  cfg.AccessTokenCookiePath,
			RefreshTokenPath: cfg.RefreshTokenCookiePath,
			CDNPaths:         cfg.CDNPaths,
		},
		authorizer: authorizer,
		filter:     claims.NewFilter(cfg.AllowedClaims),
		now:        time.Now,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(s.RequestLoggerMiddleware)
	r.Use(s.RecoverMiddleware)

	r.Get(RouteCallback, s.CallbackHandler())
	r.Get(RouteRefresh, s.RefreshHandler())
	r.Get(RouteSignout, s.SignoutHandler())
	r.Post(RouteAuthorize, s.AuthorizeHandler())
	r.Post(RouteTokenHook, s.TokenIssuanceHookHandler())

	s.router = r
}

// sessionDuration resolves the access/id cookie lifetime: the configured
// override first, then the provider's reported expires_in, then the
// fallback.
func (s *Server) sessionDuration(expiresIn int) int {
	if s.cfg.SessionDuration > 0 {
		return s.cfg.SessionDuration
	}
	if expiresIn > 0 {
		return expiresIn
	}
	return fallbackSessionDuration
}

// issueCookies builds the full cookie set for a token set: session cookies
// plus resource-scoped grants when signing is configured. refreshToken is
// passed separately because a refresh cycle leaves the existing refresh
// cookie untouched.
func (s *Server) issueCookies(ctx context.Context, ts *token.Set, refreshToken string) ([]*http.Cookie, error) {
	maxAge := s.sessionDuration(ts.ExpiresIn)
	expiresAt := s.now().Add(time.Duration(maxAge) * time.Second)

	grants, err := s.signer.SignGrants(ctx, expiresAt)
	if err != nil {
		return nil, err
	}

	session := cookies.Session{
		AccessToken:  ts.AccessToken,
		IDToken:      ts.IDToken,
		RefreshToken: refreshToken,
		MaxAge:       maxAge,
		ExpiresAt:    expiresAt.Unix(),
	}
	return s.codec.SessionCookies(session, grants), nil
}
