package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/designofadecade/edge-auth/auth"
	"github.com/designofadecade/edge-auth/cdn"
	"github.com/designofadecade/edge-auth/internal/config"
	"github.com/designofadecade/edge-auth/secrets"
	"github.com/designofadecade/edge-auth/server"
	"github.com/designofadecade/edge-auth/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	displayAppname("Edge Auth")

	ctx := context.Background()
	srv, err := buildServer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: srv}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildServer wires the handler dependencies: provider endpoints, token
// exchanger, ID-token verifier, CDN grant signer and the request authorizer.
func buildServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*server.Server, error) {
	endpoints, err := providerEndpoints(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = endpoints.JWKSURL
	}
	verifier, err := token.NewVerifier(ctx, cfg.Issuer, cfg.ClientID, jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	exchanger := token.NewExchanger(cfg.ClientID, cfg.RedirectURL, endpoints.Token)

	var retriever secrets.Retriever
	if cfg.CDNSigningEnabled() {
		manager, err := secrets.NewManager(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		retriever = manager
	}
	signer := cdn.NewSigner(cfg.CDNKeyPairID, cfg.CDNSigningKeySecretID, cfg.CDNDomain, cfg.CDNPaths, retriever)

	authorizer := auth.NewAuthorizer(verifier, cfg.OriginSecret, cfg.ContextClaims, logger)

	return server.New(cfg, exchanger, signer, authorizer, logger), nil
}

// providerEndpoints prefers the hosted auth domain when configured and
// falls back to the issuer's discovery document.
func providerEndpoints(ctx context.Context, cfg *config.Config) (*token.Endpoints, error) {
	if cfg.AuthDomain != "" {
		endpoints := token.EndpointsFromDomain(cfg.AuthDomain)
		// The auth domain carries no key-set location; discovery still
		// supplies it unless one was configured explicitly.
		if cfg.JWKSURL == "" {
			discovered, err := token.Discover(ctx, cfg.Issuer)
			if err != nil {
				return nil, err
			}
			endpoints.JWKSURL = discovered.JWKSURL
		}
		return endpoints, nil
	}
	return token.Discover(ctx, cfg.Issuer)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func listenAndServe(httpServer *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", httpServer.Addr).Msg("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
