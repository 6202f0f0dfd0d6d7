package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskly/internal/server"
	"github.com/desertthunder/taskly/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultGoogleTimeout bounds how long the browser sign-in may take.
const DefaultGoogleTimeout = 2 * time.Minute

// GoogleOptions configures a [GoogleFlow].
type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Addr         string // listen address for the callback server

	// Endpoint overrides Google's OAuth endpoint.
	Endpoint *oauth2.Endpoint

	// OpenBrowser opens the consent page. Defaults to [shared.OpenBrowser].
	OpenBrowser func(url string) error

	// OnAuthURL is called with the consent URL when the browser could not be opened.
	OnAuthURL func(url string)

	Timeout time.Duration
	Logger  *log.Logger
}

// GoogleFlow runs the browser-based Google OAuth authorization code flow (with PKCE) and
// yields the Google ID token used to sign in with the identity provider.
type GoogleFlow struct {
	config  *oauth2.Config
	addr    string
	open    func(string) error
	onURL   func(string)
	timeout time.Duration
	logger  *log.Logger
}

// NewGoogleFlow creates a flow from opts.
func NewGoogleFlow(opts GoogleOptions) *GoogleFlow {
	endpoint := google.Endpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.OnAuthURL == nil {
		opts.OnAuthURL = func(string) {}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultGoogleTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &GoogleFlow{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		addr:    opts.Addr,
		open:    opts.OpenBrowser,
		onURL:   opts.OnAuthURL,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// RedirectURL returns the callback URL registered with Google.
func (g *GoogleFlow) RedirectURL() string { return g.config.RedirectURL }

// IDToken opens the consent page, waits for the callback and returns Google's ID token.
func (g *GoogleFlow) IDToken(ctx context.Context) (string, error) {
	state := shared.GenerateID()
	verifier := oauth2.GenerateVerifier()
	authURL := g.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	handler := server.NewOAuthHandler(pkceExchanger{g.config, verifier}, state, g.config.RedirectURL)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(g.logger))
	router.Handler(handler)

	srv := server.NewCallbackServer(g.addr, router, g.logger)
	serverErrors, err := srv.Start()
	if err != nil {
		return "", fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			g.logger.Warn("error shutting down callback server", "error", err)
		}
	}()

	g.logger.Info("waiting for google sign-in", "addr", g.addr)
	if err := g.open(authURL); err != nil {
		g.logger.Warn("failed to open browser automatically", "error", err)
		g.onURL(authURL)
	}

	timeout := time.NewTimer(g.timeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err, ok := <-serverErrors:
		if !ok {
			err = errors.New("closed unexpectedly")
		}
		return "", fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: google sign-in timed out after %s", shared.ErrTimeout, g.timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if result.Error() != nil {
		return "", result.Error()
	}
	if result.Token == nil {
		return "", fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	idToken, _ := result.Token.Extra("id_token").(string)
	if idToken == "" {
		return "", fmt.Errorf("%w: google did not return an id token", shared.ErrAuthFailed)
	}
	return idToken, nil
}

// pkceExchanger completes the code exchange with the PKCE verifier.
type pkceExchanger struct {
	config   *oauth2.Config
	verifier string
}

func (p pkceExchanger) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	return p.config.Exchange(ctx, code, append(opts, oauth2.VerifierOption(p.verifier))...)
}
