package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hexthorne/airwave/internal/server"
	"github.com/hexthorne/airwave/internal/session"
	"github.com/hexthorne/airwave/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultLoginTimeout = 5 * time.Minute

// AuthLogin runs the local OAuth2 authorization code flow: starts a
// temporary callback server on the configured redirect URI, opens the
// browser, and persists the resulting credential pair.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if !r.provider.Configured() {
		return shared.ErrNotConfigured
	}

	store, err := r.store()
	if err != nil {
		return err
	}

	redirect, err := url.Parse(r.config.Credentials.Spotify.RedirectURI)
	if err != nil || redirect.Host == "" {
		return fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, r.config.Credentials.Spotify.RedirectURI)
	}

	state := shared.GenerateState()
	handler := server.NewOAuthHandler(r.provider.Exchange, state, redirect.Path)

	router := server.NewBasicRouter()
	router.Handler(handler)

	httpServer := &http.Server{Addr: redirect.Host, Handler: router}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Errorf("callback server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	authURL := r.provider.AuthURL(state)
	r.writePlain("Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser: %v", err)
		r.writePlain("Visit this URL to authorize:\n%s\n", authURL)
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}

		store.Set(session.CredentialPair{
			AccessToken:  result.Token.AccessToken,
			RefreshToken: result.Token.RefreshToken,
		})

		r.logger.Info("authentication successful")
		return r.writePlain("✓ Logged in to Spotify\n")
	case <-time.After(timeout):
		return fmt.Errorf("%w: no callback received within %v", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AuthLogout clears the stored credential pair.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	store.Clear()
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the configuration and session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.provider.Configured() {
		return r.writePlain("✗ Spotify credentials not configured\n")
	}

	store, err := r.store()
	if err != nil {
		return err
	}

	pair := store.Get()
	switch {
	case pair.HasAccess():
		r.writePlain("✓ Logged in (access credential present)\n")
	case pair.HasRefresh():
		r.writePlain("✓ Logged in (access credential will be refreshed on next use)\n")
	default:
		r.writePlain("✗ Not logged in — run: airwave auth login\n")
	}

	return nil
}
