package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/cleverdemo/internal/server"
	"github.com/desertthunder/cleverdemo/internal/shared"
	"github.com/desertthunder/cleverdemo/internal/ui"
	"github.com/desertthunder/cleverdemo/internal/web"
	"github.com/urfave/cli/v3"
)

const defaultLoginTimeout = 5 * time.Minute

// authorizationURL resolves the district and builds the login URL.
func (r *Runner) authorizationURL(ctx context.Context) (string, error) {
	clever, err := r.services()
	if err != nil {
		return "", err
	}

	districtID, err := clever.Resolver(r.config.Clever.DistrictID).DistrictID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve district: %w", err)
	}

	return clever.OAuth.AuthorizationURL(districtID), nil
}

// AuthURL prints the authorization URL.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	authURL, err := r.authorizationURL(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", authURL)
}

// AuthOpen opens the authorization URL in the default browser.
func (r *Runner) AuthOpen(ctx context.Context, cmd *cli.Command) error {
	authURL, err := r.authorizationURL(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("opening browser", "url", authURL)
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		return r.writePlain("%s\n%s\n", ui.Styles.Help("Open this URL to log in:"), authURL)
	}
	return nil
}

// AuthExchange exchanges an authorization code and prints the student id.
func (r *Runner) AuthExchange(ctx context.Context, cmd *cli.Command) error {
	code := cmd.String("code")
	if code == "" {
		return fmt.Errorf("%w: --code", shared.ErrMissingArgument)
	}

	clever, err := r.services()
	if err != nil {
		return err
	}

	id, err := clever.OAuth.Exchange(ctx, code)
	if err != nil {
		return err
	}

	return r.writePlain("%s %s\n", ui.Styles.OK("✓ Student id:"), id)
}

// AuthLogin runs the full login from the terminal.
//
// It serves the redirect URI's path on its host, so the configured redirect URI must point at this machine.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	clever, err := r.services()
	if err != nil {
		return err
	}

	redirect, err := localRedirect(r.config.Clever.RedirectURI)
	if err != nil {
		return err
	}

	authURL, err := r.authorizationURL(ctx)
	if err != nil {
		return err
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "login")
	handler := server.NewCallbackHandler(clever.OAuth, redirect.Path, renderer)
	router := server.NewBasicRouter()
	router.Use(server.Recover(logger))
	router.Handler(handler)

	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("callback server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("waiting for callback", "addr", redirect.Host, "path", redirect.Path)
	if cmd.Bool("no-browser") {
		r.writePlain("%s\n%s\n", ui.Styles.Help("Open this URL to log in:"), authURL)
	} else if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		r.writePlain("%s\n%s\n", ui.Styles.Help("Open this URL to log in:"), authURL)
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return err
		}
		return r.writePlain("%s %s\n", ui.Styles.OK("✓ Logged in as"), result.StudentID)
	case <-time.After(timeout):
		return fmt.Errorf("%w: no callback within %v", shared.ErrAuthFailed, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// localRedirect parses the redirect URI and checks it can be served on this machine.
func localRedirect(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect_uri: %v", shared.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("%w: auth login needs an http redirect_uri on this machine, got %q; use auth exchange instead",
			shared.ErrInvalidConfig, raw)
	}

	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
	default:
		return nil, fmt.Errorf("%w: redirect_uri host %q is not local; use auth exchange instead", shared.ErrInvalidConfig, u.Hostname())
	}

	if u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), "80")
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
