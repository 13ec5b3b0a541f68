package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/cleverdemo/internal/server"
	"github.com/desertthunder/cleverdemo/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the web app until interrupted.
//
// The district is resolved once here; requests never look it up.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := *r.config
	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = int(cmd.Int("port"))
	}

	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := r.webApp(ctx, config.Clever.DistrictID, config.Session)
	if err != nil {
		return err
	}

	return server.Run(ctx, config.Server.Addr(), handler, r.logger, shutdownTimeout)
}

// webApp wires the Clever services, session store and middleware into the app's router.
func (r *Runner) webApp(ctx context.Context, districtID string, session shared.SessionConfig) (http.Handler, error) {
	clever, err := r.services()
	if err != nil {
		return nil, err
	}

	store, err := server.NewCookieSessionStore(session)
	if err != nil {
		return nil, err
	}

	districtID, err = clever.Resolver(districtID).DistrictID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve district: %w", err)
	}
	r.logger.Info("using district", "district_id", districtID)

	app, err := server.NewApp(server.AppOpts{
		Auth:       clever.OAuth,
		Students:   clever.Students,
		DistrictID: districtID,
		Sessions:   store,
		Logger:     shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return nil, err
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestID, server.Logging(r.logger), server.Recover(r.logger))
	app.Register(router)
	return router, nil
}
