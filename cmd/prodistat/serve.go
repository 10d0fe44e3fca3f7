package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/prodistat/cache"
	"github.com/spektr-org/prodistat/config"
	"github.com/spektr-org/prodistat/dashboard"
	"github.com/spektr-org/prodistat/engine"
	"github.com/spektr-org/prodistat/server"
)

func newServeCmd(app *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over HTTP",
		Long: `Serve the summary, filters, search, charts and export over HTTP.

The source file is watched and reloaded when it changes. If the file is
missing at startup the API answers 503 until it appears.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				app.cfg.Server.Addr = addr
			}
			if app.cfg.Server.Addr == "" {
				app.cfg.Server.Addr = config.DefaultAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := app.openCache()
			if c != nil {
				defer c.Close()
			}
			return app.serve(ctx, c)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8080)")
	return cmd
}

func (app *cli) serve(ctx context.Context, c *cache.Cache) error {
	log := app.logger
	loader := &dashboard.Loader{Cache: c, Logger: log}
	path := app.cfg.Data.Path

	ds, variant, err := loader.Load(path, app.cfg.Variant())
	if err != nil {
		if !errors.Is(err, engine.ErrDataUnavailable) {
			return err
		}
		log.Warn("starting without data", zap.Error(err))
		variant = app.cfg.Variant()
		if variant == engine.VariantAuto {
			variant = engine.VariantAdmission
		}
	}
	session := dashboard.NewSession(ds, variant, app.sessionOptions()...)

	if !app.cfg.Server.DisableWatch {
		watcher, err := server.NewWatcher(path, app.cfg.Server.Debounce, func(ctx context.Context) {
			ds, variant, err := loader.Load(path, app.cfg.Variant())
			if err != nil {
				log.Warn("reload failed; keeping last snapshot", zap.Error(err))
				return
			}
			session.Reload(ds, variant)
		}, log)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			log.Warn("file watching disabled", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	srv := server.New(session, log)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(app.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	}
}
