package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/evcraddock/homeview/internal/app"
	"github.com/evcraddock/homeview/internal/config"
	"github.com/evcraddock/homeview/internal/logging"
	"github.com/evcraddock/homeview/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server.

Settings come from the server config file (--config), then HV_* environment
variables. --addr overrides the listen address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (default from config, :8080)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := logging.Setup(cfg.DevMode)

	core, err := app.Open(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("starting core: %w", err)
	}
	defer func() {
		if err := core.Close(); err != nil {
			logger.Error("closing core", "error", err)
		}
	}()

	servers := []*http.Server{{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(core, web.Options{ServeMetrics: cfg.MetricsAddr == "", LoginRate: cfg.LoginRate, LoginBurst: cfg.LoginBurst}),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", core.Metrics().Handler())
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return shutdown(servers, logger)
	})

	return g.Wait()
}

func shutdown(servers []*http.Server, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "addr", srv.Addr, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
