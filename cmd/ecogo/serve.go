package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "ecogo/docs"
	"ecogo/internal/handlers"
	"ecogo/internal/logger"
	"ecogo/internal/server"
	"ecogo/internal/service"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the appliance timers",
	Long: `Reconciles every stored user, then serves the REST API and the event
stream until SIGINT or SIGTERM. Running appliances keep their timers while the
process is up; anything that expires during downtime is finalized on the next start.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required to serve (set ECOGO_AUTH_SIGNING_KEY)")
	}
	log := logger.Get(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.close(closeCtx); err != nil {
			log.Errorw("shutdown_close_failed", "err", err)
		}
	}()

	// A user that fails to load is retried lazily on first request.
	if _, err := a.sessions.ReconcileAll(ctx); err != nil {
		log.Warnw("startup_reconcile_incomplete", "err", err)
	}

	services := service.NewService(a.repos, a.sessions, cfg.Auth, cfg.Simulator.SimulatorConfig)
	go services.Simulator.Run(ctx, cfg.Simulator.Tick)

	srv := server.New(cfg.Server, handlers.NewHandler(services, log).InitRoutes())
	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()
	log.Infow("http_server_started", "addr", srv.Addr())

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	return nil
}
