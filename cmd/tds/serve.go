package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/tds/internal/cli"
	tdshttp "github.com/aretw0/tds/pkg/adapters/http"
	"github.com/aretw0/tds/pkg/observability"
	"github.com/aretw0/tds/pkg/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves scoring, catalogs, saved results, server-sent events and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics := observability.NewMetrics()
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, cleanup, err := cli.NewEngine(cfg, logger, observability.LogHooks(logger), metrics.Hooks())
		if err != nil {
			return err
		}
		defer cleanup()

		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch, _ = cmd.Flags().GetBool("watch")
		}

		opts := []tdshttp.Option{
			tdshttp.WithLogger(logger),
			tdshttp.WithMetrics(metrics.Handler()),
		}
		if locker, closeLocker := cli.NewLocker(cfg); locker != nil {
			defer closeLocker()
			opts = append(opts, tdshttp.WithSessionOptions(session.WithLocker(locker)))
		}
		if len(cfg.AllowedOrigins) > 0 {
			opts = append(opts, tdshttp.WithAllowedOrigins(cfg.AllowedOrigins...))
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           tdshttp.NewHandler(engine, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Watch {
			go func() {
				if err := engine.AutoReload(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("catalog watcher stopped", "err", err)
				}
			}()
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting tds server", "addr", srv.Addr, "watch", cfg.Watch, "store", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("tds server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("watch", false, "Reload catalogs when their source changes")
}
