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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/internal/cli"
	"github.com/aretw0/justschema/internal/presentation/tui"
	httpAdapter "github.com/aretw0/justschema/pkg/adapters/http"
	"github.com/aretw0/justschema/pkg/observability"
	"github.com/aretw0/justschema/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the registered models over HTTP: list, show and validate, plus an
SSE event stream, the OpenAPI description of the API and Prometheus metrics.
With --watch, edits to the model source are picked up without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log, err := logger(cmd)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}
		streams := httpAdapter.NewStreamManager()

		opts := engineOptions(cmd)
		source, err := cli.OpenSource(opts)
		if err != nil {
			return err
		}
		build := func(ctx context.Context) (*justschema.Engine, error) {
			return cli.CreateEngine(ctx, source, opts, log, metrics.Hooks(), streams.Hooks(), observability.LoggingHooks(log))
		}
		reloader, err := cli.NewReloader(ctx, build, log)
		if err != nil {
			return err
		}
		if watch {
			w, ok := source.(ports.Watchable)
			if !ok {
				return fmt.Errorf("--watch needs a --dir model source")
			}
			go func() {
				if err := reloader.Watch(ctx, w); err != nil {
					log.Error("Watcher stopped", "err", err)
				}
			}()
		}

		handler := httpAdapter.NewHandler(reloader,
			httpAdapter.WithLogger(log),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if cli.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), justschema.Version)
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Info("Starting justschema server", "address", srv.Addr, "models", len(reloader.Models()))
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			log.Info("Shutdown signal received")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			log.Info("Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("watch", false, "Reload models when the --dir repository changes")
}
