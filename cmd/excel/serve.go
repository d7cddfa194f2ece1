package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/go-data-exporter/excel/internal/config"
	"github.com/go-data-exporter/excel/internal/loader"
	"github.com/go-data-exporter/excel/internal/server"
	"github.com/go-data-exporter/excel/metrics"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		listen string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve jobs over HTTP and run scheduled exports",
		Long: `Start an HTTP server exposing the configured jobs:

  GET  /jobs                 list jobs
  GET  /jobs/{name}/export   download a job (?format=xlsx overrides the format)
  GET  /jobs/{name}/preview  first rows of every sheet as JSON (?limit=N)
  POST /jobs/{name}/run      export a job into server.output_dir
  GET  /healthz              liveness
  GET  /metrics              Prometheus metrics, when metrics.enabled is set

Jobs with a schedule are exported into server.output_dir by cron.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.ListenAddress = listen
			}
			if cmd.Flags().Changed("watch") {
				cfg.Server.Watch = watch
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, flags.configFile, cfg, logger, flags.baseDir())
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "override server.listen_address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload jobs when the configuration file changes")
	return cmd
}

func serve(ctx context.Context, configFile string, cfg *config.Config, logger *slog.Logger, baseDir string) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv := server.New(cfg, loader.New(logger, baseDir), logger, metrics.NewCollector(registry), registry)

	scheduler := server.NewScheduler(srv.RunJob, logger)
	if _, err := scheduler.Start(ctx, cfg.Jobs); err != nil {
		return err
	}
	defer scheduler.Stop()

	if cfg.Server.Watch {
		watcher := server.NewWatcher(configFile, 0, logger)
		go func() {
			err := watcher.Watch(ctx, func() {
				next, err := config.Load(configFile)
				if err != nil {
					logger.Error("configuration reload failed", slog.Any("error", err))
					return
				}
				srv.SetConfig(next)
				if _, err := scheduler.Start(ctx, next.Jobs); err != nil {
					logger.Error("rescheduling failed", slog.Any("error", err))
					return
				}
				logger.Info("configuration reloaded", slog.Int("jobs", len(next.Jobs)))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("configuration watcher stopped", slog.Any("error", err))
			}
		}()
	}
	return srv.Run(ctx)
}
