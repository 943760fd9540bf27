package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/scheduler"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/telemetry"
)

const refreshJobName = "refresh-catalog"

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Schedule    string
	MetricsAddr string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the catalog fresh in the foreground",
		Long: `Initialize the catalog, then re-check its age on a cron schedule and
refresh it whenever it is due. Prometheus metrics are served on /metrics.

Stops on SIGINT or SIGTERM.

Example:
  steamappcat watch
  steamappcat watch --schedule "*/30 * * * *" --metrics-addr 127.0.0.1:9090
  steamappcat watch --metrics-addr ""   # no metrics endpoint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "cron schedule for staleness checks (default from config)")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "metrics listen address, empty to disable (default from config)")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	schedule := cfg.WatchSchedule
	if cmd.Flags().Changed("schedule") {
		schedule = opts.Schedule
	}
	metricsAddr := cfg.MetricsAddr
	if cmd.Flags().Changed("metrics-addr") {
		metricsAddr = opts.MetricsAddr
	}

	logger := opts.newLogger(cmd.ErrOrStderr())
	reg := newRegistry()
	c := newCatalog(cfg, logger, telemetry.NewMetrics(reg))
	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			logger.Error("error closing catalog", "error", closeErr)
		}
	}()

	sched, err := scheduler.New(logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create scheduler", err)
	}
	if err := sched.AddJob(refreshJobName, schedule, func(ctx context.Context) {
		c.Initialize(ctx, false)
	}); err != nil {
		_ = sched.Stop()
		return WrapExitError(ExitCommandError, "invalid watch schedule", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Initialize(gctx, false)
		return nil
	})

	sched.Start()
	g.Go(func() error {
		<-gctx.Done()
		return sched.Stop()
	})

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsHandler(reg),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", "addr", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	logger.Info("watching steam app catalog", "schedule", schedule, "path", c.Path())
	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "watch stopped", err)
	}
	logger.Info("watch stopped", "count", c.State().Count)
	return nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
