package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log-cleaner/infrastructure/logger"
	"log-cleaner/infrastructure/metrics"
	"log-cleaner/infrastructure/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "log_cleaner"

var (
	scheduleCron        string
	scheduleMetricsAddr string
	scheduleRunNow      bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the cleanup repeatedly on a cron schedule",
	Long: `Run the cleanup configured in the config file on a cron schedule until
interrupted. A run that is still going when the next tick arrives causes
that tick to be skipped.

When a metrics address is set, Prometheus metrics are served at /metrics.

Examples:
  log-cleaner schedule --cron "0 3 * * *"
  log-cleaner schedule --cron "@every 6h" --metrics-addr :9102 --run-now`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "Cron expression (defaults to schedule.cron)")
	scheduleCmd.Flags().StringVar(&scheduleMetricsAddr, "metrics-addr", "", "Address for the Prometheus /metrics endpoint (defaults to schedule.metrics_addr)")
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "Run a cleanup immediately before waiting for the first tick")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	c := configOrDefaults()

	spec := scheduleCron
	if spec == "" {
		spec = c.Schedule.Cron
	}
	if spec == "" {
		return fmt.Errorf("--cron is required (or set schedule.cron in the config file)")
	}
	addr := scheduleMetricsAddr
	if addr == "" {
		addr = c.Schedule.MetricsAddr
	}

	input, err := ResolveCleanInput(c, CleanOptions{})
	if err != nil {
		return err
	}

	log, err := newLogger(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	rec := metrics.New(MetricsNamespace, reg)

	emailSender := configuredSender(ctx, c, os.Stdout, log)

	job := func(ctx context.Context, runID string) error {
		runLog := log.With(logger.Field{Key: "run_id", Value: runID})
		pipeline := newPipeline(c, emailSender, runLog, rec, os.Stdout)
		return RunCleanWithDependencies(ctx, pipeline, input)
	}

	return RunScheduleWithDependencies(ctx, spec, addr, reg, job, scheduleRunNow, log)
}

// RunScheduleWithDependencies runs the scheduler and optional metrics server
// until ctx is cancelled
func RunScheduleWithDependencies(ctx context.Context, spec, metricsAddr string, reg *prometheus.Registry, job scheduler.Job, runNow bool, log *logger.Logger) error {
	s, err := scheduler.New(spec, job, log)
	if err != nil {
		return err
	}

	var srv *http.Server
	if metricsAddr != "" {
		srv = newMetricsServer(metricsAddr, reg)
		go func() {
			log.Info("serving metrics", logger.Field{Key: "addr", Value: metricsAddr})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", err)
			}
		}()
	}

	if runNow {
		// A failed run is logged by the scheduler; keep the schedule going
		_ = s.RunOnce(ctx)
	}

	s.Start(ctx)
	log.Info("next cleanup scheduled", logger.Field{Key: "at", Value: s.Next()})

	<-ctx.Done()
	s.Stop()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
	}
	return nil
}

func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
