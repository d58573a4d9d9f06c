package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/platinummonkey/ragstack/pkg/health"
	"github.com/platinummonkey/ragstack/pkg/observability"
	"github.com/platinummonkey/ragstack/pkg/probe"
)

func newServeCommand(env Env) *Command {
	cmd := &Command{
		Name:        "serve",
		Description: "Run the health and metrics HTTP server",
		Flags:       newFlagSet("serve", env.Stderr),
	}

	var (
		common          commonFlags
		probes          probeFlags
		addr            string
		otelEndpoint    string
		timeout         time.Duration
		shutdownTimeout time.Duration
	)
	common.register(cmd.Flags)
	probes.register(cmd.Flags)
	cmd.Flags.StringVar(&addr, "addr", ":9090", "Listen address")
	cmd.Flags.StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP gRPC collector endpoint (empty disables tracing)")
	cmd.Flags.DurationVar(&timeout, "timeout", health.DefaultTimeout, "Timeout for each probe")
	cmd.Flags.DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(env.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := setupLogger(env.Stderr, common.logLevel)
		logger := observabilityLogger(env, common.logLevel).WithField("service", "ragstack")

		settings, err := env.loadSettings(common, logger)
		if err != nil {
			return err
		}

		all := probe.FromSettings(ctx, settings, probes.options()...)

		tp, err := observability.InitTracing(ctx, observability.TracingConfig{
			Endpoint:       otelEndpoint,
			ServiceName:    "ragstack",
			ServiceVersion: Version,
			Insecure:       true,
		}, logger)
		if err != nil {
			_ = probe.CloseAll(all)
			return err
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		checker := health.NewChecker(all,
			health.WithTimeout(timeout),
			health.WithMetrics(observability.NewMetrics(registry)),
			health.WithLogger(logger),
			health.WithVersion(Version),
		)

		server := health.NewServer(addr, health.NewHandler(checker, registry, logger), logger)
		server.OnShutdown(func(context.Context) error { return probe.CloseAll(all) })
		server.OnShutdown(func(ctx context.Context) error {
			return observability.ShutdownTracing(ctx, tp, logger)
		})

		log.Infof("Starting ragstack health server on %s", addr)
		if err := server.Run(ctx, shutdownTimeout); err != nil {
			return fmt.Errorf("health server: %w", err)
		}
		log.Info("Health server stopped")
		return nil
	}

	return cmd
}
