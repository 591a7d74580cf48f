// hm2prom exports the state of a Homematic CCU to Prometheus.
//
// It reads the controller's XML-API documents, joins datapoints with their
// channel, device, room and function context, and serves the result as
// gauge families on an HTTP metrics endpoint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/hm2prom/internal/api"
	"github.com/nerrad567/hm2prom/internal/ccu"
	"github.com/nerrad567/hm2prom/internal/infrastructure/config"
	"github.com/nerrad567/hm2prom/internal/infrastructure/logging"
	"github.com/nerrad567/hm2prom/internal/infrastructure/mqtt"
	"github.com/nerrad567/hm2prom/internal/metrics"
	"github.com/nerrad567/hm2prom/internal/poll"
	"github.com/nerrad567/hm2prom/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path. A missing file here is not an error.
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the command-line flags.
type options struct {
	configPath string
	once       bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "hm2prom",
		Short: "Prometheus exporter for Homematic CCU controllers",
		Long: `hm2prom polls the XML-API of a Homematic CCU and exposes datapoints and
system variables as Prometheus gauges.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.once {
				return runOnce(cmd.Context(), opts, cmd.OutOrStdout())
			}
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default $HM2PROM_CONFIG or "+defaultConfigPath+")")
	cmd.Flags().BoolVar(&opts.once, "once", false, "run a single cycle, print the exposition to stdout and exit")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hm2prom %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// resolveConfigPath returns the config path and whether it was chosen
// explicitly (flag or environment). Only an explicit path must exist.
func resolveConfigPath(flag string) (string, bool) {
	if flag != "" {
		return flag, true
	}
	if path := os.Getenv("HM2PROM_CONFIG"); path != "" {
		return path, true
	}
	return defaultConfigPath, false
}

// exporter bundles the components shared by both run modes.
type exporter struct {
	cfg  *config.Config
	log  *logging.Logger
	reg  *prometheus.Registry
	ccu  *ccu.Client
	loop *poll.Loop
}

func newExporter(opts *options, stderrLogs bool) (*exporter, error) {
	path, explicit := resolveConfigPath(opts.configPath)
	cfg, err := config.Load(path, !explicit)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// --once writes the exposition to stdout, so logs go elsewhere
	if stderrLogs {
		cfg.Logging.Output = "stderr"
	}
	log := logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", path, "ccu", cfg.CCU.URL, "interval_s", cfg.Poll.Interval)

	reg := prometheus.NewRegistry()
	emitter, err := metrics.NewEmitter(reg)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	client := ccu.New(cfg.CCU)
	st := store.New(client)
	st.SetLogger(log.With("component", "store"))

	loop := poll.New(st, emitter, cfg.GetPollInterval())
	loop.SetLogger(log.With("component", "poll"))

	return &exporter{cfg: cfg, log: log, reg: reg, ccu: client, loop: loop}, nil
}

// run serves the exporter until ctx is cancelled.
func run(ctx context.Context, opts *options) error {
	ex, err := newExporter(opts, false)
	if err != nil {
		return err
	}
	log := ex.log
	defer func() { _ = log.Sync() }()

	log.Info("starting hm2prom", "version", version, "commit", commit, "build_date", date)

	ex.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := api.New(api.Deps{
		Config:     ex.cfg.API,
		Logger:     log.With("component", "api"),
		Gatherer:   ex.reg,
		Status:     ex.loop,
		Controller: ex.ccu,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	// Serving before the broker and the controller are contacted lets
	// /health answer 503 for the whole startup.
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if ex.cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(ex.cfg.MQTT)
		if mqttErr != nil {
			// Status publication is informational; the exposition runs without it
			log.Warn("MQTT unavailable, status will not be published", "error", mqttErr)
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			attachPublisher(ex.loop, mqttClient, log)
			srv.SetBroker(mqttClient)
			log.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", ex.cfg.MQTT.Broker.Host, ex.cfg.MQTT.Broker.Port),
				"topic", mqttClient.Topics().Status(),
			)
		}
	}

	if err := ex.loop.Init(ctx); err != nil {
		return fmt.Errorf("building inventory: %w", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return ex.loop.Run(egCtx)
	})

	log.Info("initialisation complete, polling", "address", srv.Addr())

	if err := eg.Wait(); err != nil {
		return err
	}
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// statusPublisher is the part of the MQTT client the poll loop feeds.
type statusPublisher interface {
	PublishStatus(v any) error
	SetOnConnect(func())
}

// attachPublisher publishes the status after every cycle, and the latest
// one again whenever the broker connection is re-established.
func attachPublisher(loop *poll.Loop, pub statusPublisher, log *logging.Logger) {
	publish := func(st poll.Status) {
		if err := pub.PublishStatus(st); err != nil {
			log.Warn("publishing status failed", "error", err)
		}
	}
	loop.OnStatus(publish)
	pub.SetOnConnect(func() {
		if loop.Ready() {
			publish(loop.Status())
		}
	})
}

// runOnce performs startup and a single cycle, then writes the text
// exposition of the exporter's registry to w.
func runOnce(ctx context.Context, opts *options, w io.Writer) error {
	ex, err := newExporter(opts, true)
	if err != nil {
		return err
	}
	defer func() { _ = ex.log.Sync() }()

	if err := ex.loop.Init(ctx); err != nil {
		return fmt.Errorf("building inventory: %w", err)
	}
	if res := ex.loop.RunCycle(ctx); res.RefreshErr != nil {
		return fmt.Errorf("refreshing documents: %w", res.RefreshErr)
	}

	return writeExposition(w, ex.reg)
}

func writeExposition(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing exposition: %w", err)
		}
	}
	return nil
}
