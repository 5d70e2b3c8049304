// ringclock serves a ring-based 12-hour clock over HTTP, a websocket stream
// and, optionally, MCP on stdio.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acolita/ringclock/internal/adapters/realclock"
	"github.com/acolita/ringclock/internal/adapters/realfs"
	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/config"
	"github.com/acolita/ringclock/internal/driver"
	"github.com/acolita/ringclock/internal/httpapi"
	"github.com/acolita/ringclock/internal/logging"
	"github.com/acolita/ringclock/internal/mcp"
	"github.com/acolita/ringclock/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
)

// Version information - set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configPath  string
	listen      string
	mode        string
	mcp         bool
	debug       bool
	writeConfig bool
}

func main() {
	var (
		opts        options
		showVersion bool
	)

	flag.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default: "+config.DefaultConfigPath()+")")
	flag.StringVar(&opts.listen, "listen", "", "HTTP listen address (overrides config)")
	flag.StringVar(&opts.mode, "mode", "", "Tick mode: 'request' or 'timer' (overrides config)")
	flag.BoolVar(&opts.mcp, "mcp", false, "Serve MCP tools on stdio")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "Write the effective configuration to the config path and exit")
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("ringclock version %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		os.Exit(0)
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	opts.apply(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if opts.writeConfig {
		if err := config.Save(cfg, configPath, realfs.New()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", configPath)
		os.Exit(0)
	}

	// Setup logging
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, opts); err != nil {
		slog.Error("ringclock failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// apply copies command line overrides onto cfg.
func (o options) apply(cfg *config.Config) {
	if o.listen != "" {
		cfg.HTTP.Listen = o.listen
	}
	if o.mode != "" {
		cfg.Driver.Mode = o.mode
	}
	if o.mcp {
		cfg.MCP.Enabled = true
	}
	if o.debug {
		cfg.Logging.Level = "debug"
	}
}

func run(cfg *config.Config, opts options) error {
	if cfg.HTTP.Listen == "" && !cfg.MCP.Enabled {
		return errors.New("nothing to serve: http.listen is empty and mcp is disabled")
	}

	loc, err := cfg.Clock.LoadLocation()
	if err != nil {
		return err
	}

	clk := realclock.New()
	engine, err := clock.New(clk, clock.WithLocation(loc))
	if err != nil {
		return fmt.Errorf("create clock: %w", err)
	}
	if h, m, s, ok, _ := cfg.Clock.ParseStart(); ok {
		engine.SetTime(h, m, s)
	}

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)
	hub := driver.NewHub()
	shared := clock.NewShared(engine, clk, cfg.Driver.TickInterval,
		clock.WithObserver(clock.Observers{recorder, hub}),
	)

	slog.Info("starting ringclock",
		slog.String("version", Version),
		slog.String("mode", cfg.Driver.Mode),
		slog.String("location", loc.String()),
		slog.String("reading", shared.Snapshot().String()),
		slog.String("log_level", logging.Level().String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lazy := cfg.Driver.Mode == config.ModeRequest

	var runner *driver.Runner
	if !lazy {
		runner = driver.NewRunner(shared, clk)
		go runner.Run(ctx)
	}

	// Set up config hot-reload if config file was provided
	if opts.configPath != "" {
		watcher, err := config.NewWatcher(opts.configPath, func(newCfg *config.Config) {
			opts.apply(newCfg)
			logging.Setup(newCfg.Logging.Level, newCfg.Logging.Format)
			if runner != nil {
				runner.SetInterval(newCfg.Driver.TickInterval)
			} else {
				shared.SetInterval(newCfg.Driver.TickInterval)
			}
		})
		if err != nil {
			slog.Warn("config hot-reload disabled",
				slog.String("error", err.Error()),
			)
		} else {
			slog.Info("config hot-reload enabled",
				slog.String("path", opts.configPath),
			)
			defer watcher.Close()
		}
	}

	// A nil channel marks a disabled driver.
	var httpErrc, mcpErrc chan error

	var httpServer *httpapi.Server
	if cfg.HTTP.Listen != "" {
		httpServer = httpapi.NewServer(cfg.HTTP, shared,
			httpapi.WithHub(hub),
			httpapi.WithRecorder(recorder),
			httpapi.WithClock(clk),
			httpapi.WithRequestTicking(lazy),
		)
		httpErrc = make(chan error, 1)
		go func() { httpErrc <- httpServer.ListenAndServe() }()
	}

	if cfg.MCP.Enabled {
		mcp.Version = Version
		mcpServer := mcp.NewServer(shared, mcp.WithRequestTicking(lazy))
		mcpErrc = make(chan error, 1)
		go func() { mcpErrc <- mcpServer.Run() }()
	}

	err = waitForDrivers(ctx, httpErrc, mcpErrc)

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
			slog.Warn("http shutdown", slog.String("error", serr.Error()))
		}
	}

	return err
}

// waitForDrivers blocks until a shutdown signal or until the process has
// nothing left to serve. MCP ends when stdin closes, which is routine for a
// detached server, so it only stops the process when HTTP is disabled.
func waitForDrivers(ctx context.Context, httpErrc, mcpErrc <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("received shutdown signal")
			return nil
		case err := <-httpErrc:
			return err
		case err := <-mcpErrc:
			if httpErrc == nil {
				return err
			}
			if err != nil {
				slog.Warn("mcp driver stopped, http keeps serving", slog.String("error", err.Error()))
			} else {
				slog.Info("mcp driver stopped, http keeps serving")
			}
			mcpErrc = nil
		}
	}
}
