package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aoserver/aoserver/internal/adminapi"
	"github.com/aoserver/aoserver/internal/aolisten"
	"github.com/aoserver/aoserver/internal/config"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/masterserver"
	"github.com/aoserver/aoserver/internal/metrics"
	"github.com/aoserver/aoserver/internal/registry"
	"github.com/aoserver/aoserver/internal/session"
	"github.com/aoserver/aoserver/internal/telemetry"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the aoserver TCP server",
	Long: `Start the aoserver courtroom server in the foreground.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/aoserver/config.yaml.

Examples:
  # Start with default config
  aoserver start

  # Start with a custom config file
  aoserver start --config /etc/aoserver/config.yaml

  # Override a single setting via environment variable
  AOSERVER_LOGGING_LEVEL=DEBUG aoserver start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "aoserver",
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "aoserver",
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("initializing profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	identityStore, err := openIdentityStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening identity store: %w", err)
	}

	catalogDB, err := openCatalogDB(cfg)
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}

	dom, err := buildDomain(ctx, cfg, catalogDB)
	if err != nil {
		return err
	}

	reg := registry.New(cfg.General.PlayerLimit, identityStore)

	promRegistry := prometheus.NewRegistry()
	collector := metrics.New(promRegistry)

	listener := aolisten.New(aolisten.Config{
		BindAddress:     cfg.General.Host,
		Port:            cfg.General.Port,
		ShutdownTimeout: 10 * time.Second,
		Session: session.Config{
			IdleTimeout:   cfg.General.Timeout,
			PlayerLimit:   cfg.General.PlayerLimit,
			Software:      cfg.General.Software,
			Version:       cfg.General.Version,
			PreambleValue: cfg.General.PreambleValue,
		},
	}, reg, identityStore, dom)
	listener.Metrics = collector

	msClient := masterserver.New(masterserver.Config{
		Enabled:           cfg.MasterServer.Enabled,
		Address:           cfg.MasterServer.Host,
		Name:              cfg.MasterServer.Name,
		Description:       cfg.MasterServer.Description,
		Port:              cfg.MasterServer.Port,
		Software:          cfg.General.Software,
		ReconnectInterval: cfg.MasterServer.ReconnectInterval,
	})

	var adminSrv *adminapi.Server
	if cfg.AdminAPI.Enabled {
		issuer, err := adminapi.NewTokenIssuer(cfg.AdminAPI.JWTSecret, cfg.AdminAPI.JWTIssuer, cfg.AdminAPI.TokenLifetime)
		if err != nil {
			return fmt.Errorf("initializing admin api token issuer: %w", err)
		}
		adminSrv = &adminapi.Server{
			Registry: reg,
			Listener: listener,
			Issuer:   issuer,
		}
		if cfg.Metrics.Enabled {
			adminSrv.Gatherer = promRegistry
		}
	}

	serverDone := make(chan error, 1)
	go func() { serverDone <- listener.Serve(ctx) }()

	masterDone := make(chan error, 1)
	go func() { masterDone <- msClient.Run(ctx) }()

	var adminDone chan error
	if adminSrv != nil {
		adminDone = make(chan error, 1)
		addr := fmt.Sprintf("%s:%d", cfg.AdminAPI.Host, cfg.AdminAPI.Port)
		httpSrv := &adminHTTPServer{addr: addr, handler: adminSrv.Router()}
		go func() { adminDone <- httpSrv.run(ctx) }()
		logger.Info("admin api listening", logger.Route(addr))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("aoserver is running, press Ctrl+C to stop")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, stopping")
		cancel()
		if err := listener.Stop(context.Background()); err != nil {
			logger.Error("listener shutdown error", logger.Err(err))
		}
		if err := <-serverDone; err != nil {
			logger.Error("server stopped with error", logger.Err(err))
			return err
		}
		logger.Info("aoserver stopped gracefully")
	case err := <-serverDone:
		signal.Stop(sigChan)
		cancel()
		if err != nil {
			logger.Error("server error", logger.Err(err))
			return err
		}
	}

	return nil
}
