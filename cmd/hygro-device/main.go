// Command hygro-device is a reference relative humidity device harness.
//
// This command demonstrates the complete humidity session stack with:
//   - CLI argument parsing
//   - Configuration file support with environment overrides
//   - A simulated humidity sensor with a sine-wave signal generator
//   - Structured event logging to .hlog files
//   - An interactive console for driving sessions by hand
//
// Usage:
//
//	hygro-device [flags]
//
// Flags:
//
//	-config string     Configuration file path
//	-debug             Enable debug logging
//	-headless          Run without the interactive console
//	-event-log string  Event log path (overrides configuration)
//
// Examples:
//
//	# Start with the interactive console
//	hygro-device
//
//	# Start with a config file and event logging
//	hygro-device -config /etc/hygro/device.yaml -event-log device.hlog
//
//	# Run headless with the generator until interrupted
//	hygro-device -headless -debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hygrosense/hygro-go/cmd/hygro-device/interactive"
	"github.com/hygrosense/hygro-go/pkg/config"
	hygrolog "github.com/hygrosense/hygro-go/pkg/log"
	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/sensor/sim"
	"github.com/hygrosense/hygro-go/pkg/service"
	"github.com/hygrosense/hygro-go/pkg/version"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

var (
	configPath   string
	debug        bool
	headless     bool
	eventLogPath string
	showVersion  bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "Configuration file path")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&headless, "headless", false, "Run without the interactive console")
	flag.StringVar(&eventLogPath, "event-log", "", "Event log path (overrides configuration)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("hygro-device %s\n", version.String())
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if debug {
		cfg.Debug = true
	}
	if eventLogPath != "" {
		cfg.EventLog.Path = eventLogPath
	}

	setupLogging(cfg.Debug)

	log.Println("HygroSense Reference Device")
	log.Println("===========================")
	log.Printf("Version: %s", version.String())
	log.Printf("Sensor kind: %s", cfg.Sensor.SensorKind())
	log.Printf("Sensor name: %s", cfg.Sim.SensorName)
	log.Printf("Startup timeout: %s", cfg.Sensor.StartupTimeout())

	eventLogger, closeEventLog, err := buildEventLogger(cfg.EventLog)
	if err != nil {
		log.Fatalf("Failed to open event log: %v", err)
	}
	if cfg.EventLog.Enabled() {
		log.Printf("Event log: %s", cfg.EventLog.Path)
	}

	provider := sim.New(sim.Config{
		SensorName:   cfg.Sim.SensorName,
		Kind:         cfg.Sensor.SensorKind(),
		InitialValue: cfg.Sim.InitialValue,
	})

	svc, err := service.New(service.Config{
		Provider:         provider,
		Kind:             cfg.Sensor.SensorKind(),
		Rate:             cfg.Sensor.RateHint(),
		StartupTimeout:   cfg.Sensor.StartupTimeout(),
		MaxSubscriptions: cfg.Service.MaxSubscriptions,
		DefaultCadence:   cfg.Service.DefaultCadence(),
		MinCadence:       cfg.Service.MinCadence(),
		Logger:           buildLogger(cfg.Debug),
		EventLogger:      eventLogger,
	})
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the run context on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	if headless {
		runHeadless(ctx, cfg, svc, provider)
	} else {
		console, err := interactive.New(svc, provider, generatorConfig(cfg))
		if err != nil {
			log.Fatalf("Failed to start console: %v", err)
		}
		console.Run(ctx, cancel)
	}

	log.Println("Shutting down...")
	if err := svc.Close(); err != nil {
		log.Printf("Error closing service: %v", err)
	}
	if err := closeEventLog(); err != nil {
		log.Printf("Error closing event log: %v", err)
	}

	log.Println("Goodbye!")
}

func setupLogging(debug bool) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if debug {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	}
}

// buildLogger returns the debug logger for the service internals, or
// nil when debug logging is off.
func buildLogger(debug bool) *slog.Logger {
	if !debug {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// buildEventLogger creates the structured session capture sink from the
// configuration, along with a close function for shutdown.
func buildEventLogger(cfg config.EventLogConfig) (hygrolog.Logger, func() error, error) {
	if !cfg.Enabled() {
		return hygrolog.NoopLogger{}, func() error { return nil }, nil
	}

	if cfg.Rotate {
		rl := hygrolog.NewRotatingLogger(hygrolog.RotatingConfig{
			Path:       cfg.Path,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
		})
		return rl, rl.Close, nil
	}

	fl, err := hygrolog.NewFileLogger(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return fl, fl.Close, nil
}

// generatorConfig maps the file configuration onto the simulator's
// generator settings.
func generatorConfig(cfg *config.Config) sim.GeneratorConfig {
	return sim.GeneratorConfig{
		Interval:  cfg.Sim.Generator.Interval(),
		Base:      cfg.Sim.Generator.Base,
		Amplitude: cfg.Sim.Generator.Amplitude,
		Period:    cfg.Sim.Generator.Period(),
		Jitter:    cfg.Sim.Generator.Jitter,
	}
}

// runHeadless drives the service with the signal generator and a single
// watch until the context is cancelled.
func runHeadless(ctx context.Context, cfg *config.Config, svc *service.Service, provider *sim.Provider) {
	log.Println("Headless mode (Ctrl-C to exit)")

	if cfg.Sim.Generator.Enabled {
		gen := sim.NewGenerator(provider, generatorConfig(cfg))
		go gen.Run(ctx)
		log.Printf("Generator started (interval %s)", cfg.Sim.Generator.Interval())
	}

	id, err := svc.WatchReading(
		func(r sensor.Reading) {
			log.Printf("[WATCH] %.2f%% at %s", r.Value, r.Timestamp.Format("15:04:05.000"))
		},
		func(f wire.Failure) {
			log.Printf("[WATCH] failed: %s (code %d)", f.Message, f.Code)
		},
		cfg.Service.DefaultCadence(),
	)
	if err != nil {
		log.Fatalf("Failed to start watch: %v", err)
	}
	log.Printf("Watching as %s", id)

	<-ctx.Done()

	svc.ClearWatch(id)
}
