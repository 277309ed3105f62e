// Command hygro-publish streams relative humidity readings to an MQTT
// broker.
//
// The publisher runs the humidity session stack against the simulated
// sensor, watches readings at the configured cadence, and publishes
// each delivery as JSON to a topic.
//
// Usage:
//
//	hygro-publish [flags]
//
// Flags:
//
//	-config string  Configuration file path
//	-debug          Enable debug logging
//	-broker string  Broker URL (overrides configuration)
//	-topic string   Publish topic (overrides configuration)
//
// Examples:
//
//	# Publish to a local broker
//	hygro-publish -broker tcp://localhost:1883 -topic hygro/humidity
//
//	# Publish with a config file
//	hygro-publish -config /etc/hygro/publish.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hygrosense/hygro-go/pkg/config"
	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/sensor/sim"
	"github.com/hygrosense/hygro-go/pkg/service"
	"github.com/hygrosense/hygro-go/pkg/version"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

var (
	configPath  string
	debug       bool
	brokerURL   string
	topic       string
	showVersion bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "Configuration file path")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&brokerURL, "broker", "", "Broker URL (overrides configuration)")
	flag.StringVar(&topic, "topic", "", "Publish topic (overrides configuration)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("hygro-publish %s\n", version.String())
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if debug {
		cfg.Debug = true
	}
	if brokerURL != "" {
		cfg.MQTT.BrokerURL = brokerURL
	}
	if topic != "" {
		cfg.MQTT.Topic = topic
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	log.Println("HygroSense Reading Publisher")
	log.Println("============================")
	log.Printf("Broker:  %s", cfg.MQTT.BrokerURL)
	log.Printf("Topic:   %s", cfg.MQTT.Topic)
	log.Printf("QoS:     %d", cfg.MQTT.QoS)
	log.Printf("Cadence: %s", cfg.MQTT.Cadence())

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
	})
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	// Connect to the broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.BrokerURL).
		SetClientID(cfg.MQTT.ClientID)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("Failed to connect to broker: %v", token.Error())
	}
	log.Println("Connected to broker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The generator keeps the simulated sensor producing samples
	if cfg.Sim.Generator.Enabled {
		gen := sim.NewGenerator(provider, sim.GeneratorConfig{
			Interval:  cfg.Sim.Generator.Interval(),
			Base:      cfg.Sim.Generator.Base,
			Amplitude: cfg.Sim.Generator.Amplitude,
			Period:    cfg.Sim.Generator.Period(),
			Jitter:    cfg.Sim.Generator.Jitter,
		})
		go gen.Run(ctx)
		log.Printf("Generator started (interval %s)", cfg.Sim.Generator.Interval())
	}

	id, err := svc.WatchReading(
		func(r sensor.Reading) {
			publishReading(client, cfg.MQTT, r)
		},
		func(f wire.Failure) {
			log.Printf("Session failed: %s (code %d)", f.Message, f.Code)
			cancel()
		},
		cfg.MQTT.Cadence(),
	)
	if err != nil {
		log.Fatalf("Failed to start watch: %v", err)
	}
	log.Printf("Publishing as watch %s", id)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	svc.ClearWatch(id)
	if err := svc.Close(); err != nil {
		log.Printf("Error closing service: %v", err)
	}
	client.Disconnect(250)

	log.Println("Goodbye!")
}

func buildLogger(debug bool) *slog.Logger {
	if !debug {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// publishReading sends one reading to the broker as JSON.
func publishReading(client mqtt.Client, cfg config.MQTTConfig, r sensor.Reading) {
	payload, err := json.Marshal(wire.NewReadingPayload(r.Value, r.Timestamp))
	if err != nil {
		log.Printf("Error marshalling reading: %s", err)
		return
	}

	token := client.Publish(cfg.Topic, byte(cfg.QoS), false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("Failed to publish reading: %s", token.Error())
	}
}
