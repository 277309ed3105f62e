// Package config loads binary configuration. Values are layered:
// compiled defaults, then an optional YAML file, then environment
// overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/hygrosense/hygro-go/pkg/sensor"
)

// EnvConfigPath names the environment variable consulted for a config
// file path when Load is called without one.
const EnvConfigPath = "HYGRO_CONFIG"

// Validation errors.
var (
	// ErrInvalidQoS reports an MQTT QoS level outside 0..2.
	ErrInvalidQoS = errors.New("mqtt qos must be 0, 1, or 2")

	// ErrNegativeInterval reports a negative millisecond field.
	ErrNegativeInterval = errors.New("interval must not be negative")

	// ErrNegativeLimit reports a negative count or size field.
	ErrNegativeLimit = errors.New("limit must not be negative")
)

// Config is the complete configuration for the hygro binaries.
type Config struct {
	Debug    bool           `yaml:"debug" env:"HYGRO_DEBUG"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Service  ServiceConfig  `yaml:"service"`
	EventLog EventLogConfig `yaml:"eventLog"`
	Sim      SimConfig      `yaml:"sim"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

// SensorConfig selects the hardware sensor and the session timing.
type SensorConfig struct {
	Kind             string `yaml:"kind" env:"HYGRO_SENSOR_KIND"`
	Rate             string `yaml:"rate" env:"HYGRO_SENSOR_RATE"`
	StartupTimeoutMS int    `yaml:"startupTimeoutMs" env:"HYGRO_SENSOR_STARTUP_TIMEOUT_MS"`
}

// SensorKind returns the configured sensor kind. Valid after Validate;
// an unparseable value falls back to relative humidity.
func (c SensorConfig) SensorKind() sensor.Kind {
	kind, err := sensor.ParseKind(c.Kind)
	if err != nil {
		return sensor.KindRelativeHumidity
	}
	return kind
}

// RateHint returns the configured delivery rate hint. Valid after
// Validate; an unparseable value falls back to the UI rate.
func (c SensorConfig) RateHint() sensor.Rate {
	rate, err := sensor.ParseRate(c.Rate)
	if err != nil {
		return sensor.RateUI
	}
	return rate
}

// StartupTimeout returns the startup window as a duration.
func (c SensorConfig) StartupTimeout() time.Duration {
	return time.Duration(c.StartupTimeoutMS) * time.Millisecond
}

// ServiceConfig bounds the subscription table and its cadences.
type ServiceConfig struct {
	MaxSubscriptions int `yaml:"maxSubscriptions" env:"HYGRO_SERVICE_MAX_SUBSCRIPTIONS"`
	DefaultCadenceMS int `yaml:"defaultCadenceMs" env:"HYGRO_SERVICE_DEFAULT_CADENCE_MS"`
	MinCadenceMS     int `yaml:"minCadenceMs" env:"HYGRO_SERVICE_MIN_CADENCE_MS"`
}

// DefaultCadence returns the default watch cadence as a duration.
func (c ServiceConfig) DefaultCadence() time.Duration {
	return time.Duration(c.DefaultCadenceMS) * time.Millisecond
}

// MinCadence returns the cadence floor as a duration.
func (c ServiceConfig) MinCadence() time.Duration {
	return time.Duration(c.MinCadenceMS) * time.Millisecond
}

// EventLogConfig selects the session event log destination. An empty
// path disables event logging.
type EventLogConfig struct {
	Path       string `yaml:"path" env:"HYGRO_EVENTLOG_PATH"`
	Rotate     bool   `yaml:"rotate" env:"HYGRO_EVENTLOG_ROTATE"`
	MaxSizeMB  int    `yaml:"maxSizeMb" env:"HYGRO_EVENTLOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"maxBackups" env:"HYGRO_EVENTLOG_MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"HYGRO_EVENTLOG_MAX_AGE_DAYS"`
}

// Enabled reports whether an event log destination is configured.
func (c EventLogConfig) Enabled() bool { return c.Path != "" }

// SimConfig configures the simulated sensor used by the device binary.
type SimConfig struct {
	SensorName   string          `yaml:"sensorName" env:"HYGRO_SIM_SENSOR_NAME"`
	InitialValue float64         `yaml:"initialValue" env:"HYGRO_SIM_INITIAL_VALUE"`
	Generator    GeneratorConfig `yaml:"generator"`
}

// GeneratorConfig shapes the simulated humidity signal.
type GeneratorConfig struct {
	Enabled    bool    `yaml:"enabled" env:"HYGRO_SIM_GENERATOR_ENABLED"`
	IntervalMS int     `yaml:"intervalMs" env:"HYGRO_SIM_GENERATOR_INTERVAL_MS"`
	Base       float64 `yaml:"base" env:"HYGRO_SIM_GENERATOR_BASE"`
	Amplitude  float64 `yaml:"amplitude" env:"HYGRO_SIM_GENERATOR_AMPLITUDE"`
	PeriodMS   int     `yaml:"periodMs" env:"HYGRO_SIM_GENERATOR_PERIOD_MS"`
	Jitter     float64 `yaml:"jitter" env:"HYGRO_SIM_GENERATOR_JITTER"`
}

// Interval returns the delivery interval as a duration.
func (c GeneratorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Period returns the sine period as a duration.
func (c GeneratorConfig) Period() time.Duration {
	return time.Duration(c.PeriodMS) * time.Millisecond
}

// MQTTConfig configures the reading publisher.
type MQTTConfig struct {
	BrokerURL string `yaml:"brokerUrl" env:"HYGRO_MQTT_BROKER_URL"`
	ClientID  string `yaml:"clientId" env:"HYGRO_MQTT_CLIENT_ID"`
	Topic     string `yaml:"topic" env:"HYGRO_MQTT_TOPIC"`
	QoS       int    `yaml:"qos" env:"HYGRO_MQTT_QOS"`
	CadenceMS int    `yaml:"cadenceMs" env:"HYGRO_MQTT_CADENCE_MS"`
	Username  string `yaml:"username" env:"HYGRO_MQTT_USERNAME"`
	Password  string `yaml:"password" env:"HYGRO_MQTT_PASSWORD"`
}

// Cadence returns the publish cadence as a duration.
func (c MQTTConfig) Cadence() time.Duration {
	return time.Duration(c.CadenceMS) * time.Millisecond
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			Kind:             "relative_humidity",
			Rate:             "ui",
			StartupTimeoutMS: 2000,
		},
		Service: ServiceConfig{
			MaxSubscriptions: 50,
			DefaultCadenceMS: 10000,
			MinCadenceMS:     100,
		},
		EventLog: EventLogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Sim: SimConfig{
			SensorName:   "sim-humidity-0",
			InitialValue: 45,
			Generator: GeneratorConfig{
				IntervalMS: 1000,
				Base:       45,
				Amplitude:  15,
				PeriodMS:   600000,
				Jitter:     0.8,
			},
		},
		MQTT: MQTTConfig{
			BrokerURL: "tcp://localhost:1883",
			ClientID:  "hygro-publish",
			Topic:     "hygro/humidity",
			QoS:       1,
			CadenceMS: 10000,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file, then
// environment overrides, then validation. An empty path falls back to
// the HYGRO_CONFIG environment variable; when that is empty too the
// file layer is skipped.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks field ranges and the sensor selection.
func (c *Config) Validate() error {
	if _, err := sensor.ParseKind(c.Sensor.Kind); err != nil {
		return fmt.Errorf("sensor.kind: %w", err)
	}
	if _, err := sensor.ParseRate(c.Sensor.Rate); err != nil {
		return fmt.Errorf("sensor.rate: %w", err)
	}

	if c.Sensor.StartupTimeoutMS < 0 {
		return fmt.Errorf("sensor.startupTimeoutMs: %w", ErrNegativeInterval)
	}
	if c.Service.DefaultCadenceMS < 0 {
		return fmt.Errorf("service.defaultCadenceMs: %w", ErrNegativeInterval)
	}
	if c.Service.MinCadenceMS < 0 {
		return fmt.Errorf("service.minCadenceMs: %w", ErrNegativeInterval)
	}
	if c.Sim.Generator.IntervalMS < 0 {
		return fmt.Errorf("sim.generator.intervalMs: %w", ErrNegativeInterval)
	}
	if c.Sim.Generator.PeriodMS < 0 {
		return fmt.Errorf("sim.generator.periodMs: %w", ErrNegativeInterval)
	}
	if c.MQTT.CadenceMS < 0 {
		return fmt.Errorf("mqtt.cadenceMs: %w", ErrNegativeInterval)
	}

	if c.Service.MaxSubscriptions < 0 {
		return fmt.Errorf("service.maxSubscriptions: %w", ErrNegativeLimit)
	}
	if c.EventLog.MaxSizeMB < 0 || c.EventLog.MaxBackups < 0 || c.EventLog.MaxAgeDays < 0 {
		return fmt.Errorf("eventLog rotation: %w", ErrNegativeLimit)
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d: %w", c.MQTT.QoS, ErrInvalidQoS)
	}
	return nil
}
