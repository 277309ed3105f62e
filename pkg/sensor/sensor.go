// Package sensor defines the boundary to the platform sensor service:
// the Provider capability that is queried for sensor handles and holds
// listener registrations, the Listener callback interface through which
// samples and accuracy changes arrive, and the value types shared by the
// session and fan-out layers.
//
// Implementations of Provider are platform-specific. The sim subpackage
// provides a software implementation for binaries and tests; the mocks
// subpackage provides mockery-generated mocks for unit tests.
package sensor

import (
	"fmt"
	"strings"
)

// Kind identifies a class of hardware sensor.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRelativeHumidity
	KindAmbientTemperature
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindRelativeHumidity:
		return "RelativeHumidity"
	case KindAmbientTemperature:
		return "AmbientTemperature"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind parses a sensor kind from configuration (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "relative_humidity", "humidity":
		return KindRelativeHumidity, nil
	case "ambient_temperature", "temperature":
		return KindAmbientTemperature, nil
	default:
		return KindUnknown, fmt.Errorf("invalid sensor kind: %s (must be relative_humidity or ambient_temperature)", s)
	}
}

// Accuracy reports how much a sensor's samples can currently be trusted.
// The ladder mirrors the platform sensor service: delivery gating in the
// session layer compares against AccuracyMedium.
type Accuracy uint8

const (
	AccuracyUnreliable Accuracy = iota
	AccuracyLow
	AccuracyMedium
	AccuracyHigh
)

// String returns a human-readable accuracy name.
func (a Accuracy) String() string {
	switch a {
	case AccuracyUnreliable:
		return "Unreliable"
	case AccuracyLow:
		return "Low"
	case AccuracyMedium:
		return "Medium"
	case AccuracyHigh:
		return "High"
	default:
		return fmt.Sprintf("Accuracy(%d)", a)
	}
}

// ParseAccuracy parses an accuracy level (case-insensitive).
func ParseAccuracy(s string) (Accuracy, error) {
	switch strings.ToLower(s) {
	case "unreliable":
		return AccuracyUnreliable, nil
	case "low":
		return AccuracyLow, nil
	case "medium":
		return AccuracyMedium, nil
	case "high":
		return AccuracyHigh, nil
	default:
		return AccuracyUnreliable, fmt.Errorf("invalid accuracy: %s (must be unreliable, low, medium, or high)", s)
	}
}

// Rate hints how fast a registered listener wants deliveries.
// Providers may deliver faster or slower; the hint is not a contract.
type Rate uint8

const (
	RateFastest Rate = iota
	RateGame
	RateUI
	RateNormal
)

// String returns a human-readable rate name.
func (r Rate) String() string {
	switch r {
	case RateFastest:
		return "Fastest"
	case RateGame:
		return "Game"
	case RateUI:
		return "UI"
	case RateNormal:
		return "Normal"
	default:
		return fmt.Sprintf("Rate(%d)", r)
	}
}

// ParseRate parses a delivery rate hint (case-insensitive).
func ParseRate(s string) (Rate, error) {
	switch strings.ToLower(s) {
	case "fastest":
		return RateFastest, nil
	case "game":
		return RateGame, nil
	case "ui":
		return RateUI, nil
	case "normal":
		return RateNormal, nil
	default:
		return RateNormal, fmt.Errorf("invalid rate: %s (must be fastest, game, ui, or normal)", s)
	}
}

// Handle identifies a single hardware sensor returned by a Provider query.
// Handles are opaque to the session layer; they are only passed back to the
// Provider that produced them.
type Handle interface {
	// Kind reports the sensor class this handle belongs to.
	Kind() Kind

	// Name returns the platform's name for the sensor.
	Name() string
}

// Listener receives asynchronous callbacks from a Provider registration.
// Callbacks may arrive on arbitrary goroutines and in any interleaving
// with other events; implementations must be safe for that.
type Listener interface {
	// OnReading delivers a raw sample value.
	OnReading(value float64)

	// OnAccuracyChanged reports a change in sample trustworthiness.
	OnAccuracyChanged(accuracy Accuracy)
}

// Provider is the platform sensor service capability consumed by the
// session layer.
type Provider interface {
	// Sensor returns a handle for a sensor of the given kind, or false
	// when the device has none.
	Sensor(kind Kind) (Handle, bool)

	// Register subscribes the listener to deliveries from the sensor
	// behind the handle. It reports whether the platform accepted the
	// registration. Providers deliver the sensor's current accuracy to
	// the listener synchronously before Register returns, so callers
	// must not hold locks that the listener callbacks also take.
	Register(h Handle, l Listener, rate Rate) bool

	// Unregister removes a registration previously made with Register.
	// Unregistering a pair that is not registered is a no-op.
	Unregister(h Handle, l Listener)
}
