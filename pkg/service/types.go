package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hygrosense/hygro-go/pkg/log"
	"github.com/hygrosense/hygro-go/pkg/scheduler"
	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/subscription"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

// Service errors.
var (
	ErrClosed = errors.New("service closed")
)

// Config configures a Service.
type Config struct {
	// Provider is the platform sensor capability. Required.
	Provider sensor.Provider

	// Scheduler runs the startup timeout, cadence replays, and event
	// dispatch. Defaults to stdlib timers.
	Scheduler scheduler.Scheduler

	// Kind selects the sensor class. Defaults to relative humidity.
	Kind sensor.Kind

	// Rate is the delivery rate hint passed at registration.
	Rate sensor.Rate

	// StartupTimeout bounds the wait for the first hardware report
	// before pending requests are answered from the cache.
	StartupTimeout time.Duration

	// MaxSubscriptions caps the active subscriber set.
	MaxSubscriptions int

	// DefaultCadence is the watch replay interval used when a request
	// carries no usable interval.
	DefaultCadence time.Duration

	// MinCadence floors how fast a watch may replay.
	MinCadence time.Duration

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger receives structured session events (optional).
	EventLogger log.Logger
}

// Event types for service callbacks.
type EventType uint8

const (
	// EventStateChanged - session state transition.
	EventStateChanged EventType = iota

	// EventReading - the session produced a reading (hardware sample
	// or startup fallback).
	EventReading

	// EventSessionFailed - a start attempt failed; subscribers were
	// torn down.
	EventSessionFailed

	// EventSubscribed - a one-shot read or watch was added.
	EventSubscribed

	// EventUnsubscribed - a watch was cancelled.
	EventUnsubscribed
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventStateChanged:
		return "STATE_CHANGED"
	case EventReading:
		return "READING"
	case EventSessionFailed:
		return "SESSION_FAILED"
	case EventSubscribed:
		return "SUBSCRIBED"
	case EventUnsubscribed:
		return "UNSUBSCRIBED"
	default:
		return "UNKNOWN"
	}
}

// Event represents a service event.
type Event struct {
	// Type is the event type.
	Type EventType

	// OldState and NewState carry the transition (state change events).
	OldState wire.Status
	NewState wire.Status

	// Reading is the produced reading (reading events).
	Reading sensor.Reading

	// Failure is the broadcast failure (session failed events).
	Failure *wire.Failure

	// SubscriptionID identifies the subscription (subscribe and
	// unsubscribe events).
	SubscriptionID string

	// Kind distinguishes one-shot reads from watches (subscribe events).
	Kind subscription.Kind

	// Cadence is the replay interval (subscribe events, watches only).
	Cadence time.Duration
}

// EventHandler handles service events.
type EventHandler func(Event)
