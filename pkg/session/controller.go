package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hygrosense/hygro-go/pkg/log"
	"github.com/hygrosense/hygro-go/pkg/scheduler"
	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

const (
	// DefaultStartupTimeout is how long a session waits for the first
	// hardware report before answering pending requests from the cache.
	DefaultStartupTimeout = 2 * time.Second

	// DefaultRate is the delivery rate requested at registration.
	DefaultRate = sensor.RateUI
)

// ErrNoProvider is returned by New when the configuration carries no
// sensor provider.
var ErrNoProvider = errors.New("session: sensor provider is required")

// Config holds session controller configuration.
type Config struct {
	// Provider is the platform sensor capability. Required.
	Provider sensor.Provider

	// Scheduler runs the startup timeout. Defaults to stdlib timers.
	Scheduler scheduler.Scheduler

	// Kind selects the sensor class. Defaults to KindRelativeHumidity.
	Kind sensor.Kind

	// Rate is the delivery rate hint passed at registration.
	// Defaults to DefaultRate.
	Rate sensor.Rate

	// StartupTimeout bounds the wait for the first hardware report.
	// Defaults to DefaultStartupTimeout.
	StartupTimeout time.Duration

	// Logger receives debug output (optional).
	Logger *slog.Logger

	// EventLogger receives structured session events (optional).
	EventLogger log.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Provider == nil {
		return ErrNoProvider
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Scheduler == nil {
		c.Scheduler = scheduler.NewTimerScheduler()
	}
	if c.Kind == sensor.KindUnknown {
		c.Kind = sensor.KindRelativeHumidity
	}
	if c.Rate == 0 {
		c.Rate = DefaultRate
	}
	if c.StartupTimeout == 0 {
		c.StartupTimeout = DefaultStartupTimeout
	}
	if c.EventLogger == nil {
		c.EventLogger = log.NoopLogger{}
	}
}

// Controller owns the sensor session: the single hardware registration,
// the latest-reading cache, and the startup timeout.
//
// A Controller is driven from three sides: lifecycle commands (Start,
// Stop), hardware callbacks (OnReading, OnAccuracyChanged), and timeout
// firing. The sides may run concurrently in any interleaving; a mutex
// serializes the state transitions. Outcome callbacks are invoked
// outside the lock and may call back into the Controller.
type Controller struct {
	mu sync.RWMutex

	cfg Config

	state    wire.Status
	accuracy sensor.Accuracy

	// Hardware registration, held exactly while armed.
	handle sensor.Handle

	// Startup timeout; at most one armed at any time. timeoutSeq
	// invalidates callbacks from timers that were cancelled after
	// their firing was already in flight.
	timeout    scheduler.Handle
	timeoutSeq uint64

	// Latest accepted reading. Cleared by Stop, never by failures.
	last    sensor.Reading
	hasLast bool

	// Trace identity, minted fresh every time the session arms.
	sessionID string

	// Callbacks (set before Start; invoked outside the lock).
	onWin         func(sensor.Reading)
	onFail        func(wire.Failure)
	onStateChange func(oldState, newState wire.Status)
}

// New creates a session controller in the Stopped state.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &Controller{
		cfg:      cfg,
		state:    wire.StatusStopped,
		accuracy: sensor.AccuracyMedium, // platform default until the first accuracy report
	}, nil
}

// State returns the current session state.
func (c *Controller) State() wire.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Accuracy returns the accuracy recorded for the current session.
func (c *Controller) Accuracy() sensor.Accuracy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accuracy
}

// LastReading returns the cached reading and whether one exists.
func (c *Controller) LastReading() (sensor.Reading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.hasLast
}

// SessionID returns the trace identity of the current (or most recent)
// session. Empty before the first Start.
func (c *Controller) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// SensorName returns the platform name of the registered sensor, or an
// empty string when no registration is held.
func (c *Controller) SensorName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.handle == nil {
		return ""
	}
	return c.handle.Name()
}

// OnWin sets the callback invoked for every cached reading broadcast:
// accepted samples and startup timeout fallbacks.
func (c *Controller) OnWin(fn func(reading sensor.Reading)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onWin = fn
}

// OnFail sets the callback invoked when a start attempt fails.
func (c *Controller) OnFail(fn func(failure wire.Failure)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFail = fn
}

// OnStateChange sets a callback for state transitions.
func (c *Controller) OnStateChange(fn func(oldState, newState wire.Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// Start arms the session and returns the state after the attempt.
//
// An already armed session (Starting or Running) only gets a fresh
// startup timeout. Otherwise the controller queries the provider for a
// sensor, registers as its listener, and arms the startup timeout. A
// missing sensor or rejected registration broadcasts a failure and
// parks the session in ErrorFailedToStart, from which a later Start
// retries.
func (c *Controller) Start() wire.Status {
	c.mu.Lock()

	if c.state.IsActive() {
		c.armTimeoutLocked()
		state := c.state
		c.mu.Unlock()
		c.debugLog("session already armed, timeout re-armed", "state", state.String())
		return state
	}

	oldState := c.state
	c.state = wire.StatusStarting
	c.sessionID = uuid.NewString()
	sessionID := c.sessionID
	stateChangeFn := c.onStateChange
	c.mu.Unlock()

	c.logStateChange(sessionID, "", oldState, wire.StatusStarting, "start requested")
	if stateChangeFn != nil {
		stateChangeFn(oldState, wire.StatusStarting)
	}

	// Query and register without holding the lock: the provider
	// delivers the initial accuracy callback synchronously from
	// Register, and that callback takes the lock.
	handle, ok := c.cfg.Provider.Sensor(c.cfg.Kind)
	if !ok {
		c.failStart(sessionID, wire.FailureNoSensor, "query sensor")
		return c.State()
	}

	if !c.cfg.Provider.Register(handle, c, c.cfg.Rate) {
		c.failStart(sessionID, wire.FailureRegistration, "register listener")
		return c.State()
	}

	c.mu.Lock()
	if c.sessionID != sessionID || !c.state.IsActive() {
		// A concurrent Stop tore the session down while we were
		// registering; hand the registration straight back.
		c.mu.Unlock()
		c.cfg.Provider.Unregister(handle, c)
		return c.State()
	}
	c.handle = handle
	if c.state == wire.StatusStarting {
		// A sample racing in through the fresh registration may have
		// flipped the session to Running already; the timeout is only
		// for sessions still waiting on their first report.
		c.armTimeoutLocked()
	}
	c.mu.Unlock()

	c.debugLog("sensor registered", "sensor", handle.Name(), "rate", c.cfg.Rate.String())
	return c.State()
}

// Stop disarms the session: cancels the startup timeout, releases the
// hardware registration, clears the reading cache, and resets accuracy
// to unreliable. Stopping a stopped session is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()

	c.cancelTimeoutLocked()

	if c.state == wire.StatusStopped {
		c.mu.Unlock()
		return
	}

	oldState := c.state
	handle := c.handle
	sessionID := c.sessionID
	sensorName := ""
	if handle != nil {
		sensorName = handle.Name()
	}
	c.handle = nil
	c.state = wire.StatusStopped
	c.accuracy = sensor.AccuracyUnreliable
	c.last = sensor.Reading{}
	c.hasLast = false
	stateChangeFn := c.onStateChange
	c.mu.Unlock()

	if handle != nil {
		c.cfg.Provider.Unregister(handle, c)
	}

	c.logStateChange(sessionID, sensorName, oldState, wire.StatusStopped, "stop requested")
	c.debugLog("session stopped", "old_state", oldState.String())
	if stateChangeFn != nil {
		stateChangeFn(oldState, wire.StatusStopped)
	}
}

// OnReading implements sensor.Listener. Any sample flips the session to
// Running; the sample is cached and broadcast only while the recorded
// accuracy is medium or better.
func (c *Controller) OnReading(value float64) {
	c.mu.Lock()

	if c.state == wire.StatusStopped {
		c.mu.Unlock()
		return
	}

	oldState := c.state
	c.state = wire.StatusRunning
	sessionID := c.sessionID
	sensorName := ""
	if c.handle != nil {
		sensorName = c.handle.Name()
	}
	accuracy := c.accuracy
	stateChangeFn := c.onStateChange

	accepted := accuracy >= sensor.AccuracyMedium
	var reading sensor.Reading
	var winFn func(sensor.Reading)
	if accepted {
		reading = sensor.Reading{Value: value, Timestamp: time.Now()}
		c.last = reading
		c.hasLast = true
		winFn = c.onWin
	}
	c.mu.Unlock()

	sample := &log.SampleEvent{Value: value, Accuracy: accuracy, Accepted: accepted}
	if !accepted {
		sample.Reason = "below medium accuracy"
	}
	c.cfg.EventLogger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  sessionID,
		Layer:      log.LayerSensor,
		Category:   log.CategorySample,
		SensorName: sensorName,
		Sample:     sample,
	})

	if oldState != wire.StatusRunning {
		c.logStateChange(sessionID, sensorName, oldState, wire.StatusRunning, "sample received")
		if stateChangeFn != nil {
			stateChangeFn(oldState, wire.StatusRunning)
		}
	}
	if winFn != nil {
		winFn(reading)
	}
}

// OnAccuracyChanged implements sensor.Listener. The recorded accuracy
// gates sample delivery; reports arriving after Stop are ignored.
func (c *Controller) OnAccuracyChanged(accuracy sensor.Accuracy) {
	c.mu.Lock()
	if c.state == wire.StatusStopped {
		c.mu.Unlock()
		return
	}
	old := c.accuracy
	c.accuracy = accuracy
	c.mu.Unlock()

	if accuracy != old {
		c.debugLog("accuracy changed", "accuracy", accuracy.String())
	}
}

// armTimeoutLocked arms the startup timeout, cancelling any previous
// one first. Caller holds c.mu.
func (c *Controller) armTimeoutLocked() {
	c.cancelTimeoutLocked()
	seq := c.timeoutSeq
	c.timeout = c.cfg.Scheduler.Schedule(c.cfg.StartupTimeout, func() {
		c.onStartupTimeout(seq)
	})
}

// cancelTimeoutLocked cancels the armed startup timeout, if any, and
// bumps the sequence so an already fired callback becomes stale.
// Caller holds c.mu.
func (c *Controller) cancelTimeoutLocked() {
	if c.timeout != nil {
		c.timeout.Cancel()
		c.timeout = nil
	}
	c.timeoutSeq++
}

// onStartupTimeout answers pending requests from the cache when the
// hardware has not reported within the startup window. The session
// stays in Starting; a later sample still flips it to Running.
func (c *Controller) onStartupTimeout(seq uint64) {
	c.mu.Lock()
	if seq != c.timeoutSeq || c.state != wire.StatusStarting {
		c.mu.Unlock()
		return
	}
	c.timeout = nil
	c.timeoutSeq++

	// Synthesize a fresh reading from the cached value (zero if the
	// hardware never reported) and cache it for later replays.
	reading := sensor.Reading{Value: c.last.Value, Timestamp: time.Now()}
	c.last = reading
	c.hasLast = true
	sessionID := c.sessionID
	sensorName := ""
	if c.handle != nil {
		sensorName = c.handle.Name()
	}
	accuracy := c.accuracy
	winFn := c.onWin
	c.mu.Unlock()

	c.cfg.EventLogger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  sessionID,
		Layer:      log.LayerSession,
		Category:   log.CategorySample,
		SensorName: sensorName,
		Sample: &log.SampleEvent{
			Value:    reading.Value,
			Accuracy: accuracy,
			Accepted: true,
			Reason:   "startup timeout fallback",
		},
	})
	c.debugLog("startup timeout, answering from cache", "value", reading.Value)

	if winFn != nil {
		winFn(reading)
	}
}

// failStart parks the session in ErrorFailedToStart and broadcasts the
// failure, unless the session was torn down or re-armed concurrently.
func (c *Controller) failStart(sessionID string, failure wire.Failure, context string) {
	c.mu.Lock()
	if c.state != wire.StatusStarting || c.sessionID != sessionID {
		c.mu.Unlock()
		return
	}
	c.cancelTimeoutLocked()
	oldState := c.state
	c.state = wire.StatusErrorFailedToStart
	failFn := c.onFail
	stateChangeFn := c.onStateChange
	c.mu.Unlock()

	code := failure.Code
	c.cfg.EventLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Layer:     log.LayerSession,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Message: failure.Message,
			Code:    &code,
			Context: context,
		},
	})
	c.logStateChange(sessionID, "", oldState, wire.StatusErrorFailedToStart, failure.Message)
	c.debugLog("session start failed", "code", failure.Code, "message", failure.Message)

	if stateChangeFn != nil {
		stateChangeFn(oldState, wire.StatusErrorFailedToStart)
	}
	if failFn != nil {
		failFn(failure)
	}
}

// logStateChange emits a state transition to the event log.
func (c *Controller) logStateChange(sessionID, sensorName string, oldState, newState wire.Status, reason string) {
	c.cfg.EventLogger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  sessionID,
		Layer:      log.LayerSession,
		Category:   log.CategoryState,
		SensorName: sensorName,
		StateChange: &log.StateChangeEvent{
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})
}

// debugLog logs a debug message if logging is enabled.
func (c *Controller) debugLog(msg string, args ...any) {
	if c.cfg.Logger != nil {
		c.cfg.Logger.Debug(msg, args...)
	}
}

// Compile-time interface satisfaction check.
var _ sensor.Listener = (*Controller)(nil)
