package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hygrosense/hygro-go/pkg/log"
	"github.com/hygrosense/hygro-go/pkg/scheduler"
	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/session"
	"github.com/hygrosense/hygro-go/pkg/subscription"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

// Service orchestrates one sensor session on behalf of any number of
// concurrent subscribers.
type Service struct {
	// lifecycleMu serializes subscription-set membership changes
	// against session lifecycle decisions, so a subscriber can never
	// be added while the session is being released as empty. Start
	// failures report back synchronously under this mutex, which is
	// why handleFail must not take it and why failure delivery and
	// event dispatch go through the scheduler.
	lifecycleMu sync.Mutex

	// mu guards eventHandlers and closed.
	mu sync.RWMutex

	config   Config
	ctrl     *session.Controller
	registry *subscription.Registry
	sched    scheduler.Scheduler

	eventHandlers []EventHandler

	// Logger for debug output (optional)
	logger *slog.Logger

	// Event logger for structured session capture (optional)
	eventLogger log.Logger

	closed bool
}

// New creates a Service around the given sensor provider. The session
// stays stopped until the first subscriber arrives.
func New(config Config) (*Service, error) {
	if config.Scheduler == nil {
		config.Scheduler = scheduler.NewTimerScheduler()
	}
	if config.EventLogger == nil {
		config.EventLogger = log.NoopLogger{}
	}

	ctrl, err := session.New(session.Config{
		Provider:       config.Provider,
		Scheduler:      config.Scheduler,
		Kind:           config.Kind,
		Rate:           config.Rate,
		StartupTimeout: config.StartupTimeout,
		Logger:         config.Logger,
		EventLogger:    config.EventLogger,
	})
	if err != nil {
		return nil, err
	}

	s := &Service{
		config: config,
		ctrl:   ctrl,
		registry: subscription.NewRegistryWithConfig(subscription.Config{
			MaxSubscriptions: config.MaxSubscriptions,
			DefaultCadence:   config.DefaultCadence,
			MinCadence:       config.MinCadence,
		}),
		sched:       config.Scheduler,
		logger:      config.Logger,
		eventLogger: config.EventLogger,
	}

	ctrl.OnWin(s.handleWin)
	ctrl.OnFail(s.handleFail)
	ctrl.OnStateChange(s.handleStateChange)

	return s, nil
}

// OnEvent registers an event handler.
func (s *Service) OnEvent(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventHandlers = append(s.eventHandlers, handler)
}

// State returns the current session state.
func (s *Service) State() wire.Status {
	return s.ctrl.State()
}

// Accuracy returns the accuracy recorded for the current session.
func (s *Service) Accuracy() sensor.Accuracy {
	return s.ctrl.Accuracy()
}

// LastReading returns the cached reading and whether one exists.
func (s *Service) LastReading() (sensor.Reading, bool) {
	return s.ctrl.LastReading()
}

// SensorName returns the platform name of the registered sensor, or an
// empty string when the session holds no registration.
func (s *Service) SensorName() string {
	return s.ctrl.SensorName()
}

// SessionID returns the trace identity of the current session.
func (s *Service) SessionID() string {
	return s.ctrl.SessionID()
}

// SubscriptionCount returns the number of active subscriptions.
func (s *Service) SubscriptionCount() int {
	return s.registry.Count()
}

// Subscriptions returns the active subscriptions in insertion order.
func (s *Service) Subscriptions() []*subscription.Subscription {
	return s.registry.Snapshot()
}

// GetCurrentReading requests a single reading. The request is answered
// exactly once, through onSuccess or onFailure, by the next hardware
// sample, the startup fallback, or a start failure. It never blocks
// and never answers synchronously.
func (s *Service) GetCurrentReading(onSuccess func(sensor.Reading), onFailure func(wire.Failure)) error {
	if s.isClosed() {
		return ErrClosed
	}

	sub := subscription.NewOneShot(onSuccess, onFailure)

	s.lifecycleMu.Lock()
	if err := s.registry.Add(sub); err != nil {
		s.lifecycleMu.Unlock()
		return err
	}
	s.ensureStartedLocked()
	s.lifecycleMu.Unlock()

	s.debugLog("one-shot read requested", "subscription_id", sub.ID)
	s.emitEvent(Event{Type: EventSubscribed, SubscriptionID: sub.ID, Kind: subscription.KindOneShot})
	return nil
}

// WatchReading starts a recurring watch that replays the latest cached
// reading every cadence interval until cancelled with ClearWatch. A
// non-positive cadence selects the configured default.
//
// The watch id is returned immediately. The first answer arrives with
// the next session outcome, or right away when the session is already
// running with a cached reading, so a watcher joining a warm session
// does not wait out its first interval.
func (s *Service) WatchReading(onSuccess func(sensor.Reading), onFailure func(wire.Failure), cadence time.Duration) (string, error) {
	if s.isClosed() {
		return "", ErrClosed
	}

	cadence = s.registry.NormalizeCadence(cadence)
	sub := subscription.NewRecurring(onSuccess, onFailure, cadence)

	s.lifecycleMu.Lock()
	if err := s.registry.Add(sub); err != nil {
		s.lifecycleMu.Unlock()
		return "", err
	}
	s.ensureStartedLocked()

	if s.ctrl.State() == wire.StatusRunning {
		if _, ok := s.ctrl.LastReading(); ok {
			s.sched.Schedule(0, func() { s.replayTick(sub) })
		}
	}
	sub.SetTimer(s.sched.ScheduleRepeating(cadence, func() { s.replayTick(sub) }))
	s.lifecycleMu.Unlock()

	s.debugLog("watch added", "watch_id", sub.ID, "cadence", cadence.String())
	s.emitEvent(Event{Type: EventSubscribed, SubscriptionID: sub.ID, Kind: subscription.KindRecurring, Cadence: cadence})
	return sub.ID, nil
}

// ClearWatch cancels a watch and its replay timer, reporting whether
// the id was known. Clearing an unknown id is a no-op. Cancelling the
// last subscriber stops the session and releases the hardware.
func (s *Service) ClearWatch(id string) bool {
	if s.isClosed() {
		return false
	}

	s.lifecycleMu.Lock()
	_, ok := s.registry.Remove(id)
	stopped := false
	if ok && s.registry.Empty() {
		s.ctrl.Stop()
		stopped = true
	}
	s.lifecycleMu.Unlock()

	if !ok {
		return false
	}
	s.debugLog("watch cleared", "watch_id", id, "session_stopped", stopped)
	s.emitEvent(Event{Type: EventUnsubscribed, SubscriptionID: id})
	return true
}

// Reset models the caller surface being torn down and rebuilt while
// the process lives on: if the session is running, it is stopped and
// all subscriptions are dropped without callbacks, since the contexts
// that registered them are gone. A session that is not running is left
// untouched.
func (s *Service) Reset() {
	s.lifecycleMu.Lock()
	if s.ctrl.State() != wire.StatusRunning {
		s.lifecycleMu.Unlock()
		return
	}
	dropped := len(s.registry.Drain())
	s.ctrl.Stop()
	s.lifecycleMu.Unlock()

	s.debugLog("surface reset, session torn down", "dropped_subscriptions", dropped)
}

// Close stops the session unconditionally, drops all subscriptions
// without callbacks, and refuses further requests.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.lifecycleMu.Lock()
	dropped := len(s.registry.Drain())
	s.ctrl.Stop()
	s.lifecycleMu.Unlock()

	s.debugLog("service closed", "dropped_subscriptions", dropped)
	return nil
}

// ensureStartedLocked keeps the session armed whenever a subscriber is
// waiting. Anything but Running needs a Start call: stopped and failed
// sessions get a fresh attempt, and a session still starting gets its
// timeout re-armed so the newcomer is answered within the startup
// window. Caller holds lifecycleMu.
func (s *Service) ensureStartedLocked() {
	if s.ctrl.State() != wire.StatusRunning {
		s.ctrl.Start()
	}
}

// handleWin fans a session reading out to every subscription awaiting
// its first answer. One-shots are removed from the set before their
// callback runs; when the set drains, the session is released before
// anyone is notified.
func (s *Service) handleWin(reading sensor.Reading) {
	s.lifecycleMu.Lock()
	pending, empty := s.registry.TakePending()
	if empty {
		s.ctrl.Stop()
	}
	s.lifecycleMu.Unlock()

	for _, sub := range pending {
		s.deliverSuccess(sub, reading)
	}
	s.emitEvent(Event{Type: EventReading, Reading: reading})
}

// handleFail tears down every subscription with the broadcast failure.
// The session is left in its failed state so the next request retries.
//
// Start failures report back synchronously under lifecycleMu, so the
// failure callbacks are deferred to the scheduler instead of running
// inline.
func (s *Service) handleFail(failure wire.Failure) {
	drained := s.registry.Drain()
	for _, sub := range drained {
		s.sched.Schedule(0, func() { s.deliverFailure(sub, failure) })
	}

	s.debugLog("session failed, subscriptions torn down",
		"code", failure.Code, "message", failure.Message, "dropped_subscriptions", len(drained))
	s.emitEvent(Event{Type: EventSessionFailed, Failure: &failure})
}

func (s *Service) handleStateChange(oldState, newState wire.Status) {
	s.debugLog("session state changed", "old", oldState.String(), "new", newState.String())
	s.emitEvent(Event{Type: EventStateChanged, OldState: oldState, NewState: newState})
}

// replayTick delivers the cached reading to one watch. Ticks never
// touch the hardware: with nothing cached yet the tick passes silently,
// and a watch cancelled while the tick was in flight refuses delivery.
func (s *Service) replayTick(sub *subscription.Subscription) {
	reading, ok := s.ctrl.LastReading()
	if !ok {
		return
	}
	if !sub.ClaimReplay() {
		return
	}
	s.deliverSuccess(sub, reading)
}

func (s *Service) deliverSuccess(sub *subscription.Subscription, reading sensor.Reading) {
	value := reading.Value
	s.eventLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.ctrl.SessionID(),
		Layer:     log.LayerDelivery,
		Category:  log.CategoryDelivery,
		Delivery: &log.DeliveryEvent{
			SubscriptionID: sub.ID,
			Recurring:      sub.Kind == subscription.KindRecurring,
			Outcome:        log.OutcomeSuccess,
			Value:          &value,
		},
	})

	if sub.OnSuccess != nil {
		sub.OnSuccess(reading)
	}
}

func (s *Service) deliverFailure(sub *subscription.Subscription, failure wire.Failure) {
	code := failure.Code
	s.eventLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.ctrl.SessionID(),
		Layer:     log.LayerDelivery,
		Category:  log.CategoryDelivery,
		Delivery: &log.DeliveryEvent{
			SubscriptionID: sub.ID,
			Recurring:      sub.Kind == subscription.KindRecurring,
			Outcome:        log.OutcomeFailure,
			Code:           &code,
		},
	})

	if sub.OnFailure != nil {
		sub.OnFailure(failure)
	}
}

// emitEvent hands the event to all registered handlers on a scheduler
// goroutine. Dispatch is asynchronous because controller callbacks can
// fire while service locks are held; it also means handlers are free
// to call back into the Service.
func (s *Service) emitEvent(event Event) {
	s.mu.RLock()
	handlers := make([]EventHandler, len(s.eventHandlers))
	copy(handlers, s.eventHandlers)
	s.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	s.sched.Schedule(0, func() {
		for _, handler := range handlers {
			handler(event)
		}
	})
}

func (s *Service) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// debugLog logs a debug message if logging is enabled.
func (s *Service) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
