package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hygrosense/hygro-go/pkg/scheduler"
	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/sensor/sim"
	"github.com/hygrosense/hygro-go/pkg/subscription"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

// recorder captures callback deliveries. All tests drive the manual
// clock and the sim provider from the test goroutine, so deliveries
// land synchronously and no locking is needed.
type recorder struct {
	readings []sensor.Reading
	failures []wire.Failure
}

func (r *recorder) onSuccess(reading sensor.Reading) { r.readings = append(r.readings, reading) }
func (r *recorder) onFailure(failure wire.Failure)   { r.failures = append(r.failures, failure) }

func newTestService(t *testing.T, config Config) (*Service, *sim.Provider, *scheduler.Manual) {
	t.Helper()

	provider := sim.New(sim.Config{SensorName: "sim-rh-0"})
	clock := scheduler.NewManual()

	config.Provider = provider
	config.Scheduler = clock

	svc, err := New(config)
	require.NoError(t, err)
	return svc, provider, clock
}

func TestNew_RequiresProvider(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestGetCurrentReading_AnsweredBySample(t *testing.T) {
	svc, provider, _ := newTestService(t, Config{})
	rec := &recorder{}

	require.NoError(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure))
	assert.Equal(t, wire.StatusStarting, svc.State())
	assert.Equal(t, 1, provider.RegistrationCount())
	assert.Equal(t, 1, svc.SubscriptionCount())
	assert.Empty(t, rec.readings, "requests must never be answered synchronously")

	provider.DeliverValue(55.5)

	require.Len(t, rec.readings, 1)
	assert.Equal(t, 55.5, rec.readings[0].Value)
	assert.Empty(t, rec.failures)

	// The answered one-shot was the last subscriber, so the session
	// released the hardware.
	assert.Equal(t, wire.StatusStopped, svc.State())
	assert.Equal(t, 0, provider.RegistrationCount())
	assert.Equal(t, 0, svc.SubscriptionCount())
}

func TestGetCurrentReading_TwoCallersOneSample(t *testing.T) {
	svc, provider, _ := newTestService(t, Config{})
	rec1 := &recorder{}
	rec2 := &recorder{}

	require.NoError(t, svc.GetCurrentReading(rec1.onSuccess, rec1.onFailure))
	require.NoError(t, svc.GetCurrentReading(rec2.onSuccess, rec2.onFailure))
	assert.Equal(t, 1, provider.RegistrationCount(), "second caller must share the registration")

	provider.DeliverValue(60)

	require.Len(t, rec1.readings, 1)
	require.Len(t, rec2.readings, 1)
	assert.Equal(t, rec1.readings[0], rec2.readings[0])
	assert.Equal(t, wire.StatusStopped, svc.State())
	assert.Equal(t, 0, provider.RegistrationCount())
}

func TestGetCurrentReading_AnsweredByTimeoutFallback(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	rec := &recorder{}

	require.NoError(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure))

	clock.Advance(2 * time.Second)

	require.Len(t, rec.readings, 1)
	assert.Equal(t, 0.0, rec.readings[0].Value)
	assert.WithinDuration(t, time.Now(), rec.readings[0].Timestamp, time.Second)
	assert.Empty(t, rec.failures)
	assert.Equal(t, wire.StatusStopped, svc.State())
	assert.Equal(t, 0, provider.RegistrationCount())
}

func TestGetCurrentReading_NoSensorFails(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	provider.SetPresent(false)
	rec := &recorder{}

	require.NoError(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure))

	// Failure callbacks are deferred to the scheduler.
	assert.Empty(t, rec.failures)
	clock.Advance(0)

	require.Len(t, rec.failures, 1)
	assert.Equal(t, wire.FailureNoSensor, rec.failures[0])
	assert.Empty(t, rec.readings)
	assert.Equal(t, wire.StatusErrorFailedToStart, svc.State())
	assert.Equal(t, 0, svc.SubscriptionCount())
	assert.Equal(t, 0, provider.RegistrationCount())
}

func TestGetCurrentReading_RegistrationRejected(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	provider.SetReject(true)
	rec := &recorder{}

	require.NoError(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure))
	clock.Advance(0)

	require.Len(t, rec.failures, 1)
	assert.Equal(t, wire.FailureRegistration, rec.failures[0])
	assert.Equal(t, wire.StatusErrorFailedToStart, svc.State())
}

func TestGetCurrentReading_RetryAfterFailure(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	provider.SetPresent(false)
	rec1 := &recorder{}

	require.NoError(t, svc.GetCurrentReading(rec1.onSuccess, rec1.onFailure))
	clock.Advance(0)
	require.Len(t, rec1.failures, 1)

	// The sensor comes back; a fresh request starts a fresh attempt.
	provider.SetPresent(true)
	rec2 := &recorder{}
	require.NoError(t, svc.GetCurrentReading(rec2.onSuccess, rec2.onFailure))
	assert.Equal(t, wire.StatusStarting, svc.State())
	assert.Equal(t, 1, provider.RegistrationCount())

	provider.DeliverValue(42)

	require.Len(t, rec2.readings, 1)
	assert.Equal(t, 42.0, rec2.readings[0].Value)
	assert.Len(t, rec1.failures, 1, "earlier caller must not be answered again")
}

func TestWatchReading_ColdStartFallback(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	rec := &recorder{}

	id, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, provider.RegistrationCount())

	clock.Advance(2 * time.Second)

	require.Len(t, rec.readings, 1)
	assert.Equal(t, 0.0, rec.readings[0].Value)

	// The watcher remains, so the session stays up waiting for the
	// hardware to report.
	assert.Equal(t, wire.StatusStarting, svc.State())
	assert.Equal(t, 1, provider.RegistrationCount())
	assert.Equal(t, 1, svc.SubscriptionCount())
}

func TestWatchReading_CadenceReplaysCache(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	rec := &recorder{}

	_, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 700*time.Millisecond)
	require.NoError(t, err)

	// The first hardware sample answers the pending watch directly.
	provider.DeliverValue(45)
	require.Len(t, rec.readings, 1)

	// Afterwards delivery is cadence-driven, replaying the cache.
	clock.Advance(700 * time.Millisecond)
	require.Len(t, rec.readings, 2)
	assert.Equal(t, 45.0, rec.readings[1].Value)

	clock.Advance(700 * time.Millisecond)
	require.Len(t, rec.readings, 3)

	assert.Equal(t, 1, provider.RegistrationCount(), "replays must not touch the hardware")
	assert.Equal(t, wire.StatusRunning, svc.State())
}

func TestWatchReading_WarmJoinReplaysImmediately(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	rec1 := &recorder{}
	rec2 := &recorder{}

	_, err := svc.WatchReading(rec1.onSuccess, rec1.onFailure, 10*time.Second)
	require.NoError(t, err)
	provider.DeliverValue(50)
	require.Len(t, rec1.readings, 1)
	require.Equal(t, wire.StatusRunning, svc.State())

	// A watcher joining the warm session is answered right away,
	// before its first 500ms tick.
	_, err = svc.WatchReading(rec2.onSuccess, rec2.onFailure, 500*time.Millisecond)
	require.NoError(t, err)
	clock.Advance(0)
	require.Len(t, rec2.readings, 1)
	assert.Equal(t, 50.0, rec2.readings[0].Value)

	clock.Advance(500 * time.Millisecond)
	require.Len(t, rec2.readings, 2)

	// New samples refresh the cache but answered watches wait for
	// their next tick.
	provider.DeliverValue(51)
	assert.Len(t, rec2.readings, 2)
	clock.Advance(500 * time.Millisecond)
	require.Len(t, rec2.readings, 3)
	assert.Equal(t, 51.0, rec2.readings[2].Value)

	assert.Len(t, rec1.readings, 1, "10s watcher has no tick due yet")
}

func TestWatchReading_JoinDuringStartingRearmsFallback(t *testing.T) {
	svc, _, clock := newTestService(t, Config{})
	rec1 := &recorder{}
	rec2 := &recorder{}

	_, err := svc.WatchReading(rec1.onSuccess, rec1.onFailure, 10*time.Second)
	require.NoError(t, err)
	clock.Advance(2 * time.Second)
	require.Len(t, rec1.readings, 1)
	require.Equal(t, wire.StatusStarting, svc.State())

	// The session never left Starting, so the newcomer re-arms the
	// startup window instead of replaying the stale fallback.
	_, err = svc.WatchReading(rec2.onSuccess, rec2.onFailure, 10*time.Second)
	require.NoError(t, err)
	clock.Advance(0)
	assert.Empty(t, rec2.readings)

	clock.Advance(2 * time.Second)
	require.Len(t, rec2.readings, 1)
	assert.Len(t, rec1.readings, 1, "already answered watcher waits for its tick")
}

func TestWatchReading_FailureTearsDownWatch(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	provider.SetPresent(false)
	rec := &recorder{}

	id, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 500*time.Millisecond)
	require.NoError(t, err, "the watch id is handed out even when the start fails")
	assert.NotEmpty(t, id)

	clock.Advance(0)
	require.Len(t, rec.failures, 1)
	assert.Equal(t, wire.FailureNoSensor, rec.failures[0])
	assert.Equal(t, 0, svc.SubscriptionCount())

	// The cadence timer died with the watch.
	clock.Advance(5 * time.Second)
	assert.Empty(t, rec.readings)
	assert.Len(t, rec.failures, 1)
}

func TestWatchReading_DefaultCadenceApplied(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})
	rec := &recorder{}

	id, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 0)
	require.NoError(t, err)

	subs := svc.Subscriptions()
	require.Len(t, subs, 1)
	assert.Equal(t, id, subs[0].ID)
	assert.Equal(t, subscription.KindRecurring, subs[0].Kind)
	assert.Equal(t, subscription.DefaultCadence, subs[0].Cadence)
}

func TestClearWatch_UnknownIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})

	assert.False(t, svc.ClearWatch("no-such-id"))
	assert.Equal(t, wire.StatusStopped, svc.State())
}

func TestClearWatch_LastWatchStopsSession(t *testing.T) {
	svc, provider, _ := newTestService(t, Config{})
	rec := &recorder{}

	id, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 10*time.Second)
	require.NoError(t, err)
	provider.DeliverValue(44)
	require.Len(t, rec.readings, 1)

	assert.True(t, svc.ClearWatch(id))
	assert.Equal(t, wire.StatusStopped, svc.State())
	assert.Equal(t, 0, provider.RegistrationCount())
	assert.Equal(t, 0, svc.SubscriptionCount())
	assert.False(t, svc.ClearWatch(id), "second clear of the same id is a no-op")

	// Nothing is listening anymore.
	provider.DeliverValue(45)
	assert.Len(t, rec.readings, 1)
}

func TestClearWatch_RemainingWatchKeepsSession(t *testing.T) {
	svc, provider, _ := newTestService(t, Config{})
	rec1 := &recorder{}
	rec2 := &recorder{}

	id1, err := svc.WatchReading(rec1.onSuccess, rec1.onFailure, 10*time.Second)
	require.NoError(t, err)
	_, err = svc.WatchReading(rec2.onSuccess, rec2.onFailure, 10*time.Second)
	require.NoError(t, err)
	provider.DeliverValue(44)

	assert.True(t, svc.ClearWatch(id1))

	assert.Equal(t, wire.StatusRunning, svc.State())
	assert.Equal(t, 1, provider.RegistrationCount())
	assert.Equal(t, 1, svc.SubscriptionCount())
}

func TestReset_IgnoredUnlessRunning(t *testing.T) {
	svc, provider, _ := newTestService(t, Config{})
	rec := &recorder{}

	_, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, wire.StatusStarting, svc.State())

	svc.Reset()

	assert.Equal(t, wire.StatusStarting, svc.State())
	assert.Equal(t, 1, svc.SubscriptionCount())
	assert.Equal(t, 1, provider.RegistrationCount())
}

func TestReset_DropsRunningSessionSilently(t *testing.T) {
	svc, provider, _ := newTestService(t, Config{})
	rec := &recorder{}

	_, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 10*time.Second)
	require.NoError(t, err)
	provider.DeliverValue(47)
	require.Equal(t, wire.StatusRunning, svc.State())

	svc.Reset()

	assert.Equal(t, wire.StatusStopped, svc.State())
	assert.Equal(t, 0, provider.RegistrationCount())
	assert.Equal(t, 0, svc.SubscriptionCount())
	assert.Empty(t, rec.failures, "reset drops subscribers without callbacks")

	// The service still accepts new work.
	rec2 := &recorder{}
	require.NoError(t, svc.GetCurrentReading(rec2.onSuccess, rec2.onFailure))
	assert.Equal(t, 1, provider.RegistrationCount())
}

func TestClose_RefusesFurtherRequests(t *testing.T) {
	svc, provider, _ := newTestService(t, Config{})
	rec := &recorder{}

	_, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 10*time.Second)
	require.NoError(t, err)

	require.NoError(t, svc.Close())

	assert.Equal(t, wire.StatusStopped, svc.State())
	assert.Equal(t, 0, provider.RegistrationCount())
	assert.Equal(t, 0, svc.SubscriptionCount())

	assert.ErrorIs(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure), ErrClosed)
	_, err = svc.WatchReading(rec.onSuccess, rec.onFailure, 0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, svc.ClearWatch("anything"))

	require.NoError(t, svc.Close(), "closing twice is fine")
}

func TestService_MaxSubscriptions(t *testing.T) {
	svc, _, _ := newTestService(t, Config{MaxSubscriptions: 1})
	rec := &recorder{}

	_, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 0)
	require.NoError(t, err)

	err = svc.GetCurrentReading(rec.onSuccess, rec.onFailure)
	assert.ErrorIs(t, err, subscription.ErrResourceExhausted)
}

func TestService_RegistrationCountInvariant(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	rec := &recorder{}

	require.NoError(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure))
	assert.Equal(t, 1, provider.RegistrationCount())

	id, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.RegistrationCount())

	provider.DeliverValue(42)
	assert.Equal(t, 1, provider.RegistrationCount(), "watch keeps the session alive")

	assert.True(t, svc.ClearWatch(id))
	assert.Equal(t, 0, provider.RegistrationCount())

	require.NoError(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure))
	assert.Equal(t, 1, provider.RegistrationCount())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, provider.RegistrationCount(), "fallback answered the last one-shot")
}

func TestService_Events(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	rec := &recorder{}

	var events []Event
	svc.OnEvent(func(e Event) { events = append(events, e) })

	id, err := svc.WatchReading(rec.onSuccess, rec.onFailure, 10*time.Second)
	require.NoError(t, err)
	clock.Advance(0)

	provider.DeliverValue(45)
	clock.Advance(0)

	assert.True(t, svc.ClearWatch(id))
	clock.Advance(0)

	types := make([]EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{
		EventStateChanged, // Stopped -> Starting
		EventSubscribed,
		EventStateChanged, // Starting -> Running
		EventReading,
		EventStateChanged, // Running -> Stopped
		EventUnsubscribed,
	}, types)

	assert.Equal(t, wire.StatusStopped, events[0].OldState)
	assert.Equal(t, wire.StatusStarting, events[0].NewState)
	assert.Equal(t, id, events[1].SubscriptionID)
	assert.Equal(t, subscription.KindRecurring, events[1].Kind)
	assert.Equal(t, 45.0, events[3].Reading.Value)
	assert.Equal(t, id, events[5].SubscriptionID)
}

func TestService_EventsOnFailure(t *testing.T) {
	svc, provider, clock := newTestService(t, Config{})
	provider.SetPresent(false)
	rec := &recorder{}

	var events []Event
	svc.OnEvent(func(e Event) { events = append(events, e) })

	require.NoError(t, svc.GetCurrentReading(rec.onSuccess, rec.onFailure))
	clock.Advance(0)

	types := make([]EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{
		EventStateChanged, // Stopped -> Starting
		EventStateChanged, // Starting -> ErrorFailedToStart
		EventSessionFailed,
		EventSubscribed,
	}, types)

	require.NotNil(t, events[2].Failure)
	assert.Equal(t, wire.FailureNoSensor, *events[2].Failure)
}
