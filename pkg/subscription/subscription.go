package subscription

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hygrosense/hygro-go/pkg/scheduler"
	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

// Subscription errors.
var (
	ErrResourceExhausted = errors.New("maximum subscriptions reached")
	ErrNotFound          = errors.New("subscription not found")
)

// Default subscription limits.
const (
	DefaultCadence          = 10 * time.Second
	DefaultMinCadence       = 100 * time.Millisecond
	DefaultMaxSubscriptions = 50
)

// Kind says whether a subscription is answered once or repeatedly.
type Kind uint8

const (
	// KindOneShot is answered by the first session outcome, then discarded.
	KindOneShot Kind = iota

	// KindRecurring replays the cached reading on a cadence until cancelled.
	KindRecurring
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindOneShot:
		return "ONE_SHOT"
	case KindRecurring:
		return "RECURRING"
	default:
		return "UNKNOWN"
	}
}

// Config holds registry configuration.
type Config struct {
	// MaxSubscriptions caps the active set.
	MaxSubscriptions int

	// DefaultCadence is used when a watch request carries no usable
	// replay interval.
	DefaultCadence time.Duration

	// MinCadence floors how fast a watch may replay; faster requests
	// are clamped, not rejected.
	MinCadence time.Duration
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() Config {
	return Config{
		MaxSubscriptions: DefaultMaxSubscriptions,
		DefaultCadence:   DefaultCadence,
		MinCadence:       DefaultMinCadence,
	}
}

// Subscription is one caller request awaiting sensor readings.
type Subscription struct {
	mu sync.Mutex

	// ID is the opaque token handed back to the caller.
	ID string

	// Kind distinguishes one-shot reads from recurring watches.
	Kind Kind

	// Cadence is the replay interval. Recurring only.
	Cadence time.Duration

	// OnSuccess receives readings. Invoked outside registry locks.
	OnSuccess func(sensor.Reading)

	// OnFailure receives the terminal failure, after which no further
	// delivery happens on this subscription.
	OnFailure func(wire.Failure)

	// answered flips when the first session outcome reaches the
	// subscriber; afterwards recurring delivery is cadence-driven.
	answered bool

	// active is cleared on removal so an in-flight cadence tick cannot
	// deliver to a cancelled watch.
	active bool

	// timer is the cadence replay timer. Recurring only.
	timer scheduler.Handle
}

// NewOneShot creates a pending one-shot subscription.
func NewOneShot(onSuccess func(sensor.Reading), onFailure func(wire.Failure)) *Subscription {
	return &Subscription{
		ID:        uuid.NewString(),
		Kind:      KindOneShot,
		OnSuccess: onSuccess,
		OnFailure: onFailure,
		active:    true,
	}
}

// NewRecurring creates a pending recurring subscription. The cadence
// timer is attached separately with SetTimer once scheduled.
func NewRecurring(onSuccess func(sensor.Reading), onFailure func(wire.Failure), cadence time.Duration) *Subscription {
	return &Subscription{
		ID:        uuid.NewString(),
		Kind:      KindRecurring,
		Cadence:   cadence,
		OnSuccess: onSuccess,
		OnFailure: onFailure,
		active:    true,
	}
}

// IsActive returns whether the subscription is still in the set.
func (s *Subscription) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// IsAnswered returns whether the first session outcome has reached the
// subscriber.
func (s *Subscription) IsAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answered
}

// Deactivate takes the subscription out of service and cancels its
// cadence timer. Idempotent.
func (s *Subscription) Deactivate() {
	s.mu.Lock()
	timer := s.timer
	s.timer = nil
	s.active = false
	s.mu.Unlock()

	if timer != nil {
		timer.Cancel()
	}
}

// SetTimer attaches the cadence replay timer. If the subscription was
// cancelled while the timer was being scheduled, the timer is cancelled
// immediately instead.
func (s *Subscription) SetTimer(timer scheduler.Handle) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		timer.Cancel()
		return
	}
	s.timer = timer
	s.mu.Unlock()
}

// ClaimReplay reports whether a cadence replay may deliver now, and
// marks the subscription answered. A cancelled subscription refuses,
// which stops a tick that raced the cancellation.
func (s *Subscription) ClaimReplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	s.answered = true
	return true
}

// claimFirstAnswer marks a pending subscription answered, reporting
// whether it was still pending. Used by the registry during outcome
// fan-out.
func (s *Subscription) claimFirstAnswer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answered {
		return false
	}
	s.answered = true
	return true
}
