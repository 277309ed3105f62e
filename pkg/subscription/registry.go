package subscription

import (
	"sync"
	"time"
)

// Registry tracks the active subscription set for one sensor session.
//
// The registry is pure bookkeeping: it never starts or stops the
// session itself. Fan-out order is insertion order, so concurrent
// subscribers are answered in the order they asked.
type Registry struct {
	mu sync.RWMutex

	config Config

	// Active subscriptions by ID, plus insertion order for
	// deterministic fan-out.
	subs  map[string]*Subscription
	order []string
}

// NewRegistry creates a registry with default configuration.
func NewRegistry() *Registry {
	return NewRegistryWithConfig(DefaultConfig())
}

// NewRegistryWithConfig creates a registry with custom configuration.
func NewRegistryWithConfig(config Config) *Registry {
	if config.MaxSubscriptions <= 0 {
		config.MaxSubscriptions = DefaultMaxSubscriptions
	}
	if config.DefaultCadence <= 0 {
		config.DefaultCadence = DefaultCadence
	}
	if config.MinCadence <= 0 {
		config.MinCadence = DefaultMinCadence
	}

	return &Registry{
		config: config,
		subs:   make(map[string]*Subscription),
	}
}

// NormalizeCadence maps a requested replay interval onto the configured
// bounds: non-positive requests get the default, too-fast requests are
// clamped to the floor.
func (r *Registry) NormalizeCadence(d time.Duration) time.Duration {
	if d <= 0 {
		return r.config.DefaultCadence
	}
	if d < r.config.MinCadence {
		return r.config.MinCadence
	}
	return d
}

// Add inserts a subscription into the active set.
func (r *Registry) Add(sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.subs) >= r.config.MaxSubscriptions {
		return ErrResourceExhausted
	}

	r.subs[sub.ID] = sub
	r.order = append(r.order, sub.ID)
	return nil
}

// Remove takes a subscription out of the set and deactivates it,
// cancelling its cadence timer. It reports whether the ID was present;
// removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) (*Subscription, bool) {
	r.mu.Lock()
	sub, exists := r.subs[id]
	if exists {
		r.deleteLocked(id)
	}
	r.mu.Unlock()

	if !exists {
		return nil, false
	}
	sub.Deactivate()
	return sub, true
}

// Get returns a subscription by ID.
func (r *Registry) Get(id string) (*Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, exists := r.subs[id]
	return sub, exists
}

// Count returns the number of active subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// Empty reports whether no subscriptions remain.
func (r *Registry) Empty() bool {
	return r.Count() == 0
}

// Snapshot returns the active subscriptions in insertion order.
func (r *Registry) Snapshot() []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]*Subscription, 0, len(r.subs))
	for _, id := range r.order {
		subs = append(subs, r.subs[id])
	}
	return subs
}

// TakePending claims the subscriptions a session outcome must answer:
// every one-shot, which is removed from the set before its callback can
// run, and every recurring subscription not yet answered, which stays
// in the set for cadence delivery. It reports whether the set drained,
// so the caller can release the session.
func (r *Registry) TakePending() (pending []*Subscription, empty bool) {
	r.mu.Lock()

	var removed []*Subscription
	for _, id := range append([]string(nil), r.order...) {
		sub := r.subs[id]
		switch sub.Kind {
		case KindOneShot:
			r.deleteLocked(id)
			removed = append(removed, sub)
			pending = append(pending, sub)
		case KindRecurring:
			if sub.claimFirstAnswer() {
				pending = append(pending, sub)
			}
		}
	}
	empty = len(r.subs) == 0
	r.mu.Unlock()

	for _, sub := range removed {
		sub.Deactivate()
	}
	return pending, empty
}

// Drain removes and deactivates every subscription, cancelling all
// cadence timers, and returns them in insertion order. Used for the
// failure broadcast, which tears the whole set down.
func (r *Registry) Drain() []*Subscription {
	r.mu.Lock()
	drained := make([]*Subscription, 0, len(r.subs))
	for _, id := range r.order {
		drained = append(drained, r.subs[id])
	}
	r.subs = make(map[string]*Subscription)
	r.order = nil
	r.mu.Unlock()

	for _, sub := range drained {
		sub.Deactivate()
	}
	return drained
}

// deleteLocked removes an ID from the map and order slice. Caller
// holds r.mu.
func (r *Registry) deleteLocked(id string) {
	delete(r.subs, id)
	for i, got := range r.order {
		if got == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
