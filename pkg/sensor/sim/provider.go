// Package sim provides an in-memory sensor.Provider for binaries and
// integration tests: sensor presence and registration acceptance are
// toggleable, samples and accuracy changes are injected manually or by a
// Generator, and the registration count is observable.
package sim

import (
	"sync"

	"github.com/hygrosense/hygro-go/pkg/sensor"
)

// handle is the sim's sensor.Handle implementation. It is a comparable
// value so registration pairs can be matched on unregister.
type handle struct {
	kind sensor.Kind
	name string
}

func (h handle) Kind() sensor.Kind { return h.kind }
func (h handle) Name() string      { return h.name }

// Config configures a simulated Provider. Zero fields get defaults.
type Config struct {
	// SensorName is the advertised sensor name.
	SensorName string

	// Kind is the sensor class the provider exposes.
	Kind sensor.Kind

	// InitialValue is the starting sample value in percent.
	InitialValue float64
}

// Provider is a software sensor.Provider. The zero value is not usable;
// construct with New.
type Provider struct {
	mu        sync.RWMutex
	handle    handle
	present   bool
	reject    bool
	value     float64
	accuracy  sensor.Accuracy
	listeners map[sensor.Listener]struct{}
}

// New creates a Provider with one attached sensor. The sensor starts
// present, accepting registrations, at high accuracy.
func New(cfg Config) *Provider {
	if cfg.SensorName == "" {
		cfg.SensorName = "sim-humidity-0"
	}
	if cfg.Kind == sensor.KindUnknown {
		cfg.Kind = sensor.KindRelativeHumidity
	}
	return &Provider{
		handle:    handle{kind: cfg.Kind, name: cfg.SensorName},
		present:   true,
		value:     cfg.InitialValue,
		accuracy:  sensor.AccuracyHigh,
		listeners: make(map[sensor.Listener]struct{}),
	}
}

// Sensor returns the simulated sensor's handle when it is present and of
// the requested kind.
func (p *Provider) Sensor(kind sensor.Kind) (sensor.Handle, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.present || kind != p.handle.kind {
		return nil, false
	}
	return p.handle, true
}

// Register adds the listener to the delivery set and, per the Provider
// contract, reports the sensor's current accuracy to it synchronously
// before returning. Samples flow only through Deliver.
func (p *Provider) Register(h sensor.Handle, l sensor.Listener, _ sensor.Rate) bool {
	p.mu.Lock()
	if p.reject || !p.present || h != sensor.Handle(p.handle) {
		p.mu.Unlock()
		return false
	}
	p.listeners[l] = struct{}{}
	acc := p.accuracy
	p.mu.Unlock()

	l.OnAccuracyChanged(acc)
	return true
}

// Unregister removes the listener registration. Unknown pairs are a no-op.
func (p *Provider) Unregister(h sensor.Handle, l sensor.Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h != sensor.Handle(p.handle) {
		return
	}
	delete(p.listeners, l)
}

// RegistrationCount reports how many listeners are currently registered.
func (p *Provider) RegistrationCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}

// SetPresent attaches or detaches the simulated sensor. Detaching does not
// clear existing registrations; it only makes new queries fail.
func (p *Provider) SetPresent(present bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.present = present
}

// SetReject makes subsequent Register calls fail (or succeed again).
func (p *Provider) SetReject(reject bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reject = reject
}

// Value returns the current simulated sample value.
func (p *Provider) Value() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// SetValue updates the simulated sample value without delivering it.
func (p *Provider) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
}

// Deliver sends the current value to all registered listeners.
func (p *Provider) Deliver() {
	p.mu.RLock()
	v := p.value
	ls := make([]sensor.Listener, 0, len(p.listeners))
	for l := range p.listeners {
		ls = append(ls, l)
	}
	p.mu.RUnlock()

	for _, l := range ls {
		l.OnReading(v)
	}
}

// DeliverValue sets the value and delivers it in one step.
func (p *Provider) DeliverValue(v float64) {
	p.SetValue(v)
	p.Deliver()
}

// Accuracy returns the accuracy currently reported by the sensor.
func (p *Provider) Accuracy() sensor.Accuracy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accuracy
}

// SetAccuracy records a new accuracy level and notifies all registered
// listeners.
func (p *Provider) SetAccuracy(acc sensor.Accuracy) {
	p.mu.Lock()
	p.accuracy = acc
	ls := make([]sensor.Listener, 0, len(p.listeners))
	for l := range p.listeners {
		ls = append(ls, l)
	}
	p.mu.Unlock()

	for _, l := range ls {
		l.OnAccuracyChanged(acc)
	}
}

// Compile-time interface satisfaction check.
var _ sensor.Provider = (*Provider)(nil)
