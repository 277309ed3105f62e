package sim

import (
	"sync"
	"testing"
	"time"

	"github.com/hygrosense/hygro-go/pkg/sensor"
)

// recordingListener captures deliveries for assertions.
type recordingListener struct {
	mu       sync.Mutex
	readings []float64
	accuracy []sensor.Accuracy
}

func (r *recordingListener) OnReading(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readings = append(r.readings, v)
}

func (r *recordingListener) OnAccuracyChanged(a sensor.Accuracy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accuracy = append(r.accuracy, a)
}

func TestProviderQuery(t *testing.T) {
	p := New(Config{})

	h, ok := p.Sensor(sensor.KindRelativeHumidity)
	if !ok {
		t.Fatal("expected a humidity sensor")
	}
	if h.Kind() != sensor.KindRelativeHumidity {
		t.Errorf("handle kind = %v", h.Kind())
	}
	if h.Name() != "sim-humidity-0" {
		t.Errorf("handle name = %q", h.Name())
	}

	if _, ok := p.Sensor(sensor.KindAmbientTemperature); ok {
		t.Error("should not have a temperature sensor")
	}

	p.SetPresent(false)
	if _, ok := p.Sensor(sensor.KindRelativeHumidity); ok {
		t.Error("detached sensor should not be queryable")
	}
}

func TestProviderRegisterDeliver(t *testing.T) {
	p := New(Config{InitialValue: 40})
	h, _ := p.Sensor(sensor.KindRelativeHumidity)
	l := &recordingListener{}

	if !p.Register(h, l, sensor.RateUI) {
		t.Fatal("registration should succeed")
	}
	if got := p.RegistrationCount(); got != 1 {
		t.Fatalf("registration count = %d, want 1", got)
	}

	p.Deliver()
	p.DeliverValue(55.5)

	l.mu.Lock()
	got := append([]float64(nil), l.readings...)
	l.mu.Unlock()
	if len(got) != 2 || got[0] != 40 || got[1] != 55.5 {
		t.Errorf("readings = %v, want [40 55.5]", got)
	}

	p.Unregister(h, l)
	if got := p.RegistrationCount(); got != 0 {
		t.Errorf("registration count after unregister = %d, want 0", got)
	}

	// Unregistering an unknown pair is a no-op.
	p.Unregister(h, l)
}

func TestProviderReject(t *testing.T) {
	p := New(Config{})
	h, _ := p.Sensor(sensor.KindRelativeHumidity)

	p.SetReject(true)
	if p.Register(h, &recordingListener{}, sensor.RateUI) {
		t.Error("registration should be rejected")
	}
	if got := p.RegistrationCount(); got != 0 {
		t.Errorf("registration count = %d, want 0", got)
	}

	p.SetReject(false)
	if !p.Register(h, &recordingListener{}, sensor.RateUI) {
		t.Error("registration should succeed after clearing reject")
	}
}

func TestProviderInitialAccuracyOnRegister(t *testing.T) {
	p := New(Config{})
	p.SetAccuracy(sensor.AccuracyMedium)

	h, _ := p.Sensor(sensor.KindRelativeHumidity)
	l := &recordingListener{}
	p.Register(h, l, sensor.RateUI)

	// The current accuracy must arrive before Register returns.
	l.mu.Lock()
	got := append([]sensor.Accuracy(nil), l.accuracy...)
	l.mu.Unlock()
	if len(got) != 1 || got[0] != sensor.AccuracyMedium {
		t.Errorf("accuracy sequence after register = %v, want [Medium]", got)
	}
}

func TestProviderAccuracyBroadcast(t *testing.T) {
	p := New(Config{})
	h, _ := p.Sensor(sensor.KindRelativeHumidity)
	l := &recordingListener{}
	p.Register(h, l, sensor.RateUI)

	p.SetAccuracy(sensor.AccuracyLow)
	p.SetAccuracy(sensor.AccuracyHigh)

	l.mu.Lock()
	got := append([]sensor.Accuracy(nil), l.accuracy...)
	l.mu.Unlock()
	// Initial High from Register, then the two broadcasts.
	want := []sensor.Accuracy{sensor.AccuracyHigh, sensor.AccuracyLow, sensor.AccuracyHigh}
	if len(got) != len(want) {
		t.Fatalf("accuracy sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("accuracy sequence = %v, want %v", got, want)
		}
	}
	if p.Accuracy() != sensor.AccuracyHigh {
		t.Errorf("accuracy = %v, want High", p.Accuracy())
	}
}

func TestGeneratorSampleBounds(t *testing.T) {
	g := NewGenerator(New(Config{}), GeneratorConfig{Base: 95, Amplitude: 20, Jitter: 5})
	for i := 0; i < 200; i++ {
		v := g.sample(time.Duration(i) * time.Second)
		if v < 0 || v > 100 {
			t.Fatalf("sample out of bounds: %v", v)
		}
	}
}
