package sim

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// GeneratorConfig configures the simulated humidity signal. Zero fields
// get defaults.
type GeneratorConfig struct {
	// Interval between deliveries.
	Interval time.Duration

	// Base is the midline of the signal in percent relative humidity.
	Base float64

	// Amplitude is the sinusoidal swing around the base.
	Amplitude float64

	// Period of one full sine cycle.
	Period time.Duration

	// Jitter is the uniform noise bound added to each sample.
	Jitter float64
}

func (c *GeneratorConfig) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.Base == 0 {
		c.Base = 45
	}
	if c.Amplitude == 0 {
		c.Amplitude = 15
	}
	if c.Period <= 0 {
		c.Period = 10 * time.Minute
	}
	if c.Jitter == 0 {
		c.Jitter = 0.8
	}
}

// Generator drives a Provider with a slowly drifting humidity signal:
// a sine around a baseline plus jitter, clamped to 0..100.
type Generator struct {
	provider *Provider
	cfg      GeneratorConfig
}

// NewGenerator creates a Generator that delivers through p.
func NewGenerator(p *Provider, cfg GeneratorConfig) *Generator {
	cfg.applyDefaults()
	return &Generator{provider: p, cfg: cfg}
}

// Run delivers samples at the configured interval until ctx is cancelled.
func (g *Generator) Run(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.Interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			g.provider.DeliverValue(g.sample(now.Sub(start)))
		}
	}
}

// sample computes the signal value at the given elapsed time.
func (g *Generator) sample(elapsed time.Duration) float64 {
	phase := 2 * math.Pi * float64(elapsed) / float64(g.cfg.Period)
	v := g.cfg.Base + g.cfg.Amplitude*math.Sin(phase)
	v += (rand.Float64()*2 - 1) * g.cfg.Jitter
	return math.Min(100, math.Max(0, v))
}
