// Package interactive provides the interactive command-line interface
// for the humidity device harness.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/sensor/sim"
	"github.com/hygrosense/hygro-go/pkg/service"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

// Console handles interactive mode for hygro-device.
type Console struct {
	svc      *service.Service
	provider *sim.Provider
	gen      sim.GeneratorConfig
	rl       *readline.Instance

	// Generator control
	genCtx     context.Context
	genCancel  context.CancelFunc
	genRunning bool

	// Display tags for watch delivery lines
	watchSeq int
}

// New creates a new interactive console around the service and its
// simulated sensor.
func New(svc *service.Service, provider *sim.Provider, gen sim.GeneratorConfig) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hygro> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &Console{
		svc:      svc,
		provider: provider,
		gen:      gen,
		rl:       rl,
	}

	// Show session activity between prompts
	svc.OnEvent(c.handleEvent)

	return c, nil
}

// Stdout returns a writer that properly coordinates with the readline
// prompt. Use this for log output to avoid clobbering the input line.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline
// prompt.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status", "st":
			c.cmdStatus()

		case "get", "g":
			c.cmdGet()

		case "watch":
			c.cmdWatch(args)

		case "unwatch":
			c.cmdUnwatch(args)

		case "watches", "w":
			c.cmdWatches()

		case "set":
			c.cmdSet(args)

		case "accuracy", "acc":
			c.cmdAccuracy(args)

		case "sensor":
			c.cmdSensor(args)

		case "reject":
			c.cmdReject(args)

		case "sim":
			c.cmdSim(args)

		case "reset":
			c.cmdReset()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Humidity Device Commands:
  Session:
    get                - Request the current humidity reading
    watch [interval]   - Start a recurring watch (interval in ms or Go duration)
    unwatch <id>       - Cancel a watch (partial IDs accepted)
    watches            - List active subscriptions
    status             - Show session status
    reset              - Drop the running session without notifying watchers

  Sensor Simulation:
    set <value>        - Deliver a humidity sample (percent)
    accuracy <level>   - Set accuracy: unreliable, low, medium, high
    sensor on|off      - Attach or detach the simulated sensor
    reject on|off      - Make registration attempts fail
    sim start|stop     - Run the sine-wave signal generator

  General:
    help               - Show this help
    quit               - Exit device`)
}

// handleEvent prints session activity between prompts.
func (c *Console) handleEvent(event service.Event) {
	out := c.rl.Stdout()
	switch event.Type {
	case service.EventStateChanged:
		fmt.Fprintf(out, "[EVENT] Session state: %s -> %s\n", event.OldState, event.NewState)
	case service.EventReading:
		fmt.Fprintf(out, "[EVENT] Reading: %.2f%%\n", event.Reading.Value)
	case service.EventSessionFailed:
		fmt.Fprintf(out, "[EVENT] Session failed: %s (code %d)\n", event.Failure.Message, event.Failure.Code)
	case service.EventSubscribed:
		fmt.Fprintf(out, "[EVENT] Subscribed: %s (%s)\n", shortID(event.SubscriptionID), event.Kind)
	case service.EventUnsubscribed:
		fmt.Fprintf(out, "[EVENT] Unsubscribed: %s\n", shortID(event.SubscriptionID))
	}
}

// cmdStatus shows the session status.
func (c *Console) cmdStatus() {
	out := c.rl.Stdout()

	fmt.Fprintln(out, "\nSession Status")
	fmt.Fprintln(out, "-------------------------------------------")
	fmt.Fprintf(out, "  Sensor:        %s\n", c.svc.SensorName())
	fmt.Fprintf(out, "  State:         %s\n", c.svc.State())
	fmt.Fprintf(out, "  Accuracy:      %s\n", c.svc.Accuracy())

	if reading, ok := c.svc.LastReading(); ok {
		age := time.Since(reading.Timestamp).Round(100 * time.Millisecond)
		fmt.Fprintf(out, "  Last reading:  %.2f%% (%s ago)\n", reading.Value, age)
	} else {
		fmt.Fprintln(out, "  Last reading:  none")
	}

	if id := c.svc.SessionID(); id != "" {
		fmt.Fprintf(out, "  Session ID:    %s\n", shortID(id))
	}
	fmt.Fprintf(out, "  Subscriptions: %d\n", c.svc.SubscriptionCount())

	genStatus := "stopped"
	if c.genRunning {
		genStatus = "running"
	}
	fmt.Fprintf(out, "  Generator:     %s\n", genStatus)
	fmt.Fprintln(out)
}

// cmdGet requests a one-shot reading. The answer arrives asynchronously
// once the sensor reports or the startup timeout fires.
func (c *Console) cmdGet() {
	err := c.svc.GetCurrentReading(
		func(r sensor.Reading) {
			fmt.Fprintf(c.rl.Stdout(), "Reading: %.2f%% at %s\n", r.Value, r.Timestamp.Format("15:04:05.000"))
		},
		func(f wire.Failure) {
			fmt.Fprintf(c.rl.Stdout(), "Read failed: %s (code %d)\n", f.Message, f.Code)
		},
	)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
	}
}

// cmdWatch starts a recurring watch.
func (c *Console) cmdWatch(args []string) {
	var cadence time.Duration
	if len(args) > 0 {
		d, err := parseInterval(args[0])
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Invalid interval: %v\n", err)
			return
		}
		cadence = d
	}

	// Bind the display tag before the watch can deliver.
	c.watchSeq++
	tag := fmt.Sprintf("w%d", c.watchSeq)

	id, err := c.svc.WatchReading(
		func(r sensor.Reading) {
			fmt.Fprintf(c.rl.Stdout(), "[%s] %.2f%%\n", tag, r.Value)
		},
		func(f wire.Failure) {
			fmt.Fprintf(c.rl.Stdout(), "[%s] failed: %s (code %d)\n", tag, f.Message, f.Code)
		},
		cadence,
	)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "Watch %s started: %s\n", tag, id)
}

// cmdUnwatch cancels a watch by ID, accepting unique partial matches.
func (c *Console) cmdUnwatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: unwatch <id>")
		fmt.Fprintln(c.rl.Stdout(), "  Use 'watches' to list watch IDs")
		return
	}

	id := args[0]

	// Try partial match against the active set
	if !c.svc.ClearWatch(id) {
		for _, sub := range c.svc.Subscriptions() {
			if strings.Contains(sub.ID, id) {
				id = sub.ID
				if c.svc.ClearWatch(id) {
					fmt.Fprintf(c.rl.Stdout(), "Watch removed: %s\n", shortID(id))
				}
				return
			}
		}
		fmt.Fprintf(c.rl.Stdout(), "Watch not found: %s\n", args[0])
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "Watch removed: %s\n", shortID(id))
}

// cmdWatches lists active subscriptions.
func (c *Console) cmdWatches() {
	out := c.rl.Stdout()

	subs := c.svc.Subscriptions()
	if len(subs) == 0 {
		fmt.Fprintln(out, "No active subscriptions")
		return
	}

	fmt.Fprintf(out, "\nActive Subscriptions (%d):\n", len(subs))
	fmt.Fprintln(out, "-------------------------------------------")
	for _, sub := range subs {
		answered := "pending"
		if sub.IsAnswered() {
			answered = "answered"
		}
		fmt.Fprintf(out, "  %s  %-9s cadence=%-8s %s\n", sub.ID, sub.Kind, sub.Cadence, answered)
	}
	fmt.Fprintln(out)
}

// cmdSet delivers a humidity sample from the simulated sensor.
func (c *Console) cmdSet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: set <value>")
		fmt.Fprintln(c.rl.Stdout(), "  Example: set 47.5")
		return
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid value: %v\n", err)
		return
	}
	if value < 0 || value > 100 {
		fmt.Fprintf(c.rl.Stdout(), "Warning: %.2f is outside 0..100\n", value)
	}

	c.provider.DeliverValue(value)
	fmt.Fprintf(c.rl.Stdout(), "Humidity set to %.2f%%\n", value)
}

// cmdAccuracy sets the simulated sensor accuracy.
func (c *Console) cmdAccuracy(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(c.rl.Stdout(), "Current accuracy: %s\n", c.provider.Accuracy())
		fmt.Fprintln(c.rl.Stdout(), "Usage: accuracy unreliable|low|medium|high")
		return
	}

	acc, err := sensor.ParseAccuracy(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
		return
	}

	c.provider.SetAccuracy(acc)
	fmt.Fprintf(c.rl.Stdout(), "Accuracy set to %s\n", acc)
}

// cmdSensor attaches or detaches the simulated sensor.
func (c *Console) cmdSensor(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: sensor on|off")
		return
	}

	switch strings.ToLower(args[0]) {
	case "on":
		c.provider.SetPresent(true)
		fmt.Fprintln(c.rl.Stdout(), "Sensor attached")
	case "off":
		c.provider.SetPresent(false)
		fmt.Fprintln(c.rl.Stdout(), "Sensor detached (next session start will fail)")
	default:
		fmt.Fprintln(c.rl.Stdout(), "Usage: sensor on|off")
	}
}

// cmdReject toggles registration failures.
func (c *Console) cmdReject(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: reject on|off")
		return
	}

	switch strings.ToLower(args[0]) {
	case "on":
		c.provider.SetReject(true)
		fmt.Fprintln(c.rl.Stdout(), "Registration attempts will be rejected")
	case "off":
		c.provider.SetReject(false)
		fmt.Fprintln(c.rl.Stdout(), "Registration attempts will succeed")
	default:
		fmt.Fprintln(c.rl.Stdout(), "Usage: reject on|off")
	}
}

// cmdSim starts or stops the signal generator.
func (c *Console) cmdSim(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: sim start|stop")
		return
	}

	switch strings.ToLower(args[0]) {
	case "start":
		if c.genRunning {
			fmt.Fprintln(c.rl.Stdout(), "Generator already running")
			return
		}
		c.genCtx, c.genCancel = context.WithCancel(context.Background())
		c.genRunning = true
		gen := sim.NewGenerator(c.provider, c.gen)
		go gen.Run(c.genCtx)
		fmt.Fprintln(c.rl.Stdout(), "Generator started")

	case "stop":
		if !c.genRunning {
			fmt.Fprintln(c.rl.Stdout(), "Generator not running")
			return
		}
		c.genCancel()
		c.genRunning = false
		fmt.Fprintln(c.rl.Stdout(), "Generator stopped")

	default:
		fmt.Fprintln(c.rl.Stdout(), "Usage: sim start|stop")
	}
}

// cmdReset drops the running session.
func (c *Console) cmdReset() {
	c.svc.Reset()
	fmt.Fprintln(c.rl.Stdout(), "Session reset")
}

// parseInterval reads a watch interval given as milliseconds or a Go
// duration string.
func parseInterval(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("interval must not be negative")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("want milliseconds or a duration like 500ms: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("interval must not be negative")
	}
	return d, nil
}

// shortID returns the first 8 characters of an identifier.
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
