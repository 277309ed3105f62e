package bridge

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hygrosense/hygro-go/pkg/sensor"
	"github.com/hygrosense/hygro-go/pkg/service"
	"github.com/hygrosense/hygro-go/pkg/wire"
)

// Bridge action names.
const (
	ActionGetCurrentReading = "getCurrentReading"
	ActionWatchReading      = "watchReading"
	ActionClearWatch        = "clearWatch"
)

// ResultStatus classifies a Result for the channel owner.
type ResultStatus uint8

const (
	// ResultNoResult acknowledges an action without payload; more
	// results follow on the same channel.
	ResultNoResult ResultStatus = iota

	// ResultOK carries a successful JSON payload.
	ResultOK

	// ResultError carries a failure payload and usually closes the
	// channel.
	ResultError
)

// String returns the status name.
func (s ResultStatus) String() string {
	switch s {
	case ResultNoResult:
		return "NO_RESULT"
	case ResultOK:
		return "OK"
	case ResultError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Result is one message sent back over an action's callback channel.
type Result struct {
	// Status classifies the result.
	Status ResultStatus

	// Payload is the JSON body, nil for NO_RESULT and plain acks.
	Payload json.RawMessage

	// KeepCallback is true while further results will follow on the
	// same channel.
	KeepCallback bool
}

// Sink receives the results of one Execute call. Implementations must
// tolerate being invoked from scheduler and sensor goroutines.
type Sink interface {
	Send(Result)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Result)

// Send implements Sink.
func (f SinkFunc) Send(result Result) { f(result) }

// watchAck acknowledges a new watch with the id used to cancel it.
type watchAck struct {
	WatchID string `json:"watchId"`
}

// clearAck reports whether a clearWatch call removed a known watch.
type clearAck struct {
	Cleared bool `json:"cleared"`
}

// Dispatcher routes bridge actions onto a humidity service.
type Dispatcher struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewDispatcher wires a dispatcher to the given service. The logger may
// be nil.
func NewDispatcher(svc *service.Service, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{svc: svc, logger: logger}
}

// Execute runs one bridge action and reports whether the action name is
// known. Known actions never block: results are delivered through the
// sink, immediately for acknowledgements and synchronous refusals,
// asynchronously for everything driven by the session.
func (d *Dispatcher) Execute(action string, args json.RawMessage, sink Sink) bool {
	switch action {
	case ActionGetCurrentReading:
		d.handleGetCurrentReading(sink)
	case ActionWatchReading:
		d.handleWatchReading(args, sink)
	case ActionClearWatch:
		d.handleClearWatch(args, sink)
	default:
		d.debugLog("unknown bridge action", "action", action)
		return false
	}
	return true
}

// handleGetCurrentReading requests a one-shot reading. The channel is
// acknowledged open with NO_RESULT and answered later with exactly one
// terminal result.
func (d *Dispatcher) handleGetCurrentReading(sink Sink) {
	err := d.svc.GetCurrentReading(
		func(reading sensor.Reading) { d.sendReading(sink, reading, false) },
		func(failure wire.Failure) { d.sendFailure(sink, failure) },
	)
	if err != nil {
		d.sendRefusal(sink, err)
		return
	}

	sink.Send(Result{Status: ResultNoResult, KeepCallback: true})
	d.debugLog("one-shot read dispatched")
}

// handleWatchReading opens a recurring watch. The acknowledgement
// carries the watch id; every delivery afterwards keeps the channel
// open until the watch is cleared or the session fails.
func (d *Dispatcher) handleWatchReading(args json.RawMessage, sink Sink) {
	cadence := decodeFrequency(args)

	id, err := d.svc.WatchReading(
		func(reading sensor.Reading) { d.sendReading(sink, reading, true) },
		func(failure wire.Failure) { d.sendFailure(sink, failure) },
		cadence,
	)
	if err != nil {
		d.sendRefusal(sink, err)
		return
	}

	sink.Send(Result{
		Status:       ResultOK,
		Payload:      marshalPayload(watchAck{WatchID: id}),
		KeepCallback: true,
	})
	d.debugLog("watch dispatched", "watch_id", id, "cadence", cadence.String())
}

// handleClearWatch cancels a watch and answers immediately.
func (d *Dispatcher) handleClearWatch(args json.RawMessage, sink Sink) {
	id := decodeWatchID(args)
	cleared := d.svc.ClearWatch(id)

	sink.Send(Result{Status: ResultOK, Payload: marshalPayload(clearAck{Cleared: cleared})})
	d.debugLog("watch clear dispatched", "watch_id", id, "cleared", cleared)
}

func (d *Dispatcher) sendReading(sink Sink, reading sensor.Reading, keep bool) {
	payload := wire.NewReadingPayload(reading.Value, reading.Timestamp)
	sink.Send(Result{Status: ResultOK, Payload: marshalPayload(payload), KeepCallback: keep})
}

func (d *Dispatcher) sendFailure(sink Sink, failure wire.Failure) {
	sink.Send(Result{Status: ResultError, Payload: marshalPayload(failure)})
}

// sendRefusal reports a synchronous service refusal, such as a closed
// service or an exhausted subscription table, in the failure wire shape.
func (d *Dispatcher) sendRefusal(sink Sink, err error) {
	d.debugLog("action refused", "error", err.Error())
	d.sendFailure(sink, wire.Failure{
		Code:    int(wire.StatusErrorFailedToStart),
		Message: err.Error(),
	})
}

// decodeFrequency extracts a positive "frequencyMs" number from the
// arguments. Absent, non-numeric, or non-positive values yield zero,
// which selects the service's default cadence.
func decodeFrequency(args json.RawMessage) time.Duration {
	freq, ok := decodeOptions(args)["frequencyMs"].(float64)
	if !ok || freq <= 0 {
		return 0
	}
	return time.Duration(freq * float64(time.Millisecond))
}

// decodeWatchID extracts the watch id for clearWatch. Accepted shapes
// are {"id": "..."}, a bare JSON string, and the one-element argument
// array wrapping either.
func decodeWatchID(args json.RawMessage) string {
	if id, ok := decodeOptions(args)["id"].(string); ok {
		return id
	}

	var decoded any
	if err := json.Unmarshal(args, &decoded); err != nil {
		return ""
	}
	for {
		switch v := decoded.(type) {
		case string:
			return v
		case []any:
			if len(v) == 0 {
				return ""
			}
			decoded = v[0]
		default:
			return ""
		}
	}
}

// decodeOptions digs the options object out of the raw arguments.
// Arguments arrive either as the object itself or as an argument array
// wrapping it; anything unreadable decodes as empty options.
func decodeOptions(args json.RawMessage) map[string]any {
	if len(args) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(args, &decoded); err != nil {
		return nil
	}
	for {
		switch v := decoded.(type) {
		case map[string]any:
			return v
		case []any:
			if len(v) == 0 {
				return nil
			}
			decoded = v[0]
		default:
			return nil
		}
	}
}

// marshalPayload encodes a wire shape; the payload structs in this
// package cannot fail to marshal.
func marshalPayload(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// debugLog logs a debug message if logging is enabled.
func (d *Dispatcher) debugLog(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
