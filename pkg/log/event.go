package log

import (
	"time"

	"github.com/hygrosense/hygro-go/pkg/sensor"
)

// Event represents one record in a humidity session event trace.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the session the event belongs to (UUID).
	// A fresh ID is minted every time a session arms.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// SensorName is the hardware sensor the session is bound to.
	SensorName string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"` // Session lifecycle
	Sample      *SampleEvent      `cbor:"11,keyasint,omitempty"` // Sensor layer
	Delivery    *DeliveryEvent    `cbor:"12,keyasint,omitempty"` // Subscriber notifications
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"` // Errors at any layer
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerSensor is the hardware boundary (samples, accuracy changes).
	LayerSensor Layer = 0
	// LayerSession is the session state machine.
	LayerSession Layer = 1
	// LayerDelivery is the subscriber fan-out.
	LayerDelivery Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerSensor:
		return "SENSOR"
	case LayerSession:
		return "SESSION"
	case LayerDelivery:
		return "DELIVERY"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a session state change.
	CategoryState Category = 0
	// CategorySample indicates a sensor sample or accuracy change.
	CategorySample Category = 1
	// CategoryDelivery indicates a subscriber notification.
	CategoryDelivery Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategorySample:
		return "SAMPLE"
	case CategoryDelivery:
		return "DELIVERY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures session lifecycle transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty for the first event).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// SampleEvent captures a sensor sample or accuracy report at the
// hardware boundary.
type SampleEvent struct {
	// Value is the reported relative humidity in percent.
	Value float64 `cbor:"1,keyasint"`

	// Accuracy is the accuracy in effect when the sample arrived.
	Accuracy sensor.Accuracy `cbor:"2,keyasint"`

	// Accepted indicates whether the sample entered the session cache.
	Accepted bool `cbor:"3,keyasint"`

	// Reason explains a rejected sample (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// DeliveryEvent captures a notification handed to a subscriber.
type DeliveryEvent struct {
	// SubscriptionID is the subscriber's opaque identifier.
	SubscriptionID string `cbor:"1,keyasint"`

	// Recurring is true for watch subscriptions, false for one-shot reads.
	Recurring bool `cbor:"2,keyasint"`

	// Outcome distinguishes success deliveries from failure deliveries.
	Outcome Outcome `cbor:"3,keyasint"`

	// Value is the delivered humidity value (success only).
	Value *float64 `cbor:"4,keyasint,omitempty"`

	// Code is the delivered error code (failure only).
	Code *int `cbor:"5,keyasint,omitempty"`
}

// Outcome distinguishes delivery results.
type Outcome uint8

const (
	// OutcomeSuccess indicates a reading was delivered.
	OutcomeSuccess Outcome = 0
	// OutcomeFailure indicates a failure was delivered.
	OutcomeFailure Outcome = 1
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Code is the error code (if applicable).
	Code *int `cbor:"2,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
