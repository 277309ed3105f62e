package wire

import (
	"fmt"
	"time"
)

// ReadingPayload is the JSON shape of a successful sample delivery.
//
//	{"value": 47.5, "timestampMs": 1756080000000}
//
// Value is relative humidity in percent. TimestampMS is milliseconds
// since the Unix epoch.
type ReadingPayload struct {
	Value       float64 `json:"value"`
	TimestampMS int64   `json:"timestampMs"`
}

// NewReadingPayload builds the wire shape for a sample, truncating the
// timestamp to millisecond precision.
func NewReadingPayload(value float64, ts time.Time) ReadingPayload {
	return ReadingPayload{Value: value, TimestampMS: ts.UnixMilli()}
}

// Time returns the sample timestamp as a time.Time.
func (p ReadingPayload) Time() time.Time {
	return time.UnixMilli(p.TimestampMS)
}

// Failure is the JSON shape of a terminal session error.
//
//	{"code": 3, "message": "Device sensor returned an error."}
//
// Code always equals the numeric value of StatusErrorFailedToStart;
// clients branch on the message.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface so a Failure can travel through
// error returns without losing its wire shape.
func (f Failure) Error() string {
	return fmt.Sprintf("humidity session failure %d: %s", f.Code, f.Message)
}

// Canonical failures raised by the session controller. The message
// strings are matched verbatim by existing web clients.
var (
	// FailureNoSensor reports that the device has no matching sensor.
	FailureNoSensor = Failure{
		Code:    int(StatusErrorFailedToStart),
		Message: "No sensors found to register relative humidity listening to.",
	}

	// FailureRegistration reports that the sensor stack rejected the
	// listener registration.
	FailureRegistration = Failure{
		Code:    int(StatusErrorFailedToStart),
		Message: "Device sensor returned an error.",
	}
)
