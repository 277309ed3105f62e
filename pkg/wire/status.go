package wire

// Status represents the lifecycle state of a humidity session. The
// numeric values are part of the client contract: StatusErrorFailedToStart
// doubles as the error code carried in Failure payloads.
type Status uint8

const (
	// StatusStopped indicates no sensor is registered and no clients
	// are subscribed.
	StatusStopped Status = 0

	// StatusStarting indicates the sensor is registered but has not
	// delivered a sample yet.
	StatusStarting Status = 1

	// StatusRunning indicates the sensor has delivered at least one
	// sample since the session started.
	StatusRunning Status = 2

	// StatusErrorFailedToStart indicates sensor registration failed or
	// no matching sensor exists.
	StatusErrorFailedToStart Status = 3
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "STOPPED"
	case StatusStarting:
		return "STARTING"
	case StatusRunning:
		return "RUNNING"
	case StatusErrorFailedToStart:
		return "ERROR_FAILED_TO_START"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true for the four defined session states.
func (s Status) IsValid() bool {
	return s <= StatusErrorFailedToStart
}

// IsActive returns true while a sensor registration is held, which is
// exactly the Starting and Running states.
func (s Status) IsActive() bool {
	return s == StatusStarting || s == StatusRunning
}

// IsError returns true if the status indicates a failed session.
func (s Status) IsError() bool {
	return s == StatusErrorFailedToStart
}
