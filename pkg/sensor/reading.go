package sensor

import (
	"fmt"
	"time"
)

// Reading is a single timestamped sample. Readings are immutable values:
// a newer sample supersedes an older Reading, it never mutates one.
// For relative-humidity sensors Value is percent relative humidity.
type Reading struct {
	Value     float64
	Timestamp time.Time
}

// IsZero reports whether the reading is the zero value, i.e. no sample
// has ever been taken.
func (r Reading) IsZero() bool {
	return r.Value == 0 && r.Timestamp.IsZero()
}

// String returns a compact representation for logs and consoles.
func (r Reading) String() string {
	return fmt.Sprintf("%.2f%% @ %s", r.Value, r.Timestamp.UTC().Format(time.RFC3339Nano))
}
