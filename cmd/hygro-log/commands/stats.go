package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hygrosense/hygro-go/pkg/log"
)

// Stats holds aggregate statistics computed from an event log.
type Stats struct {
	TotalEvents      int
	EventsByLayer    map[string]int
	EventsByCategory map[string]int

	SamplesAccepted  int
	SamplesDropped   int
	Deliveries       int
	DeliveryFailures int
	Errors           int

	Sessions map[string]*SessionStats

	TimeStart time.Time
	TimeEnd   time.Time
}

// SessionStats holds per-session statistics.
type SessionStats struct {
	SessionID  string
	SensorName string
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	Samples    int
	Deliveries int
	FinalState string
}

// NewStats creates an empty statistics accumulator.
func NewStats() *Stats {
	return &Stats{
		EventsByLayer:    make(map[string]int),
		EventsByCategory: make(map[string]int),
		Sessions:         make(map[string]*SessionStats),
	}
}

// Add incorporates one event into the statistics.
func (s *Stats) Add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer.String()]++
	s.EventsByCategory[event.Category.String()]++

	if s.TimeStart.IsZero() || event.Timestamp.Before(s.TimeStart) {
		s.TimeStart = event.Timestamp
	}
	if event.Timestamp.After(s.TimeEnd) {
		s.TimeEnd = event.Timestamp
	}

	if event.SessionID != "" {
		sess, ok := s.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				SessionID: event.SessionID,
				FirstSeen: event.Timestamp,
			}
			s.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if event.SensorName != "" {
			sess.SensorName = event.SensorName
		}
		if event.Sample != nil {
			sess.Samples++
		}
		if event.Delivery != nil {
			sess.Deliveries++
		}
		if event.StateChange != nil {
			sess.FinalState = event.StateChange.NewState
		}
	}

	switch {
	case event.Sample != nil:
		if event.Sample.Accepted {
			s.SamplesAccepted++
		} else {
			s.SamplesDropped++
		}
	case event.Delivery != nil:
		if event.Delivery.Outcome == log.OutcomeFailure {
			s.DeliveryFailures++
		} else {
			s.Deliveries++
		}
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats executes the stats command.
func RunStats(path string, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := NewStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.Add(event)
	}

	printStats(output, stats)
	return nil
}

// printStats writes a formatted statistics report.
func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Humidity Session Log Statistics ===")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if !stats.TimeStart.IsZero() {
		fmt.Fprintf(w, "Time range:   %s to %s\n",
			stats.TimeStart.UTC().Format(time.RFC3339),
			stats.TimeEnd.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by layer:")
	for _, layer := range []string{"SENSOR", "SESSION", "DELIVERY"} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer, count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by category:")
	for _, category := range []string{"STATE", "SAMPLE", "DELIVERY", "ERROR"} {
		if count := stats.EventsByCategory[category]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", category, count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Samples:    %d accepted, %d dropped\n", stats.SamplesAccepted, stats.SamplesDropped)
	fmt.Fprintf(w, "Deliveries: %d delivered, %d failed\n", stats.Deliveries, stats.DeliveryFailures)
	fmt.Fprintf(w, "Errors:     %d\n", stats.Errors)
	fmt.Fprintln(w)

	if len(stats.Sessions) > 0 {
		fmt.Fprintf(w, "Sessions (%d):\n", len(stats.Sessions))
		sessions := make([]*SessionStats, 0, len(stats.Sessions))
		for _, sess := range stats.Sessions {
			sessions = append(sessions, sess)
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].FirstSeen.Before(sessions[j].FirstSeen)
		})
		for _, sess := range sessions {
			sensorName := sess.SensorName
			if sensorName == "" {
				sensorName = "-"
			}
			finalState := sess.FinalState
			if finalState == "" {
				finalState = "-"
			}
			fmt.Fprintf(w, "  %s  %-16s events=%-4d samples=%-4d deliveries=%-4d final=%s\n",
				shortenID(sess.SessionID), sensorName, sess.Events, sess.Samples, sess.Deliveries, finalState)
		}
	}
}
