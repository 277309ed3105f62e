// Package commands implements the hygro-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/hygrosense/hygro-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Category  *log.Category
	SessionID string
}

// ParseLayerFlag parses a layer string from a command-line flag
// (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "sensor":
		return log.LayerSensor, nil
	case "session":
		return log.LayerSession, nil
	case "delivery":
		return log.LayerDelivery, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be sensor, session, or delivery)", s)
	}
}

// ParseCategoryFlag parses a category string from a command-line flag
// (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "state":
		return log.CategoryState, nil
	case "sample":
		return log.CategorySample, nil
	case "delivery":
		return log.CategoryDelivery, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be state, sample, delivery, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		SessionID: filter.SessionID,
		Layer:     filter.Layer,
		Category:  filter.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	sessID := shortenID(event.SessionID)

	var typeLabel string
	switch {
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Sample != nil:
		typeLabel = "Sample"
	case event.Delivery != nil:
		typeLabel = "Delivery"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [sess:%s] %s %s\n", ts, sessID, event.Layer.String(), typeLabel)

	switch {
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Sample != nil:
		formatSampleDetails(w, event.Sample)
	case event.Delivery != nil:
		formatDeliveryDetails(w, event.Delivery)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of an identifier.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatStateChangeDetails writes state transition details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatSampleDetails writes sample details.
func formatSampleDetails(w io.Writer, sample *log.SampleEvent) {
	fmt.Fprintf(w, "  Value: %.2f%%  Accuracy: %s\n", sample.Value, sample.Accuracy.String())
	if sample.Accepted {
		fmt.Fprintln(w, "  Accepted")
	} else if sample.Reason != "" {
		fmt.Fprintf(w, "  Dropped: %s\n", sample.Reason)
	} else {
		fmt.Fprintln(w, "  Dropped")
	}
}

// formatDeliveryDetails writes subscriber notification details.
func formatDeliveryDetails(w io.Writer, d *log.DeliveryEvent) {
	kind := "one-shot"
	if d.Recurring {
		kind = "watch"
	}
	fmt.Fprintf(w, "  Subscription: %s (%s)\n", shortenID(d.SubscriptionID), kind)

	switch d.Outcome {
	case log.OutcomeSuccess:
		if d.Value != nil {
			fmt.Fprintf(w, "  Delivered: %.2f%%\n", *d.Value)
		} else {
			fmt.Fprintln(w, "  Delivered")
		}
	case log.OutcomeFailure:
		if d.Code != nil {
			fmt.Fprintf(w, "  Failed: code %d\n", *d.Code)
		} else {
			fmt.Fprintln(w, "  Failed")
		}
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *e.Code)
	}
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}
