package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hygrosense/hygro-go/pkg/log"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Write header
	header := []string{"timestamp", "session_id", "layer", "category", "sensor_name", "type", "value", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		// Determine event type and detail columns
		eventType := "unknown"
		value := ""
		detail := ""
		switch {
		case event.StateChange != nil:
			eventType = "state"
			if event.StateChange.OldState != "" {
				detail = fmt.Sprintf("%s -> %s", event.StateChange.OldState, event.StateChange.NewState)
			} else {
				detail = fmt.Sprintf("-> %s", event.StateChange.NewState)
			}
		case event.Sample != nil:
			eventType = "sample"
			value = fmt.Sprintf("%.2f", event.Sample.Value)
			if event.Sample.Accepted {
				detail = "accepted"
			} else if event.Sample.Reason != "" {
				detail = fmt.Sprintf("dropped: %s", event.Sample.Reason)
			} else {
				detail = "dropped"
			}
		case event.Delivery != nil:
			eventType = "delivery"
			if event.Delivery.Value != nil {
				value = fmt.Sprintf("%.2f", *event.Delivery.Value)
			}
			detail = fmt.Sprintf("%s %s", shortenID(event.Delivery.SubscriptionID), event.Delivery.Outcome.String())
		case event.Error != nil:
			eventType = "error"
			detail = event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.Layer.String(),
			event.Category.String(),
			event.SensorName,
			eventType,
			value,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
