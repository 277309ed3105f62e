package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hygrosense/hygro-go/pkg/log"
	"github.com/hygrosense/hygro-go/pkg/sensor"
)

// createTestLogFile writes events to a temporary log file and returns its path.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.hlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	return path
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp: ts,
			SessionID: "sess-1",
			Layer:     log.LayerSession,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				OldState: "STOPPED",
				NewState: "STARTING",
			},
		},
		{
			Timestamp:  ts.Add(time.Second),
			SessionID:  "sess-1",
			Layer:      log.LayerSensor,
			Category:   log.CategorySample,
			SensorName: "sht40",
			Sample: &log.SampleEvent{
				Value:    47.5,
				Accuracy: sensor.AccuracyHigh,
				Accepted: true,
			},
		},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	// Each line must be valid JSON
	for i, line := range lines {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
		if decoded["SessionID"] != "sess-1" {
			t.Errorf("line %d: expected SessionID sess-1, got %v", i, decoded["SessionID"])
		}
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:  ts,
			SessionID:  "sess-1",
			Layer:      log.LayerSensor,
			Category:   log.CategorySample,
			SensorName: "sht40",
			Sample: &log.SampleEvent{
				Value:    47.5,
				Accuracy: sensor.AccuracyHigh,
				Accepted: true,
			},
		},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}

	if rows[0][0] != "timestamp" || rows[0][1] != "session_id" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	row := rows[1]
	if row[1] != "sess-1" {
		t.Errorf("expected session_id sess-1, got %s", row[1])
	}
	if row[2] != "SENSOR" {
		t.Errorf("expected layer SENSOR, got %s", row[2])
	}
	if row[4] != "sht40" {
		t.Errorf("expected sensor_name sht40, got %s", row[4])
	}
	if row[5] != "sample" {
		t.Errorf("expected type sample, got %s", row[5])
	}
	if row[6] != "47.50" {
		t.Errorf("expected value 47.50, got %s", row[6])
	}
	if row[7] != "accepted" {
		t.Errorf("expected detail accepted, got %s", row[7])
	}
}

func TestExportWritesToStdout(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp: ts,
			SessionID: "sess-1",
			Layer:     log.LayerSession,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				NewState: "STARTING",
			},
		},
	}

	path := createTestLogFile(t, events)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunExport(path, "jsonl", "") // empty output means stdout

	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if buf.Len() == 0 {
		t.Error("expected output to stdout")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp: ts,
			SessionID: "sess-1",
			Layer:     log.LayerSession,
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				NewState: "STARTING",
			},
		},
	}

	path := createTestLogFile(t, events)

	err := RunExport(path, "xml", "")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("unexpected error: %v", err)
	}
}
