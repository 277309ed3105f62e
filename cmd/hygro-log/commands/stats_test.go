package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hygrosense/hygro-go/pkg/log"
	"github.com/hygrosense/hygro-go/pkg/sensor"
)

func TestStatsCountsByLayer(t *testing.T) {
	stats := NewStats()
	events := []log.Event{
		{Layer: log.LayerSensor, Category: log.CategorySample},
		{Layer: log.LayerSensor, Category: log.CategorySample},
		{Layer: log.LayerSession, Category: log.CategoryState},
		{Layer: log.LayerDelivery, Category: log.CategoryDelivery},
	}

	for _, e := range events {
		stats.Add(e)
	}

	if stats.EventsByLayer["SENSOR"] != 2 {
		t.Errorf("expected 2 sensor events, got %d", stats.EventsByLayer["SENSOR"])
	}
	if stats.EventsByLayer["SESSION"] != 1 {
		t.Errorf("expected 1 session event, got %d", stats.EventsByLayer["SESSION"])
	}
	if stats.EventsByLayer["DELIVERY"] != 1 {
		t.Errorf("expected 1 delivery event, got %d", stats.EventsByLayer["DELIVERY"])
	}
}

func TestStatsCountsByCategory(t *testing.T) {
	stats := NewStats()
	events := []log.Event{
		{Category: log.CategoryState},
		{Category: log.CategorySample},
		{Category: log.CategorySample},
		{Category: log.CategoryDelivery},
		{Category: log.CategoryError},
	}

	for _, e := range events {
		stats.Add(e)
	}

	if stats.EventsByCategory["STATE"] != 1 {
		t.Errorf("expected 1 state event, got %d", stats.EventsByCategory["STATE"])
	}
	if stats.EventsByCategory["SAMPLE"] != 2 {
		t.Errorf("expected 2 sample events, got %d", stats.EventsByCategory["SAMPLE"])
	}
	if stats.EventsByCategory["ERROR"] != 1 {
		t.Errorf("expected 1 error event, got %d", stats.EventsByCategory["ERROR"])
	}
}

func TestStatsSampleOutcomes(t *testing.T) {
	stats := NewStats()
	events := []log.Event{
		{Category: log.CategorySample, Sample: &log.SampleEvent{Value: 40, Accepted: true}},
		{Category: log.CategorySample, Sample: &log.SampleEvent{Value: 41, Accepted: true}},
		{Category: log.CategorySample, Sample: &log.SampleEvent{Value: 42, Accepted: false, Reason: "unreliable accuracy"}},
	}

	for _, e := range events {
		stats.Add(e)
	}

	if stats.SamplesAccepted != 2 {
		t.Errorf("expected 2 accepted samples, got %d", stats.SamplesAccepted)
	}
	if stats.SamplesDropped != 1 {
		t.Errorf("expected 1 dropped sample, got %d", stats.SamplesDropped)
	}
}

func TestStatsDeliveryOutcomes(t *testing.T) {
	stats := NewStats()
	value := 40.0
	code := 3
	events := []log.Event{
		{Category: log.CategoryDelivery, Delivery: &log.DeliveryEvent{SubscriptionID: "s1", Outcome: log.OutcomeSuccess, Value: &value}},
		{Category: log.CategoryDelivery, Delivery: &log.DeliveryEvent{SubscriptionID: "s2", Outcome: log.OutcomeFailure, Code: &code}},
	}

	for _, e := range events {
		stats.Add(e)
	}

	if stats.Deliveries != 1 {
		t.Errorf("expected 1 delivery, got %d", stats.Deliveries)
	}
	if stats.DeliveryFailures != 1 {
		t.Errorf("expected 1 delivery failure, got %d", stats.DeliveryFailures)
	}
}

func TestStatsSessions(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	stats := NewStats()
	events := []log.Event{
		{
			Timestamp:   base,
			SessionID:   "sess-1",
			SensorName:  "sht40",
			Layer:       log.LayerSession,
			Category:    log.CategoryState,
			StateChange: &log.StateChangeEvent{NewState: "STARTING"},
		},
		{
			Timestamp: base.Add(time.Second),
			SessionID: "sess-1",
			Layer:     log.LayerSensor,
			Category:  log.CategorySample,
			Sample:    &log.SampleEvent{Value: 40, Accuracy: sensor.AccuracyHigh, Accepted: true},
		},
		{
			Timestamp:   base.Add(2 * time.Second),
			SessionID:   "sess-1",
			Layer:       log.LayerSession,
			Category:    log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "RUNNING", NewState: "STOPPED"},
		},
		{
			Timestamp:   base.Add(3 * time.Second),
			SessionID:   "sess-2",
			Layer:       log.LayerSession,
			Category:    log.CategoryState,
			StateChange: &log.StateChangeEvent{NewState: "STARTING"},
		},
	}

	for _, e := range events {
		stats.Add(e)
	}

	if len(stats.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(stats.Sessions))
	}

	sess1 := stats.Sessions["sess-1"]
	if sess1 == nil {
		t.Fatal("expected sess-1 to be tracked")
	}
	if sess1.Events != 3 {
		t.Errorf("expected 3 events for sess-1, got %d", sess1.Events)
	}
	if sess1.Samples != 1 {
		t.Errorf("expected 1 sample for sess-1, got %d", sess1.Samples)
	}
	if sess1.SensorName != "sht40" {
		t.Errorf("expected sensor name sht40, got %s", sess1.SensorName)
	}
	if sess1.FinalState != "STOPPED" {
		t.Errorf("expected final state STOPPED, got %s", sess1.FinalState)
	}
	if !sess1.FirstSeen.Equal(base) {
		t.Errorf("expected first seen %v, got %v", base, sess1.FirstSeen)
	}
	if !sess1.LastSeen.Equal(base.Add(2 * time.Second)) {
		t.Errorf("expected last seen %v, got %v", base.Add(2*time.Second), sess1.LastSeen)
	}
}

func TestStatsTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	stats := NewStats()
	events := []log.Event{
		{Timestamp: base.Add(time.Minute), Category: log.CategoryState},
		{Timestamp: base, Category: log.CategoryState},
		{Timestamp: base.Add(2 * time.Minute), Category: log.CategoryState},
	}

	for _, e := range events {
		stats.Add(e)
	}

	if !stats.TimeStart.Equal(base) {
		t.Errorf("expected start %v, got %v", base, stats.TimeStart)
	}
	if !stats.TimeEnd.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("expected end %v, got %v", base.Add(2*time.Minute), stats.TimeEnd)
	}
}

func TestRunStatsOutput(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:   base,
			SessionID:   "61af23c1-9f2e-4c70-b1d4-58e0a3b6f210",
			SensorName:  "sim-humidity-0",
			Layer:       log.LayerSession,
			Category:    log.CategoryState,
			StateChange: &log.StateChangeEvent{NewState: "STARTING"},
		},
		{
			Timestamp:  base.Add(time.Second),
			SessionID:  "61af23c1-9f2e-4c70-b1d4-58e0a3b6f210",
			SensorName: "sim-humidity-0",
			Layer:      log.LayerSensor,
			Category:   log.CategorySample,
			Sample:     &log.SampleEvent{Value: 44.5, Accuracy: sensor.AccuracyHigh, Accepted: true},
		},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "=== Humidity Session Log Statistics ===") {
		t.Errorf("expected header, got: %s", output)
	}
	if !strings.Contains(output, "Total events: 2") {
		t.Errorf("expected total, got: %s", output)
	}
	if !strings.Contains(output, "Samples:    1 accepted, 0 dropped") {
		t.Errorf("expected sample summary, got: %s", output)
	}
	if !strings.Contains(output, "Sessions (1):") {
		t.Errorf("expected session count, got: %s", output)
	}
	if !strings.Contains(output, "61af23c1") {
		t.Errorf("expected shortened session ID, got: %s", output)
	}
	if !strings.Contains(output, "sim-humidity-0") {
		t.Errorf("expected sensor name, got: %s", output)
	}
}
