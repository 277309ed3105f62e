package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes session events to an slog.Logger.
// Useful for development when you want to see events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.SensorName != "" {
		attrs = append(attrs, slog.String("sensor", event.SensorName))
	}

	// Add type-specific attributes
	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Sample != nil:
		attrs = append(attrs,
			slog.Float64("value", event.Sample.Value),
			slog.String("accuracy", event.Sample.Accuracy.String()),
			slog.Bool("accepted", event.Sample.Accepted),
		)
		if event.Sample.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Sample.Reason))
		}
	case event.Delivery != nil:
		attrs = append(attrs,
			slog.String("sub_id", event.Delivery.SubscriptionID),
			slog.Bool("recurring", event.Delivery.Recurring),
			slog.String("outcome", event.Delivery.Outcome.String()),
		)
		if event.Delivery.Value != nil {
			attrs = append(attrs, slog.Float64("value", *event.Delivery.Value))
		}
		if event.Delivery.Code != nil {
			attrs = append(attrs, slog.Int("code", *event.Delivery.Code))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "session", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
