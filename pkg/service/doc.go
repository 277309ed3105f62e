// Package service provides high-level orchestration for humidity sensor
// sessions.
//
// The Service ties the lower-level components into one caller-facing
// API: the session controller owns the hardware registration and the
// reading cache, the subscription registry tracks who is waiting, and
// the Service maps between them so that the session runs exactly while
// subscribers exist.
//
// # Requests
//
// Callers reach the sensor through two request shapes:
//
//	svc, err := service.New(service.Config{Provider: provider})
//
//	// One-shot: answered exactly once, by the next reading, the
//	// startup fallback, or a failure.
//	svc.GetCurrentReading(onSuccess, onFailure)
//
//	// Recurring: replays the latest cached reading on a cadence
//	// until cancelled.
//	id, _ := svc.WatchReading(onSuccess, onFailure, 10*time.Second)
//	svc.ClearWatch(id)
//
// Neither request blocks: results always arrive through the callbacks,
// which fire on scheduler and sensor goroutines.
//
// # Session Lifecycle
//
// The first subscriber starts the session; answering or cancelling the
// last one stops it and releases the hardware registration. A session
// failure tears down every subscription with its onFailure callback;
// the next request starts a fresh attempt.
//
// # Event Callbacks
//
// The Service emits events for state changes, readings, failures, and
// subscription churn. Handlers run on scheduler goroutines and may call
// back into the Service:
//
//	svc.OnEvent(func(e service.Event) {
//		fmt.Println(e.Type)
//	})
package service
