// Package session implements the relative-humidity sensor session state
// machine: a Controller that owns the single hardware registration, the
// latest-reading cache, and the startup timeout, and broadcasts outcomes
// to whoever is listening.
//
// # State Model
//
//	Stopped ----Start----> Starting ----sample----> Running
//	Starting --no sensor / rejected registration--> ErrorFailedToStart
//	Starting | Running ----Stop----> Stopped
//	ErrorFailedToStart ----Start----> Starting (retry)
//
// While Starting, a 2 second timeout guarantees that pending requests
// are answered from the cache within a bounded time even if hardware
// never reports. The timeout answers but does not change state; a later
// sample still flips the session to Running.
//
// # Delivery Gating
//
// Samples are cached and broadcast only while the recorded accuracy is
// medium or better. Low-accuracy samples still flip the session to
// Running but are otherwise dropped.
//
// The subscription fan-out in pkg/service drives a Controller's
// lifecycle from subscriber arrivals and departures; the Controller
// itself knows nothing about subscriptions.
package session
