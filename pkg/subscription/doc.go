// Package subscription implements subscriber bookkeeping for sensor
// sessions.
//
// Callers reach the sensor through two request shapes: a one-shot read
// that is answered exactly once and then discarded, and a recurring
// watch that replays the latest cached reading on a fixed cadence until
// cancelled. Both are represented as Subscription records held in a
// Registry; the service layer drives the Registry from session outcomes.
//
// # One-Shot Requests
//
// A one-shot subscription is pending from creation until the first
// session outcome (reading or failure). The Registry removes it from
// the set before its callback runs, so a racing second outcome can
// never answer it again.
//
// # Recurring Watches
//
// A recurring subscription stays in the set until cancelled or torn
// down by a session failure. Its first answer comes from the session
// outcome that resolves the pending state; afterwards delivery shifts
// to the cadence timer, which only ever replays the cached reading.
//
// # Lifecycle
//
// The Registry never talks to hardware. The service layer starts the
// session when the first subscription arrives and stops it when the
// set drains; the Registry reports emptiness so the service can keep
// the hardware registration reference-counted to the subscriber set.
package subscription
