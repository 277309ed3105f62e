// Package wire defines the JSON boundary types shared between the
// session layer and its consumers (bridge dispatcher, publishers,
// event tooling).
//
// Two payload shapes cross the boundary:
//   - ReadingPayload: a successful sample, {"value": ..., "timestampMs": ...}
//   - Failure: a terminal error, {"code": ..., "message": ...}
//
// Field names and the numeric status codes are a compatibility contract
// with existing web clients and must not change.
package wire
