// Package bridge exposes the humidity service through an exec-style
// action dispatcher modeled on a scripting-to-native call bridge.
//
// Callers invoke Execute with an action name, raw JSON arguments, and a
// Sink. Execute reports whether the action is known; every outcome,
// immediate or asynchronous, flows back through the Sink as a Result
// carrying a status, an optional JSON payload, and a keep-callback flag
// that tells the channel owner whether more results will follow.
//
// # Actions
//
//	getCurrentReading        one-shot read; acknowledged with NO_RESULT,
//	                         answered later with one OK or ERROR result
//	watchReading             recurring watch; acknowledged with an OK
//	                         result carrying {"watchId": ...}, followed
//	                         by OK results per delivery until cleared
//	                         or an ERROR result closes the channel
//	clearWatch               cancels a watch; answers immediately with
//	                         {"cleared": true|false}
//
// Argument decoding is lenient: options arrive as a JSON object or as a
// one-element argument array wrapping it, and anything unreadable falls
// back to defaults rather than failing the call.
package bridge
