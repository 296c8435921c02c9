// Package protocol defines the shared data model for live monitoring and
// recorded playback, and the codec that converts raw websocket frames into
// typed messages.
//
// The codec isolates the rest of the system from malformed input: a frame
// that fails to parse becomes a local error message, never a connection
// failure, and unknown frame types decode to a no-op message so newer servers
// remain compatible with older clients.
package protocol
