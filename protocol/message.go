package protocol

// MessageType tags the wire message union.
type MessageType string

const (
	TypeInitialState MessageType = "initial_state"
	TypeLabUpdate    MessageType = "lab_update"
	TypePing         MessageType = "ping"
	TypePong         MessageType = "pong"
	TypeError        MessageType = "error"
	TypeLog          MessageType = "log"

	// TypeUnknown marks a frame whose type the codec does not recognize.
	// Consumers treat it as a no-op for forward compatibility.
	TypeUnknown MessageType = "unknown"
)

// Message is one decoded inbound frame. Exactly one payload field is set,
// matching Type. Messages are consumed once and never mutated.
type Message struct {
	Type MessageType

	Snapshot *LabSnapshot // TypeInitialState
	Update   *LabUpdate   // TypeLabUpdate
	Line     string       // TypeLog
	ErrText  string       // TypeError

	// Local is true when the message was synthesized by the codec itself
	// (malformed frame) rather than received from the peer.
	Local bool
}
