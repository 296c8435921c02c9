package protocol

import (
	"encoding/json"
	"fmt"
)

// pingFrame is the keepalive probe sent while a connection is open.
var pingFrame = []byte(`{"type":"ping"}`)

// EncodePing returns the outbound keepalive frame.
func EncodePing() []byte {
	return pingFrame
}

// Decode converts a raw frame into a typed Message. It never fails: a frame
// that cannot be parsed or that is missing required fields decodes to a local
// TypeError message, and an unrecognized type decodes to TypeUnknown.
func Decode(data []byte) Message {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return localError(fmt.Sprintf("malformed frame: %v", err))
	}

	switch MessageType(envelope.Type) {
	case TypeInitialState:
		var snapshot LabSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return localError(fmt.Sprintf("malformed initial_state frame: %v", err))
		}
		if snapshot.LabID == "" {
			return localError("initial_state frame missing labId")
		}
		return Message{Type: TypeInitialState, Snapshot: &snapshot}

	case TypeLabUpdate:
		var update LabUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			return localError(fmt.Sprintf("malformed lab_update frame: %v", err))
		}
		return Message{Type: TypeLabUpdate, Update: &update}

	case TypePing:
		return Message{Type: TypePing}

	case TypePong:
		return Message{Type: TypePong}

	case TypeError:
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return localError(fmt.Sprintf("malformed error frame: %v", err))
		}
		return Message{Type: TypeError, ErrText: payload.Message}

	case TypeLog:
		var payload struct {
			Line string `json:"line"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return localError(fmt.Sprintf("malformed log frame: %v", err))
		}
		return Message{Type: TypeLog, Line: payload.Line}

	default:
		return Message{Type: TypeUnknown}
	}
}

func localError(text string) Message {
	return Message{Type: TypeError, ErrText: text, Local: true}
}
