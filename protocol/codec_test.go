package protocol

import (
	"testing"
)

func TestDecodeInitialState(t *testing.T) {
	frame := []byte(`{
		"type": "initial_state",
		"labId": "lab-01",
		"status": "running",
		"startedAt": "2026-08-20T10:00:00Z",
		"networks": [{"name": "lab-net", "subnet": "172.20.0.0/24"}],
		"containers": [{
			"hostname": "web-01",
			"image": "nginx:1.25",
			"ipAddress": "172.20.0.10",
			"status": "running",
			"health": {"status": "healthy"},
			"resources": {"cpuPercent": 3.5, "memoryUsageMb": 128, "memoryLimitMb": 512}
		}]
	}`)

	msg := Decode(frame)

	if msg.Type != TypeInitialState {
		t.Fatalf("expected initial_state, got %s", msg.Type)
	}
	if msg.Snapshot == nil {
		t.Fatal("snapshot payload not set")
	}
	if msg.Snapshot.LabID != "lab-01" {
		t.Errorf("labId = %q, want lab-01", msg.Snapshot.LabID)
	}
	if len(msg.Snapshot.Containers) != 1 {
		t.Fatalf("expected 1 container, got %d", len(msg.Snapshot.Containers))
	}
	c := msg.Snapshot.Containers[0]
	if c.Hostname != "web-01" || c.Health.Status != "healthy" {
		t.Errorf("container decoded incorrectly: %+v", c)
	}
	if c.Resources.MemoryUsageMb != 128 {
		t.Errorf("memoryUsageMb = %v, want 128", c.Resources.MemoryUsageMb)
	}
}

func TestDecodeLabUpdatePartialFields(t *testing.T) {
	frame := []byte(`{
		"type": "lab_update",
		"labId": "lab-01",
		"containers": [{"hostname": "web-01", "health": {"status": "unhealthy", "failingStreak": 3}}]
	}`)

	msg := Decode(frame)

	if msg.Type != TypeLabUpdate {
		t.Fatalf("expected lab_update, got %s", msg.Type)
	}
	if len(msg.Update.Containers) != 1 {
		t.Fatalf("expected 1 container patch, got %d", len(msg.Update.Containers))
	}
	patch := msg.Update.Containers[0]
	if patch.Health == nil || patch.Health.Status != "unhealthy" {
		t.Errorf("health patch not decoded: %+v", patch.Health)
	}
	// Absent fields must decode to nil so the reconciler leaves them alone.
	if patch.Status != nil || patch.Image != nil || patch.IPAddress != nil || patch.Resources != nil {
		t.Errorf("absent fields should be nil: %+v", patch)
	}
}

func TestDecodeMalformedFrames(t *testing.T) {
	cases := []struct {
		name  string
		frame string
	}{
		{"invalid json", `{"type": "lab_update",`},
		{"non-object", `[1,2,3]`},
		{"initial_state missing labId", `{"type":"initial_state","status":"running"}`},
		{"initial_state wrong field type", `{"type":"initial_state","labId":"x","containers":"nope"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := Decode([]byte(tc.frame))
			if msg.Type != TypeError {
				t.Fatalf("expected local error message, got %s", msg.Type)
			}
			if !msg.Local {
				t.Error("codec-synthesized errors must be marked Local")
			}
			if msg.ErrText == "" {
				t.Error("local error message should describe the failure")
			}
		})
	}
}

func TestDecodeUnknownTypeIsNoOp(t *testing.T) {
	msg := Decode([]byte(`{"type": "topology_hint", "nodes": 4}`))
	if msg.Type != TypeUnknown {
		t.Fatalf("unknown frame types must decode to TypeUnknown, got %s", msg.Type)
	}
	if msg.Local {
		t.Error("unknown type is not an error")
	}
}

func TestDecodeControlFrames(t *testing.T) {
	if msg := Decode([]byte(`{"type":"pong"}`)); msg.Type != TypePong {
		t.Errorf("pong decoded as %s", msg.Type)
	}
	if msg := Decode([]byte(`{"type":"ping"}`)); msg.Type != TypePing {
		t.Errorf("ping decoded as %s", msg.Type)
	}
	msg := Decode([]byte(`{"type":"error","message":"lab expired"}`))
	if msg.Type != TypeError || msg.ErrText != "lab expired" || msg.Local {
		t.Errorf("remote error decoded incorrectly: %+v", msg)
	}
	msg = Decode([]byte(`{"type":"log","line":"GET /health 200"}`))
	if msg.Type != TypeLog || msg.Line != "GET /health 200" {
		t.Errorf("log frame decoded incorrectly: %+v", msg)
	}
}

func TestEncodePing(t *testing.T) {
	msg := Decode(EncodePing())
	if msg.Type != TypePing {
		t.Errorf("EncodePing round-trip decoded as %s", msg.Type)
	}
}
