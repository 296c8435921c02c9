package protocol

import (
	"encoding/json"
	"time"
)

// Resources holds the independently updatable resource usage sub-record of a
// container.
type Resources struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryUsageMb float64 `json:"memoryUsageMb"`
	MemoryLimitMb float64 `json:"memoryLimitMb"`
}

// Health holds the independently updatable health sub-record of a container.
type Health struct {
	Status        string `json:"status"`
	FailingStreak int    `json:"failingStreak,omitempty"`
}

// Container describes one container inside a lab. Hostname is the identity
// key and is stable for the life of the lab.
type Container struct {
	Hostname  string    `json:"hostname"`
	Image     string    `json:"image"`
	IPAddress string    `json:"ipAddress"`
	Status    string    `json:"status"`
	Health    Health    `json:"health"`
	Resources Resources `json:"resources"`
}

// Network describes one lab network.
type Network struct {
	Name   string `json:"name"`
	Subnet string `json:"subnet"`
	Driver string `json:"driver,omitempty"`
}

// LabSnapshot is the full authoritative picture of a lab at one instant.
type LabSnapshot struct {
	LabID      string      `json:"labId"`
	Status     string      `json:"status"`
	StartedAt  time.Time   `json:"startedAt"`
	Networks   []Network   `json:"networks"`
	Containers []Container `json:"containers"`
}

// ContainerPatch is a partial container update. Nil fields were absent from
// the wire frame and must leave the corresponding canonical field untouched.
type ContainerPatch struct {
	Hostname  string     `json:"hostname"`
	Image     *string    `json:"image,omitempty"`
	IPAddress *string    `json:"ipAddress,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Health    *Health    `json:"health,omitempty"`
	Resources *Resources `json:"resources,omitempty"`
}

// LabUpdate is the payload of a lab_update frame. An empty LabID means the
// update applies to the lab the connection is monitoring.
type LabUpdate struct {
	LabID      string           `json:"labId,omitempty"`
	Status     *string          `json:"status,omitempty"`
	Containers []ContainerPatch `json:"containers,omitempty"`
	Networks   []Network        `json:"networks,omitempty"`
}

// RecordedEvent is one timestamped entry of a recorded session. ElapsedMs is
// relative to session start and is the sole scheduling input during replay.
type RecordedEvent struct {
	EventID   string          `json:"eventId"`
	ElapsedMs int64           `json:"elapsedMs"`
	Timestamp time.Time       `json:"timestamp"`
	EventType string          `json:"eventType"`
	Hostname  string          `json:"hostname,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// SessionMeta describes the recorded session a playback fetch returned.
type SessionMeta struct {
	SessionID  string    `json:"sessionId"`
	LabID      string    `json:"labId"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
}

// Recording is the response shape of the historical playback fetch.
type Recording struct {
	Session SessionMeta     `json:"session"`
	Events  []RecordedEvent `json:"events"`
}
