package view

import (
	"reflect"
	"testing"

	"github.com/lab-control/lcc/protocol"
)

func TestContainerRowsSortedByHostname(t *testing.T) {
	snapshot := &protocol.LabSnapshot{
		LabID: "lab-01",
		Containers: []protocol.Container{
			{Hostname: "web-02"},
			{Hostname: "db-01"},
			{Hostname: "web-01"},
		},
	}

	rows := ContainerRows(snapshot)
	got := []string{rows[0].Hostname, rows[1].Hostname, rows[2].Hostname}
	want := []string{"db-01", "web-01", "web-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	// The snapshot itself stays in wire order.
	if snapshot.Containers[0].Hostname != "web-02" {
		t.Error("projection mutated the snapshot")
	}
}

func TestContainerRowFormatting(t *testing.T) {
	snapshot := &protocol.LabSnapshot{
		Containers: []protocol.Container{{
			Hostname:  "web-01",
			Image:     "nginx:1.27",
			IPAddress: "172.20.0.2",
			Status:    "running",
			Health:    protocol.Health{Status: "healthy"},
			Resources: protocol.Resources{CPUPercent: 12.5, MemoryUsageMb: 256, MemoryLimitMb: 512},
		}},
	}

	row := ContainerRows(snapshot)[0]
	if row.CPU != "12.5%" {
		t.Errorf("CPU = %q", row.CPU)
	}
	if row.Memory != "256/512 MB" {
		t.Errorf("Memory = %q", row.Memory)
	}
	if row.Health != "healthy" {
		t.Errorf("Health = %q", row.Health)
	}
}

func TestContainerRowEdgeFormatting(t *testing.T) {
	snapshot := &protocol.LabSnapshot{
		Containers: []protocol.Container{
			{
				Hostname:  "a",
				Health:    protocol.Health{Status: "unhealthy", FailingStreak: 3},
				Resources: protocol.Resources{MemoryUsageMb: 64},
			},
			{Hostname: "b"},
		},
	}

	rows := ContainerRows(snapshot)
	if rows[0].Health != "unhealthy (3 failing)" {
		t.Errorf("Health = %q", rows[0].Health)
	}
	// No limit reported: show usage alone rather than a division by zero.
	if rows[0].Memory != "64 MB" {
		t.Errorf("Memory = %q", rows[0].Memory)
	}
	if rows[1].Health != "unknown" {
		t.Errorf("empty health = %q", rows[1].Health)
	}
}

func TestContainerRowsNilSnapshot(t *testing.T) {
	if rows := ContainerRows(nil); rows != nil {
		t.Errorf("rows for nil snapshot = %v", rows)
	}
}
