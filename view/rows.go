package view

import (
	"fmt"
	"sort"

	"github.com/lab-control/lcc/protocol"
)

// ContainerRow is one line of the container table, with sub-records already
// formatted for display.
type ContainerRow struct {
	Hostname  string
	Image     string
	IPAddress string
	Status    string
	Health    string
	CPU       string
	Memory    string
}

// ContainerRows projects the snapshot's containers into display rows sorted
// by hostname. The snapshot is read only; ordering on the wire is not
// meaningful and never leaks into the table.
func ContainerRows(snapshot *protocol.LabSnapshot) []ContainerRow {
	if snapshot == nil {
		return nil
	}

	rows := make([]ContainerRow, len(snapshot.Containers))
	for i, c := range snapshot.Containers {
		rows[i] = ContainerRow{
			Hostname:  c.Hostname,
			Image:     c.Image,
			IPAddress: c.IPAddress,
			Status:    c.Status,
			Health:    formatHealth(c.Health),
			CPU:       formatCPU(c.Resources),
			Memory:    formatMemory(c.Resources),
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Hostname < rows[j].Hostname })
	return rows
}

func formatHealth(h protocol.Health) string {
	if h.Status == "" {
		return "unknown"
	}
	if h.FailingStreak > 0 {
		return fmt.Sprintf("%s (%d failing)", h.Status, h.FailingStreak)
	}
	return h.Status
}

func formatCPU(r protocol.Resources) string {
	return fmt.Sprintf("%.1f%%", r.CPUPercent)
}

func formatMemory(r protocol.Resources) string {
	if r.MemoryLimitMb <= 0 {
		return fmt.Sprintf("%.0f MB", r.MemoryUsageMb)
	}
	return fmt.Sprintf("%.0f/%.0f MB", r.MemoryUsageMb, r.MemoryLimitMb)
}
