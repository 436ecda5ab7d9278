package requests

import (
	"schedsim/internal/core"
	"schedsim/internal/schedulers"
)

// ProcessInput is one process tuple as submitted by the caller.
type ProcessInput struct {
	ID           string   `json:"id"`
	ArrivalTime  int      `json:"arrival_time"`
	BurstTime    int      `json:"burst_time"`
	Priority     int      `json:"priority"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// ScheduleRequest is the body of a schedule call: the process set plus
// the policy configuration. Unset config fields fall back to the
// server's defaults.
type ScheduleRequest struct {
	Processes []ProcessInput     `json:"processes"`
	Config    *schedulers.Config `json:"config,omitempty"`
	// Save persists the run in the history store when true.
	Save bool `json:"save,omitempty"`
}

// Registry builds a process registry from the request, surfacing
// registration errors (duplicate ids, malformed fields) unchanged.
func (r *ScheduleRequest) Registry() (*core.Registry, error) {
	reg := core.NewRegistry()
	for _, in := range r.Processes {
		p := core.Process{
			ID:           in.ID,
			Arrival:      in.ArrivalTime,
			Burst:        in.BurstTime,
			Priority:     in.Priority,
			Dependencies: append([]string(nil), in.Dependencies...),
		}
		if err := reg.Add(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
