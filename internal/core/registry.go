package core

import (
	"fmt"
	"sort"
)

// Registry holds the processes of one simulation. A registry must not be
// driven by two simulations concurrently; clone it (or re-run after
// ResetRunState) for independent runs.
type Registry struct {
	procs map[string]*Process
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]*Process)}
}

// Add registers a process. It fails with ErrDuplicateID if the id is
// already present and with ErrInvalidInput if the id is empty, the
// arrival time is negative, or the burst time is not positive. The
// process run-state is initialized as unstarted.
func (r *Registry) Add(p Process) error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty process id", ErrInvalidInput)
	}
	if p.Arrival < 0 {
		return fmt.Errorf("%w: process %s: arrival_time %d < 0", ErrInvalidInput, p.ID, p.Arrival)
	}
	if p.Burst <= 0 {
		return fmt.Errorf("%w: process %s: burst_time %d <= 0", ErrInvalidInput, p.ID, p.Burst)
	}
	if _, ok := r.procs[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	p.resetRunState()
	r.procs[p.ID] = &p
	return nil
}

// Remove unregisters a process. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) {
	delete(r.procs, id)
}

// Get returns the process with the given id, if present.
func (r *Registry) Get(id string) (*Process, bool) {
	p, ok := r.procs[id]
	return p, ok
}

// Len returns the number of registered processes.
func (r *Registry) Len() int { return len(r.procs) }

// Processes returns all processes sorted by ascending id. The slice is
// rebuilt per call; the pointed-to processes are the live ones.
func (r *Registry) Processes() []*Process {
	out := make([]*Process, 0, len(r.procs))
	for _, p := range r.procs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ResetRunState restores every process's remaining time to its burst
// time and clears start/finish times. Call it before every run so that
// repeated runs on the same registry are independent.
func (r *Registry) ResetRunState() {
	for _, p := range r.procs {
		p.resetRunState()
	}
}

// Clone returns a deep copy of the registry with freshly reset
// run-state, suitable for driving a run without touching the original.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for id, p := range r.procs {
		cp := *p
		cp.Dependencies = append([]string(nil), p.Dependencies...)
		cp.resetRunState()
		c.procs[id] = &cp
	}
	return c
}
