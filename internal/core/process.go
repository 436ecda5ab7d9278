package core

// Unset marks a start or finish time that has not been assigned yet.
const Unset = -1

// Process holds the immutable input facts of one process plus the
// run-state mutated by the simulation loop. Input fields never change
// after registration; run-state is restored by Registry.ResetRunState
// before every run.
type Process struct {
	ID           string   `json:"id"`
	Arrival      int      `json:"arrival_time"`
	Burst        int      `json:"burst_time"`
	Priority     int      `json:"priority"`
	Dependencies []string `json:"dependencies,omitempty"`

	// Run-state. Owned by the simulation loop during a run.
	Remaining  int `json:"-"`
	StartTime  int `json:"-"`
	FinishTime int `json:"-"`
	LastRanAt  int `json:"-"`
}

// Started reports whether the process has been dispatched at least once.
func (p *Process) Started() bool { return p.StartTime != Unset }

// Finished reports whether the process has run to completion.
func (p *Process) Finished() bool { return p.FinishTime != Unset }

// WaitingAt returns the time the process has spent ready but not
// running, as of simulated time now. Only meaningful for arrived,
// unfinished processes.
func (p *Process) WaitingAt(now int) int {
	return now - p.Arrival - (p.Burst - p.Remaining)
}

func (p *Process) resetRunState() {
	p.Remaining = p.Burst
	p.StartTime = Unset
	p.FinishTime = Unset
	p.LastRanAt = Unset
}
