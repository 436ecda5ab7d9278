package engine

import (
	"context"
	"fmt"

	"schedsim/internal/core"
	"schedsim/internal/schedulers"
)

// State is the simulation lifecycle phase.
type State int

const (
	NotStarted State = iota
	Running
	Idle
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Idle:
		return "idle"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Result is the outcome of one simulation run.
type Result struct {
	Algorithm schedulers.Algorithm `json:"algorithm"`
	Segments  []core.Segment       `json:"segments"`
	Makespan  int                  `json:"makespan"`
}

// Run is a single simulation in progress. It owns the registry's
// run-state until it finishes; callers may abort between steps, and the
// segments emitted so far remain a consistent partial timeline.
type Run struct {
	reg       *core.Registry
	pol       schedulers.Policy
	now       int
	unfin     int
	running   string // process holding the CPU up to now, if any
	state     State
	res       *Result
}

// NewRun validates the dependency graph, resets the registry run-state,
// and returns a run positioned at t=0.
func NewRun(reg *core.Registry, pol schedulers.Policy) (*Run, error) {
	if err := ValidateDependencies(reg); err != nil {
		return nil, err
	}
	reg.ResetRunState()
	r := &Run{
		reg:   reg,
		pol:   pol,
		unfin: reg.Len(),
		state: NotStarted,
		res:   &Result{Algorithm: pol.Name()},
	}
	if r.unfin == 0 {
		r.state = Finished
	}
	return r, nil
}

// State returns the run's current lifecycle phase.
func (r *Run) State() State { return r.state }

// Result returns the segments emitted so far; after the run reaches
// Finished it is the complete timeline.
func (r *Run) Result() *Result { return r.res }

// Step executes one scheduling iteration: one dispatched slice or one
// idle gap. It returns true once every process has finished.
func (r *Run) Step() (done bool, err error) {
	if r.state == Finished {
		return true, nil
	}

	ready := readySet(r.now, r.reg)
	if len(ready) == 0 {
		next := nextArrival(r.now, r.reg)
		if next == core.Unset {
			r.res.Makespan = r.now
			return false, fmt.Errorf("%w: no runnable process at t=%d with %d unfinished", core.ErrDeadlock, r.now, r.unfin)
		}
		if r.state != NotStarted {
			r.state = Idle
		}
		r.res.Segments = append(r.res.Segments, core.Segment{ProcessID: core.IdleID, Start: r.now, End: next})
		r.now = next
		r.running = ""
		return false, nil
	}

	dec, err := r.pol.Decide(r.now, ready, r.running)
	if err != nil {
		return false, err
	}
	p, ok := r.reg.Get(dec.PID)
	if !ok || p.Finished() || p.Arrival > r.now {
		return false, fmt.Errorf("%w: policy %s picked ineligible process %q at t=%d", core.ErrConfiguration, r.pol.Name(), dec.PID, r.now)
	}
	d := dec.Duration
	if d <= 0 || d > p.Remaining {
		return false, fmt.Errorf("%w: policy %s granted invalid duration %d to %s at t=%d", core.ErrConfiguration, r.pol.Name(), d, p.ID, r.now)
	}
	// Preemptive policies are re-consulted at the next arrival instant.
	if r.pol.Preemptive() {
		if next := nextArrival(r.now, r.reg); next != core.Unset && next < r.now+d {
			d = next - r.now
		}
	}

	r.state = Running
	if !p.Started() {
		p.StartTime = r.now
	}
	r.appendRun(p.ID, r.now, r.now+d)
	p.Remaining -= d
	r.now += d
	p.LastRanAt = r.now
	r.running = p.ID
	if p.Remaining == 0 {
		p.FinishTime = r.now
		r.unfin--
		r.running = ""
	}
	if r.unfin == 0 {
		r.state = Finished
		r.res.Makespan = r.now
		return true, nil
	}
	return false, nil
}

// appendRun records a dispatched slice. Only preemptive policies
// coalesce a slice into a preceding segment of the same process: their
// event re-evaluation is not a switch, whereas quantum policies keep
// every slice boundary visible.
func (r *Run) appendRun(pid string, start, end int) {
	n := len(r.res.Segments)
	if r.pol.Preemptive() && n > 0 {
		last := &r.res.Segments[n-1]
		if last.ProcessID == pid && last.End == start {
			last.End = end
			return
		}
	}
	r.res.Segments = append(r.res.Segments, core.Segment{ProcessID: pid, Start: start, End: end})
}

// Simulate runs a policy over the registry to completion. It resets the
// registry's run-state on entry, so repeated calls with equal inputs
// yield identical timelines. Cancelling ctx aborts between steps.
func Simulate(ctx context.Context, reg *core.Registry, pol schedulers.Policy) (*Result, error) {
	run, err := NewRun(reg, pol)
	if err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return run.Result(), err
		}
		done, err := run.Step()
		if err != nil {
			return run.Result(), err
		}
		if done {
			return run.Result(), nil
		}
	}
}
