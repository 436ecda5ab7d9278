package schedulers

import "schedsim/internal/core"

// fcfsPolicy runs the earliest-arrived ready process to completion.
// Non-preemptive: each process occupies exactly one contiguous segment.
type fcfsPolicy struct{}

func (fcfsPolicy) Name() Algorithm { return FCFS }

func (fcfsPolicy) Preemptive() bool { return false }

func (fcfsPolicy) Decide(now int, ready []*core.Process, running string) (Decision, error) {
	p := pickBest(ready, func(a, b *core.Process) bool {
		return a.Arrival < b.Arrival
	})
	return Decision{PID: p.ID, Duration: p.Remaining}, nil
}
