package schedulers

import "schedsim/internal/core"

// sjfPolicy picks the ready process with the smallest remaining time.
// Non-preemptive SJF runs it to completion; the preemptive variant
// (shortest remaining time first) is re-consulted at every arrival and
// switches only when a candidate's remaining time is strictly smaller
// than the running process's.
type sjfPolicy struct {
	preemptive bool
}

func (s sjfPolicy) Name() Algorithm {
	if s.preemptive {
		return SRTF
	}
	return SJF
}

func (s sjfPolicy) Preemptive() bool { return s.preemptive }

func (s sjfPolicy) Decide(now int, ready []*core.Process, running string) (Decision, error) {
	less := func(a, b *core.Process) bool {
		return a.Remaining < b.Remaining
	}
	p := pickBest(ready, less)
	if s.preemptive {
		p = keepRunning(ready, running, p, less)
	}
	return Decision{PID: p.ID, Duration: p.Remaining}, nil
}
