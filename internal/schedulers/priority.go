package schedulers

import "schedsim/internal/core"

// priorityPolicy picks the ready process with the best priority. By
// default a numerically smaller value wins; highIsBest flips the
// direction. Ties break by ascending id. The preemptive variant lets a
// newly arrived process with strictly better priority take the CPU at
// its arrival instant.
type priorityPolicy struct {
	highIsBest bool
	preemptive bool
}

func (p priorityPolicy) Name() Algorithm {
	if p.preemptive {
		return PriorityPreemptive
	}
	return Priority
}

func (p priorityPolicy) Preemptive() bool { return p.preemptive }

func (p priorityPolicy) better(a, b *core.Process) bool {
	if p.highIsBest {
		return a.Priority > b.Priority
	}
	return a.Priority < b.Priority
}

func (p priorityPolicy) Decide(now int, ready []*core.Process, running string) (Decision, error) {
	best := pickBest(ready, p.better)
	if p.preemptive {
		best = keepRunning(ready, running, best, p.better)
	}
	return Decision{PID: best.ID, Duration: best.Remaining}, nil
}
