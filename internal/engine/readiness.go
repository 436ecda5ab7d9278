package engine

import "schedsim/internal/core"

// readySet returns the processes eligible to run at simulated time now:
// arrived, unfinished, with every dependency finished by now. The result
// is sorted by ascending id (Registry.Processes order).
func readySet(now int, reg *core.Registry) []*core.Process {
	var ready []*core.Process
	for _, p := range reg.Processes() {
		if p.Arrival > now || p.Finished() {
			continue
		}
		if !depsFinished(now, reg, p) {
			continue
		}
		ready = append(ready, p)
	}
	return ready
}

func depsFinished(now int, reg *core.Registry, p *core.Process) bool {
	for _, dep := range p.Dependencies {
		d, ok := reg.Get(dep)
		if !ok || !d.Finished() || d.FinishTime > now {
			return false
		}
	}
	return true
}

// nextArrival returns the earliest arrival time strictly after now among
// unfinished processes, or core.Unset when none exists.
func nextArrival(now int, reg *core.Registry) int {
	next := core.Unset
	for _, p := range reg.Processes() {
		if p.Finished() || p.Arrival <= now {
			continue
		}
		if next == core.Unset || p.Arrival < next {
			next = p.Arrival
		}
	}
	return next
}
