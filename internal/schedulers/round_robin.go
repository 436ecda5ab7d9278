package schedulers

import "schedsim/internal/core"

// rrPolicy keeps a FIFO ready queue and hands the head a slice of at
// most one quantum. A process whose slice expires unfinished is
// requeued after everything that became ready during the slice.
type rrPolicy struct {
	quantum int
	queue   []string
	queued  map[string]bool
	last    string
}

func (r *rrPolicy) Name() Algorithm { return RoundRobin }

// Quantum expiry, not arrival, is the only switch point.
func (r *rrPolicy) Preemptive() bool { return false }

func (r *rrPolicy) Decide(now int, ready []*core.Process, running string) (Decision, error) {
	if r.queued == nil {
		r.queued = make(map[string]bool)
	}

	// Enqueue processes that became ready since the last slice, in
	// (arrival, id) order. The previous slice's owner is held back so
	// it lands behind them if it expired without finishing.
	var fresh []*core.Process
	readySet := make(map[string]*core.Process, len(ready))
	for _, p := range ready {
		readySet[p.ID] = p
		if !r.queued[p.ID] && p.ID != r.last {
			fresh = append(fresh, p)
		}
	}
	for _, id := range byArrival(fresh) {
		r.queue = append(r.queue, id)
		r.queued[id] = true
	}
	if r.last != "" {
		if _, unfinished := readySet[r.last]; unfinished {
			r.queue = append(r.queue, r.last)
			r.queued[r.last] = true
		}
		r.last = ""
	}

	// Skip queue entries that are no longer in the ready set.
	for len(r.queue) > 0 {
		head := r.queue[0]
		r.queue = r.queue[1:]
		delete(r.queued, head)
		p, ok := readySet[head]
		if !ok {
			continue
		}
		r.last = head
		return Decision{PID: head, Duration: min(r.quantum, p.Remaining)}, nil
	}

	// Ready is never empty here; fall back to the id-smallest process.
	p := ready[0]
	r.last = p.ID
	return Decision{PID: p.ID, Duration: min(r.quantum, p.Remaining)}, nil
}
