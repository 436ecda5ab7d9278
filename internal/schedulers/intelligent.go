package schedulers

import (
	"fmt"

	"schedsim/internal/core"
)

// intelligentPolicy ranks ready processes by a composite score of
// normalized waiting time, remaining burst, and priority. Processes
// whose waiting time reaches the starvation threshold form a hard tier
// above everything else, ordered by longest wait, which bounds how long
// any ready process can stay undispatched.
type intelligentPolicy struct {
	weights   Weights
	threshold int
}

func newIntelligentPolicy(w Weights, threshold int) (*intelligentPolicy, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: starvation threshold %d must be > 0", core.ErrConfiguration, threshold)
	}
	if w.Waiting < 0 || w.Remaining < 0 || w.Priority < 0 {
		return nil, fmt.Errorf("%w: intelligent weights must be non-negative", core.ErrConfiguration)
	}
	if w.Waiting+w.Remaining+w.Priority == 0 {
		return nil, fmt.Errorf("%w: intelligent weights are all zero", core.ErrConfiguration)
	}
	return &intelligentPolicy{weights: w, threshold: threshold}, nil
}

func (ip *intelligentPolicy) Name() Algorithm { return Intelligent }

func (ip *intelligentPolicy) Preemptive() bool { return true }

func (ip *intelligentPolicy) Decide(now int, ready []*core.Process, running string) (Decision, error) {
	type ranked struct {
		starving bool
		waited   int
		score    float64
	}
	ranks := make(map[string]ranked, len(ready))

	maxWait, maxRemaining := 0, 0
	minPrio, maxPrio := ready[0].Priority, ready[0].Priority
	for _, p := range ready {
		if w := p.WaitingAt(now); w > maxWait {
			maxWait = w
		}
		if p.Remaining > maxRemaining {
			maxRemaining = p.Remaining
		}
		if p.Priority < minPrio {
			minPrio = p.Priority
		}
		if p.Priority > maxPrio {
			maxPrio = p.Priority
		}
	}

	norm := func(v, max int) float64 {
		if max == 0 {
			return 0
		}
		return float64(v) / float64(max)
	}
	for _, p := range ready {
		waited := p.WaitingAt(now)
		score := ip.weights.Waiting * norm(waited, maxWait)
		score += ip.weights.Remaining * (1 - norm(p.Remaining, maxRemaining))
		if span := maxPrio - minPrio; span > 0 {
			score += ip.weights.Priority * (1 - float64(p.Priority-minPrio)/float64(span))
		} else {
			score += ip.weights.Priority
		}
		ranks[p.ID] = ranked{starving: waited >= ip.threshold, waited: waited, score: score}
	}

	better := func(a, b *core.Process) bool {
		ra, rb := ranks[a.ID], ranks[b.ID]
		if ra.starving != rb.starving {
			return ra.starving
		}
		if ra.starving && ra.waited != rb.waited {
			return ra.waited > rb.waited
		}
		return ra.score > rb.score
	}
	best := pickBest(ready, better)
	best = keepRunning(ready, running, best, better)

	// Cap the slice at the instant another ready process crosses the
	// starvation threshold, so the loop re-consults us and the boost
	// can actually take the CPU. Arrival events alone are not enough:
	// without this cap a long burst could run out the clock.
	d := best.Remaining
	for _, p := range ready {
		if p.ID == best.ID {
			continue
		}
		if w := p.WaitingAt(now); w < ip.threshold {
			if until := ip.threshold - w; until < d {
				d = until
			}
		}
	}
	return Decision{PID: best.ID, Duration: d}, nil
}
