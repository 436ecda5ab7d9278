package schedulers

import (
	"fmt"
	"sort"

	"schedsim/internal/core"
)

// Algorithm identifies one scheduling policy variant. Policies are a
// closed set selected through New, never by name switches in the loop.
type Algorithm string

const (
	FCFS               Algorithm = "fcfs"
	SJF                Algorithm = "sjf"
	SRTF               Algorithm = "srtf"
	RoundRobin         Algorithm = "rr"
	Priority           Algorithm = "priority"
	PriorityPreemptive Algorithm = "priority-preemptive"
	MLFQ               Algorithm = "mlfq"
	Intelligent        Algorithm = "intelligent"
	Custom             Algorithm = "custom"
)

// Algorithms lists every supported algorithm in stable order.
func Algorithms() []Algorithm {
	return []Algorithm{
		FCFS, SJF, SRTF, RoundRobin,
		Priority, PriorityPreemptive, MLFQ, Intelligent,
	}
}

// Decision is what a policy returns for one dispatch: run process PID
// for at most Duration time units. The loop may shorten a preemptive
// policy's duration to the next arrival event.
type Decision struct {
	PID      string
	Duration int
}

// Policy picks the next process to run. Decide is only called with a
// non-empty ready set, sorted by ascending id; running is the id of the
// process that held the CPU up to now (empty if none). A Policy instance
// serves exactly one run: quantum and queue bookkeeping is internal
// state, so obtain a fresh instance from New for every simulation.
type Policy interface {
	Name() Algorithm
	// Preemptive reports whether the loop must re-consult the policy at
	// arrival events instead of letting the decision run out.
	Preemptive() bool
	Decide(now int, ready []*core.Process, running string) (Decision, error)
}

// Weights configures the intelligent policy's composite score.
type Weights struct {
	Waiting   float64 `json:"waiting" yaml:"waiting" mapstructure:"waiting"`
	Remaining float64 `json:"remaining" yaml:"remaining" mapstructure:"remaining"`
	Priority  float64 `json:"priority" yaml:"priority" mapstructure:"priority"`
}

// Config carries all policy-specific parameters. Each algorithm reads
// only the fields it needs; New validates them up front.
type Config struct {
	// Quantum is the round-robin time slice. Required > 0 for rr.
	Quantum int `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	// MLFQQuantums are the per-level time slices for mlfq; the level
	// after the last quantum runs to completion. Required non-empty,
	// all > 0, for mlfq.
	MLFQQuantums []int `json:"mlfq_quantums,omitempty" yaml:"mlfq_quantums,omitempty"`
	// PriorityHighIsBest flips the priority direction. By default a
	// numerically smaller priority wins.
	PriorityHighIsBest bool `json:"priority_high_is_best,omitempty" yaml:"priority_high_is_best,omitempty"`
	// Weights and StarvationThreshold configure the intelligent policy.
	// Threshold is the waiting time after which a process is dispatched
	// ahead of all non-starving candidates. Required > 0 for intelligent.
	Weights             Weights `json:"weights,omitempty" yaml:"weights,omitempty"`
	StarvationThreshold int     `json:"starvation_threshold,omitempty" yaml:"starvation_threshold,omitempty"`
	// Script is the custom policy's scoring expression.
	Script string `json:"script,omitempty" yaml:"script,omitempty"`
}

// DefaultConfig returns the parameters used when a request leaves them
// unset.
func DefaultConfig() Config {
	return Config{
		Quantum:             2,
		MLFQQuantums:        []int{2, 4, 8},
		Weights:             Weights{Waiting: 0.5, Remaining: 0.3, Priority: 0.2},
		StarvationThreshold: 20,
	}
}

// New constructs a fresh policy instance for one run, validating the
// algorithm-specific configuration.
func New(alg Algorithm, cfg Config) (Policy, error) {
	switch alg {
	case FCFS:
		return fcfsPolicy{}, nil
	case SJF:
		return sjfPolicy{preemptive: false}, nil
	case SRTF:
		return sjfPolicy{preemptive: true}, nil
	case RoundRobin:
		if cfg.Quantum <= 0 {
			return nil, fmt.Errorf("%w: round robin quantum %d must be > 0", core.ErrConfiguration, cfg.Quantum)
		}
		return &rrPolicy{quantum: cfg.Quantum}, nil
	case Priority:
		return priorityPolicy{highIsBest: cfg.PriorityHighIsBest, preemptive: false}, nil
	case PriorityPreemptive:
		return priorityPolicy{highIsBest: cfg.PriorityHighIsBest, preemptive: true}, nil
	case MLFQ:
		return newMLFQPolicy(cfg.MLFQQuantums)
	case Intelligent:
		return newIntelligentPolicy(cfg.Weights, cfg.StarvationThreshold)
	case Custom:
		return newCustomPolicy(cfg.Script)
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", core.ErrConfiguration, alg)
	}
}

// pickBest returns the ready process minimizing less, breaking ties by
// ascending id. The ready slice is already id-sorted, so a stable scan
// keeps the smallest id among equals.
func pickBest(ready []*core.Process, less func(a, b *core.Process) bool) *core.Process {
	best := ready[0]
	for _, p := range ready[1:] {
		if less(p, best) {
			best = p
		}
	}
	return best
}

// keepRunning applies the strict-improvement preemption rule: if the
// currently running process is still ready and the candidate is not
// strictly better than it, the running process keeps the CPU.
func keepRunning(ready []*core.Process, running string, candidate *core.Process, less func(a, b *core.Process) bool) *core.Process {
	if running == "" || candidate.ID == running {
		return candidate
	}
	for _, p := range ready {
		if p.ID == running {
			if less(candidate, p) {
				return candidate
			}
			return p
		}
	}
	return candidate
}

// byArrival sorts ids of the given processes by (arrival, id).
func byArrival(procs []*core.Process) []string {
	sorted := append([]*core.Process(nil), procs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Arrival != sorted[j].Arrival {
			return sorted[i].Arrival < sorted[j].Arrival
		}
		return sorted[i].ID < sorted[j].ID
	})
	ids := make([]string, len(sorted))
	for i, p := range sorted {
		ids[i] = p.ID
	}
	return ids
}
