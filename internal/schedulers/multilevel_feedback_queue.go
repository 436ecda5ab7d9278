package schedulers

import (
	"fmt"

	"schedsim/internal/core"
)

// mlfqPolicy is a multilevel feedback queue. New arrivals enter level 0;
// a process whose level quantum expires unfinished is demoted one level.
// The level after the last configured quantum schedules FCFS and runs
// its processes to completion.
type mlfqPolicy struct {
	quantums []int
	levels   [][]string
	level    map[string]int // current level per known process
	queued   map[string]bool
	last     string
}

func newMLFQPolicy(quantums []int) (*mlfqPolicy, error) {
	if len(quantums) == 0 {
		return nil, fmt.Errorf("%w: mlfq requires at least one level quantum", core.ErrConfiguration)
	}
	for i, q := range quantums {
		if q <= 0 {
			return nil, fmt.Errorf("%w: mlfq level %d quantum %d must be > 0", core.ErrConfiguration, i, q)
		}
	}
	return &mlfqPolicy{
		quantums: quantums,
		levels:   make([][]string, len(quantums)+1),
		level:    make(map[string]int),
		queued:   make(map[string]bool),
	}, nil
}

func (m *mlfqPolicy) Name() Algorithm { return MLFQ }

func (m *mlfqPolicy) Preemptive() bool { return false }

func (m *mlfqPolicy) Decide(now int, ready []*core.Process, running string) (Decision, error) {
	readySet := make(map[string]*core.Process, len(ready))
	var fresh []*core.Process
	for _, p := range ready {
		readySet[p.ID] = p
		if !m.queued[p.ID] && p.ID != m.last {
			fresh = append(fresh, p)
		}
	}
	for _, id := range byArrival(fresh) {
		if _, known := m.level[id]; !known {
			m.level[id] = 0
		}
		lvl := m.level[id]
		m.levels[lvl] = append(m.levels[lvl], id)
		m.queued[id] = true
	}

	// A process requeued here is one whose slice expired unfinished.
	// Below the FCFS level that means its full quantum ran out: demote.
	if m.last != "" {
		if _, unfinished := readySet[m.last]; unfinished {
			lvl := m.level[m.last]
			if lvl < len(m.quantums) {
				lvl++
				m.level[m.last] = lvl
			}
			m.levels[lvl] = append(m.levels[lvl], m.last)
			m.queued[m.last] = true
		}
		m.last = ""
	}

	for lvl := range m.levels {
		for len(m.levels[lvl]) > 0 {
			head := m.levels[lvl][0]
			m.levels[lvl] = m.levels[lvl][1:]
			delete(m.queued, head)
			p, ok := readySet[head]
			if !ok {
				continue
			}
			m.last = head
			d := p.Remaining
			if lvl < len(m.quantums) && m.quantums[lvl] < d {
				d = m.quantums[lvl]
			}
			return Decision{PID: head, Duration: d}, nil
		}
	}

	p := ready[0]
	m.last = p.ID
	return Decision{PID: p.ID, Duration: p.Remaining}, nil
}
