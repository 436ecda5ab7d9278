package schedulers

import (
	"fmt"

	"github.com/dop251/goja"

	"schedsim/internal/core"
)

// customPolicy scores ready processes with a user-supplied JavaScript
// expression and dispatches the highest score. The expression sees the
// candidate as `p` (id, arrival, burst, remaining, priority, waiting)
// plus the current simulated time as `now`. Ties break by ascending id
// and the running process keeps the CPU unless strictly outscored.
type customPolicy struct {
	prog *goja.Program
	vm   *goja.Runtime
}

func newCustomPolicy(script string) (*customPolicy, error) {
	if script == "" {
		return nil, fmt.Errorf("%w: custom policy requires a script", core.ErrConfiguration)
	}
	prog, err := goja.Compile("policy", "("+script+")", true)
	if err != nil {
		return nil, fmt.Errorf("%w: compile custom script: %v", core.ErrConfiguration, err)
	}
	return &customPolicy{prog: prog, vm: goja.New()}, nil
}

func (c *customPolicy) Name() Algorithm { return Custom }

func (c *customPolicy) Preemptive() bool { return true }

func (c *customPolicy) score(now int, p *core.Process) (float64, error) {
	c.vm.Set("now", now)
	c.vm.Set("p", map[string]interface{}{
		"id":        p.ID,
		"arrival":   p.Arrival,
		"burst":     p.Burst,
		"remaining": p.Remaining,
		"priority":  p.Priority,
		"waiting":   p.WaitingAt(now),
	})
	v, err := c.vm.RunProgram(c.prog)
	if err != nil {
		return 0, fmt.Errorf("%w: custom script at t=%d, process %s: %v", core.ErrConfiguration, now, p.ID, err)
	}
	return v.ToFloat(), nil
}

func (c *customPolicy) Decide(now int, ready []*core.Process, running string) (Decision, error) {
	scores := make(map[string]float64, len(ready))
	for _, p := range ready {
		s, err := c.score(now, p)
		if err != nil {
			return Decision{}, err
		}
		scores[p.ID] = s
	}
	better := func(a, b *core.Process) bool {
		return scores[a.ID] > scores[b.ID]
	}
	best := pickBest(ready, better)
	best = keepRunning(ready, running, best, better)
	return Decision{PID: best.ID, Duration: best.Remaining}, nil
}
