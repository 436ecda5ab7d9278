package engine

import (
	"fmt"
	"sort"
	"strings"

	"schedsim/internal/core"
)

// ValidateDependencies checks the dependency graph before a run starts.
// A dependency on an unknown id, a self-dependency, or a cycle makes the
// graph unsatisfiable and is reported as a configuration error rather
// than letting the run stall.
//
// Cycle detection is Kahn's algorithm: if the topological order does not
// cover every process, the leftover nodes are the cycle participants.
func ValidateDependencies(reg *core.Registry) error {
	procs := reg.Processes()

	inDegree := make(map[string]int, len(procs))
	forward := make(map[string][]string, len(procs))
	for _, p := range procs {
		inDegree[p.ID] = 0
	}
	for _, p := range procs {
		for _, dep := range p.Dependencies {
			if dep == p.ID {
				return fmt.Errorf("%w: process %s depends on itself", core.ErrConfiguration, p.ID)
			}
			if _, ok := reg.Get(dep); !ok {
				return fmt.Errorf("%w: process %s depends on unknown process %s", core.ErrConfiguration, p.ID, dep)
			}
			forward[dep] = append(forward[dep], p.ID)
			inDegree[p.ID]++
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	resolved := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		resolved++
		succ := forward[node]
		sort.Strings(succ)
		for _, s := range succ {
			inDegree[s]--
			if inDegree[s] == 0 {
				queue = append(queue, s)
			}
		}
		sort.Strings(queue)
	}

	if resolved != len(procs) {
		var cycle []string
		for id, deg := range inDegree {
			if deg > 0 {
				cycle = append(cycle, id)
			}
		}
		sort.Strings(cycle)
		return fmt.Errorf("%w: dependency cycle involving processes: %s",
			core.ErrConfiguration, strings.Join(cycle, ", "))
	}
	return nil
}
