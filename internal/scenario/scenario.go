// Package scenario loads and saves simulation scenarios: a process set
// plus an algorithm selection with its configuration.
package scenario

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"schedsim/internal/core"
	"schedsim/internal/schedulers"
)

// ProcessSpec is one process entry of a scenario file.
type ProcessSpec struct {
	ID           string   `yaml:"id" json:"id"`
	Arrival      int      `yaml:"arrival" json:"arrival_time"`
	Burst        int      `yaml:"burst" json:"burst_time"`
	Priority     int      `yaml:"priority" json:"priority"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

// Scenario is a complete simulation input.
type Scenario struct {
	Algorithm schedulers.Algorithm `yaml:"algorithm" json:"algorithm"`
	Config    schedulers.Config    `yaml:"config" json:"config"`
	Processes []ProcessSpec        `yaml:"processes" json:"processes"`
}

// Load reads a YAML scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

// Save writes a scenario as YAML.
func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

// Registry builds a process registry from the scenario's process list.
// Registration errors (duplicate ids, malformed fields) surface as-is.
func (sc *Scenario) Registry() (*core.Registry, error) {
	reg := core.NewRegistry()
	for _, ps := range sc.Processes {
		p := core.Process{
			ID:           ps.ID,
			Arrival:      ps.Arrival,
			Burst:        ps.Burst,
			Priority:     ps.Priority,
			Dependencies: append([]string(nil), ps.Dependencies...),
		}
		if err := reg.Add(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Random generates n processes with the classic exercise ranges:
// arrival 0-10, burst 1-10, priority 0-5, no dependencies. The rng is
// caller-provided so generated scenarios are reproducible from a seed.
func Random(n int, rng *rand.Rand) []ProcessSpec {
	procs := make([]ProcessSpec, n)
	for i := range procs {
		procs[i] = ProcessSpec{
			ID:       fmt.Sprintf("P%d", i+1),
			Arrival:  rng.Intn(11),
			Burst:    1 + rng.Intn(10),
			Priority: rng.Intn(6),
		}
	}
	return procs
}
