package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"schedsim/internal/core"
	"schedsim/internal/schedulers"
)

type procSpec struct {
	id       string
	arrival  int
	burst    int
	priority int
	deps     []string
}

func buildRegistry(t *testing.T, specs []procSpec) *core.Registry {
	t.Helper()
	reg := core.NewRegistry()
	for _, s := range specs {
		err := reg.Add(core.Process{
			ID:           s.id,
			Arrival:      s.arrival,
			Burst:        s.burst,
			Priority:     s.priority,
			Dependencies: s.deps,
		})
		if err != nil {
			t.Fatalf("add %s: %v", s.id, err)
		}
	}
	return reg
}

func runPolicy(t *testing.T, alg schedulers.Algorithm, cfg schedulers.Config, specs []procSpec) (*core.Registry, *Result) {
	t.Helper()
	reg := buildRegistry(t, specs)
	pol, err := schedulers.New(alg, cfg)
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	res, err := Simulate(context.Background(), reg, pol)
	if err != nil {
		t.Fatalf("simulate %s: %v", alg, err)
	}
	checkInvariants(t, reg, res)
	return reg, res
}

// checkInvariants verifies the timeline properties every algorithm must
// hold: segments partition [0, makespan] without overlap, per-process
// segment durations sum to the burst, finish equals the last segment
// end, and no process runs before its arrival or its dependencies.
func checkInvariants(t *testing.T, reg *core.Registry, res *Result) {
	t.Helper()
	expectStart := 0
	perProc := map[string]int{}
	lastEnd := map[string]int{}
	for i, s := range res.Segments {
		if s.End <= s.Start {
			t.Fatalf("segment %d has end %d <= start %d", i, s.End, s.Start)
		}
		if s.Start != expectStart {
			t.Fatalf("segment %d starts at %d, want %d (gap or overlap)", i, s.Start, expectStart)
		}
		expectStart = s.End
		if s.Idle() {
			continue
		}
		p, ok := reg.Get(s.ProcessID)
		if !ok {
			t.Fatalf("segment %d references unknown process %s", i, s.ProcessID)
		}
		if s.Start < p.Arrival {
			t.Fatalf("process %s dispatched at %d before arrival %d", p.ID, s.Start, p.Arrival)
		}
		for _, dep := range p.Dependencies {
			d, _ := reg.Get(dep)
			if s.Start < d.FinishTime {
				t.Fatalf("process %s dispatched at %d before dependency %s finished at %d",
					p.ID, s.Start, dep, d.FinishTime)
			}
		}
		perProc[s.ProcessID] += s.Duration()
		lastEnd[s.ProcessID] = s.End
	}
	if expectStart != res.Makespan {
		t.Fatalf("segments end at %d, makespan %d", expectStart, res.Makespan)
	}
	for _, p := range reg.Processes() {
		if perProc[p.ID] != p.Burst {
			t.Fatalf("process %s ran %d units, burst %d", p.ID, perProc[p.ID], p.Burst)
		}
		if p.FinishTime != lastEnd[p.ID] {
			t.Fatalf("process %s finish %d != last segment end %d", p.ID, p.FinishTime, lastEnd[p.ID])
		}
		if p.Remaining != 0 {
			t.Fatalf("process %s remaining %d after run", p.ID, p.Remaining)
		}
	}
}

func seg(pid string, start, end int) core.Segment {
	return core.Segment{ProcessID: pid, Start: start, End: end}
}

// Reference workload for the classic traces: P1(0,5) P2(1,3) P3(2,1).
func referenceSpecs() []procSpec {
	return []procSpec{
		{id: "P1", arrival: 0, burst: 5},
		{id: "P2", arrival: 1, burst: 3},
		{id: "P3", arrival: 2, burst: 1},
	}
}

func TestSimulateFCFS(t *testing.T) {
	_, res := runPolicy(t, schedulers.FCFS, schedulers.Config{}, referenceSpecs())
	want := []core.Segment{seg("P1", 0, 5), seg("P2", 5, 8), seg("P3", 8, 9)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateFCFSNonPreemptive(t *testing.T) {
	// Each process must occupy exactly one contiguous segment.
	_, res := runPolicy(t, schedulers.FCFS, schedulers.Config{}, referenceSpecs())
	seen := map[string]bool{}
	for _, s := range res.Segments {
		if seen[s.ProcessID] {
			t.Fatalf("process %s appears in more than one segment", s.ProcessID)
		}
		seen[s.ProcessID] = true
	}
}

func TestSimulateSJF(t *testing.T) {
	// P1 is alone at t=0 and runs to completion; then shortest first.
	_, res := runPolicy(t, schedulers.SJF, schedulers.Config{}, referenceSpecs())
	want := []core.Segment{seg("P1", 0, 5), seg("P3", 5, 6), seg("P2", 6, 9)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateSRTF(t *testing.T) {
	// t=1: P2(3) preempts P1(4). t=2: P3(1) preempts P2(2).
	_, res := runPolicy(t, schedulers.SRTF, schedulers.Config{}, referenceSpecs())
	want := []core.Segment{
		seg("P1", 0, 1), seg("P2", 1, 2), seg("P3", 2, 3),
		seg("P2", 3, 5), seg("P1", 5, 9),
	}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateSRTFNoSwitchOnTie(t *testing.T) {
	// Equal remaining time must not preempt the running process.
	_, res := runPolicy(t, schedulers.SRTF, schedulers.Config{}, []procSpec{
		{id: "P1", arrival: 0, burst: 4},
		{id: "P2", arrival: 1, burst: 3}, // at t=1 both have remaining 3
	})
	want := []core.Segment{seg("P1", 0, 4), seg("P2", 4, 7)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateRoundRobin(t *testing.T) {
	specs := []procSpec{
		{id: "P1", arrival: 0, burst: 5},
		{id: "P2", arrival: 1, burst: 3},
	}
	_, res := runPolicy(t, schedulers.RoundRobin, schedulers.Config{Quantum: 2}, specs)
	want := []core.Segment{
		seg("P1", 0, 2), seg("P2", 2, 4), seg("P1", 4, 6),
		seg("P2", 6, 7), seg("P1", 7, 8),
	}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateRoundRobinQuantumBound(t *testing.T) {
	quantum := 3
	reg, res := runPolicy(t, schedulers.RoundRobin, schedulers.Config{Quantum: quantum}, []procSpec{
		{id: "P1", arrival: 0, burst: 7},
		{id: "P2", arrival: 0, burst: 5},
		{id: "P3", arrival: 4, burst: 2},
	})
	for _, s := range res.Segments {
		if s.Idle() {
			continue
		}
		p, _ := reg.Get(s.ProcessID)
		// Only a process's final slice may be shorter than the quantum;
		// no slice may ever exceed it.
		if s.Duration() > quantum {
			t.Fatalf("segment %v exceeds quantum %d", s, quantum)
		}
		if s.Duration() < quantum && s.End != p.FinishTime {
			t.Fatalf("non-final segment %v shorter than quantum %d", s, quantum)
		}
	}
}

func TestSimulatePriorityNonPreemptive(t *testing.T) {
	_, res := runPolicy(t, schedulers.Priority, schedulers.Config{}, []procSpec{
		{id: "P1", arrival: 0, burst: 4, priority: 2},
		{id: "P2", arrival: 2, burst: 2, priority: 1},
	})
	want := []core.Segment{seg("P1", 0, 4), seg("P2", 4, 6)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulatePriorityPreemptive(t *testing.T) {
	_, res := runPolicy(t, schedulers.PriorityPreemptive, schedulers.Config{}, []procSpec{
		{id: "P1", arrival: 0, burst: 4, priority: 2},
		{id: "P2", arrival: 2, burst: 2, priority: 1},
	})
	want := []core.Segment{seg("P1", 0, 2), seg("P2", 2, 4), seg("P1", 4, 6)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulatePriorityHighIsBest(t *testing.T) {
	_, res := runPolicy(t, schedulers.Priority, schedulers.Config{PriorityHighIsBest: true}, []procSpec{
		{id: "P1", arrival: 0, burst: 2, priority: 1},
		{id: "P2", arrival: 0, burst: 2, priority: 9},
	})
	want := []core.Segment{seg("P2", 0, 2), seg("P1", 2, 4)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateMLFQ(t *testing.T) {
	_, res := runPolicy(t, schedulers.MLFQ, schedulers.Config{MLFQQuantums: []int{2, 4}}, []procSpec{
		{id: "P1", arrival: 0, burst: 7},
		{id: "P2", arrival: 0, burst: 4},
	})
	want := []core.Segment{
		seg("P1", 0, 2), seg("P2", 2, 4), seg("P1", 4, 8),
		seg("P2", 8, 10), seg("P1", 10, 11),
	}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateIdleGap(t *testing.T) {
	_, res := runPolicy(t, schedulers.FCFS, schedulers.Config{}, []procSpec{
		{id: "P1", arrival: 2, burst: 1},
		{id: "P2", arrival: 7, burst: 2},
	})
	want := []core.Segment{
		seg(core.IdleID, 0, 2), seg("P1", 2, 3),
		seg(core.IdleID, 3, 7), seg("P2", 7, 9),
	}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateDependencies(t *testing.T) {
	reg, res := runPolicy(t, schedulers.FCFS, schedulers.Config{}, []procSpec{
		{id: "P1", arrival: 0, burst: 2},
		{id: "P2", arrival: 0, burst: 3, deps: []string{"P1"}},
		{id: "P3", arrival: 1, burst: 1},
	})
	p1, _ := reg.Get("P1")
	p2, _ := reg.Get("P2")
	if p2.StartTime < p1.FinishTime {
		t.Fatalf("P2 started at %d before its dependency P1 finished at %d", p2.StartTime, p1.FinishTime)
	}
	want := []core.Segment{seg("P1", 0, 2), seg("P2", 2, 5), seg("P3", 5, 6)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateDependencyBlocksUntilFinish(t *testing.T) {
	// The only arrived process is blocked: the CPU idles even though
	// work exists, until the dependency's provider arrives and runs.
	_, res := runPolicy(t, schedulers.SRTF, schedulers.Config{}, []procSpec{
		{id: "P1", arrival: 0, burst: 2, deps: []string{"P2"}},
		{id: "P2", arrival: 3, burst: 1},
	})
	want := []core.Segment{
		seg(core.IdleID, 0, 3), seg("P2", 3, 4), seg("P1", 4, 6),
	}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateDependencyCycle(t *testing.T) {
	reg := buildRegistry(t, []procSpec{
		{id: "P1", arrival: 0, burst: 1, deps: []string{"P2"}},
		{id: "P2", arrival: 0, burst: 1, deps: []string{"P1"}},
	})
	pol, _ := schedulers.New(schedulers.FCFS, schedulers.Config{})
	_, err := Simulate(context.Background(), reg, pol)
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("cycle error = %v, want ErrConfiguration", err)
	}
}

func TestSimulateUnknownDependency(t *testing.T) {
	reg := buildRegistry(t, []procSpec{
		{id: "P1", arrival: 0, burst: 1, deps: []string{"ghost"}},
	})
	pol, _ := schedulers.New(schedulers.FCFS, schedulers.Config{})
	_, err := Simulate(context.Background(), reg, pol)
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("unknown dep error = %v, want ErrConfiguration", err)
	}
}

func TestSimulateIdempotentRerun(t *testing.T) {
	reg := buildRegistry(t, referenceSpecs())
	var first, second []core.Segment
	for i, dst := range []*[]core.Segment{&first, &second} {
		pol, err := schedulers.New(schedulers.SRTF, schedulers.Config{})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		res, err := Simulate(context.Background(), reg, pol)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		*dst = res.Segments
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-run diverged:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestSimulateCancellation(t *testing.T) {
	reg := buildRegistry(t, referenceSpecs())
	pol, _ := schedulers.New(schedulers.FCFS, schedulers.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Simulate(ctx, reg, pol)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil {
		t.Fatal("partial result must still be returned")
	}
}

func TestRunStateMachine(t *testing.T) {
	reg := buildRegistry(t, []procSpec{{id: "P1", arrival: 2, burst: 1}})
	pol, _ := schedulers.New(schedulers.FCFS, schedulers.Config{})
	run, err := NewRun(reg, pol)
	if err != nil {
		t.Fatal(err)
	}
	if run.State() != NotStarted {
		t.Fatalf("initial state = %v, want NotStarted", run.State())
	}
	if _, err := run.Step(); err != nil { // idle gap 0-2
		t.Fatal(err)
	}
	if run.State() != NotStarted {
		t.Fatalf("state after leading idle = %v, want NotStarted", run.State())
	}
	done, err := run.Step()
	if err != nil {
		t.Fatal(err)
	}
	if !done || run.State() != Finished {
		t.Fatalf("done = %v state = %v, want finished", done, run.State())
	}
}

func TestSimulateIntelligentBoundedWaiting(t *testing.T) {
	// Weights favor priority only, so P2 would starve behind P1's long
	// burst; the starvation threshold must get it the CPU by t=3.
	cfg := schedulers.Config{
		Weights:             schedulers.Weights{Priority: 1},
		StarvationThreshold: 3,
	}
	reg, res := runPolicy(t, schedulers.Intelligent, cfg, []procSpec{
		{id: "P1", arrival: 0, burst: 10, priority: 0},
		{id: "P2", arrival: 0, burst: 2, priority: 5},
	})
	p2, _ := reg.Get("P2")
	waiting := (p2.FinishTime - p2.Arrival) - p2.Burst
	if waiting > cfg.StarvationThreshold {
		t.Fatalf("P2 waited %d, threshold %d", waiting, cfg.StarvationThreshold)
	}
	want := []core.Segment{seg("P1", 0, 3), seg("P2", 3, 5), seg("P1", 5, 12)}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}

func TestSimulateCustomScript(t *testing.T) {
	// Scoring by negative remaining time reproduces SRTF.
	cfg := schedulers.Config{Script: "-p.remaining"}
	_, res := runPolicy(t, schedulers.Custom, cfg, referenceSpecs())
	want := []core.Segment{
		seg("P1", 0, 1), seg("P2", 1, 2), seg("P3", 2, 3),
		seg("P2", 3, 5), seg("P1", 5, 9),
	}
	if !reflect.DeepEqual(res.Segments, want) {
		t.Fatalf("segments = %v, want %v", res.Segments, want)
	}
}
