package metrics

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"schedsim/internal/core"
)

func finishedRegistry(t *testing.T) *core.Registry {
	t.Helper()
	reg := core.NewRegistry()
	add := func(id string, arrival, burst, start, finish int) {
		if err := reg.Add(core.Process{ID: id, Arrival: arrival, Burst: burst}); err != nil {
			t.Fatal(err)
		}
		p, _ := reg.Get(id)
		p.Remaining = 0
		p.StartTime = start
		p.FinishTime = finish
	}
	// FCFS outcome of P1(0,5) P2(1,3) P3(2,1).
	add("P1", 0, 5, 0, 5)
	add("P2", 1, 3, 5, 8)
	add("P3", 2, 1, 8, 9)
	return reg
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeReferenceValues(t *testing.T) {
	reg := finishedRegistry(t)
	segments := []core.Segment{
		{ProcessID: "P1", Start: 0, End: 5},
		{ProcessID: "P2", Start: 5, End: 8},
		{ProcessID: "P3", Start: 8, End: 9},
	}
	rec, err := Compute(reg, segments)
	if err != nil {
		t.Fatal(err)
	}

	// Waiting: 0, 4, 6 -> avg 10/3.
	if !almostEqual(rec.AvgWaitingTime, 10.0/3.0) {
		t.Fatalf("avg waiting = %v, want %v", rec.AvgWaitingTime, 10.0/3.0)
	}
	// Turnaround: 5, 7, 7 -> avg 19/3.
	if !almostEqual(rec.AvgTurnaroundTime, 19.0/3.0) {
		t.Fatalf("avg turnaround = %v, want %v", rec.AvgTurnaroundTime, 19.0/3.0)
	}
	if rec.TotalTime != 9 || rec.BusyTime != 9 || rec.IdleTime != 0 {
		t.Fatalf("times = total %d busy %d idle %d", rec.TotalTime, rec.BusyTime, rec.IdleTime)
	}
	if !almostEqual(rec.CPUUtilization, 1.0) {
		t.Fatalf("utilization = %v, want 1.0", rec.CPUUtilization)
	}
	if !almostEqual(rec.Throughput, 3.0/9.0) {
		t.Fatalf("throughput = %v, want %v", rec.Throughput, 3.0/9.0)
	}

	wait := map[string]int{}
	for _, p := range rec.PerProcess {
		wait[p.ID] = p.Waiting
	}
	want := map[string]int{"P1": 0, "P2": 4, "P3": 6}
	for id, w := range want {
		if wait[id] != w {
			t.Fatalf("waiting[%s] = %d, want %d", id, wait[id], w)
		}
	}
}

func TestComputeWithIdleSegments(t *testing.T) {
	reg := core.NewRegistry()
	if err := reg.Add(core.Process{ID: "P1", Arrival: 2, Burst: 1}); err != nil {
		t.Fatal(err)
	}
	p, _ := reg.Get("P1")
	p.Remaining = 0
	p.StartTime = 2
	p.FinishTime = 3

	segments := []core.Segment{
		{ProcessID: core.IdleID, Start: 0, End: 2},
		{ProcessID: "P1", Start: 2, End: 3},
	}
	rec, err := Compute(reg, segments)
	if err != nil {
		t.Fatal(err)
	}
	if rec.IdleTime != 2 || rec.BusyTime != 1 {
		t.Fatalf("busy %d idle %d, want 1/2", rec.BusyTime, rec.IdleTime)
	}
	// Window is arrival(2) to finish(3): the CPU was fully busy in it.
	if rec.TotalTime != 1 || !almostEqual(rec.CPUUtilization, 1.0) {
		t.Fatalf("total %d utilization %v", rec.TotalTime, rec.CPUUtilization)
	}
}

func TestComputeEmptyRegistry(t *testing.T) {
	_, err := Compute(core.NewRegistry(), nil)
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestComputeUnfinishedProcess(t *testing.T) {
	reg := core.NewRegistry()
	if err := reg.Add(core.Process{ID: "P1", Arrival: 0, Burst: 1}); err != nil {
		t.Fatal(err)
	}
	_, err := Compute(reg, nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestComputeDoesNotMutate(t *testing.T) {
	reg := finishedRegistry(t)
	before, _ := reg.Get("P1")
	snapshot := *before
	if _, err := Compute(reg, nil); err != nil {
		t.Fatal(err)
	}
	after, _ := reg.Get("P1")
	if !reflect.DeepEqual(*after, snapshot) {
		t.Fatalf("Compute mutated the registry: %+v -> %+v", snapshot, *after)
	}
}
