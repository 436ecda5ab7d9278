// Package metrics derives per-process and aggregate performance figures
// from a finished registry and its Gantt timeline. It never mutates
// either input.
package metrics

import (
	"fmt"

	"schedsim/internal/core"
)

// ProcessMetrics is the per-process row of a record.
type ProcessMetrics struct {
	ID         string `json:"process_id"`
	Arrival    int    `json:"arrival_time"`
	Burst      int    `json:"burst_time"`
	Priority   int    `json:"priority"`
	Start      int    `json:"start_time"`
	Finish     int    `json:"finish_time"`
	Waiting    int    `json:"waiting_time"`
	Turnaround int    `json:"turnaround_time"`
}

// Record aggregates one run's performance metrics.
type Record struct {
	PerProcess        []ProcessMetrics `json:"per_process"`
	AvgWaitingTime    float64          `json:"average_waiting_time"`
	AvgTurnaroundTime float64          `json:"average_turnaround_time"`
	CPUUtilization    float64          `json:"cpu_utilization"`
	Throughput        float64          `json:"throughput"`
	TotalTime         int              `json:"total_time"`
	BusyTime          int              `json:"busy_time"`
	IdleTime          int              `json:"idle_time"`
}

// Compute derives the metrics record for a completed run. Waiting time
// is turnaround minus burst; utilization and throughput are measured
// over the window from the earliest arrival to the last finish. It
// fails with core.ErrEmptyInput on a registry with zero processes and
// with core.ErrInvalidInput if any process never finished.
func Compute(reg *core.Registry, segments []core.Segment) (*Record, error) {
	procs := reg.Processes()
	if len(procs) == 0 {
		return nil, fmt.Errorf("%w: registry has no processes", core.ErrEmptyInput)
	}

	rec := &Record{PerProcess: make([]ProcessMetrics, 0, len(procs))}
	earliestArrival := procs[0].Arrival
	lastFinish := 0
	var waitSum, turnSum int

	for _, p := range procs {
		if !p.Finished() {
			return nil, fmt.Errorf("%w: process %s has no finish time", core.ErrInvalidInput, p.ID)
		}
		turnaround := p.FinishTime - p.Arrival
		waiting := turnaround - p.Burst
		rec.PerProcess = append(rec.PerProcess, ProcessMetrics{
			ID:         p.ID,
			Arrival:    p.Arrival,
			Burst:      p.Burst,
			Priority:   p.Priority,
			Start:      p.StartTime,
			Finish:     p.FinishTime,
			Waiting:    waiting,
			Turnaround: turnaround,
		})
		waitSum += waiting
		turnSum += turnaround
		if p.Arrival < earliestArrival {
			earliestArrival = p.Arrival
		}
		if p.FinishTime > lastFinish {
			lastFinish = p.FinishTime
		}
	}

	for _, s := range segments {
		if s.Idle() {
			rec.IdleTime += s.Duration()
		} else {
			rec.BusyTime += s.Duration()
		}
	}

	count := float64(len(procs))
	rec.AvgWaitingTime = float64(waitSum) / count
	rec.AvgTurnaroundTime = float64(turnSum) / count
	rec.TotalTime = lastFinish - earliestArrival
	if rec.TotalTime > 0 {
		rec.CPUUtilization = float64(rec.BusyTime) / float64(rec.TotalTime)
		rec.Throughput = count / float64(rec.TotalTime)
	}
	return rec, nil
}
