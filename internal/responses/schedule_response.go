package responses

import (
	"schedsim/internal/core"
	"schedsim/internal/engine"
	"schedsim/internal/metrics"
	"schedsim/internal/schedulers"
)

// ProcessResponse is the per-process metrics row of a schedule response.
type ProcessResponse struct {
	ProcessID      string `json:"process_id"`
	ArrivalTime    int    `json:"arrival_time"`
	BurstTime      int    `json:"burst_time"`
	Priority       int    `json:"priority"`
	StartTime      int    `json:"start_time"`
	FinishTime     int    `json:"finish_time"`
	WaitingTime    int    `json:"waiting_time"`
	TurnAroundTime int    `json:"turn_around_time"`
}

// ScheduleResponse carries one run's timeline and metrics.
type ScheduleResponse struct {
	Algorithm             schedulers.Algorithm `json:"algorithm"`
	RunID                 string               `json:"run_id,omitempty"`
	Gantt                 []core.Segment       `json:"gantt"`
	TotalTime             int                  `json:"total_time"`
	BusyTime              int                  `json:"busy_time"`
	IdleTime              int                  `json:"idle_time"`
	AverageWaitingTime    float64              `json:"average_waiting_time"`
	AverageTurnAroundTime float64              `json:"average_turn_around_time"`
	CpuUtilization        float64              `json:"cpu_utilization"`
	CpuThroughput         float64              `json:"cpu_throughput"`
	Details               []ProcessResponse    `json:"details"`
}

// NewScheduleResponse projects an engine result and its metrics record
// into the wire shape.
func NewScheduleResponse(res *engine.Result, rec *metrics.Record) ScheduleResponse {
	details := make([]ProcessResponse, 0, len(rec.PerProcess))
	for _, p := range rec.PerProcess {
		details = append(details, ProcessResponse{
			ProcessID:      p.ID,
			ArrivalTime:    p.Arrival,
			BurstTime:      p.Burst,
			Priority:       p.Priority,
			StartTime:      p.Start,
			FinishTime:     p.Finish,
			WaitingTime:    p.Waiting,
			TurnAroundTime: p.Turnaround,
		})
	}
	return ScheduleResponse{
		Algorithm:             res.Algorithm,
		Gantt:                 res.Segments,
		TotalTime:             rec.TotalTime,
		BusyTime:              rec.BusyTime,
		IdleTime:              rec.IdleTime,
		AverageWaitingTime:    rec.AvgWaitingTime,
		AverageTurnAroundTime: rec.AvgTurnaroundTime,
		CpuUtilization:        rec.CPUUtilization,
		CpuThroughput:         rec.Throughput,
		Details:               details,
	}
}
