// Package export serializes simulation results as CSV: one row per
// process followed by the aggregate metrics. It is a plain tabular
// projection of the metrics record; no other format is owned here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"schedsim/internal/metrics"
)

var header = []string{
	"process_id", "arrival_time", "burst_time", "priority",
	"start_time", "finish_time", "waiting_time", "turnaround_time",
}

// WriteCSV writes the metrics record to w.
func WriteCSV(w io.Writer, rec *metrics.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range rec.PerProcess {
		row := []string{
			p.ID,
			strconv.Itoa(p.Arrival),
			strconv.Itoa(p.Burst),
			strconv.Itoa(p.Priority),
			strconv.Itoa(p.Start),
			strconv.Itoa(p.Finish),
			strconv.Itoa(p.Waiting),
			strconv.Itoa(p.Turnaround),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	summary := [][]string{
		{"average_waiting_time", formatFloat(rec.AvgWaitingTime)},
		{"average_turnaround_time", formatFloat(rec.AvgTurnaroundTime)},
		{"cpu_utilization", formatFloat(rec.CPUUtilization)},
		{"throughput", formatFloat(rec.Throughput)},
		{"total_time", strconv.Itoa(rec.TotalTime)},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv summary: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
