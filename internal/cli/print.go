package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"schedsim/internal/core"
	"schedsim/internal/metrics"
)

// printGantt renders the timeline as a one-line ASCII chart with a time
// scale underneath.
func printGantt(w io.Writer, segments []core.Segment) {
	if len(segments) == 0 {
		fmt.Fprintln(w, "(empty gantt)")
		return
	}
	var bars strings.Builder
	var scale strings.Builder
	for _, s := range segments {
		label := s.ProcessID
		if s.Idle() {
			label = "--"
		}
		cell := fmt.Sprintf("[ %s ]", label)
		bars.WriteString(cell)
		scale.WriteString(fmt.Sprintf("%-*d", len(cell), s.Start))
	}
	scale.WriteString(strconv.Itoa(segments[len(segments)-1].End))
	fmt.Fprintln(w, "Gantt chart")
	fmt.Fprintln(w, bars.String())
	fmt.Fprintln(w, scale.String())
	fmt.Fprintln(w)
}

// printSchedule renders the per-process metrics table with aggregate
// averages in the footer.
func printSchedule(w io.Writer, rec *metrics.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Arrival", "Burst", "Start", "Finish", "Wait", "Turnaround"})
	for _, p := range rec.PerProcess {
		table.Append([]string{
			p.ID,
			strconv.Itoa(p.Priority),
			strconv.Itoa(p.Arrival),
			strconv.Itoa(p.Burst),
			strconv.Itoa(p.Start),
			strconv.Itoa(p.Finish),
			strconv.Itoa(p.Waiting),
			strconv.Itoa(p.Turnaround),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "",
		fmt.Sprintf("avg %.2f", rec.AvgWaitingTime),
		fmt.Sprintf("avg %.2f", rec.AvgTurnaroundTime)})
	table.Render()
	fmt.Fprintf(w, "cpu utilization: %.2f%%  throughput: %.4f/t  total: %d  busy: %d  idle: %d\n",
		rec.CPUUtilization*100, rec.Throughput, rec.TotalTime, rec.BusyTime, rec.IdleTime)
}
