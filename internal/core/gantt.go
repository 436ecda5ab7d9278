package core

// IdleID is the sentinel process id of idle Gantt segments.
const IdleID = "idle"

// Segment is one interval of the CPU timeline: either a run of a single
// process or an idle gap. Segments are produced in non-decreasing start
// order and partition the timeline with no overlaps.
type Segment struct {
	ProcessID string `json:"process_id"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

// Idle reports whether the segment is an idle gap.
func (s Segment) Idle() bool { return s.ProcessID == IdleID }

// Duration returns the segment length.
func (s Segment) Duration() int { return s.End - s.Start }
