package sched

import "satsched/internal/timeline"

// Unassigned is the action-log sentinel for a satellite that is not
// downlinking during a slice.
const Unassigned = -1

// TransmissionResult is the schedule produced by a solver.
type TransmissionResult struct {
	// TotalData is the grand total of transmitted data, in milli-bytes.
	TotalData int64
	// Transmission[f][s] lists when satellite s sent data to station f.
	// Ordered, non-overlapping, touching intervals merged.
	Transmission [][][]timeline.Interval
	// Shooting[s] lists when satellite s was imaging.
	Shooting [][]timeline.Interval
	// Actions[k][s] is the station satellite s was transmitting to during
	// slice k, or Unassigned.
	Actions [][]int
}

// NewTransmissionResult allocates an empty result for the given fleet shape.
func NewTransmissionResult(facilities, satellites int) *TransmissionResult {
	tr := &TransmissionResult{
		Transmission: make([][][]timeline.Interval, facilities),
		Shooting:     make([][]timeline.Interval, satellites),
	}
	for i := range tr.Transmission {
		tr.Transmission[i] = make([][]timeline.Interval, satellites)
	}
	return tr
}

// insertInterval appends iv, extending the previous interval instead when
// the two touch. Keeps the per-pair lists merged as required downstream.
func insertInterval(segs []timeline.Interval, iv timeline.Interval) []timeline.Interval {
	if n := len(segs); n > 0 && segs[n-1].R == iv.L {
		segs[n-1].R = iv.R
		return segs
	}
	return append(segs, iv)
}
