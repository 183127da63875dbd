package sched

import (
	"context"
	"testing"

	"satsched/internal/timeline"
)

func estimate(t *testing.T, in Inputs) int64 {
	t.Helper()
	res, err := EstimateMax(context.Background(), in, DefaultOptions())
	if err != nil {
		t.Fatalf("EstimateMax returned error: %v", err)
	}
	return res.TotalData
}

func TestEstimateSingleSatellite(t *testing.T) {
	// 10 s imaging at 100 B/s inside a 10 s station window: everything
	// captured fits through the station.
	in := singlePair(satType(100, 100, 1000),
		[]timeline.Interval{iv(0, 10000)},
		[]timeline.Interval{iv(10000, 20000)})
	if got := estimate(t, in); got != 1_000_000 {
		t.Errorf("estimate = %d, want 1000000", got)
	}
}

func TestEstimateDutyCycleOnLongWindows(t *testing.T) {
	// A 30 s imaging window against a 10 s fill time: the tail is scaled by
	// drain/(drain+fill) = 1/2, so imageable time is 10s + 10s = 20 s.
	// Station time is ample.
	in := singlePair(satType(100, 100, 1000),
		[]timeline.Interval{iv(0, 30000)},
		[]timeline.Interval{iv(0, 100000)})
	if got := estimate(t, in); got != 2_000_000 {
		t.Errorf("estimate = %d, want 2000000", got)
	}
}

func TestEstimateStationBound(t *testing.T) {
	// Imageable volume outruns the single 5 s station window: the bound is
	// the station time times the drain rate.
	in := singlePair(satType(100, 100, 1000),
		[]timeline.Interval{iv(0, 10000)},
		[]timeline.Interval{iv(20000, 25000)})
	if got := estimate(t, in); got != 500_000 {
		t.Errorf("estimate = %d, want 500000", got)
	}
}

func TestEstimateFasterDrainersFirst(t *testing.T) {
	// Two satellites, station time for only one of them: the faster drainer
	// gets the time.
	types := []SatelliteType{satType(100, 100, 1000), satType(100, 400, 1000)}
	in := Inputs{
		SatelliteVisibility: [][]timeline.Interval{{iv(0, 4000)}, {iv(0, 4000)}},
		FacilityVisibility: [][][]timeline.Interval{{
			{iv(10000, 11000)},
			{iv(10000, 11000)},
		}},
		Types: types,
	}
	// Imageable: 4 s x 100 B/s each = 400000 milli. Station union is 1 s.
	// Satellite 1 drains at 400 B/s and needs exactly 1 s; satellite 0 gets
	// nothing.
	if got := estimate(t, in); got != 400_000 {
		t.Errorf("estimate = %d, want 400000", got)
	}
}

func TestUnionLengthMergesOverlaps(t *testing.T) {
	segs := [][]timeline.Interval{
		{iv(0, 1000), iv(5000, 6000)},
		{iv(500, 1500)},
		{iv(1500, 2000)}, // touches: counted continuously
	}
	if got := unionLength(segs); got != 3000 {
		t.Errorf("unionLength = %d, want 3000", got)
	}
}
