package verify

import (
	"context"
	"strings"
	"testing"

	"satsched/internal/report"
	"satsched/internal/sched"
	"satsched/internal/timeline"
)

func iv(l, r int64) timeline.Interval {
	return timeline.Interval{L: timeline.Instant(l), R: timeline.Instant(r)}
}

func fixtureTables() (map[string]map[string][]timeline.Interval, map[string][]timeline.Interval, []sched.SatelliteType) {
	facVis := map[string]map[string][]timeline.Interval{
		"Anadyr1": {
			"KinoSat_110101": {iv(10000, 20000)},
			"KinoSat_110102": {iv(10000, 20000)},
		},
	}
	satVis := map[string][]timeline.Interval{
		"KinoSat_110101": {iv(0, 8000)},
		"KinoSat_110102": {iv(0, 6000)},
	}
	classes := []sched.SatelliteType{{
		Name: "KinoSat", NameRegex: "KinoSat_[0-9]+",
		FillingSpeed: 100, FreeingSpeed: 100, Space: 1000,
	}}
	return facVis, satVis, classes
}

func TestVerifyAcceptsSolverOutput(t *testing.T) {
	facVis, satVis, classes := fixtureTables()
	in, names, err := sched.Assemble(facVis, satVis, classes)
	if err != nil {
		t.Fatal(err)
	}
	res, err := sched.SolveEventDriven(context.Background(), in, sched.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalData == 0 {
		t.Fatal("fixture transmitted nothing")
	}

	dir := t.TempDir()
	if err := report.WriteSplit(dir, res, names, in.Types); err != nil {
		t.Fatal(err)
	}

	rep, err := Schedule(dir, facVis, satVis, classes)
	if err != nil {
		t.Fatalf("verification rejected solver output: %v", err)
	}
	if rep.TotalDataMilli != res.TotalData {
		t.Errorf("replayed total = %d, solver total = %d", rep.TotalDataMilli, res.TotalData)
	}
	if rep.Satellites != 2 {
		t.Errorf("Satellites = %d", rep.Satellites)
	}
}

// writeTampered emits a hand-built schedule through the split writer.
func writeTampered(t *testing.T, build func(res *sched.TransmissionResult)) string {
	t.Helper()
	facVis, satVis, classes := fixtureTables()
	in, names, err := sched.Assemble(facVis, satVis, classes)
	if err != nil {
		t.Fatal(err)
	}
	res := sched.NewTransmissionResult(in.Facilities(), in.Satellites())
	build(res)
	dir := t.TempDir()
	if err := report.WriteSplit(dir, res, names, in.Types); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestVerifyRejectsOutsideWindow(t *testing.T) {
	dir := writeTampered(t, func(res *sched.TransmissionResult) {
		res.Shooting[0] = []timeline.Interval{iv(0, 8000)}
		res.Transmission[0][0] = []timeline.Interval{iv(9000, 15000)}
	})
	facVis, satVis, classes := fixtureTables()
	_, err := Schedule(dir, facVis, satVis, classes)
	if err == nil || !strings.Contains(err.Error(), "outside") {
		t.Errorf("err = %v, want containment violation", err)
	}
}

func TestVerifyRejectsStationOverlap(t *testing.T) {
	dir := writeTampered(t, func(res *sched.TransmissionResult) {
		res.Shooting[0] = []timeline.Interval{iv(0, 8000)}
		res.Shooting[1] = []timeline.Interval{iv(0, 6000)}
		res.Transmission[0][0] = []timeline.Interval{iv(10000, 15000)}
		res.Transmission[0][1] = []timeline.Interval{iv(12000, 16000)}
	})
	facVis, satVis, classes := fixtureTables()
	_, err := Schedule(dir, facVis, satVis, classes)
	if err == nil || !strings.Contains(err.Error(), "overlapping") {
		t.Errorf("err = %v, want overlap violation", err)
	}
}

func TestVerifyRejectsDrainWithoutData(t *testing.T) {
	dir := writeTampered(t, func(res *sched.TransmissionResult) {
		res.Transmission[0][0] = []timeline.Interval{iv(10000, 15000)}
	})
	facVis, satVis, classes := fixtureTables()
	_, err := Schedule(dir, facVis, satVis, classes)
	if err == nil || !strings.Contains(err.Error(), "more than stored") {
		t.Errorf("err = %v, want storage violation", err)
	}
}

func TestVerifyRejectsOverfilledStorage(t *testing.T) {
	// 12 s of imaging at 100 B/s against a 1000 B hull.
	facVis, satVis, classes := fixtureTables()
	satVis["KinoSat_110101"] = []timeline.Interval{iv(0, 15000)}

	in, names, err := sched.Assemble(facVis, satVis, classes)
	if err != nil {
		t.Fatal(err)
	}
	res := sched.NewTransmissionResult(in.Facilities(), in.Satellites())
	res.Shooting[0] = []timeline.Interval{iv(0, 12000)}
	dir := t.TempDir()
	if err := report.WriteSplit(dir, res, names, in.Types); err != nil {
		t.Fatal(err)
	}

	_, err = Schedule(dir, facVis, satVis, classes)
	if err == nil || !strings.Contains(err.Error(), "capacity") {
		t.Errorf("err = %v, want capacity violation", err)
	}
}
