package sched

import (
	"context"
	"reflect"
	"testing"
)

func TestReplayReproducesBaseRun(t *testing.T) {
	// Feeding a run's own actions back with no mutation slice selected must
	// reproduce it bit for bit.
	in := contentionFixture()
	base := mustSolve(t, in)

	opts := DefaultOptions()
	opts.PriorActions = base.Actions
	replayed, err := SolveEventDriven(context.Background(), in, opts)
	if err != nil {
		t.Fatalf("replay returned error: %v", err)
	}
	if !reflect.DeepEqual(base, replayed) {
		t.Error("replayed run differs from the base run")
	}
}

func TestMutatedRunStaysValid(t *testing.T) {
	in := contentionFixture()
	base := mustSolve(t, in)

	for slice := range base.Actions {
		opts := DefaultOptions()
		opts.PriorActions = base.Actions
		opts.MutationSlice = slice
		mutated, err := SolveEventDriven(context.Background(), in, opts)
		if err != nil {
			t.Fatalf("mutation at slice %d returned error: %v", slice, err)
		}
		checkScheduleInvariants(t, in, mutated)
	}
}

func TestImproveNeverRegresses(t *testing.T) {
	in := contentionFixture()
	base := mustSolve(t, in)

	improved, err := Improve(context.Background(), in, DefaultOptions(), base,
		SolveEventDriven, 8, 1)
	if err != nil {
		t.Fatalf("Improve returned error: %v", err)
	}
	if improved.TotalData < base.TotalData {
		t.Errorf("improver regressed: %d -> %d", base.TotalData, improved.TotalData)
	}
	checkScheduleInvariants(t, in, improved)
}

func TestImproveDeterministicForSeed(t *testing.T) {
	in := contentionFixture()
	base := mustSolve(t, in)

	a, err := Improve(context.Background(), in, DefaultOptions(), base, SolveEventDriven, 4, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Improve(context.Background(), in, DefaultOptions(), base, SolveEventDriven, 4, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different improved runs")
	}
}

func TestImproveEmptyBase(t *testing.T) {
	in := Inputs{}
	base := NewTransmissionResult(0, 0)
	got, err := Improve(context.Background(), in, DefaultOptions(), base, SolveEventDriven, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Error("empty base must come back untouched")
	}
}
