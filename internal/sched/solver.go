package sched

import (
	"context"
	"fmt"
)

// Tuning exposes the admission-rule knobs. The near-full override compares
// storage_used / denominator against SpaceUsedRatio; the historical variants
// of this system disagreed on both the ratio and the denominator unit, so
// both are configuration rather than constants.
type Tuning struct {
	// SpaceUsedRatio is the fill fraction above which a satellite is forced
	// onto a downlink even while it could keep imaging.
	SpaceUsedRatio float64
	// RatioDenominator selects the unit of the comparison denominator:
	// "millibytes" divides storage (milli-bytes) by capacity x 1000,
	// "bytes" divides by raw capacity, reproducing the legacy behaviour
	// where the rule effectively always fires.
	RatioDenominator string
}

// Denominator units.
const (
	DenomMilliBytes = "millibytes"
	DenomBytes      = "bytes"
)

// DefaultTuning returns the production values of the event-driven solver.
func DefaultTuning() Tuning {
	return Tuning{SpaceUsedRatio: 0.93, RatioDenominator: DenomMilliBytes}
}

// nearFull reports whether storage (milli-bytes) trips the forced-downlink
// threshold for the given type.
func (t Tuning) nearFull(storageMilli int64, st SatelliteType) bool {
	denom := float64(st.CapacityMilli())
	if t.RatioDenominator == DenomBytes {
		denom = float64(st.Space)
	}
	return float64(storageMilli)/denom >= t.SpaceUsedRatio
}

// Options parameterizes a solver run.
type Options struct {
	Tuning Tuning
	// PriorActions replays a previous run's per-slice assignments verbatim.
	// Empty means fresh greedy matching throughout.
	PriorActions [][]int
	// MutationSlice is the slice index at which the replay attempts a single
	// forced unmatch before reverting to greedy matching. Negative disables.
	MutationSlice int
}

// DefaultOptions returns options for a plain greedy run.
func DefaultOptions() Options {
	return Options{Tuning: DefaultTuning(), MutationSlice: -1}
}

func (o Options) normalized() Options {
	if o.Tuning.SpaceUsedRatio == 0 {
		o.Tuning.SpaceUsedRatio = DefaultTuning().SpaceUsedRatio
	}
	if o.Tuning.RatioDenominator == "" {
		o.Tuning.RatioDenominator = DenomMilliBytes
	}
	return o
}

// Solver computes a schedule from visibility inputs. The two concrete
// solvers and the analytic estimator all share this signature.
type Solver func(ctx context.Context, in Inputs, opts Options) (*TransmissionResult, error)

// ByName returns a registered solver.
func ByName(name string) (Solver, error) {
	switch name {
	case "event":
		return SolveEventDriven, nil
	case "quantized":
		return SolveQuantized, nil
	case "maximum":
		return EstimateMax, nil
	default:
		return nil, fmt.Errorf("unknown solver %q (want event, quantized, or maximum)", name)
	}
}
