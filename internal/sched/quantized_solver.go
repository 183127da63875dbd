package sched

import (
	"context"
	"math"
	"sort"

	"satsched/internal/logging"
	"satsched/internal/timeline"
)

const (
	// fragmentMillis is the fixed quantization step of the quantized solver.
	fragmentMillis = 1000
	// futureFragments is how far ahead the cost function looks to estimate
	// data still to come from imaging.
	futureFragments = 630
	// quantizedSpaceUsedRatio is the near-full threshold tuned for the
	// quantized solver; it differs from the event solver's value.
	quantizedSpaceUsedRatio = 0.85
)

// SolveQuantized is the fixed-step solver variant. Instead of walking window
// boundaries it advances in one-second fragments, gating candidate pairs on
// the fragment's intersection with the current visibility window of each
// cursor. Kept for comparison runs; the event-driven solver supersedes it.
func SolveQuantized(ctx context.Context, in Inputs, opts Options) (*TransmissionResult, error) {
	opts = opts.normalized()
	if opts.Tuning.SpaceUsedRatio == DefaultTuning().SpaceUsedRatio {
		opts.Tuning.SpaceUsedRatio = quantizedSpaceUsedRatio
	}
	log := logging.FromContext(ctx)
	facilities, satellites := in.Facilities(), in.Satellites()
	result := NewTransmissionResult(facilities, satellites)
	if satellites == 0 {
		return result, nil
	}

	minTimestamp := timeline.Instant(math.MaxInt64)
	maxTimestamp := timeline.Instant(0)
	span := func(segs []timeline.Interval) {
		for _, seg := range segs {
			minTimestamp = min(minTimestamp, seg.L)
			maxTimestamp = max(maxTimestamp, seg.R)
		}
	}
	for _, sats := range in.FacilityVisibility {
		for _, segs := range sats {
			span(segs)
		}
	}
	for _, segs := range in.SatelliteVisibility {
		span(segs)
	}
	if minTimestamp >= maxTimestamp {
		return result, nil
	}

	facilityCursors := make([][]int, facilities)
	for i := range facilityCursors {
		facilityCursors[i] = make([]int, satellites)
	}
	satelliteCursors := make([]int, satellites)

	satIntersection := func(i int, seg timeline.Interval) timeline.Interval {
		if satelliteCursors[i] == len(in.SatelliteVisibility[i]) {
			return timeline.Interval{}
		}
		return in.SatelliteVisibility[i][satelliteCursors[i]].Intersect(seg)
	}
	facIntersection := func(f, s int, seg timeline.Interval) timeline.Interval {
		if facilityCursors[f][s] == len(in.FacilityVisibility[f][s]) {
			return timeline.Interval{}
		}
		return in.FacilityVisibility[f][s][facilityCursors[f][s]].Intersect(seg)
	}

	spaceUsed := make([]int64, satellites)
	graph := make([][]int, satellites)
	replay := len(opts.PriorActions) > 0

	iteration := 0
	for t := minTimestamp; t < maxTimestamp; iteration, t = iteration+1, t+fragmentMillis {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if int64(t)%10000000 == 0 {
			log.Debug("solving", "progress_pct", int(float64(t-minTimestamp)*100/float64(maxTimestamp-minTimestamp)))
		}
		for i := range graph {
			graph[i] = graph[i][:0]
		}

		current := timeline.Interval{L: t, R: min(maxTimestamp, t+fragmentMillis)}
		for i := 0; i < satellites; i++ {
			segs := in.SatelliteVisibility[i]
			for satelliteCursors[i] < len(segs) && segs[satelliteCursors[i]].R <= t {
				satelliteCursors[i]++
			}
		}
		for f := 0; f < facilities; f++ {
			for s := 0; s < satellites; s++ {
				segs := in.FacilityVisibility[f][s]
				for facilityCursors[f][s] < len(segs) && segs[facilityCursors[f][s]].R <= t {
					facilityCursors[f][s]++
				}
				if facilityCursors[f][s] == len(segs) || !segs[facilityCursors[f][s]].Intersects(current) {
					continue
				}
				if spaceUsed[s] == 0 {
					continue
				}
				// Too short a contact to be worth a reassignment.
				if facIntersection(f, s, current).Length() < fragmentMillis {
					continue
				}
				if satIntersection(s, current).Length() == 0 || opts.Tuning.nearFull(spaceUsed[s], in.Types[s]) {
					graph[s] = append(graph[s], satellites+f)
				}
			}
		}

		cost := make([]float64, satellites)
		lookahead := timeline.Interval{L: t, R: t + fragmentMillis*futureFragments}
		for s := 0; s < satellites; s++ {
			cost[s] = satelliteCost(spaceUsed[s], int64(satIntersection(s, lookahead).Length()), in.Types[s])
		}
		perm := make([]int, satellites)
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(i, j int) bool { return cost[perm[i]] > cost[perm[j]] })

		var paired []int
		if replay && iteration < len(opts.PriorActions) {
			paired = append([]int(nil), opts.PriorActions[iteration]...)
			if iteration == opts.MutationSlice {
				changed := false
				for i := 0; i < satellites; i++ {
					if paired[i] != Unassigned && spaceUsed[i] < in.Types[i].CapacityMilli() &&
						satIntersection(i, current).Length() > 0 {
						paired[i] = Unassigned
						changed = true
						break
					}
				}
				if !changed {
					return result, nil
				}
				replay = false
			}
		} else {
			replay = false
			paired = runKuhn(facilities, satellites, graph, perm)
		}

		for i := 0; i < satellites; i++ {
			st := in.Types[i]
			if f := paired[i]; f != Unassigned {
				intersection := facIntersection(f, i, current)
				freedSpace := min(spaceUsed[i], st.FreeingSpeed*int64(intersection.Length()))
				freedTime := freedSpace / st.FreeingSpeed
				if freedTime > 0 {
					realFreed := freedTime * st.FreeingSpeed
					result.Transmission[f][i] = insertInterval(result.Transmission[f][i],
						timeline.Interval{L: intersection.L, R: intersection.L + timeline.Instant(freedTime)})
					spaceUsed[i] -= realFreed
					result.TotalData += realFreed
				}
			} else {
				intersection := satIntersection(i, current)
				filledSpace := min(st.CapacityMilli()-spaceUsed[i], st.FillingSpeed*int64(intersection.Length()))
				filledTime := filledSpace / st.FillingSpeed
				if filledTime > 0 {
					realFilled := filledTime * st.FillingSpeed
					spaceUsed[i] += realFilled
					result.Shooting[i] = insertInterval(result.Shooting[i],
						timeline.Interval{L: intersection.L, R: intersection.L + timeline.Instant(filledTime)})
				}
			}
		}
		result.Actions = append(result.Actions, paired)
	}
	return result, nil
}
