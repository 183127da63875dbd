package sched

import (
	"context"
	"fmt"
	"sort"

	"satsched/internal/logging"
	"satsched/internal/timeline"
)

const (
	// minDataMillis: a satellite holding less than this many milliseconds
	// worth of drain is never offered a downlink slot.
	minDataMillis = 5000
	// minSliceMillis floors the slice-shortening step so state changes can
	// not fragment the timeline below one second.
	minSliceMillis = 1000
)

// event marks a visibility-window boundary. Imaging-window events carry
// facility == Unassigned. endX is the window end, set on start events only;
// the scheduler needs it to know how long a satellite stays imageable.
type event struct {
	x         timeline.Instant
	endX      timeline.Instant
	kind      int // 0 = window end, 1 = window start
	facility  int
	satellite int
}

// eventLess orders events by (instant, kind, facility, satellite). Ends sort
// before starts at equal instants, so windows that merely touch never appear
// simultaneously visible.
func eventLess(a, b event) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	if a.facility != b.facility {
		return a.facility < b.facility
	}
	return a.satellite < b.satellite
}

func collectEvents(in Inputs) []event {
	var events []event
	for f, sats := range in.FacilityVisibility {
		for s, segs := range sats {
			for _, seg := range segs {
				events = append(events, event{x: seg.L, endX: seg.R, kind: 1, facility: f, satellite: s})
				events = append(events, event{x: seg.R, kind: 0, facility: f, satellite: s})
			}
		}
	}
	for s, segs := range in.SatelliteVisibility {
		for _, seg := range segs {
			events = append(events, event{x: seg.L, endX: seg.R, kind: 1, facility: Unassigned, satellite: s})
			events = append(events, event{x: seg.R, kind: 0, facility: Unassigned, satellite: s})
		}
	}
	sort.Slice(events, func(i, j int) bool { return eventLess(events[i], events[j]) })
	return events
}

// satelliteCost ranks satellites for the matching order. A satellite that
// will soon hold more data and drains faster gets freed first.
func satelliteCost(storageMilli, potentialFillingMillis int64, st SatelliteType) float64 {
	storageMilli += potentialFillingMillis * st.FillingSpeed
	return float64(storageMilli) / float64(st.FillingSpeed) * float64(st.FreeingSpeed)
}

// SolveEventDriven is the production solver. It walks the merged stream of
// window boundaries; between boundaries the visible set is fixed, and each
// such gap is cut into slices that end whenever some involved satellite
// would run dry or full. Per slice it admits candidate pairs, sorts
// satellites by cost, runs a maximum matching, and applies the integer
// milli-byte state updates.
func SolveEventDriven(ctx context.Context, in Inputs, opts Options) (*TransmissionResult, error) {
	opts = opts.normalized()
	log := logging.FromContext(ctx)
	facilities, satellites := in.Facilities(), in.Satellites()
	result := NewTransmissionResult(facilities, satellites)
	if satellites == 0 {
		return result, nil
	}
	events := collectEvents(in)
	if len(events) == 0 {
		return result, nil
	}

	spaceUsed := make([]int64, satellites)
	graph := make([][]int, satellites)
	// End of the current imaging window per satellite, 0 while outside one.
	satelliteVisible := make([]timeline.Instant, satellites)
	facilitySatelliteVisible := make([][]bool, facilities)
	for i := range facilitySatelliteVisible {
		facilitySatelliteVisible[i] = make([]bool, satellites)
	}

	replay := len(opts.PriorActions) > 0
	slice := 0
	currentTime := events[0].x
	for it := 0; it < len(events); {
		for it < len(events) && events[it].x == currentTime {
			e := events[it]
			if e.facility == Unassigned {
				if e.kind == 1 {
					satelliteVisible[e.satellite] = e.endX
				} else {
					satelliteVisible[e.satellite] = 0
				}
			} else {
				facilitySatelliteVisible[e.facility][e.satellite] = e.kind == 1
			}
			it++
		}
		if it == len(events) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := timeline.Interval{L: currentTime, R: events[it].x}
		if it%1000 == 0 {
			log.Debug("solving", "events_done", it, "events_total", len(events))
		}

		var paired []int
		if replay && slice < len(opts.PriorActions) {
			paired = append([]int(nil), opts.PriorActions[slice]...)
			if slice == opts.MutationSlice {
				changed := false
				for i := 0; i < satellites; i++ {
					if paired[i] != Unassigned && spaceUsed[i] < in.Types[i].CapacityMilli() && satelliteVisible[i] != 0 {
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
			for i := range graph {
				graph[i] = graph[i][:0]
			}
			for f := 0; f < facilities; f++ {
				for s := 0; s < satellites; s++ {
					if !facilitySatelliteVisible[f][s] {
						continue
					}
					if spaceUsed[s] < in.Types[s].FreeingSpeed*minDataMillis {
						continue
					}
					// Prefer imaging while storage is not critical; force a
					// downlink once the satellite is near full.
					if satelliteVisible[s] == 0 || opts.Tuning.nearFull(spaceUsed[s], in.Types[s]) {
						graph[s] = append(graph[s], satellites+f)
					}
				}
			}

			cost := make([]float64, satellites)
			for s := 0; s < satellites; s++ {
				var remaining int64
				if satelliteVisible[s] != 0 {
					remaining = int64(satelliteVisible[s] - currentTime)
				}
				cost[s] = satelliteCost(spaceUsed[s], remaining, in.Types[s])
			}
			perm := make([]int, satellites)
			for i := range perm {
				perm[i] = i
			}
			sort.SliceStable(perm, func(i, j int) bool { return cost[perm[i]] > cost[perm[j]] })

			paired = runKuhn(facilities, satellites, graph, perm)
		}

		// Shorten the slice so it ends exactly when the soonest involved
		// satellite drains empty or fills to capacity.
		minDuration := current.Length()
		for i := 0; i < satellites; i++ {
			st := in.Types[i]
			if paired[i] != Unassigned {
				freedSpace := min(spaceUsed[i], st.FreeingSpeed*int64(current.Length()))
				freedTime := timeline.Instant(freedSpace / st.FreeingSpeed)
				if freedTime == 0 {
					return nil, fmt.Errorf("slice %d: satellite %d assigned to station %d with nothing to drain", slice, i, paired[i])
				}
				minDuration = min(minDuration, freedTime)
			} else if satelliteVisible[i] != 0 {
				filledSpace := min(st.CapacityMilli()-spaceUsed[i], st.FillingSpeed*int64(current.Length()))
				filledTime := timeline.Instant(filledSpace / st.FillingSpeed)
				if filledTime > 0 {
					minDuration = min(minDuration, filledTime)
				}
			}
		}
		minDuration = max(minDuration, min(current.Length(), minSliceMillis))
		current.R = current.L + minDuration

		for i := 0; i < satellites; i++ {
			st := in.Types[i]
			if f := paired[i]; f != Unassigned {
				freedSpace := min(spaceUsed[i], st.FreeingSpeed*int64(minDuration))
				freedTime := freedSpace / st.FreeingSpeed
				if freedTime == 0 {
					return nil, fmt.Errorf("slice %d: satellite %d assigned to station %d with nothing to drain", slice, i, f)
				}
				realFreed := freedTime * st.FreeingSpeed
				result.Transmission[f][i] = insertInterval(result.Transmission[f][i],
					timeline.Interval{L: current.L, R: current.L + timeline.Instant(freedTime)})
				spaceUsed[i] -= realFreed
				if spaceUsed[i] < 0 {
					return nil, fmt.Errorf("slice %d: satellite %d storage went negative", slice, i)
				}
				result.TotalData += realFreed
			} else if satelliteVisible[i] != 0 {
				filledSpace := min(st.CapacityMilli()-spaceUsed[i], st.FillingSpeed*int64(minDuration))
				filledTime := filledSpace / st.FillingSpeed
				if filledTime > 0 {
					realFilled := filledTime * st.FillingSpeed
					spaceUsed[i] += realFilled
					if spaceUsed[i] > st.CapacityMilli() {
						return nil, fmt.Errorf("slice %d: satellite %d storage exceeded capacity", slice, i)
					}
					result.Shooting[i] = insertInterval(result.Shooting[i],
						timeline.Interval{L: current.L, R: current.L + timeline.Instant(filledTime)})
				}
			}
		}

		currentTime += minDuration
		result.Actions = append(result.Actions, paired)
		slice++
	}
	return result, nil
}
