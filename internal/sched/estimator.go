package sched

import (
	"context"
	"sort"

	"satsched/internal/timeline"
)

// EstimateMax computes an analytic ceiling on the downlinkable volume. It is
// one of several valid upper bounds, not necessarily achievable:
//
//  1. Per satellite, bound the imageable time: a window shorter than the
//     time-to-fill contributes whole; a longer one contributes the fill time
//     plus the remainder scaled by the steady-state duty cycle
//     drain/(drain+fill).
//  2. Sum the union of each station's contact windows (balance sweep).
//  3. Hand the aggregate station time to satellites in drain-rate order.
//
// Only TotalData is populated in the result; the schedule fields stay empty.
func EstimateMax(ctx context.Context, in Inputs, opts Options) (*TransmissionResult, error) {
	satelliteData := make([]int64, 0, in.Satellites())
	for i, segs := range in.SatelliteVisibility {
		st := in.Types[i]
		fillingTime := st.CapacityMilli() / st.FillingSpeed
		ratio := float64(st.FreeingSpeed) / float64(st.FreeingSpeed+st.FillingSpeed)
		var totalTime int64
		for _, seg := range segs {
			duration := int64(seg.R - seg.L)
			if duration <= fillingTime {
				totalTime += duration
			} else {
				totalTime += fillingTime + int64(float64(duration-fillingTime)*ratio)
			}
		}
		satelliteData = append(satelliteData, totalTime*st.FillingSpeed)
	}

	var totalStationTime float64
	for _, facilitySatellites := range in.FacilityVisibility {
		totalStationTime += float64(unionLength(facilitySatellites))
	}

	satellites := len(in.Types)
	perm := make([]int, satellites)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return in.Types[perm[i]].FreeingSpeed > in.Types[perm[j]].FreeingSpeed
	})

	result := NewTransmissionResult(in.Facilities(), satellites)
	for _, ind := range perm {
		transmissionTime := float64(satelliteData[ind]) / float64(in.Types[ind].FreeingSpeed)
		if transmissionTime <= totalStationTime {
			totalStationTime -= transmissionTime
			result.TotalData += satelliteData[ind]
		} else {
			result.TotalData += int64(totalStationTime * float64(in.Types[ind].FreeingSpeed))
			break
		}
	}
	return result, nil
}

// unionLength sweeps all windows of one station and returns the length of
// their union in milliseconds.
func unionLength(satellites [][]timeline.Interval) int64 {
	type boundary struct {
		x   timeline.Instant
		end bool
	}
	var bounds []boundary
	for _, segs := range satellites {
		for _, seg := range segs {
			bounds = append(bounds, boundary{x: seg.L}, boundary{x: seg.R, end: true})
		}
	}
	sort.Slice(bounds, func(i, j int) bool {
		if bounds[i].x != bounds[j].x {
			return bounds[i].x < bounds[j].x
		}
		return !bounds[i].end && bounds[j].end
	})
	var total int64
	balance := 0
	var lastL timeline.Instant
	for _, b := range bounds {
		if !b.end {
			if balance == 0 {
				lastL = b.x
			}
			balance++
		} else {
			balance--
			if balance == 0 {
				total += int64(b.x - lastL)
			}
		}
	}
	return total
}
