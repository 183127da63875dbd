// Package verify replays an emitted schedule against the visibility inputs
// and the storage model, independently of the solver that produced it.
package verify

import (
	"fmt"
	"path/filepath"
	"sort"

	"satsched/internal/sched"
	"satsched/internal/timeline"
	"satsched/internal/vis"
)

// Report summarizes a successful verification.
type Report struct {
	// TotalDataMilli is the transmitted volume recomputed from the emitted
	// intervals, in milli-bytes.
	TotalDataMilli int64
	Downlinks      int
	Imagings       int
	Satellites     int
}

type actionSeg struct {
	seg      timeline.Interval
	transmit bool
}

// Schedule checks the split-format output under scheduleDir (Drop/ and
// Camera/) against the visibility tables: every interval must lie inside a
// visibility window, no two actions of one entity may overlap, and the
// storage replay must stay within [0, capacity] for every satellite.
func Schedule(scheduleDir string,
	facVis map[string]map[string][]timeline.Interval,
	satVis map[string][]timeline.Interval,
	classes []sched.SatelliteType,
) (*Report, error) {
	in, names, err := sched.Assemble(facVis, satVis, classes)
	if err != nil {
		return nil, err
	}
	satIndex := make(map[string]int, len(names.Satellites))
	for i, name := range names.Satellites {
		satIndex[name] = i
	}

	transmission, err := vis.ReadDropDir(filepath.Join(scheduleDir, "Drop"))
	if err != nil {
		return nil, err
	}
	shooting, err := vis.ReadCameraDir(filepath.Join(scheduleDir, "Camera"))
	if err != nil {
		return nil, err
	}

	report := &Report{Satellites: len(names.Satellites)}
	actions := make(map[string][]actionSeg)

	for facility, satellites := range transmission {
		windows, ok := facVis[facility]
		if !ok {
			return nil, fmt.Errorf("schedule names unknown station %q", facility)
		}
		for satellite, segs := range satellites {
			visibility := windows[satellite]
			for _, seg := range segs {
				if !containedInWindows(visibility, seg) {
					return nil, fmt.Errorf("downlink %s->%s [%s, %s) lies outside every visibility window",
						facility, satellite, timeline.Format(seg.L), timeline.Format(seg.R))
				}
				actions[facility] = append(actions[facility], actionSeg{seg: seg, transmit: true})
				actions[satellite] = append(actions[satellite], actionSeg{seg: seg, transmit: true})
				report.Downlinks++
			}
		}
	}
	for satellite, segs := range shooting {
		visibility, ok := satVis[satellite]
		if !ok {
			return nil, fmt.Errorf("schedule names unknown satellite %q", satellite)
		}
		for _, seg := range segs {
			if !containedInWindows(visibility, seg) {
				return nil, fmt.Errorf("imaging %s [%s, %s) lies outside every visibility window",
					satellite, timeline.Format(seg.L), timeline.Format(seg.R))
			}
			actions[satellite] = append(actions[satellite], actionSeg{seg: seg, transmit: false})
			report.Imagings++
		}
	}

	entities := make([]string, 0, len(actions))
	for name := range actions {
		entities = append(entities, name)
	}
	sort.Strings(entities)

	for _, name := range entities {
		segs := actions[name]
		sort.Slice(segs, func(i, j int) bool {
			if segs[i].seg.L != segs[j].seg.L {
				return segs[i].seg.L < segs[j].seg.L
			}
			return segs[i].seg.R < segs[j].seg.R
		})
		for i := 1; i < len(segs); i++ {
			if segs[i-1].seg.Intersects(segs[i].seg) {
				return nil, fmt.Errorf("%s: overlapping actions [%s, %s) and [%s, %s)",
					name,
					timeline.Format(segs[i-1].seg.L), timeline.Format(segs[i-1].seg.R),
					timeline.Format(segs[i].seg.L), timeline.Format(segs[i].seg.R))
			}
		}

		ind, ok := satIndex[name]
		if !ok {
			continue
		}
		st := in.Types[ind]
		var data int64
		for _, a := range segs {
			if !a.transmit {
				data += int64(a.seg.Length()) * st.FillingSpeed
				if data > st.CapacityMilli() {
					return nil, fmt.Errorf("%s: storage exceeds capacity at %s", name, timeline.Format(a.seg.R))
				}
			} else {
				moved := int64(a.seg.Length()) * st.FreeingSpeed
				data -= moved
				report.TotalDataMilli += moved
				if data < 0 {
					return nil, fmt.Errorf("%s: transmits more than stored at %s", name, timeline.Format(a.seg.L))
				}
			}
		}
	}
	return report, nil
}

// containedInWindows reports whether seg lies inside one of the sorted
// visibility windows.
func containedInWindows(windows []timeline.Interval, seg timeline.Interval) bool {
	// Last window starting at or before seg.
	i := sort.Search(len(windows), func(i int) bool { return windows[i].L > seg.L })
	if i == 0 {
		return false
	}
	return windows[i-1].Contains(seg)
}
