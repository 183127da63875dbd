// Package sched computes downlink/imaging schedules for an Earth-observation
// constellation. Satellites fill on-board storage while inside imaging
// windows and drain it toward ground stations inside downlink windows; the
// solvers decide who talks to whom in every slice of time.
//
// All data volumes are tracked in milli-bytes (bytes x 1000) so that
// rate-in-bytes-per-second times duration-in-milliseconds stays exact integer
// arithmetic. The final reports divide by 1000 once.
package sched

import (
	"fmt"
	"regexp"
	"sort"

	"satsched/internal/timeline"
)

// SatelliteType holds the immutable per-satellite parameters.
type SatelliteType struct {
	Type int
	Name string
	// NameRegex selects satellites by full-match on their input-file name.
	NameRegex string
	// FillingSpeed is bytes per second produced while imaging.
	FillingSpeed int64
	// FreeingSpeed is bytes per second sent while downlinking.
	FreeingSpeed int64
	// Space is the total on-board storage in bytes.
	Space int64
}

// CapacityMilli returns the storage capacity in milli-bytes.
func (t SatelliteType) CapacityMilli() int64 {
	return t.Space * 1000
}

// Inputs are the read-only visibility tables the solvers consume.
// FacilityVisibility[f][s] lists the windows during which satellite s may
// downlink to station f; SatelliteVisibility[s] lists the imaging windows of
// satellite s. Both are ordered and non-overlapping per list.
type Inputs struct {
	FacilityVisibility  [][][]timeline.Interval
	SatelliteVisibility [][]timeline.Interval
	Types               []SatelliteType
}

// Facilities returns the station count.
func (in Inputs) Facilities() int { return len(in.FacilityVisibility) }

// Satellites returns the satellite count.
func (in Inputs) Satellites() int { return len(in.SatelliteVisibility) }

// Names carries the display names behind the indexed entities.
type Names struct {
	Facilities []string
	Satellites []string
}

// Assemble indexes the named visibility maps into solver inputs. Satellites
// and facilities are ordered by name so runs are reproducible regardless of
// map iteration order. Every satellite must match at least one configured
// type regex (full match); the first matching type wins.
func Assemble(
	facVis map[string]map[string][]timeline.Interval,
	satVis map[string][]timeline.Interval,
	classes []SatelliteType,
) (Inputs, Names, error) {
	satNames := make([]string, 0, len(satVis))
	for name := range satVis {
		satNames = append(satNames, name)
	}
	sort.Strings(satNames)

	matchers := make([]*regexp.Regexp, len(classes))
	for i, c := range classes {
		re, err := regexp.Compile("^(?:" + c.NameRegex + ")$")
		if err != nil {
			return Inputs{}, Names{}, fmt.Errorf("satellite type %q: bad name_regex: %w", c.Name, err)
		}
		matchers[i] = re
	}

	in := Inputs{
		SatelliteVisibility: make([][]timeline.Interval, 0, len(satNames)),
		Types:               make([]SatelliteType, 0, len(satNames)),
	}
	satIndex := make(map[string]int, len(satNames))
	for _, name := range satNames {
		found := false
		for i, re := range matchers {
			if re.MatchString(name) {
				t := classes[i]
				t.Type = i
				in.Types = append(in.Types, t)
				found = true
				break
			}
		}
		if !found {
			return Inputs{}, Names{}, fmt.Errorf("satellite %q matches no configured type", name)
		}
		satIndex[name] = len(in.SatelliteVisibility)
		in.SatelliteVisibility = append(in.SatelliteVisibility, satVis[name])
	}

	facNames := make([]string, 0, len(facVis))
	for name := range facVis {
		facNames = append(facNames, name)
	}
	sort.Strings(facNames)

	in.FacilityVisibility = make([][][]timeline.Interval, 0, len(facNames))
	for _, name := range facNames {
		windows := make([][]timeline.Interval, len(satNames))
		for sat, segs := range facVis[name] {
			idx, ok := satIndex[sat]
			if !ok {
				// Downlink windows for a satellite that never images the
				// target region contribute nothing to the schedule.
				continue
			}
			windows[idx] = segs
		}
		in.FacilityVisibility = append(in.FacilityVisibility, windows)
	}

	return in, Names{Facilities: facNames, Satellites: satNames}, nil
}
