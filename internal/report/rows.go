// Package report emits computed schedules: the fixed-width text formats the
// downstream tooling consumes, plus streaming row writers (JSONL, stdout,
// GreptimeDB) that can be fanned out together.
package report

import (
	"time"

	"satsched/internal/sched"
	"satsched/internal/timeline"
)

// DownlinkRow is one transmitted interval, flattened for streaming writers.
type DownlinkRow struct {
	RunID     string           `json:"run_id"`
	Facility  string           `json:"facility"`
	Satellite string           `json:"satellite"`
	Start     timeline.Instant `json:"start_ms"`
	Stop      timeline.Instant `json:"stop_ms"`
	DataMilli int64            `json:"data_milli"`
}

// ImagingRow is one imaging interval.
type ImagingRow struct {
	RunID     string           `json:"run_id"`
	Satellite string           `json:"satellite"`
	Start     timeline.Instant `json:"start_ms"`
	Stop      timeline.Instant `json:"stop_ms"`
	DataMilli int64            `json:"data_milli"`
}

// DownlinkWriter is an interface to support different output writers.
type DownlinkWriter interface {
	WriteDownlink(DownlinkRow) error
}

// ImagingWriter handles imaging rows.
type ImagingWriter interface {
	WriteImaging(ImagingRow) error
}

// Optional: writers can also support batch mode.
type batchDownlinkWriter interface {
	WriteDownlinks([]DownlinkRow) error
}

type batchImagingWriter interface {
	WriteImagings([]ImagingRow) error
}

// Rows flattens a schedule into streaming rows, chronological per list.
func Rows(runID string, res *sched.TransmissionResult, names sched.Names, types []sched.SatelliteType) ([]DownlinkRow, []ImagingRow) {
	var downlinks []DownlinkRow
	for f, sats := range res.Transmission {
		for s, segs := range sats {
			for _, seg := range segs {
				downlinks = append(downlinks, DownlinkRow{
					RunID:     runID,
					Facility:  names.Facilities[f],
					Satellite: names.Satellites[s],
					Start:     seg.L,
					Stop:      seg.R,
					DataMilli: int64(seg.Length()) * types[s].FreeingSpeed,
				})
			}
		}
	}
	var imagings []ImagingRow
	for s, segs := range res.Shooting {
		for _, seg := range segs {
			imagings = append(imagings, ImagingRow{
				RunID:     runID,
				Satellite: names.Satellites[s],
				Start:     seg.L,
				Stop:      seg.R,
				DataMilli: int64(seg.Length()) * types[s].FillingSpeed,
			})
		}
	}
	return downlinks, imagings
}

// stampTime converts a schedule instant into a wall-clock time for stores
// that index on real timestamps.
func stampTime(t timeline.Instant) time.Time {
	st := timeline.FromInstant(t)
	return time.Date(st.Year, time.Month(st.Month+1), st.Day+1,
		st.Hour, st.Minute, st.Second, st.Millis*int(time.Millisecond), time.UTC)
}
