package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"satsched/internal/sched"
	"satsched/internal/timeline"
)

// padLeft right-aligns s in a field of the given width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// durationColumn renders milliseconds as "sec.mmm".
func durationColumn(ms int64) string {
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

const (
	downlinkHeader = "Access        Start Time (UTCG)           Stop Time (UTCG)        Duration (sec)    Satellite name    Data (Mbytes)"
	downlinkRule   = "------    ------------------------    ------------------------    --------------    --------------    -------------"
	imagingHeader  = "Access        Start Time (UTCG)           Stop Time (UTCG)        Duration (sec)"
	imagingRule    = "------    ------------------------    ------------------------    --------------"
	dropHeader     = "Access        Start Time (UTCG)           Stop Time (UTCG)        Duration (sec)      Station name    Data (Mbytes)"
	dropRule       = "------    ------------------------    ------------------------    --------------    --------------    -------------"
	cameraHeader   = "Access        Start Time (UTCG)           Stop Time (UTCG)        Duration (sec)    Data (Mbytes)"
	cameraRule     = "------    ------------------------    ------------------------    --------------    -------------"
)

func writeRow(b *strings.Builder, index int, seg timeline.Interval, extra ...string) {
	b.WriteString(padLeft(fmt.Sprintf("%d", index), 6))
	b.WriteString("    ")
	b.WriteString(padLeft(timeline.Format(seg.L), 24))
	b.WriteString("    ")
	b.WriteString(padLeft(timeline.Format(seg.R), 24))
	b.WriteString("    ")
	b.WriteString(padLeft(durationColumn(int64(seg.Length())), 14))
	for _, col := range extra {
		b.WriteString("    ")
		b.WriteString(col)
	}
	b.WriteString("\n")
}

// WriteClassic emits the per-station schedule shape: one
// "Facility-<name>.txt" per station with a section per satellite, plus a
// single "<region>-To-Satellite.txt" with the imaging intervals.
func WriteClassic(dir, region string, res *sched.TransmissionResult, names sched.Names, types []sched.SatelliteType) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for f, facility := range names.Facilities {
		var b strings.Builder
		for s, satellite := range names.Satellites {
			b.WriteString(facility + "-To-" + satellite + "\n")
			b.WriteString(strings.Repeat("-", len(facility)+len(satellite)+4) + "\n")
			b.WriteString(downlinkHeader + "\n")
			b.WriteString(downlinkRule + "\n")
			for g, seg := range res.Transmission[f][s] {
				duration := int64(seg.Length())
				writeRow(&b, g+1, seg,
					padLeft(satellite, 14),
					padLeft(fmt.Sprintf("%d", duration*types[s].FreeingSpeed/1000), 13))
			}
			b.WriteString("\n")
		}
		if err := os.WriteFile(filepath.Join(dir, "Facility-"+facility+".txt"), []byte(b.String()), 0o644); err != nil {
			return err
		}
	}

	var b strings.Builder
	for s, satellite := range names.Satellites {
		b.WriteString(region + "-To-" + satellite + "\n")
		b.WriteString(strings.Repeat("-", len(region)+len(satellite)+4) + "\n")
		b.WriteString(imagingHeader + "\n")
		b.WriteString(imagingRule + "\n")
		for g, seg := range res.Shooting[s] {
			writeRow(&b, g+1, seg)
		}
		b.WriteString("\n")
	}
	return os.WriteFile(filepath.Join(dir, region+"-To-Satellite.txt"), []byte(b.String()), 0o644)
}

// WriteSplit emits the split schedule shape the verifier replays:
// Ground/ holds a chronological per-station view, Drop/ one downlink file
// per satellite, Camera/ one imaging file per satellite.
func WriteSplit(dir string, res *sched.TransmissionResult, names sched.Names, types []sched.SatelliteType) error {
	for _, sub := range []string{"Ground", "Drop", "Camera"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return err
		}
	}

	for f, facility := range names.Facilities {
		type pass struct {
			seg       timeline.Interval
			satellite int
		}
		var passes []pass
		for s := range names.Satellites {
			for _, seg := range res.Transmission[f][s] {
				passes = append(passes, pass{seg: seg, satellite: s})
			}
		}
		// Per-station downlinks never overlap, so start order is total.
		sort.Slice(passes, func(i, j int) bool { return passes[i].seg.L < passes[j].seg.L })

		var b strings.Builder
		b.WriteString(facility + "\n")
		b.WriteString(strings.Repeat("-", len(facility)) + "\n")
		b.WriteString(downlinkHeader + "\n")
		b.WriteString(downlinkRule + "\n")
		for g, p := range passes {
			duration := int64(p.seg.Length())
			writeRow(&b, g+1, p.seg,
				padLeft(names.Satellites[p.satellite], 14),
				padLeft(fmt.Sprintf("%d", duration*types[p.satellite].FreeingSpeed/1000), 13))
		}
		if err := os.WriteFile(filepath.Join(dir, "Ground", "Ground_"+facility+".txt"), []byte(b.String()), 0o644); err != nil {
			return err
		}
	}

	for s, satellite := range names.Satellites {
		type pass struct {
			seg      timeline.Interval
			facility int
		}
		var passes []pass
		for f := range names.Facilities {
			for _, seg := range res.Transmission[f][s] {
				passes = append(passes, pass{seg: seg, facility: f})
			}
		}
		sort.Slice(passes, func(i, j int) bool { return passes[i].seg.L < passes[j].seg.L })

		var b strings.Builder
		b.WriteString(satellite + "\n")
		b.WriteString(strings.Repeat("-", len(satellite)) + "\n")
		b.WriteString(dropHeader + "\n")
		b.WriteString(dropRule + "\n")
		for g, p := range passes {
			duration := int64(p.seg.Length())
			writeRow(&b, g+1, p.seg,
				padLeft(names.Facilities[p.facility], 14),
				padLeft(fmt.Sprintf("%d", duration*types[s].FreeingSpeed/1000), 13))
		}
		if err := os.WriteFile(filepath.Join(dir, "Drop", "Drop_"+satellite+".txt"), []byte(b.String()), 0o644); err != nil {
			return err
		}

		b.Reset()
		b.WriteString(satellite + "\n")
		b.WriteString(strings.Repeat("-", len(satellite)) + "\n")
		b.WriteString(cameraHeader + "\n")
		b.WriteString(cameraRule + "\n")
		for g, seg := range res.Shooting[s] {
			duration := int64(seg.Length())
			writeRow(&b, g+1, seg,
				padLeft(fmt.Sprintf("%d", duration*types[s].FillingSpeed/1000), 13))
		}
		if err := os.WriteFile(filepath.Join(dir, "Camera", "Camera_"+satellite+".txt"), []byte(b.String()), 0o644); err != nil {
			return err
		}
	}
	return nil
}
