package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"satsched/internal/sched"
	"satsched/internal/timeline"
)

func fixtureResult(t *testing.T) (*sched.TransmissionResult, sched.Names, []sched.SatelliteType) {
	t.Helper()
	start, err := timeline.Parse("1 Jun 2027 11:24:03.000")
	if err != nil {
		t.Fatal(err)
	}
	res := sched.NewTransmissionResult(1, 1)
	res.Transmission[0][0] = []timeline.Interval{{L: start, R: start + 11000}}
	res.Shooting[0] = []timeline.Interval{{L: start - 3600000, R: start - 3590000}}
	res.TotalData = 11000 * 1024
	names := sched.Names{Facilities: []string{"Anadyr1"}, Satellites: []string{"KinoSat_110101"}}
	types := []sched.SatelliteType{{Name: "KinoSat", FillingSpeed: 4096, FreeingSpeed: 1024, Space: 8192}}
	return res, names, types
}

func TestWriteClassicFormat(t *testing.T) {
	res, names, types := fixtureResult(t)
	dir := t.TempDir()
	if err := WriteClassic(dir, "Russia", res, names, types); err != nil {
		t.Fatalf("WriteClassic returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Facility-Anadyr1.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "Anadyr1-To-KinoSat_110101\n") {
		t.Error("missing section header")
	}
	wantRow := "     1     1 Jun 2027 11:24:03.000     1 Jun 2027 11:24:14.000            11.000    KinoSat_110101            11264\n"
	if !strings.Contains(text, wantRow) {
		t.Errorf("fixed-width row missing.\nwant: %q\ngot:\n%s", wantRow, text)
	}

	data, err = os.ReadFile(filepath.Join(dir, "Russia-To-Satellite.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Russia-To-KinoSat_110101\n") {
		t.Error("imaging file missing section header")
	}
}

func TestWriteSplitFormat(t *testing.T) {
	res, names, types := fixtureResult(t)
	dir := t.TempDir()
	if err := WriteSplit(dir, res, names, types); err != nil {
		t.Fatalf("WriteSplit returned error: %v", err)
	}

	for _, want := range []string{
		filepath.Join(dir, "Ground", "Ground_Anadyr1.txt"),
		filepath.Join(dir, "Drop", "Drop_KinoSat_110101.txt"),
		filepath.Join(dir, "Camera", "Camera_KinoSat_110101.txt"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("missing output file: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "Drop", "Drop_KinoSat_110101.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if lines[0] != "KinoSat_110101" {
		t.Errorf("first line = %q, want satellite name", lines[0])
	}
	if !strings.Contains(string(data), "Anadyr1") {
		t.Error("station name missing from drop row")
	}
}

func TestRowsFlattenSchedule(t *testing.T) {
	res, names, types := fixtureResult(t)
	downlinks, imagings := Rows("run-1", res, names, types)
	if len(downlinks) != 1 || len(imagings) != 1 {
		t.Fatalf("rows = %d downlink, %d imaging", len(downlinks), len(imagings))
	}
	d := downlinks[0]
	if d.RunID != "run-1" || d.Facility != "Anadyr1" || d.Satellite != "KinoSat_110101" {
		t.Errorf("downlink row = %+v", d)
	}
	if d.DataMilli != 11000*1024 {
		t.Errorf("DataMilli = %d", d.DataMilli)
	}
	if imagings[0].DataMilli != 10000*4096 {
		t.Errorf("imaging DataMilli = %d", imagings[0].DataMilli)
	}
}
