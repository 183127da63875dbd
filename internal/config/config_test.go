package config

import (
	"os"
	"path/filepath"
	"testing"

	"satsched/internal/sched"
)

const sampleJSON = `{
    "satellites": [
        {"name": "KinoSat", "name_regex": "KinoSat_[0-9]+", "filling_speed": 512, "freeing_speed": 128, "space": 4096}
    ],
    "satellite_path": "data/russia",
    "facility_path": "data/facilities",
    "schedule_path": "out"
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSONConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleJSON), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Satellites) != 1 || cfg.Satellites[0].FillingSpeed != 512 {
		t.Errorf("satellites = %+v", cfg.Satellites)
	}
	if cfg.Region != "Russia" {
		t.Errorf("Region default = %q", cfg.Region)
	}
	if cfg.Tuning.RatioDenominator != sched.DenomMilliBytes {
		t.Errorf("RatioDenominator default = %q", cfg.Tuning.RatioDenominator)
	}
	if cfg.Tuning.ImproveSeed != 1 {
		t.Errorf("ImproveSeed default = %d", cfg.Tuning.ImproveSeed)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	content := `
satellites:
  - name: Zorkiy
    name_regex: "Zorkiy_[0-9]+"
    filling_speed: 512
    freeing_speed: 32
    space: 2048
satellite_path: data/russia
facility_path: data/facilities
schedule_path: out
region: AreaTarget
tuning:
  space_used_ratio: 0.93
  ratio_denominator: bytes
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Region != "AreaTarget" {
		t.Errorf("Region = %q", cfg.Region)
	}
	if cfg.Tuning.RatioDenominator != sched.DenomBytes {
		t.Errorf("RatioDenominator = %q", cfg.Tuning.RatioDenominator)
	}
}

func TestLoadValidatesWithCueSchema(t *testing.T) {
	schema := "../../schemas/satsched.cue"
	if _, err := os.Stat(schema); err != nil {
		t.Skipf("schema not present: %v", err)
	}
	if _, err := Load(writeConfig(t, sampleJSON), schema); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := `{
    "satellites": [
        {"name": "KinoSat", "name_regex": "KinoSat_[0-9]+", "filling_speed": "fast", "freeing_speed": 128, "space": 4096}
    ],
    "satellite_path": "data/russia",
    "facility_path": "data/facilities",
    "schedule_path": "out"
}`
	if _, err := Load(writeConfig(t, bad), schema); err == nil {
		t.Error("schema accepted a string filling_speed")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []string{
		`{"satellites": [], "satellite_path": "a", "facility_path": "b", "schedule_path": "c"}`,
		`{"satellites": [{"name": "K", "name_regex": "K.*", "filling_speed": 0, "freeing_speed": 1, "space": 1}], "satellite_path": "a", "facility_path": "b", "schedule_path": "c"}`,
		`{"satellites": [{"name": "K", "name_regex": "K.*", "filling_speed": 1, "freeing_speed": 1, "space": 1}], "satellite_path": "", "facility_path": "b", "schedule_path": "c"}`,
		`{"satellites": [{"name": "K", "name_regex": "K.*", "filling_speed": 1, "freeing_speed": 1, "space": 1}], "satellite_path": "a", "facility_path": "b", "schedule_path": "c", "tuning": {"ratio_denominator": "furlongs"}}`,
	}
	for _, c := range cases {
		if _, err := Load(writeConfig(t, c), ""); err == nil {
			t.Errorf("config accepted: %s", c)
		}
	}
}

func TestClassesCarryIndexes(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleJSON), "")
	if err != nil {
		t.Fatal(err)
	}
	classes := cfg.Classes()
	if len(classes) != 1 || classes[0].Type != 0 || classes[0].NameRegex != "KinoSat_[0-9]+" {
		t.Errorf("classes = %+v", classes)
	}
}
