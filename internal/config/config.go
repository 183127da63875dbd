// Package config loads the scheduler configuration. The canonical file is
// config.json; the decoder accepts YAML too since the grammar is a superset.
// A CUE schema validates the document before decoding.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"satsched/internal/sched"
)

// SatelliteClass describes one configured satellite type. Speeds are bytes
// per second, space is bytes; name_regex selects satellites by full match on
// their visibility-file name.
type SatelliteClass struct {
	Name         string `yaml:"name"`
	NameRegex    string `yaml:"name_regex"`
	FillingSpeed int64  `yaml:"filling_speed"`
	FreeingSpeed int64  `yaml:"freeing_speed"`
	Space        int64  `yaml:"space"`
}

// Tuning carries the solver knobs exposed for experimentation.
type Tuning struct {
	SpaceUsedRatio   float64 `yaml:"space_used_ratio"`
	RatioDenominator string  `yaml:"ratio_denominator"`
	ImproveSeed      int64   `yaml:"improve_seed"`
}

// Config is the root document.
type Config struct {
	Satellites    []SatelliteClass `yaml:"satellites"`
	SatellitePath string           `yaml:"satellite_path"`
	FacilityPath  string           `yaml:"facility_path"`
	SchedulePath  string           `yaml:"schedule_path"`
	// Region is the imaging target; visibility files for it are discovered
	// by this name as filename prefix. Defaults to "Russia".
	Region string `yaml:"region"`
	Tuning Tuning `yaml:"tuning"`
}

// Load reads, validates, and decodes a configuration file. schemaPath may be
// empty to skip CUE validation.
func Load(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if schemaPath != "" {
		if err := ValidateWithCue(path, data, schemaPath); err != nil {
			return nil, err
		}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "Russia"
	}
	if c.Tuning.RatioDenominator == "" {
		c.Tuning.RatioDenominator = sched.DenomMilliBytes
	}
	if c.Tuning.ImproveSeed == 0 {
		c.Tuning.ImproveSeed = 1
	}
}

// Validate checks the decoded document beyond what the schema can express.
func (c *Config) Validate() error {
	if len(c.Satellites) == 0 {
		return fmt.Errorf("config: no satellite types")
	}
	for _, s := range c.Satellites {
		if s.FillingSpeed <= 0 || s.FreeingSpeed <= 0 || s.Space <= 0 {
			return fmt.Errorf("config: satellite type %q: filling_speed, freeing_speed, and space must be positive", s.Name)
		}
	}
	if c.SatellitePath == "" || c.FacilityPath == "" || c.SchedulePath == "" {
		return fmt.Errorf("config: satellite_path, facility_path, and schedule_path are required")
	}
	switch c.Tuning.RatioDenominator {
	case sched.DenomMilliBytes, sched.DenomBytes:
	default:
		return fmt.Errorf("config: tuning.ratio_denominator %q: want %q or %q",
			c.Tuning.RatioDenominator, sched.DenomMilliBytes, sched.DenomBytes)
	}
	return nil
}

// Classes converts the configured types into scheduler entities.
func (c *Config) Classes() []sched.SatelliteType {
	out := make([]sched.SatelliteType, len(c.Satellites))
	for i, s := range c.Satellites {
		out[i] = sched.SatelliteType{
			Type:         i,
			Name:         s.Name,
			NameRegex:    s.NameRegex,
			FillingSpeed: s.FillingSpeed,
			FreeingSpeed: s.FreeingSpeed,
			Space:        s.Space,
		}
	}
	return out
}

// SolverTuning maps the tuning block onto solver options.
func (c *Config) SolverTuning() sched.Tuning {
	return sched.Tuning{
		SpaceUsedRatio:   c.Tuning.SpaceUsedRatio,
		RatioDenominator: c.Tuning.RatioDenominator,
	}
}
