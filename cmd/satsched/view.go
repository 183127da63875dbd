package main

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"satsched/internal/config"
	"satsched/internal/report"
	"satsched/internal/ui"
	"satsched/internal/vis"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse an emitted schedule in the terminal",
	Long:  "view loads the Drop/ and Camera/ files under the schedule path and opens an interactive browser over the passes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		transmission, err := vis.ReadDropDir(filepath.Join(cfg.SchedulePath, "Drop"))
		if err != nil {
			return err
		}
		shooting, err := vis.ReadCameraDir(filepath.Join(cfg.SchedulePath, "Camera"))
		if err != nil {
			return err
		}

		var downlinks []report.DownlinkRow
		for facility, satellites := range transmission {
			for satellite, segs := range satellites {
				class, err := classFor(cfg, satellite)
				if err != nil {
					return err
				}
				for _, seg := range segs {
					downlinks = append(downlinks, report.DownlinkRow{
						Facility:  facility,
						Satellite: satellite,
						Start:     seg.L,
						Stop:      seg.R,
						DataMilli: int64(seg.Length()) * class.FreeingSpeed,
					})
				}
			}
		}
		var imagings []report.ImagingRow
		for satellite, segs := range shooting {
			class, err := classFor(cfg, satellite)
			if err != nil {
				return err
			}
			for _, seg := range segs {
				imagings = append(imagings, report.ImagingRow{
					Satellite: satellite,
					Start:     seg.L,
					Stop:      seg.R,
					DataMilli: int64(seg.Length()) * class.FillingSpeed,
				})
			}
		}
		return ui.Run(downlinks, imagings)
	},
}

// classFor resolves a satellite name to its configured type by full regex match.
func classFor(cfg *config.Config, name string) (config.SatelliteClass, error) {
	for _, class := range cfg.Satellites {
		re, err := regexp.Compile("^(?:" + class.NameRegex + ")$")
		if err != nil {
			return config.SatelliteClass{}, fmt.Errorf("satellite type %q: bad name_regex: %w", class.Name, err)
		}
		if re.MatchString(name) {
			return class, nil
		}
	}
	return config.SatelliteClass{}, fmt.Errorf("satellite %q matches no configured type", name)
}
