package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"satsched/internal/verify"
	"satsched/internal/vis"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay an emitted schedule against the visibility inputs",
	Long:  "verify reads the Drop/ and Camera/ files under the schedule path, checks window containment, overlap freedom, and storage bounds, and reprints the transmitted total.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, log := commandContext()

		satVis, err := vis.ReadSatelliteVisibility(cfg.SatellitePath, cfg.Region)
		if err != nil {
			return err
		}
		facVis, err := vis.ReadFacilityVisibility(cfg.FacilityPath)
		if err != nil {
			return err
		}

		rep, err := verify.Schedule(cfg.SchedulePath, facVis, satVis, cfg.Classes())
		if err != nil {
			return err
		}
		log.Info("schedule verified",
			"downlinks", rep.Downlinks, "imagings", rep.Imagings, "satellites", rep.Satellites)
		fmt.Printf("Total transmitted data: %d.%03d MiB\n", rep.TotalDataMilli/1000, rep.TotalDataMilli%1000)
		return nil
	},
}
