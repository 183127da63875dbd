package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"satsched/internal/sched"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print the analytic ceiling on downlinkable volume",
	Long:  "estimate computes the theoretical maximum a schedule could downlink. The bound is informational; the solvers never consult it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, _ := commandContext()
		in, _, err := loadInputs(cfg)
		if err != nil {
			return err
		}
		result, err := sched.EstimateMax(ctx, in, sched.DefaultOptions())
		if err != nil {
			return err
		}
		fmt.Printf("Theoretical maximum: %d.%03d MiB\n", result.TotalData/1000, result.TotalData%1000)
		return nil
	},
}
