package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "satsched",
	Short: "Constellation downlink scheduling toolkit",
	Long:  "satsched computes offline downlink/imaging schedules for an Earth-observation constellation and verifies emitted schedules.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(viewCmd)
}
