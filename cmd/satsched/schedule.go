package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"satsched/internal/config"
	"satsched/internal/logging"
	"satsched/internal/report"
	"satsched/internal/sched"
	"satsched/internal/vis"
)

var (
	schedConfigPath     string
	schedSchemaPath     string
	schedSolverName     string
	schedImproveBatches int
	schedLogFile        string
	schedPrintRows      bool
	schedVerbose        bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute and write a downlink/imaging schedule",
	Long:  "schedule reads the visibility tables, runs the configured solver, writes both schedule shapes to the schedule path, and prints the achieved total against the analytic ceiling.",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, log := commandContext()

		in, names, err := loadInputs(cfg)
		if err != nil {
			return err
		}
		log.Info("inputs loaded",
			"satellites", in.Satellites(), "stations", in.Facilities())

		maxResult, err := sched.EstimateMax(ctx, in, sched.DefaultOptions())
		if err != nil {
			return err
		}

		solver, err := sched.ByName(schedSolverName)
		if err != nil {
			return err
		}
		opts := sched.DefaultOptions()
		opts.Tuning = cfg.SolverTuning()

		solveStart := time.Now()
		result, err := solver(ctx, in, opts)
		if err != nil {
			return err
		}
		log.Info("solved", "solver", schedSolverName, "elapsed", time.Since(solveStart))

		if schedImproveBatches > 0 {
			result, err = sched.Improve(ctx, in, opts, result, solver, schedImproveBatches, cfg.Tuning.ImproveSeed)
			if err != nil {
				return err
			}
			log.Info("improved", "batches", schedImproveBatches, "total_data_milli", result.TotalData)
		}

		fmt.Printf("Theoretical maximum: %d.%03d MiB\n", maxResult.TotalData/1000, maxResult.TotalData%1000)
		fmt.Printf("Achieved maximum: %d.%03d MiB\n", result.TotalData/1000, result.TotalData%1000)

		if err := report.WriteClassic(cfg.SchedulePath, cfg.Region, result, names, in.Types); err != nil {
			return err
		}
		if err := report.WriteSplit(cfg.SchedulePath, result, names, in.Types); err != nil {
			return err
		}

		runID := uuid.New().String()
		downlinks, imagings := report.Rows(runID, result, names, in.Types)
		writer, cleanup, err := newRowWriters(schedPrintRows, schedLogFile)
		if err != nil {
			return err
		}
		defer cleanup()
		if writer != nil {
			if err := writer.WriteDownlinks(downlinks); err != nil {
				return err
			}
			if err := writer.WriteImagings(imagings); err != nil {
				return err
			}
		}

		log.Info("schedule written",
			"run_id", runID,
			"schedule_path", cfg.SchedulePath,
			"downlinks", len(downlinks),
			"imagings", len(imagings),
			"elapsed", time.Since(start))
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&schedConfigPath, "config", "config.json", "Path to the configuration file")
	scheduleCmd.Flags().StringVar(&schedSchemaPath, "schema", "schemas/satsched.cue", "Path to the CUE schema (empty skips validation)")
	scheduleCmd.Flags().StringVar(&schedSolverName, "solver", "event", "Solver to run (event, quantized)")
	scheduleCmd.Flags().IntVar(&schedImproveBatches, "improve-batches", 0, "Run the iterative improver over this many batches (0 disables)")
	scheduleCmd.Flags().StringVar(&schedLogFile, "log-file", "", "Path to export schedule rows (JSONL)")
	scheduleCmd.Flags().BoolVar(&schedPrintRows, "print-rows", false, "Print schedule rows to STDOUT as JSON lines")
	scheduleCmd.Flags().BoolVarP(&schedVerbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig resolves the config path, honoring the SATSCHED_CONFIG override.
func loadConfig() (*config.Config, error) {
	path := schedConfigPath
	if env := os.Getenv("SATSCHED_CONFIG"); env != "" {
		path = env
	}
	schema := schedSchemaPath
	if _, err := os.Stat(schema); schema != "" && err != nil {
		// Missing default schema is not fatal; validation happens in Load.
		schema = ""
	}
	return config.Load(path, schema)
}

func commandContext() (context.Context, *slog.Logger) {
	level := slog.LevelInfo
	if schedVerbose {
		level = slog.LevelDebug
	}
	log := logging.New(level)
	return logging.NewContext(context.Background(), log), log
}

// loadInputs reads both visibility families and indexes them.
func loadInputs(cfg *config.Config) (sched.Inputs, sched.Names, error) {
	satVis, err := vis.ReadSatelliteVisibility(cfg.SatellitePath, cfg.Region)
	if err != nil {
		return sched.Inputs{}, sched.Names{}, err
	}
	facVis, err := vis.ReadFacilityVisibility(cfg.FacilityPath)
	if err != nil {
		return sched.Inputs{}, sched.Names{}, err
	}
	return sched.Assemble(facVis, satVis, cfg.Classes())
}
