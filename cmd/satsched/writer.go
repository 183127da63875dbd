package main

import (
	"os"

	"satsched/internal/report"
)

// newRowWriters assembles the streaming row writers based on flags and env
// vars. It returns nil when no writer is requested, plus a cleanup function
// closing any resources.
func newRowWriters(printRows bool, logFile string) (*report.MultiWriter, func(), error) {
	cleanup := func() {}
	var dws []report.DownlinkWriter
	var iws []report.ImagingWriter

	if printRows {
		w := &report.StdoutWriter{}
		dws = append(dws, w)
		iws = append(iws, w)
	}
	if logFile != "" {
		fw, err := report.NewFileWriter(logFile, logFile+".imaging")
		if err != nil {
			return nil, nil, err
		}
		dws = append(dws, fw)
		iws = append(iws, fw)
		cleanup = func() { fw.Close() }
	}
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		gw, err := report.NewGreptimeDBWriter(endpoint, "public",
			os.Getenv("SAT_DOWNLINK_TABLE"), os.Getenv("SAT_IMAGING_TABLE"))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		dws = append(dws, gw)
		iws = append(iws, gw)
	}
	if len(dws) == 0 {
		return nil, cleanup, nil
	}
	return report.NewMultiWriter(dws, iws), cleanup, nil
}
