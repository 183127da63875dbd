package report

import (
	"context"
	"log"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeDBWriter ships schedule rows to GreptimeDB via the ingester
// client, keyed on run, station, and satellite, so consecutive runs can be
// compared in one dashboard.
type GreptimeDBWriter struct {
	client        greptime.Client
	db            string
	downlinkTable string
	imagingTable  string
}

// NewGreptimeDBWriter creates a GreptimeDB writer and auto-creates the
// tables if needed.
func NewGreptimeDBWriter(endpoint, database, downlinkTable, imagingTable string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}
	if downlinkTable == "" {
		downlinkTable = "sat_downlink"
	}
	if imagingTable == "" {
		imagingTable = "sat_imaging"
	}

	ddl := `
CREATE TABLE IF NOT EXISTS ` + downlinkTable + ` (
  run_id STRING TAG,
  facility STRING TAG,
  satellite STRING TAG,
  duration_ms BIGINT,
  data_milli BIGINT,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}
	ddl = `
CREATE TABLE IF NOT EXISTS ` + imagingTable + ` (
  run_id STRING TAG,
  satellite STRING TAG,
  duration_ms BIGINT,
  data_milli BIGINT,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client:        client,
		db:            database,
		downlinkTable: downlinkTable,
		imagingTable:  imagingTable,
	}, nil
}

// WriteDownlink inserts a single downlink row.
func (w *GreptimeDBWriter) WriteDownlink(row DownlinkRow) error {
	return w.WriteDownlinks([]DownlinkRow{row})
}

// WriteDownlinks inserts multiple downlink rows.
func (w *GreptimeDBWriter) WriteDownlinks(rows []DownlinkRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.downlinkTable)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("facility", types.StringType, 0)
	tbl.AddTagColumn("satellite", types.StringType, 0)
	tbl.AddFieldColumn("duration_ms", types.Int64Type)
	tbl.AddFieldColumn("data_milli", types.Int64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("facility", r.Facility)
		tbl.AppendTagValue("satellite", r.Satellite)
		tbl.AppendFieldValue("duration_ms", int64(r.Stop-r.Start))
		tbl.AppendFieldValue("data_milli", r.DataMilli)
		tbl.AppendTimeIndex(stampTime(r.Start))
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] downlink write failed: %v", err)
		return err
	}
	return nil
}

// WriteImaging inserts a single imaging row.
func (w *GreptimeDBWriter) WriteImaging(row ImagingRow) error {
	return w.WriteImagings([]ImagingRow{row})
}

// WriteImagings inserts multiple imaging rows.
func (w *GreptimeDBWriter) WriteImagings(rows []ImagingRow) error {
	if len(rows) == 0 {
		return nil
	}
	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.imagingTable)
	tbl.AddTagColumn("run_id", types.StringType, 0)
	tbl.AddTagColumn("satellite", types.StringType, 0)
	tbl.AddFieldColumn("duration_ms", types.Int64Type)
	tbl.AddFieldColumn("data_milli", types.Int64Type)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("run_id", r.RunID)
		tbl.AppendTagValue("satellite", r.Satellite)
		tbl.AppendFieldValue("duration_ms", int64(r.Stop-r.Start))
		tbl.AppendFieldValue("data_milli", r.DataMilli)
		tbl.AppendTimeIndex(stampTime(r.Start))
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeDBWriter] imaging write failed: %v", err)
		return err
	}
	return nil
}
