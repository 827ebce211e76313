package record

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// greptimeClient is the slice of the ingester client the writer needs;
// tests substitute a mock.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes readings to GreptimeDB via the ingester client.
// The table is created by the server on first write.
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
	log    *slog.Logger
}

// defaultGreptimePort is the gRPC ingest port.
const defaultGreptimePort = 4001

// NewGreptimeDBWriter creates a GreptimeDB writer. endpoint is "host" or
// "host:port".
func NewGreptimeDBWriter(endpoint, database string, log *slog.Logger) (*GreptimeDBWriter, error) {
	host := endpoint
	port := defaultGreptimePort
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client: client,
		table:  telemetry.ReadingTableName,
		log:    log,
	}, nil
}

// Write inserts a single reading row.
func (w *GreptimeDBWriter) Write(row telemetry.ReadingRow) error {
	return w.WriteBatch([]telemetry.ReadingRow{row})
}

// WriteBatch inserts multiple reading rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.ReadingRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := readingTable(w.table, rows)
	if err != nil {
		return err
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("greptime write failed", "rows", len(rows), "err", err)
		return err
	}
	w.log.Debug("greptime write", "rows", len(rows))
	return nil
}

// readingTable builds an ingester table for a batch of rows. Column order
// here dictates the AddRow value order.
func readingTable(name string, rows []telemetry.ReadingRow) (*table.Table, error) {
	tbl, err := table.New(name)
	if err != nil {
		return nil, err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddTagColumn("device_id", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("force", types.FLOAT64); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("angle", types.FLOAT64); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("quality", types.FLOAT64); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("source", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}

	for _, r := range rows {
		if err := tbl.AddRow(r.SessionID, r.DeviceID, r.Force, r.Angle, r.Quality, r.Source, r.Timestamp); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
