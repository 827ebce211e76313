package record

import (
	"context"
	"log/slog"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterBatch(t *testing.T) {
	rows := []telemetry.ReadingRow{sampleRow(), sampleRow()}
	rows[1].Source = telemetry.SourceSimulated
	rows[1].Timestamp = rows[0].Timestamp.Add(200 * time.Millisecond)

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "sensor_readings", log: slog.Default()}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) != 7 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}

	got := m.table.GetRows().Rows
	if len(got) != 2 {
		t.Fatalf("unexpected row count: %d", len(got))
	}
	if id := got[0].Values[0].GetStringValue(); id != "s1" {
		t.Fatalf("session_id = %s, want s1", id)
	}
	if src := got[1].Values[5].GetStringValue(); src != telemetry.SourceSimulated {
		t.Fatalf("source = %s, want %s", src, telemetry.SourceSimulated)
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, table: "sensor_readings", log: slog.Default()}

	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch(nil): %v", err)
	}
	if m.table != nil {
		t.Fatal("expected no write for empty batch")
	}
}
