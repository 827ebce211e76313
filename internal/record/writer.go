package record

import "github.com/Zjy020422/rehabit-sys/internal/telemetry"

// Writer is an interface to support different reading sinks.
type Writer interface {
	Write(telemetry.ReadingRow) error
}

// EventWriter handles link/command event rows.
type EventWriter interface {
	WriteEvent(telemetry.EventRow) error
}

// Optional: writers can also support batch mode.
type batchWriter interface {
	WriteBatch([]telemetry.ReadingRow) error
}

// WriteAll sends rows to w, using the batch path when supported.
func WriteAll(w Writer, rows []telemetry.ReadingRow) error {
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
