package record

import (
	"github.com/Zjy020422/rehabit-sys/internal/sensor"
	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// MultiWriter fans reading and event rows out to multiple writers.
type MultiWriter struct {
	writers      []Writer
	eventWriters []EventWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws []Writer, ews []EventWriter) *MultiWriter {
	return &MultiWriter{writers: ws, eventWriters: ews}
}

// Write sends a reading row to all writers.
func (mw *MultiWriter) Write(row telemetry.ReadingRow) error {
	for _, w := range mw.writers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple reading rows to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.ReadingRow) error {
	for _, w := range mw.writers {
		if err := WriteAll(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// SetStatus forwards link status updates to writers that display them.
func (mw *MultiWriter) SetStatus(st sensor.Status) {
	for _, w := range mw.writers {
		if sink, ok := w.(interface{ SetStatus(sensor.Status) }); ok {
			sink.SetStatus(st)
		}
	}
}

// WriteEvent sends an event row to all event writers.
func (mw *MultiWriter) WriteEvent(ev telemetry.EventRow) error {
	for _, w := range mw.eventWriters {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}
