// Writer implementation printing readings to STDOUT
package record

import (
	"encoding/json"
	"fmt"

	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// StdoutWriter prints reading rows as JSON to STDOUT.
type StdoutWriter struct{}

// Write outputs a single reading row.
func (w *StdoutWriter) Write(row telemetry.ReadingRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteBatch outputs multiple reading rows.
func (w *StdoutWriter) WriteBatch(rows []telemetry.ReadingRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent outputs an event row.
func (w *StdoutWriter) WriteEvent(ev telemetry.EventRow) error {
	data, _ := json.Marshal(ev)
	fmt.Println(string(data))
	return nil
}
