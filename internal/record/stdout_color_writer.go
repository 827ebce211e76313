// ColorStdoutWriter prints human-friendly, colorized readings to STDOUT.
package record

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints reading rows using ANSI colors. Simulated rows
// are marked so a degraded link is obvious at a glance.
type ColorStdoutWriter struct {
	out io.Writer
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return &ColorStdoutWriter{out: os.Stdout}
}

// Write outputs a single reading row.
func (w *ColorStdoutWriter) Write(row telemetry.ReadingRow) error {
	srcColor := colorGreen
	if row.Source == telemetry.SourceSimulated {
		srcColor = colorYellow
	}
	fmt.Fprintf(w.out, "%s[%s]%s %ssession=%s%s %sforce=%.1fN%s %sangle=%.1f°%s %squality=%.2f%s %s%s%s\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, row.SessionID, colorReset,
		colorGreen, row.Force, colorReset,
		colorMagenta, row.Angle, colorReset,
		colorCyan, row.Quality, colorReset,
		srcColor, row.Source, colorReset,
	)
	return nil
}

// WriteBatch outputs multiple reading rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.ReadingRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent outputs an event row.
func (w *ColorStdoutWriter) WriteEvent(ev telemetry.EventRow) error {
	evColor := colorCyan
	if ev.Kind == telemetry.EventStateChange {
		evColor = colorRed
	}
	fmt.Fprintf(w.out, "%s[%s]%s %s%s%s %s\n",
		colorGray, ev.Timestamp.Format(time.RFC3339), colorReset,
		evColor, ev.Kind, colorReset,
		ev.Detail,
	)
	return nil
}
