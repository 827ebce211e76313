package record

import (
	"encoding/json"
	"os"

	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// FileWriter writes readings and events to JSONL files.
type FileWriter struct {
	readingFile *os.File
	eventFile   *os.File
	readingEnc  *json.Encoder
	eventEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter. eventPath may be empty to skip the
// event log.
func NewFileWriter(readingPath, eventPath string) (*FileWriter, error) {
	rf, err := os.Create(readingPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{readingFile: rf, readingEnc: json.NewEncoder(rf)}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	return fw, nil
}

// Write logs a single reading row.
func (f *FileWriter) Write(row telemetry.ReadingRow) error {
	return f.readingEnc.Encode(row)
}

// WriteBatch logs multiple reading rows.
func (f *FileWriter) WriteBatch(rows []telemetry.ReadingRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent logs a single event row, if enabled.
func (f *FileWriter) WriteEvent(ev telemetry.EventRow) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(ev)
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.readingFile != nil {
		if e := f.readingFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.eventFile != nil {
		if e := f.eventFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
