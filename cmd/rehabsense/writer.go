package main

import (
	"log/slog"
	"os"

	"github.com/Zjy020422/rehabit-sys/internal/record"
)

// newWriters sets up reading and event writers based on flags and env vars.
// It returns the writers and a cleanup function to close any resources.
func newWriters(printOnly, colored bool, logFile string, log *slog.Logger) (record.Writer, record.EventWriter, func(), error) {
	cleanup := func() {}

	writer, events, err := baseWriters(printOnly, colored, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if logFile == "" {
		return writer, events, cleanup, nil
	}

	fw, err := record.NewFileWriter(logFile, logFile+".events")
	if err != nil {
		return nil, nil, nil, err
	}
	mw := record.NewMultiWriter(
		[]record.Writer{writer, fw},
		[]record.EventWriter{events, fw},
	)
	cleanup = func() { fw.Close() }
	return mw, mw, cleanup, nil
}

// baseWriters chooses the underlying writers based on the printOnly flag
// and the GREPTIMEDB_ENDPOINT env var.
func baseWriters(printOnly, colored bool, log *slog.Logger) (record.Writer, record.EventWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if colored {
			w := record.NewColorStdoutWriter()
			return w, w, nil
		}
		w := &record.StdoutWriter{}
		return w, w, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := record.NewGreptimeDBWriter(endpoint, database, log)
	if err != nil {
		return nil, nil, err
	}
	// GreptimeDB only stores readings; events go to stdout.
	return w, &record.StdoutWriter{}, nil
}
