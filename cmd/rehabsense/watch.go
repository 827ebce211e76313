package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zjy020422/rehabit-sys/internal/device"
	"github.com/Zjy020422/rehabit-sys/internal/logging"
	"github.com/Zjy020422/rehabit-sys/internal/record"
	"github.com/Zjy020422/rehabit-sys/internal/sensor"
	"github.com/Zjy020422/rehabit-sys/internal/session"
)

var (
	watchConfigPath string
	watchSchemaPath string
	watchLogFile    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the live reading stream in a TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("watch needs an interactive terminal; use serve --print-only otherwise")
		}

		// The TUI owns the terminal; route logs away from it.
		log := slog.New(slog.DiscardHandler)

		cfg, err := loadConfig(watchConfigPath, watchSchemaPath, log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		endpoint := device.Endpoint{IP: cfg.Device.IP, Port: cfg.Device.Port}
		transport := device.NewHTTPTransport(endpoint, cfg.Timeout())
		sens := sensor.New(transport, sensor.Config{
			Endpoint:         endpoint,
			Timeout:          cfg.Timeout(),
			FailureThreshold: cfg.Device.FailureThreshold,
			Logger:           log,
		})
		sens.Connect(ctx)

		tui := record.NewTUIWriter(sens.Status())
		defer tui.Close()

		var writer record.Writer = tui
		var events record.EventWriter = tui
		var cleanup = func() {}
		if watchLogFile != "" {
			fw, err := record.NewFileWriter(watchLogFile, watchLogFile+".events")
			if err != nil {
				return err
			}
			mw := record.NewMultiWriter(
				[]record.Writer{tui, fw},
				[]record.EventWriter{tui, fw},
			)
			writer, events = mw, mw
			cleanup = func() { fw.Close() }
		}
		defer cleanup()

		rec := session.NewRecorder(sens, writer, events, cfg.PollInterval(), cfg.Device.ID)
		go rec.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "config/rehabsense.yaml", "Path to gateway configuration YAML")
	watchCmd.Flags().StringVar(&watchSchemaPath, "schema", "schemas/rehabsense.cue", "Path to CUE schema file")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Path to export session readings (JSONL)")
}
