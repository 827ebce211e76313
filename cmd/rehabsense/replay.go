package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Zjy020422/rehabit-sys/internal/record"
)

var (
	replayInput string
	replaySpeed float64
	replayColor bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded session log",
	Long: "replay reads a JSONL session log written by serve --log-file and " +
		"plays the readings back, honoring the original timing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.Default()

		var writer record.Writer
		if replayColor {
			writer = record.NewColorStdoutWriter()
		} else {
			writer = &record.StdoutWriter{}
		}

		log.Info("replaying session log", "file", replayInput, "speed", replaySpeed)
		return record.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to the JSONL session log")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1, "Playback speed multiplier (0 disables delays)")
	replayCmd.Flags().BoolVar(&replayColor, "color", false, "Colorize replayed readings")
	replayCmd.MarkFlagRequired("input")
}
