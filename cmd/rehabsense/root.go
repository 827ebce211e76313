package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zjy020422/rehabit-sys/internal/logging"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "rehabsense",
	Short: "Rehabilitation sensor gateway",
	Long: "rehabsense connects the training application to the WiFi force/angle " +
		"sensor: it polls readings, degrades to simulation when the device " +
		"drops out, and serves the results over HTTP.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(logging.New(level))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(emulateCmd)
	rootCmd.AddCommand(replayCmd)
}
