package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zjy020422/rehabit-sys/internal/emulator"
	"github.com/Zjy020422/rehabit-sys/internal/logging"
	"github.com/Zjy020422/rehabit-sys/internal/motion"
)

var (
	emulateListen  string
	emulateProfile string
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Run a fake device speaking the sensor wire protocol",
	Long: "emulate serves the device HTTP API on a local port, replaying a " +
		"motion profile, so the gateway can be exercised without hardware.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.Default()

		profile, err := motion.ByName(emulateProfile)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()

		emu := emulator.New(profile, log)
		if err := emu.Start(ctx, emulateListen); err != nil && err != http.ErrServerClosed {
			return err
		}
		log.Info("device emulator stopped")
		return nil
	},
}

func init() {
	emulateCmd.Flags().StringVar(&emulateListen, "listen", ":8080", "Address to serve the device API on")
	emulateCmd.Flags().StringVar(&emulateProfile, "profile", "rom-sweep", "Motion profile to replay")
}
