package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zjy020422/rehabit-sys/internal/api"
	"github.com/Zjy020422/rehabit-sys/internal/config"
	"github.com/Zjy020422/rehabit-sys/internal/device"
	"github.com/Zjy020422/rehabit-sys/internal/logging"
	"github.com/Zjy020422/rehabit-sys/internal/sensor"
	"github.com/Zjy020422/rehabit-sys/internal/session"
)

var (
	serveConfigPath string
	serveSchemaPath string
	servePrintOnly  bool
	serveColor      bool
	serveLogFile    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sensor gateway",
	Long: "serve connects to the device, polls readings on a fixed interval " +
		"and exposes the sensor API to the training application.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.Default()

		cfg, err := loadConfig(serveConfigPath, serveSchemaPath, log)
		if err != nil {
			return err
		}

		logFile := serveLogFile
		if logFile == "" {
			logFile = cfg.Poll.LogFile
		}
		writer, events, cleanup, err := newWriters(servePrintOnly, serveColor, logFile, log)
		if err != nil {
			return err
		}
		defer cleanup()

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

		// A failed connect is not fatal: the gateway starts in simulation
		// and the web app can retry via POST /api/sensor/connect.
		if err := sens.Connect(ctx); err != nil {
			log.Warn("device not reachable at startup, serving simulated readings", "err", err)
		}

		rec := session.NewRecorder(sens, writer, events, cfg.PollInterval(), cfg.Device.ID)

		srv := api.NewServer(sens, rec)
		go func() {
			log.Info("sensor API listening", "addr", cfg.API.Listen)
			if err := srv.Start(ctx, cfg.API.Listen); err != nil && err != http.ErrServerClosed {
				log.Error("sensor API failed", "err", err)
				cancel()
			}
		}()

		go rec.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
		case <-ctx.Done():
		}

		cancel()
		log.Info("sensor gateway stopped")
		return nil
	},
}

// loadConfig reads the YAML config, falling back to built-in defaults when
// the default config file is absent.
func loadConfig(configPath, schemaPath string, log *slog.Logger) (*config.GatewayConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Info("no config file found, using defaults", "path", configPath)
		return config.Default(), nil
	}
	return config.Load(configPath, schemaPath)
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/rehabsense.yaml", "Path to gateway configuration YAML")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/rehabsense.cue", "Path to CUE schema file")
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print readings to STDOUT instead of writing to DB")
	serveCmd.Flags().BoolVar(&serveColor, "color", false, "Colorize STDOUT readings")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Path to export session readings (JSONL)")
}
