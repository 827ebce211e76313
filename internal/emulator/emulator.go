// Package emulator serves the device wire protocol so the gateway can be
// developed and tested without the physical sensor on the bench.
package emulator

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/Zjy020422/rehabit-sys/internal/motion"
)

// Emulator mimics the ESP32 firmware's HTTP API, replaying a motion
// profile.
type Emulator struct {
	profile motion.Profile
	start   time.Time
	now     func() time.Time
	rand    *rand.Rand
	log     *slog.Logger

	mu       sync.Mutex
	mode     string
	commands []Command
}

// Command is what the firmware receives on /api/command.
type Command struct {
	Command string  `json:"command"`
	Mode    string  `json:"mode"`
	Force   float64 `json:"force"`
	Angle   float64 `json:"angle"`
}

// New creates an Emulator replaying the given profile.
func New(profile motion.Profile, log *slog.Logger) *Emulator {
	if log == nil {
		log = slog.Default()
	}
	return &Emulator{
		profile: profile,
		start:   time.Now(),
		now:     time.Now,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log,
		mode:    "all",
	}
}

// Handler returns the device API as an http.Handler.
func (e *Emulator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", e.handleHealth)
	mux.HandleFunc("/api/data", e.handleData)
	mux.HandleFunc("/api/mode", e.handleMode)
	mux.HandleFunc("/api/command", e.handleCommand)
	return mux
}

// Start serves until the context is done.
func (e *Emulator) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: e.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	e.log.Info("device emulator listening", "addr", addr, "profile", e.profile.Name())
	return srv.ListenAndServe()
}

// Mode returns the most recently set mode.
func (e *Emulator) Mode() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Commands returns all commands received so far.
func (e *Emulator) Commands() []Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Command(nil), e.commands...)
}

func (e *Emulator) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (e *Emulator) handleData(w http.ResponseWriter, r *http.Request) {
	now := e.now()
	force, angle := e.profile.At(now.Sub(e.start))

	e.mu.Lock()
	force += e.rand.NormFloat64() * 0.8
	angle += e.rand.NormFloat64() * 0.3
	quality := 0.9 + e.rand.Float64()*0.1
	e.mu.Unlock()

	if force < 0 {
		force = 0
	}
	if angle < 0 {
		angle = 0
	} else if angle > 180 {
		angle = 180
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{
		"force":     force,
		"angle":     angle,
		"timestamp": float64(now.UnixNano()) / 1e9,
		"quality":   quality,
	})
}

func (e *Emulator) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Mode == "" {
		http.Error(w, "invalid mode payload", http.StatusBadRequest)
		return
	}
	e.mu.Lock()
	e.mode = body.Mode
	e.mu.Unlock()
	e.log.Debug("emulator mode set", "mode", body.Mode)
	w.WriteHeader(http.StatusNoContent)
}

func (e *Emulator) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil || cmd.Command == "" {
		http.Error(w, "invalid command payload", http.StatusBadRequest)
		return
	}
	e.mu.Lock()
	e.commands = append(e.commands, cmd)
	e.mu.Unlock()
	e.log.Info("emulator received command", "command", cmd.Command, "mode", cmd.Mode)
	w.WriteHeader(http.StatusNoContent)
}
