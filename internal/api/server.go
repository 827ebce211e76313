// HTTP surface consumed by the training web application.
package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Zjy020422/rehabit-sys/internal/device"
	"github.com/Zjy020422/rehabit-sys/internal/sensor"
	"github.com/Zjy020422/rehabit-sys/internal/session"
	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

//go:embed templates/index.html
var content embed.FS

// Server exposes the sensor facade to the surrounding web backend.
type Server struct {
	Sensor   *sensor.Sensor
	Recorder *session.Recorder
	tpl      *template.Template
}

// NewServer creates a Server. recorder may be nil when no polling loop is
// running; /api/sensor/data then reads on demand.
func NewServer(s *sensor.Sensor, rec *session.Recorder) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sensor: s, Recorder: rec, tpl: tpl}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/sensor/status", s.handleStatus)
	mux.HandleFunc("/api/sensor/data", s.handleData)
	mux.HandleFunc("/api/sensor/connect", s.handleConnect)
	mux.HandleFunc("/api/sensor/mode", s.handleMode)
	mux.HandleFunc("/api/sensor/command", s.handleCommand)
}

// Start serves until the context is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := s.Sensor.Status()
	data := struct {
		Status    sensor.Status
		SessionID string
	}{Status: st}
	if s.Recorder != nil {
		data.SessionID = s.Recorder.SessionID()
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sensor.Status())
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var row telemetry.ReadingRow
	if s.Recorder != nil {
		if latest, ok := s.Recorder.Latest(); ok {
			row = latest
		}
	}
	if row.Timestamp.IsZero() {
		// No poll has completed yet; read on demand. This never fails.
		reading, source := s.Sensor.ReadOnce(r.Context())
		row = telemetry.ReadingRow{
			Force:     reading.Force,
			Angle:     reading.Angle,
			Quality:   reading.Quality,
			Source:    source,
			Timestamp: reading.Time(),
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Sensor.Connect(r.Context()); err != nil {
		writeDeviceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sensor.Status())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := s.Sensor.SetMode(r.Context(), body.Mode); err != nil {
		writeDeviceError(w, err)
		return
	}
	if s.Recorder != nil {
		s.Recorder.RecordEvent(r.Context(), telemetry.EventMode, body.Mode)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var cmd device.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := s.Sensor.SendCommand(r.Context(), cmd); err != nil {
		writeDeviceError(w, err)
		return
	}
	if s.Recorder != nil {
		s.Recorder.RecordEvent(r.Context(), telemetry.EventCommand,
			fmt.Sprintf("%s mode=%s", cmd.Command, cmd.Mode))
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeDeviceError maps the transport taxonomy onto HTTP statuses: device
// failures become 502 so the web app can distinguish them from its own bad
// requests.
func writeDeviceError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	kind := "invalid_request"
	switch {
	case errors.Is(err, device.ErrUnreachable):
		status, kind = http.StatusBadGateway, "device_offline"
	case errors.Is(err, device.ErrTimeout):
		status, kind = http.StatusBadGateway, "device_slow"
	case errors.Is(err, device.ErrRejected):
		status, kind = http.StatusBadGateway, "device_rejected"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": kind, "detail": err.Error()})
}
