package emulator

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Zjy020422/rehabit-sys/internal/motion"
	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

func newTestEmulator(t *testing.T) (*Emulator, *httptest.Server) {
	t.Helper()
	p, err := motion.ByName("rom-sweep")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	e := New(p, nil)
	srv := httptest.NewServer(e.Handler())
	t.Cleanup(srv.Close)
	return e, srv
}

func TestHealth(t *testing.T) {
	_, srv := newTestEmulator(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestDataParsesAsReading(t *testing.T) {
	_, srv := newTestEmulator(t)

	for i := 0; i < 10; i++ {
		resp, err := http.Get(srv.URL + "/api/data")
		if err != nil {
			t.Fatalf("GET data: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		r, err := telemetry.ParseReading(body)
		if err != nil {
			t.Fatalf("emulator payload failed validation: %v (%s)", err, body)
		}
		if r.Angle < 0 || r.Angle > 180 {
			t.Errorf("angle out of range: %f", r.Angle)
		}
	}
}

func TestModeAndCommand(t *testing.T) {
	e, srv := newTestEmulator(t)

	resp, err := http.Post(srv.URL+"/api/mode", "application/json", strings.NewReader(`{"mode":"force"}`))
	if err != nil {
		t.Fatalf("POST mode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if e.Mode() != "force" {
		t.Errorf("expected mode force, got %q", e.Mode())
	}

	resp, err = http.Post(srv.URL+"/api/command", "application/json",
		strings.NewReader(`{"command":"vibrate_ok","mode":"training","force":50,"angle":90}`))
	if err != nil {
		t.Fatalf("POST command: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	cmds := e.Commands()
	if len(cmds) != 1 || cmds[0].Command != "vibrate_ok" {
		t.Errorf("unexpected commands: %+v", cmds)
	}
}

func TestCommandRejectsGarbage(t *testing.T) {
	_, srv := newTestEmulator(t)

	resp, err := http.Post(srv.URL+"/api/command", "application/json", strings.NewReader(`{`))
	if err != nil {
		t.Fatalf("POST command: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
