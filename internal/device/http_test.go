package device

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"
)

// transportFor builds an HTTPTransport pointed at a test server.
func transportFor(t *testing.T, srv *httptest.Server, timeout time.Duration) *HTTPTransport {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return NewHTTPTransport(Endpoint{IP: u.Hostname(), Port: port}, timeout)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	tr := transportFor(t, srv, time.Second)
	if err := tr.Ping(context.Background()); err != nil {
		t.Errorf("Ping returned error: %v", err)
	}
}

func TestPing_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "booting"})
	}))
	defer srv.Close()

	tr := transportFor(t, srv, time.Second)
	if err := tr.Ping(context.Background()); !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestFetch(t *testing.T) {
	payload := `{"force":45.2,"angle":87.6,"timestamp":1700000000.0,"quality":0.95}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	tr := transportFor(t, srv, time.Second)
	body, err := tr.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != payload {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestSetModeAndSend(t *testing.T) {
	var gotMode, gotCommand string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/mode":
			var body struct {
				Mode string `json:"mode"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			gotMode = body.Mode
		case "/api/command":
			var cmd Command
			json.NewDecoder(r.Body).Decode(&cmd)
			gotCommand = cmd.Command
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	tr := transportFor(t, srv, time.Second)
	if err := tr.SetMode(context.Background(), "angle"); err != nil {
		t.Fatalf("SetMode returned error: %v", err)
	}
	if gotMode != "angle" {
		t.Errorf("expected mode angle, got %q", gotMode)
	}

	cmd := Command{Command: "vibrate_ok", Mode: "training", Force: 50, Angle: 90}
	if err := tr.Send(context.Background(), cmd); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if gotCommand != "vibrate_ok" {
		t.Errorf("expected command vibrate_ok, got %q", gotCommand)
	}
}

func TestRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad command", http.StatusBadRequest)
	}))
	defer srv.Close()

	tr := transportFor(t, srv, time.Second)
	if err := tr.Send(context.Background(), Command{Command: "bogus"}); !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestUnreachable(t *testing.T) {
	// Reserve a port, then close the listener so connections are refused.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	tr := NewHTTPTransport(Endpoint{IP: "127.0.0.1", Port: port}, time.Second)
	if err := tr.Ping(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
	if _, err := tr.Fetch(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Errorf("expected ErrUnreachable, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	tr := transportFor(t, srv, 50*time.Millisecond)
	if _, err := tr.Fetch(context.Background()); !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestEndpointURL(t *testing.T) {
	ep := Endpoint{IP: "192.168.4.1", Port: 80}
	if got := ep.URL(); got != "http://192.168.4.1:80" {
		t.Errorf("unexpected URL: %s", got)
	}
	ep.BasePath = "/v1"
	if got := ep.URL(); got != "http://192.168.4.1:80/v1" {
		t.Errorf("unexpected URL: %s", got)
	}
}
