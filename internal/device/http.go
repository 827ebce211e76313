package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Device API paths.
const (
	pathHealth  = "/api/health"
	pathData    = "/api/data"
	pathMode    = "/api/mode"
	pathCommand = "/api/command"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// HTTPTransport implements Transport over the device's WiFi HTTP API.
// It issues exactly one request per call and never retries.
type HTTPTransport struct {
	endpoint Endpoint
	timeout  time.Duration
	client   *http.Client
}

// NewHTTPTransport creates a transport for the given endpoint. A timeout of
// zero selects DefaultTimeout.
func NewHTTPTransport(endpoint Endpoint, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

// Endpoint returns the endpoint this transport talks to.
func (t *HTTPTransport) Endpoint() Endpoint { return t.endpoint }

// Ping implements Transport.
func (t *HTTPTransport) Ping(ctx context.Context) error {
	body, err := t.get(ctx, pathHealth)
	if err != nil {
		return err
	}
	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("%w: health payload: %v", ErrRejected, err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("%w: health status %q", ErrRejected, health.Status)
	}
	return nil
}

// Fetch implements Transport.
func (t *HTTPTransport) Fetch(ctx context.Context) ([]byte, error) {
	return t.get(ctx, pathData)
}

// SetMode implements Transport.
func (t *HTTPTransport) SetMode(ctx context.Context, mode string) error {
	return t.post(ctx, pathMode, map[string]string{"mode": mode})
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, cmd Command) error {
	return t.post(ctx, pathCommand, cmd)
}

func (t *HTTPTransport) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint.URL()+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s returned %d", ErrRejected, path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

func (t *HTTPTransport) post(ctx context.Context, path string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint.URL()+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: POST %s returned %d", ErrRejected, path, resp.StatusCode)
	}
	return nil
}

// classify maps a low-level transport error onto the package taxonomy so
// callers can tell a slow device from an offline one.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
