package config

import (
	"os"
	"path/filepath"
	"testing"
)

const schema = `
device?: {
	ip?:                string
	port?:              int & >0 & <65536
	timeout_seconds?:   number & >0
	failure_threshold?: int & >=1
}
poll?: {
	interval_ms?: int & >=50
	log_file?:    string
}
api?: {
	listen?: string
}
`

func writeFiles(t *testing.T, yaml string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gateway.yaml")
	cuePath := filepath.Join(dir, "gateway.cue")
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(cuePath, []byte(schema), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return cfgPath, cuePath
}

func TestLoadConfig_Valid(t *testing.T) {
	cfgPath, cuePath := writeFiles(t, `
device:
  ip: 10.1.2.3
  port: 8080
  timeout_seconds: 2.5
  failure_threshold: 5
poll:
  interval_ms: 100
`)
	cfg, err := Load(cfgPath, cuePath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Device.IP != "10.1.2.3" || cfg.Device.Port != 8080 {
		t.Errorf("unexpected device config: %+v", cfg.Device)
	}
	if cfg.Timeout().Seconds() != 2.5 {
		t.Errorf("unexpected timeout: %v", cfg.Timeout())
	}
	if cfg.PollInterval().Milliseconds() != 100 {
		t.Errorf("unexpected poll interval: %v", cfg.PollInterval())
	}
	// Unset fields fall back to defaults.
	if cfg.API.Listen != ":8090" {
		t.Errorf("expected default listen, got %q", cfg.API.Listen)
	}
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	cfgPath, cuePath := writeFiles(t, `
device:
  port: -1
`)
	if _, err := Load(cfgPath, cuePath); err == nil {
		t.Error("expected schema validation error for negative port")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Device.IP != "192.168.4.1" || cfg.Device.Port != 80 {
		t.Errorf("unexpected default device: %+v", cfg.Device)
	}
	if cfg.Device.FailureThreshold != 3 {
		t.Errorf("unexpected default threshold: %d", cfg.Device.FailureThreshold)
	}
	if cfg.PollInterval().Milliseconds() != 200 {
		t.Errorf("unexpected default interval: %v", cfg.PollInterval())
	}
}
