package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/vtree/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Preview.Addr != DefaultAddr {
		t.Errorf("Preview.Addr = %q, want %q", cfg.Preview.Addr, DefaultAddr)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.HasCode(err, errors.CodeConfigRead) {
		t.Errorf("Load of empty dir: err = %v, want %s", err, errors.CodeConfigRead)
	}

	configJSON := `{
  "debug": true,
  "log": {"level": "warn", "format": "json"},
  "metrics": {"enabled": false},
  "preview": {"addr": ":9000", "tick": "250ms"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.Preview.Scenario != DefaultScenario {
		t.Errorf("Preview.Scenario = %q, want default", cfg.Preview.Scenario)
	}
	if d, err := cfg.TickInterval(); err != nil || d != 250*time.Millisecond {
		t.Errorf("TickInterval = %v, %v; want 250ms", d, err)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `
log:
  level: debug
tracing:
  enabled: true
  tracerName: demo
preview:
  scenario: curry
`
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel())
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.TracerName != "demo" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Preview.Scenario != "curry" {
		t.Errorf("Preview.Scenario = %q, want curry", cfg.Preview.Scenario)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want the text default", cfg.Log.Format)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"json", ConfigFileName, "not valid json"},
		{"yaml", YAMLConfigFileName, "log: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), errors.CodeConfigRead) {
				t.Errorf("expected %s error, got: %v", errors.CodeConfigRead, err)
			}
		})
	}
}

func TestSave(t *testing.T) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			cfg := New()
			cfg.Preview.Addr = ":9000"

			// Save should fail without configPath set
			if err := cfg.Save(); err == nil {
				t.Error("Expected error when saving without path")
			}
			if err := cfg.SaveTo(configPath); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}

			loaded, err := LoadFile(configPath)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if loaded.Preview.Addr != ":9000" {
				t.Errorf("Preview.Addr = %q, want %q", loaded.Preview.Addr, ":9000")
			}

			loaded.Preview.Addr = ":9001"
			if err := loaded.Save(); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			reloaded, err := LoadFile(configPath)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if reloaded.Preview.Addr != ":9001" {
				t.Errorf("Preview.Addr = %q, want %q", reloaded.Preview.Addr, ":9001")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"namespace", func(c *Config) { c.Metrics.Namespace = "9lives" }},
		{"tick", func(c *Config) { c.Preview.Tick = "soon" }},
		{"negative tick", func(c *Config) { c.Preview.Tick = "-1s" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, errors.CodeConfigInvalid) {
				t.Errorf("Validate: err = %v, want %s", err, errors.CodeConfigInvalid)
			}
		})
	}

	cfg := New()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Namespace = "not valid"
	if err := cfg.Validate(); err != nil {
		t.Errorf("namespace is ignored with metrics disabled: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Format = "json"
	logger := cfg.NewLogger(&buf)

	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output: %s", out)
	}

	buf.Reset()
	cfg.Debug = true
	cfg.NewLogger(&buf).Debug("now shown")
	if !strings.Contains(buf.String(), "now shown") {
		t.Error("Debug should lower the level to debug")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists reports the wrong directories")
	}
}
