package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "vtree.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It is
	// only used when no vtree.json exists.
	YAMLConfigFileName = "vtree.yaml"

	// DefaultAddr is the default preview server address.
	DefaultAddr = "localhost:7070"

	// DefaultTick is the default interval between preview state changes.
	DefaultTick = "1s"

	// DefaultScenario is the demo scenario the preview server renders.
	DefaultScenario = "list"

	// DefaultNamespace prefixes every exported metric.
	DefaultNamespace = "vtree"

	// DefaultTracerName names the tracer spans are recorded with.
	DefaultTracerName = "github.com/vango-dev/vtree"
)

// Config is the complete vtree configuration.
type Config struct {
	// Debug turns on debug logging regardless of Log.Level.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// Log configures the process logger.
	Log LogConfig `json:"log" yaml:"log"`

	// Metrics configures the Prometheus observer.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures the OpenTelemetry observer.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Preview configures the live preview server.
	Preview PreviewConfig `json:"preview" yaml:"preview"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig configures span recording.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Tick is how often the scenario advances its state (e.g., "500ms").
	Tick string `json:"tick,omitempty" yaml:"tick,omitempty"`

	// Scenario names the demo scenario to render.
	Scenario string `json:"scenario,omitempty" yaml:"scenario,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Preview: PreviewConfig{
			Addr:     DefaultAddr,
			Tick:     DefaultTick,
			Scenario: DefaultScenario,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// vtree.json, then vtree.yaml.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if alt := filepath.Join(dir, YAMLConfigFileName); fileExists(alt) {
			path = alt
		}
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are decoded as YAML, anything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'vtree init' to write a default configuration")
		}
		return nil, errors.New(errors.CodeConfigRead).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigRead).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path ends in .yaml or .yml.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = DefaultAddr
	}
	if c.Preview.Tick == "" {
		c.Preview.Tick = DefaultTick
	}
	if c.Preview.Scenario == "" {
		c.Preview.Scenario = DefaultScenario
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Metrics.Enabled && !validMetricName(c.Metrics.Namespace) {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace)
	}
	if _, err := c.TickInterval(); err != nil {
		return err
	}
	return nil
}

// TickInterval returns Preview.Tick as a duration.
func (c *Config) TickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Preview.Tick)
	if err != nil {
		return 0, errors.New(errors.CodeConfigInvalid).
			WithDetailf("preview.tick %q is not a duration", c.Preview.Tick).
			Wrap(err)
	}
	if d <= 0 {
		return 0, errors.New(errors.CodeConfigInvalid).
			WithDetail("preview.tick must be positive")
	}
	return d, nil
}

// LogLevel returns the configured slog level. Debug forces slog.LevelDebug.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewLogger builds a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level must be debug, info, warn or error, got %q", s)
	}
	return l, nil
}

// validMetricName reports whether s matches [a-zA-Z_:][a-zA-Z0-9_:]*.
func validMetricName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	return fileExists(filepath.Join(dir, ConfigFileName)) ||
		fileExists(filepath.Join(dir, YAMLConfigFileName))
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigRead).
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'vtree init' to write a default configuration")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or one of its parents. Without a config file it returns the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.HasCode(err, errors.CodeConfigRead) {
			return New(), nil
		}
		return nil, err
	}

	return Load(root)
}
