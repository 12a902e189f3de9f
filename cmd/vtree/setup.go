package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/metrics"
	"github.com/vango-dev/vtree/pkg/runtime"
	"github.com/vango-dev/vtree/pkg/tracing"
)

// setup is what every rendering command needs from the configuration.
type setup struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Observer
	options  []runtime.Option
}

// loadConfig reads path, which may be a file or a directory. An empty path
// searches upward from the working directory.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch info, statErr := os.Stat(path); {
	case path == "":
		cfg, err = config.LoadFromWorkingDir()
	case statErr == nil && info.IsDir():
		cfg, err = config.Load(path)
	default:
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSetup(configPath string, logOut io.Writer) (*setup, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	s := &setup{
		config: cfg,
		logger: cfg.NewLogger(logOut),
	}
	s.options = append(s.options, runtime.WithLogger(s.logger))

	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.metrics = metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(s.registry),
		)
		s.options = append(s.options, runtime.WithObserver(s.metrics))
	}
	if cfg.Tracing.Enabled {
		s.options = append(s.options, runtime.WithObserver(
			tracing.New(tracing.WithTracerName(cfg.Tracing.TracerName)),
		))
	}
	return s, nil
}
