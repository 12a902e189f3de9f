package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/demo"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/internal/preview"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr     string
		tick     time.Duration
		scenario string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of a scenario",
		Long: `Start the preview server. It advances the scenario on every tick and
pushes each frame to connected browsers.

Flags override the preview section of the configuration.

Examples:
  vtree serve
  vtree serve --scenario curry --tick 500ms
  vtree serve --addr :8080 --tick 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSetup(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				s.config.Preview.Addr = addr
			}
			if cmd.Flags().Changed("scenario") {
				s.config.Preview.Scenario = scenario
			}
			interval, err := s.config.TickInterval()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tick") {
				if tick < 0 {
					return errors.New(errors.CodeConfigInvalid).WithDetailf("tick must not be negative, got %s", tick)
				}
				interval = tick
			}

			sc, err := demo.Lookup(s.config.Preview.Scenario)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			player, err := demo.Start(ctx, sc, s.options...)
			if err != nil {
				return err
			}
			defer player.Close(context.Background())

			cfg := preview.Config{Tick: interval, Logger: s.logger}
			if s.metrics != nil {
				cfg.Gatherer = s.registry
				cfg.Patches = s.metrics
			}
			srv := preview.New(player, cfg)
			success(cmd, "Previewing %s on http://%s", sc.Name, s.config.Preview.Addr)

			err = srv.ListenAndServe(ctx, s.config.Preview.Addr)
			if stderrors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().DurationVarP(&tick, "tick", "t", 0, "Interval between frames; 0 advances only on POST /step")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario to play (default from config)")

	return cmd
}
