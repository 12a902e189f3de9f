package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/demo"
)

func renderCmd(configPath *string) *cobra.Command {
	var (
		ticks   int
		asJSON  bool
		patches bool
	)

	cmd := &cobra.Command{
		Use:   "render [scenario]",
		Short: "Render a scenario for a number of ticks",
		Long: `Render a scenario and print the output of every tick.

Without a scenario argument the configured preview scenario is used.

Examples:
  vtree render list
  vtree render curry --ticks 6 --patches
  vtree render toggle --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSetup(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			name := s.config.Preview.Scenario
			if len(args) == 1 {
				name = args[0]
			}
			scenario, err := demo.Lookup(name)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			player, err := demo.Start(ctx, scenario, s.options...)
			if err != nil {
				return err
			}
			defer player.Close(ctx)

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			show := func(f demo.Frame) error {
				if asJSON {
					return enc.Encode(f)
				}
				fmt.Fprintf(out, "-- tick %d --\n%s\n", f.Tick, f.HTML)
				if patches {
					for _, p := range f.Patches {
						fmt.Fprintf(out, "  %s\n", p)
					}
				}
				if f.Error != "" {
					fmt.Fprintf(out, "  error: %s\n", f.Error)
				}
				return nil
			}

			if err := show(player.Frame()); err != nil {
				return err
			}
			for i := 0; i < ticks; i++ {
				f, _ := player.Step(ctx)
				if err := show(f); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 3, "Number of ticks after the first render")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print frames as JSON lines")
	cmd.Flags().BoolVarP(&patches, "patches", "p", false, "Print the DOM patches of each frame")

	return cmd
}

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range demo.Names() {
				s, _ := demo.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", s.Name, s.Description)
			}
		},
	}
}
