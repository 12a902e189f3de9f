package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "vtree",
		Short: "Render and preview reactive templates",
		Long: `vtree renders templates into an output tree and keeps the tree up to date
as the state it reads changes.

The built-in scenarios show keyed list reconciliation, curried components and
component lifecycles. Render them to the terminal, or serve a live preview
that pushes every frame to the browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file or directory (default: search from the working directory)")

	root.AddCommand(
		renderCmd(&configPath),
		serveCmd(&configPath),
		scenariosCmd(),
		initCmd(),
		versionCmd(),
	)
	return root
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", fmt.Sprintf(format, args...))
}
