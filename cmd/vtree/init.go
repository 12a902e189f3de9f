package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write vtree.json (or vtree.yaml with --format yaml) holding the default
configuration.

Examples:
  vtree init
  vtree init ./preview --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			var name string
			switch format {
			case "json":
				name = config.ConfigFileName
			case "yaml":
				name = config.YAMLConfigFileName
			default:
				return errors.New(errors.CodeConfigInvalid).
					WithDetailf("unknown format %q", format).
					WithSuggestion("Use --format json or --format yaml")
			}

			if config.Exists(dir) && !force {
				return errors.New(errors.CodeConfigInvalid).
					WithDetail("A configuration already exists in " + dir).
					WithSuggestion("Pass --force to overwrite it")
			}

			path := filepath.Join(dir, name)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd, "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "File format (json, yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	return cmd
}
