package main

import (
	"github.com/spf13/cobra"

	"ducweb/config"
	"ducweb/jsondump"
)

func newJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json [options] [PATH]",
		Short: "Dump JSON output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load[config.JSON]("json", configPath(cmd), cmd.Flags())
			if err != nil {
				return err
			}

			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return jsondump.Render(cmd.OutOrStdout(), jsondump.Options{
				Database:        cfg.Database,
				Path:            path,
				Apparent:        cfg.Apparent,
				MinSize:         cfg.MinSize,
				MinSizeRelative: cfg.MinSizeRelative,
				ExcludeFiles:    cfg.ExcludeFiles,
				MaxItems:        cfg.MaxNumItems,
			})
		},
	}
	config.JSONFlags(cmd.Flags())
	return cmd
}
