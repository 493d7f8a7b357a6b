package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ducweb/config"
	"ducweb/db"
	"ducweb/entity"
)

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [options]",
		Short: "Show the index runs stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load[config.Info]("info", configPath(cmd), cmd.Flags())
			if err != nil {
				return err
			}

			d, err := db.Open(cfg.Database, db.ReadOnly)
			if err != nil {
				return err
			}
			defer d.Close()

			st := entity.SelectSizeType(cfg.Apparent, false)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Date\tTime\tFiles\tDirs\tSize\tPath\t")
			for i := 0; ; i++ {
				r, ok, err := d.Report(i)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				start := r.TimeStart.Local()
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t\n",
					start.Format("2006-01-02"), start.Format("15:04:05"),
					r.FileCount, r.DirCount, entity.HumanSize(r.Size, st, cfg.Bytes), r.Path)
			}
			return w.Flush()
		},
	}
	config.InfoFlags(cmd.Flags())
	return cmd
}
