package main

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"ducweb/config"
	"ducweb/db"
	"ducweb/entity"
	"ducweb/scan"
)

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [options] PATH ...",
		Short: "Scan the filesystem and store the disk usage in the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load[config.Index]("index", configPath(cmd), cmd.Flags())
			if err != nil {
				return err
			}

			d, err := db.Open(cfg.Database, db.ReadWrite)
			if err != nil {
				return err
			}
			defer d.Close()

			log := slog.Default().With(slog.String("item", "Index"))
			fsys := afero.NewOsFs()
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return err
				}

				var spinner *scan.ProgressSpinner
				if cfg.Progress {
					spinner = scan.NewProgressSpinner(cmd.ErrOrStderr())
				}
				start := time.Now()
				root, err := scan.ScanDirConcurrent(fsys, path, cfg.Workers, spinner)
				if spinner != nil {
					spinner.Stop()
				}
				if err != nil {
					return err
				}

				report := entity.Report{TimeStart: start, TimeStop: time.Now()}
				if err := d.Store(root, report); err != nil {
					return err
				}

				files, dirs := root.Counts()
				log.Info("Indexed",
					slog.String("path", path),
					slog.String("size", humanize.IBytes(uint64(root.Size().Actual))),
					slog.Int64("files", files),
					slog.Int64("dirs", dirs))
			}
			return nil
		},
	}
	config.IndexFlags(cmd.Flags())
	return cmd
}
