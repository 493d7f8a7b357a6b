package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ducweb/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

const (
	configFlagName   = "config"
	logLevelFlagName = "log-level"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "duc",
		Short:         "Report disk usage from an index database",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", version, buildDate, gitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString(logLevelFlagName)
			return setupLogging(name)
		},
	}
	root.PersistentFlags().String(configFlagName, "", "config file ["+config.DefaultConfigPath()+"]")
	root.PersistentFlags().String(logLevelFlagName, "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newCGICommand(),
		newJSONCommand(),
		newIndexCommand(),
		newInfoCommand(),
		newServeCommand(),
	)
	return root
}

// setupLogging routes slog to stderr. Stdout carries reports only.
func setupLogging(name string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString(configFlagName)
	return path
}
