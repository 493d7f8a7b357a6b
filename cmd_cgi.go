package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"ducweb/cgi"
	"ducweb/config"
)

func newCGICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cgi [options]",
		Short: "CGI interface wrapper",
		Long: "The cgi command is run by a web server for every request. It reads the request\n" +
			"from QUERY_STRING and SCRIPT_NAME and writes an HTML page or a tooltip to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := cgi.RequestFromEnv(os.LookupEnv)
			if err != nil {
				return fmt.Errorf("%w: the cgi command is used for integrating duc into a web server, "+
					"refer to the documentation for instructions how to install and configure it", err)
			}

			cfg, err := config.Load[config.HTML]("cgi", configPath(cmd), cmd.Flags())
			if err != nil {
				return err
			}

			handler, err := cgi.NewHandler(*cfg, afero.NewOsFs(), slog.Default())
			if err != nil {
				return err
			}
			return handler.Handle(cgi.NewCGIResponse(cmd.OutOrStdout()), req)
		},
	}
	config.HTMLFlags(cmd.Flags())
	return cmd
}
